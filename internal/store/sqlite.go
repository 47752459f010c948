// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

// Package store provides sqlite-backed persistence for users, projects,
// tasks, comments and messages, with range filtering and whitelisted
// ordering on list queries.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nvoronin/taskboard/internal/logging"
	"github.com/nvoronin/taskboard/internal/metrics"
)

// Store wraps the sqlite database handle.
type Store struct {
	db *sqlx.DB
}

// New opens (or creates) the sqlite database at dbPath, enables WAL mode
// and foreign keys, and applies pending schema migrations.
func New(dbPath string, busyTimeout time.Duration) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// WAL mode allows concurrent readers while the notifier-triggering
	// writes are in flight.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if busyTimeout > 0 {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeout.Milliseconds())); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting busy timeout: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	logging.Info().Str("path", dbPath).Msg("store opened")
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection, used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *Store) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
		logging.Info().Int("version", m.version).Msg("schema migration applied")
	}

	return nil
}

// observe records query duration under the given operation label.
//
//	defer s.observe("create_task")()
func (s *Store) observe(op string) func() {
	start := time.Now()
	return func() {
		metrics.RecordStoreQuery(op, time.Since(start))
	}
}

// exists reports whether a row with the given id exists in table.
// table must be a compile-time constant, never user input.
func exists(ctx context.Context, q sqlx.QueryerContext, table string, id int64) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, q, &n, "SELECT COUNT(*) FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("checking %s id %d: %w", table, id, err)
	}
	return n > 0, nil
}

// nowUTC returns the current time truncated for stable storage round-trips.
func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
