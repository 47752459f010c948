// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

package auth

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/nvoronin/taskboard/internal/logging"
)

// ErrTokenRevoked is returned when a refresh token is unknown to the store,
// either revoked, rotated away, or expired.
var ErrTokenRevoked = errors.New("refresh token revoked or unknown")

// refreshKeyPrefix namespaces refresh token entries.
const refreshKeyPrefix = "refresh:"

// TokenStore tracks live refresh tokens in badger so rotation and logout
// survive restarts. Entries expire with the token via badger TTLs.
type TokenStore struct {
	db *badger.DB
}

// NewTokenStore opens (or creates) the badger database at path.
// An empty path opens an in-memory store, used by tests.
func NewTokenStore(path string) (*TokenStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening token store: %w", err)
	}
	return &TokenStore{db: db}, nil
}

// Close closes the underlying database.
func (s *TokenStore) Close() error {
	return s.db.Close()
}

// Save records a refresh token id for a user until expiry.
func (s *TokenStore) Save(tokenID string, userID int64, expiry time.Time) error {
	ttl := time.Until(expiry)
	if ttl <= 0 {
		return fmt.Errorf("refresh token already expired")
	}

	value := make([]byte, 8)
	binary.BigEndian.PutUint64(value, uint64(userID))

	err := s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(refreshKeyPrefix+tokenID), value).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("saving refresh token: %w", err)
	}
	return nil
}

// Validate checks that a refresh token id is still live and returns the
// user it was issued to.
func (s *TokenStore) Validate(tokenID string) (int64, error) {
	var userID int64
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(refreshKeyPrefix + tokenID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("malformed token entry")
			}
			userID = int64(binary.BigEndian.Uint64(val))
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, ErrTokenRevoked
	}
	if err != nil {
		return 0, fmt.Errorf("validating refresh token: %w", err)
	}
	return userID, nil
}

// Rotate atomically revokes the old token id and records the new one.
// Rotation of an unknown token fails, which stops refresh token replay.
func (s *TokenStore) Rotate(oldID, newID string, userID int64, expiry time.Time) error {
	ttl := time.Until(expiry)
	if ttl <= 0 {
		return fmt.Errorf("refresh token already expired")
	}

	value := make([]byte, 8)
	binary.BigEndian.PutUint64(value, uint64(userID))

	err := s.db.Update(func(txn *badger.Txn) error {
		oldKey := []byte(refreshKeyPrefix + oldID)
		if _, err := txn.Get(oldKey); err != nil {
			return err
		}
		if err := txn.Delete(oldKey); err != nil {
			return err
		}
		entry := badger.NewEntry([]byte(refreshKeyPrefix+newID), value).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		logging.Warn().Str("token_id", oldID).Msg("rotation of unknown refresh token")
		return ErrTokenRevoked
	}
	if err != nil {
		return fmt.Errorf("rotating refresh token: %w", err)
	}
	return nil
}

// Revoke removes a refresh token id. Revoking an unknown id is a no-op.
func (s *TokenStore) Revoke(tokenID string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(refreshKeyPrefix + tokenID))
	})
	if err != nil {
		return fmt.Errorf("revoking refresh token: %w", err)
	}
	return nil
}
