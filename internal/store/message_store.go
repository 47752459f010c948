// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nvoronin/taskboard/internal/models"
)

// messageOrderFields whitelists ordering columns for message lists.
var messageOrderFields = map[string]bool{
	"id":      true,
	"title":   true,
	"created": true,
}

// CreateMessage inserts a message inside one transaction so a failed
// reference check leaves no partial row behind. Notification happens in the
// handler, strictly after this returns nil.
func (s *Store) CreateMessage(ctx context.Context, msg *models.Message) error {
	defer s.observe("create_message")()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	refs := []struct {
		field string
		table string
		id    *int64
	}{
		{"owner", "users", &msg.OwnerID},
		{"project", "projects", &msg.ProjectID},
		{"task", "tasks", msg.TaskID},
	}
	for _, ref := range refs {
		if ref.id == nil {
			continue
		}
		ok, err := exists(ctx, tx, ref.table, *ref.id)
		if err != nil {
			return err
		}
		if !ok {
			return &InvalidReferenceError{Field: ref.field, ID: *ref.id}
		}
	}

	msg.Created = nowUTC()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO messages (title, text, owner_id, project_id, task_id, created)
		VALUES (?, ?, ?, ?, ?, ?)`,
		msg.Title, msg.Text, msg.OwnerID, msg.ProjectID, msg.TaskID, msg.Created,
	)
	if err != nil {
		return fmt.Errorf("creating message: %w", err)
	}
	msg.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading message id: %w", err)
	}

	return tx.Commit()
}

// GetMessage retrieves a message by id.
func (s *Store) GetMessage(ctx context.Context, id int64) (*models.Message, error) {
	defer s.observe("get_message")()

	var msg models.Message
	err := s.db.GetContext(ctx, &msg, "SELECT * FROM messages WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting message %d: %w", id, err)
	}
	return &msg, nil
}

// ListMessages returns messages matching the filter.
func (s *Store) ListMessages(ctx context.Context, filter RangeFilter) ([]models.Message, error) {
	defer s.observe("list_messages")()

	where, args := filter.whereClause(false, false)
	query := "SELECT * FROM messages" + where + filter.orderClause(messageOrderFields, "id")

	messages := []models.Message{}
	if err := s.db.SelectContext(ctx, &messages, query, args...); err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	return messages, nil
}

// DeleteMessage removes a message.
func (s *Store) DeleteMessage(ctx context.Context, id int64) error {
	defer s.observe("delete_message")()

	res, err := s.db.ExecContext(ctx, "DELETE FROM messages WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting message %d: %w", id, err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ProjectTitle returns the title of a project, for notification rendering.
func (s *Store) ProjectTitle(ctx context.Context, id int64) (string, error) {
	defer s.observe("project_title")()

	var title string
	err := s.db.GetContext(ctx, &title, "SELECT title FROM projects WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("getting project %d title: %w", id, err)
	}
	return title, nil
}
