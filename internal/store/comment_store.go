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

// commentOrderFields whitelists ordering columns for comment lists.
var commentOrderFields = map[string]bool{
	"id":      true,
	"name":    true,
	"created": true,
	"updated": true,
}

// CreateComment inserts a comment after verifying the task reference.
func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	defer s.observe("create_comment")()

	ok, err := exists(ctx, s.db, "tasks", comment.TaskID)
	if err != nil {
		return err
	}
	if !ok {
		return &InvalidReferenceError{Field: "task", ID: comment.TaskID}
	}

	now := nowUTC()
	comment.Created = now
	comment.Updated = now

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (name, body, task_id, created, updated)
		VALUES (?, ?, ?, ?, ?)`,
		comment.Name, comment.Body, comment.TaskID, comment.Created, comment.Updated,
	)
	if err != nil {
		return fmt.Errorf("creating comment: %w", err)
	}
	comment.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading comment id: %w", err)
	}
	return nil
}

// GetComment retrieves a comment by id.
func (s *Store) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	defer s.observe("get_comment")()

	var comment models.Comment
	err := s.db.GetContext(ctx, &comment, "SELECT * FROM comments WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting comment %d: %w", id, err)
	}
	return &comment, nil
}

// ListComments returns comments matching the filter. A non-nil taskID
// restricts results to one task.
func (s *Store) ListComments(ctx context.Context, filter RangeFilter, taskID *int64) ([]models.Comment, error) {
	defer s.observe("list_comments")()

	where, args := filter.whereClause(true, false)
	if taskID != nil {
		if where == "" {
			where = " WHERE task_id = ?"
		} else {
			where += " AND task_id = ?"
		}
		args = append(args, *taskID)
	}

	query := "SELECT * FROM comments" + where + filter.orderClause(commentOrderFields, "id")

	comments := []models.Comment{}
	if err := s.db.SelectContext(ctx, &comments, query, args...); err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	return comments, nil
}

// UpdateComment replaces a comment's fields.
func (s *Store) UpdateComment(ctx context.Context, comment *models.Comment) error {
	defer s.observe("update_comment")()

	ok, err := exists(ctx, s.db, "tasks", comment.TaskID)
	if err != nil {
		return err
	}
	if !ok {
		return &InvalidReferenceError{Field: "task", ID: comment.TaskID}
	}

	comment.Updated = nowUTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE comments SET name = ?, body = ?, task_id = ?, updated = ?
		WHERE id = ?`,
		comment.Name, comment.Body, comment.TaskID, comment.Updated, comment.ID,
	)
	if err != nil {
		return fmt.Errorf("updating comment %d: %w", comment.ID, err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteComment removes a comment.
func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	defer s.observe("delete_comment")()

	res, err := s.db.ExecContext(ctx, "DELETE FROM comments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting comment %d: %w", id, err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
