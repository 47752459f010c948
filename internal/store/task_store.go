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

// taskOrderFields whitelists ordering columns for task lists.
var taskOrderFields = map[string]bool{
	"id":       true,
	"title":    true,
	"status":   true,
	"priority": true,
	"term":     true,
	"created":  true,
	"updated":  true,
}

// CreateTask inserts a task after verifying its references.
func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	defer s.observe("create_task")()

	if err := s.checkTaskRefs(ctx, task); err != nil {
		return err
	}

	now := nowUTC()
	task.Created = now
	task.Updated = now

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (title, description, status, priority, term,
			project_id, executor_id, responsible_for_test_id, created, updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.Title, task.Description, task.Status, task.Priority, task.Term,
		task.ProjectID, task.ExecutorID, task.ResponsibleForTest, task.Created, task.Updated,
	)
	if err != nil {
		return fmt.Errorf("creating task: %w", err)
	}
	task.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading task id: %w", err)
	}
	return nil
}

// GetTask retrieves a task by id.
func (s *Store) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	defer s.observe("get_task")()

	var task models.Task
	err := s.db.GetContext(ctx, &task, "SELECT * FROM tasks WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting task %d: %w", id, err)
	}
	return &task, nil
}

// ListTasks returns tasks matching the filter. A non-nil projectID
// restricts results to one project.
func (s *Store) ListTasks(ctx context.Context, filter RangeFilter, projectID *int64) ([]models.Task, error) {
	defer s.observe("list_tasks")()

	where, args := filter.whereClause(true, true)
	if projectID != nil {
		if where == "" {
			where = " WHERE project_id = ?"
		} else {
			where += " AND project_id = ?"
		}
		args = append(args, *projectID)
	}

	query := "SELECT * FROM tasks" + where + filter.orderClause(taskOrderFields, "id")

	tasks := []models.Task{}
	if err := s.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask replaces a task's fields after verifying its references.
func (s *Store) UpdateTask(ctx context.Context, task *models.Task) error {
	defer s.observe("update_task")()

	if err := s.checkTaskRefs(ctx, task); err != nil {
		return err
	}

	task.Updated = nowUTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?,
			term = ?, project_id = ?, executor_id = ?, responsible_for_test_id = ?, updated = ?
		WHERE id = ?`,
		task.Title, task.Description, task.Status, task.Priority,
		task.Term, task.ProjectID, task.ExecutorID, task.ResponsibleForTest, task.Updated,
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task %d: %w", task.ID, err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTask removes a task; its comments cascade away.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	defer s.observe("delete_task")()

	res, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting task %d: %w", id, err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// checkTaskRefs verifies the project and user references on a task.
func (s *Store) checkTaskRefs(ctx context.Context, task *models.Task) error {
	ok, err := exists(ctx, s.db, "projects", task.ProjectID)
	if err != nil {
		return err
	}
	if !ok {
		return &InvalidReferenceError{Field: "project", ID: task.ProjectID}
	}

	for field, id := range map[string]*int64{
		"executor":             task.ExecutorID,
		"responsible_for_test": task.ResponsibleForTest,
	} {
		if id == nil {
			continue
		}
		ok, err := exists(ctx, s.db, "users", *id)
		if err != nil {
			return err
		}
		if !ok {
			return &InvalidReferenceError{Field: field, ID: *id}
		}
	}
	return nil
}
