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

	"github.com/jmoiron/sqlx"

	"github.com/nvoronin/taskboard/internal/models"
)

// projectOrderFields whitelists ordering columns for project lists.
var projectOrderFields = map[string]bool{
	"id":      true,
	"title":   true,
	"status":  true,
	"created": true,
	"updated": true,
}

// CreateProject inserts a project and its member list in one transaction.
func (s *Store) CreateProject(ctx context.Context, project *models.Project) error {
	defer s.observe("create_project")()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := nowUTC()
	project.Created = now
	project.Updated = now

	res, err := tx.ExecContext(ctx, `
		INSERT INTO projects (title, description, status, created, updated)
		VALUES (?, ?, ?, ?, ?)`,
		project.Title, project.Description, project.Status, project.Created, project.Updated,
	)
	if err != nil {
		return fmt.Errorf("creating project: %w", err)
	}
	project.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading project id: %w", err)
	}

	if err := replaceProjectMembers(ctx, tx, project.ID, project.UserIDs); err != nil {
		return err
	}

	return tx.Commit()
}

// GetProject retrieves a project with its member list.
func (s *Store) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	defer s.observe("get_project")()

	var project models.Project
	err := s.db.GetContext(ctx, &project, "SELECT * FROM projects WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting project %d: %w", id, err)
	}

	project.UserIDs, err = s.projectMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// ListProjects returns projects matching the filter, members included.
func (s *Store) ListProjects(ctx context.Context, filter RangeFilter) ([]models.Project, error) {
	defer s.observe("list_projects")()

	where, args := filter.whereClause(true, false)
	query := "SELECT * FROM projects" + where + filter.orderClause(projectOrderFields, "id")

	projects := []models.Project{}
	if err := s.db.SelectContext(ctx, &projects, query, args...); err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	for i := range projects {
		members, err := s.projectMembers(ctx, projects[i].ID)
		if err != nil {
			return nil, err
		}
		projects[i].UserIDs = members
	}
	return projects, nil
}

// UpdateProject replaces a project's fields and member list.
func (s *Store) UpdateProject(ctx context.Context, project *models.Project) error {
	defer s.observe("update_project")()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	project.Updated = nowUTC()
	res, err := tx.ExecContext(ctx, `
		UPDATE projects SET title = ?, description = ?, status = ?, updated = ?
		WHERE id = ?`,
		project.Title, project.Description, project.Status, project.Updated, project.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project %d: %w", project.ID, err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}

	if err := replaceProjectMembers(ctx, tx, project.ID, project.UserIDs); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteProject removes a project; tasks and messages cascade away.
func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	defer s.observe("delete_project")()

	res, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting project %d: %w", id, err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// projectMembers loads the member user ids for a project.
func (s *Store) projectMembers(ctx context.Context, projectID int64) ([]int64, error) {
	ids := []int64{}
	err := s.db.SelectContext(ctx, &ids,
		"SELECT user_id FROM project_users WHERE project_id = ? ORDER BY user_id ASC", projectID)
	if err != nil {
		return nil, fmt.Errorf("loading project %d members: %w", projectID, err)
	}
	return ids, nil
}

// replaceProjectMembers rewrites the member list inside tx, verifying that
// every referenced user exists.
func replaceProjectMembers(ctx context.Context, tx *sqlx.Tx, projectID int64, userIDs []int64) error {
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM project_users WHERE project_id = ?", projectID); err != nil {
		return fmt.Errorf("clearing project %d members: %w", projectID, err)
	}

	for _, userID := range userIDs {
		ok, err := exists(ctx, tx, "users", userID)
		if err != nil {
			return err
		}
		if !ok {
			return &InvalidReferenceError{Field: "users", ID: userID}
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO project_users (project_id, user_id) VALUES (?, ?)",
			projectID, userID); err != nil {
			return fmt.Errorf("adding member %d to project %d: %w", userID, projectID, err)
		}
	}
	return nil
}
