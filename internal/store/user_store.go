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
	"strings"

	"github.com/nvoronin/taskboard/internal/models"
)

// CreateUser inserts a new user. The caller supplies the password hash.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	defer s.observe("create_user")()

	var taken int
	err := s.db.GetContext(ctx, &taken,
		"SELECT COUNT(*) FROM users WHERE username = ?", user.Username)
	if err != nil {
		return fmt.Errorf("checking username: %w", err)
	}
	if taken > 0 {
		return ErrUsernameTaken
	}

	user.Created = nowUTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, email, password_hash, created)
		VALUES (?, ?, ?, ?)`,
		user.Username, user.Email, user.PasswordHash, user.Created,
	)
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	user.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading user id: %w", err)
	}
	return nil
}

// GetUser retrieves a user by id.
func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	defer s.observe("get_user")()

	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user %d: %w", id, err)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username, for login.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	defer s.observe("get_user_by_username")()

	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE username = ?", username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user %q: %w", username, err)
	}
	return &user, nil
}

// ListUsers returns all users ordered by id.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	defer s.observe("list_users")()

	users := []models.User{}
	err := s.db.SelectContext(ctx, &users, "SELECT * FROM users ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// UpdateUser updates username, email and optionally the password hash.
func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	defer s.observe("update_user")()

	if strings.TrimSpace(user.Username) == "" {
		return fmt.Errorf("username must not be empty")
	}

	var taken int
	err := s.db.GetContext(ctx, &taken,
		"SELECT COUNT(*) FROM users WHERE username = ? AND id != ?", user.Username, user.ID)
	if err != nil {
		return fmt.Errorf("checking username: %w", err)
	}
	if taken > 0 {
		return ErrUsernameTaken
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET username = ?, email = ?, password_hash = ?
		WHERE id = ?`,
		user.Username, user.Email, user.PasswordHash, user.ID,
	)
	if err != nil {
		return fmt.Errorf("updating user %d: %w", user.ID, err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes a user. Owned messages cascade away.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	defer s.observe("delete_user")()

	res, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting user %d: %w", id, err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
