// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

package models

import (
	"time"
)

// RegisterUserRequest creates a new account.
type RegisterUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// UpdateUserRequest changes account fields. Password is optional.
type UpdateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=8,max=128"`
}

// LoginRequest exchanges credentials for a token pair.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest rotates a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh" validate:"required"`
}

// ProjectRequest creates or fully updates a project.
type ProjectRequest struct {
	Title       string  `json:"title" validate:"required,max=300"`
	Description string  `json:"description" validate:"max=5000"`
	Status      string  `json:"status" validate:"required,oneof=AC AR"`
	UserIDs     []int64 `json:"users" validate:"omitempty,dive,gt=0"`
}

// TaskRequest creates or fully updates a task.
type TaskRequest struct {
	Title              string     `json:"title" validate:"required,max=300"`
	Description        string     `json:"description" validate:"max=5000"`
	Status             string     `json:"status" validate:"required,oneof=GR IP DV DN"`
	Priority           string     `json:"priority" validate:"required,oneof=LW AR HG"`
	Term               *time.Time `json:"term" validate:"omitempty"`
	ProjectID          int64      `json:"project" validate:"required,gt=0"`
	ExecutorID         *int64     `json:"executor" validate:"omitempty,gt=0"`
	ResponsibleForTest *int64     `json:"responsible_for_test" validate:"omitempty,gt=0"`
}

// CommentRequest creates or fully updates a comment.
type CommentRequest struct {
	Name   string `json:"name" validate:"required,max=300"`
	Body   string `json:"body" validate:"required,max=5000"`
	TaskID int64  `json:"task" validate:"required,gt=0"`
}

// MessageRequest creates a message, which also notifies the owner's live
// connections once the write commits.
type MessageRequest struct {
	Title     string `json:"title" validate:"required,max=300"`
	Text      string `json:"text" validate:"required,max=5000"`
	OwnerID   int64  `json:"owner" validate:"required,gt=0"`
	ProjectID int64  `json:"project" validate:"required,gt=0"`
	TaskID    *int64 `json:"task" validate:"omitempty,gt=0"`
}

// TokenPairResponse is returned by login and refresh.
type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
