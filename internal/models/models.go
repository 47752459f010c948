// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

// Package models defines the persisted domain entities and the request and
// response shapes shared between the store and the HTTP layer.
package models

import (
	"time"
)

// Project status codes.
const (
	ProjectStatusActive   = "AC"
	ProjectStatusArchived = "AR"
)

// Task status codes.
const (
	TaskStatusCreated   = "GR"
	TaskStatusInProcess = "IP"
	TaskStatusTesting   = "DV"
	TaskStatusDone      = "DN"
)

// Task priority codes.
const (
	TaskPriorityLow  = "LW"
	TaskPriorityAvg  = "AR"
	TaskPriorityHigh = "HG"
)

// User is a registered account. PasswordHash never leaves the store layer.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Created      time.Time `db:"created" json:"created"`
}

// Project groups tasks and has a member list.
type Project struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Status      string    `db:"status" json:"status"`
	Created     time.Time `db:"created" json:"created"`
	Updated     time.Time `db:"updated" json:"updated"`
	UserIDs     []int64   `db:"-" json:"users"`
}

// Task belongs to a project; executor and tester assignments are optional.
type Task struct {
	ID                 int64      `db:"id" json:"id"`
	Title              string     `db:"title" json:"title"`
	Description        string     `db:"description" json:"description"`
	Status             string     `db:"status" json:"status"`
	Priority           string     `db:"priority" json:"priority"`
	Term               *time.Time `db:"term" json:"term,omitempty"`
	ProjectID          int64      `db:"project_id" json:"project"`
	ExecutorID         *int64     `db:"executor_id" json:"executor,omitempty"`
	ResponsibleForTest *int64     `db:"responsible_for_test_id" json:"responsible_for_test,omitempty"`
	Created            time.Time  `db:"created" json:"created"`
	Updated            time.Time  `db:"updated" json:"updated"`
}

// Comment is attached to a task.
type Comment struct {
	ID      int64     `db:"id" json:"id"`
	Name    string    `db:"name" json:"name"`
	Body    string    `db:"body" json:"body"`
	TaskID  int64     `db:"task_id" json:"task"`
	Created time.Time `db:"created" json:"created"`
	Updated time.Time `db:"updated" json:"updated"`
}

// Message is a persisted notification source: creating one pushes a
// rendered event to the owner's live connections.
type Message struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Text      string    `db:"text" json:"text"`
	OwnerID   int64     `db:"owner_id" json:"owner"`
	ProjectID int64     `db:"project_id" json:"project"`
	TaskID    *int64    `db:"task_id" json:"task,omitempty"`
	Created   time.Time `db:"created" json:"created"`
}

// ValidProjectStatus reports whether s is a known project status code.
func ValidProjectStatus(s string) bool {
	return s == ProjectStatusActive || s == ProjectStatusArchived
}

// ValidTaskStatus reports whether s is a known task status code.
func ValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusCreated, TaskStatusInProcess, TaskStatusTesting, TaskStatusDone:
		return true
	}
	return false
}

// ValidTaskPriority reports whether s is a known task priority code.
func ValidTaskPriority(s string) bool {
	switch s {
	case TaskPriorityLow, TaskPriorityAvg, TaskPriorityHigh:
		return true
	}
	return false
}
