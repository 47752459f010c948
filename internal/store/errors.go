// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an operation targets a missing row.
// Callers map it to a 404 response.
var ErrNotFound = errors.New("not found")

// ErrUsernameTaken is returned when a username is already registered.
var ErrUsernameTaken = errors.New("username already taken")

// InvalidReferenceError reports a create/update whose foreign key points at
// a row that does not exist. Callers map it to a field-level validation
// error rather than a 500.
type InvalidReferenceError struct {
	Field string
	ID    int64
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("%s references missing id %d", e.Field, e.ID)
}

// AsInvalidReference unwraps err into an *InvalidReferenceError if possible.
func AsInvalidReference(err error) (*InvalidReferenceError, bool) {
	var refErr *InvalidReferenceError
	if errors.As(err, &refErr) {
		return refErr, true
	}
	return nil, false
}
