// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/nvoronin/taskboard/internal/notify"
)

// NotifierService runs the notification channel's subscriber loop under
// supervision, so a panic or bus failure restarts delivery instead of
// silently stopping it.
type NotifierService struct {
	channel *notify.Channel
}

// NewNotifierService wraps the channel.
func NewNotifierService(channel *notify.Channel) *NotifierService {
	return &NotifierService{channel: channel}
}

// Serve implements suture.Service. It blocks in the channel's delivery
// loop until the context is canceled or the bus is closed.
func (s *NotifierService) Serve(ctx context.Context) error {
	err := s.channel.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("notifier stopped: %w", err)
	}
	return err
}

// String implements fmt.Stringer for supervisor logs.
func (s *NotifierService) String() string {
	return "notifier"
}
