// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

package notify

import (
	"context"

	"github.com/nvoronin/taskboard/internal/logging"
	"github.com/nvoronin/taskboard/internal/models"
)

// Publisher places rendered notification events on the bus.
type Publisher interface {
	Publish(event Event) error
}

// ProjectTitler resolves a project's title for event rendering.
type ProjectTitler interface {
	ProjectTitle(ctx context.Context, projectID int64) (string, error)
}

// Trigger turns committed message writes into notification events. It is
// strictly best-effort: every failure is logged and swallowed so the write
// path that already committed can never be failed by its notification.
type Trigger struct {
	publisher Publisher
	titles    ProjectTitler
}

// NewTrigger creates a trigger publishing through the given publisher.
func NewTrigger(publisher Publisher, titles ProjectTitler) *Trigger {
	return &Trigger{publisher: publisher, titles: titles}
}

// MessageCreated publishes a notification for a message that has already
// been committed. A message without its own title is announced under its
// project's title.
func (t *Trigger) MessageCreated(ctx context.Context, msg *models.Message) {
	title := msg.Title
	if title == "" {
		projectTitle, err := t.titles.ProjectTitle(ctx, msg.ProjectID)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).
				Int64("message_id", msg.ID).
				Int64("project_id", msg.ProjectID).
				Msg("resolving project title for notification")
		} else {
			title = projectTitle
		}
	}

	event := Event{
		Owner: msg.OwnerID,
		Title: title,
		Text:  msg.Text,
	}
	if err := t.publisher.Publish(event); err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Int64("message_id", msg.ID).
			Int64("owner", msg.OwnerID).
			Msg("publishing message notification")
	}
}
