// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

package notify

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/nvoronin/taskboard/internal/logging"
	"github.com/nvoronin/taskboard/internal/metrics"
)

// topicNotifications is the in-process topic events flow through.
const topicNotifications = "notifications"

// metadataUserID carries the target user on each bus message.
const metadataUserID = "user_id"

// Deliverer fans a rendered payload out to a user's connections.
type Deliverer interface {
	Deliver(userID int64, payload []byte)
}

// Channel routes published events to the connection registry through an
// in-process pub/sub bus. A single subscriber drains the topic, so events
// published for a user reach that user's connections in publish order.
type Channel struct {
	pubSub    *gochannel.GoChannel
	deliverer Deliverer
}

// NewChannel creates a notification channel draining into the deliverer.
func NewChannel(deliverer Deliverer) *Channel {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		logging.NewWatermillAdapter(),
	)
	return &Channel{
		pubSub:    pubSub,
		deliverer: deliverer,
	}
}

// Publish renders the event and places it on the bus. Publishing for a
// user with no connections is not an error; the payload is dropped when it
// reaches the registry.
func (ch *Channel) Publish(event Event) error {
	payload, err := event.Render()
	if err != nil {
		metrics.RecordNotificationDropped("render")
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(metadataUserID, strconv.FormatInt(event.Owner, 10))

	if err := ch.pubSub.Publish(topicNotifications, msg); err != nil {
		return fmt.Errorf("publishing notification: %w", err)
	}
	metrics.NotificationsPublished.Inc()
	return nil
}

// Run subscribes to the topic and hands each event to the deliverer. It
// blocks until the context is canceled or the bus is closed. Run must not
// be called more than once: a second subscriber would split the stream and
// break per-user ordering.
func (ch *Channel) Run(ctx context.Context) error {
	messages, err := ch.pubSub.Subscribe(ctx, topicNotifications)
	if err != nil {
		return fmt.Errorf("subscribing to notifications: %w", err)
	}

	logging.Info().Msg("notification channel running")
	for msg := range messages {
		userID, err := strconv.ParseInt(msg.Metadata.Get(metadataUserID), 10, 64)
		if err != nil {
			logging.Error().Err(err).
				Str("message_id", msg.UUID).
				Msg("notification message missing user id")
			msg.Ack()
			continue
		}
		ch.deliverer.Deliver(userID, msg.Payload)
		msg.Ack()
	}

	logging.Info().Msg("notification channel stopped")
	return ctx.Err()
}

// Close shuts down the bus. Pending messages are dropped.
func (ch *Channel) Close() error {
	return ch.pubSub.Close()
}
