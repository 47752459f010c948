// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

// Package notify delivers message notifications to websocket subscribers.
// Events are published to an in-process bus and fanned out per user by a
// connection registry; delivery is best-effort and never blocks the write
// path that produced the event.
package notify

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// Event is the canonical notification payload. It is what a subscribed
// client receives on its websocket connection.
type Event struct {
	Owner int64  `json:"owner"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Render serializes the event to its wire form.
func (e Event) Render() ([]byte, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("rendering event: %w", err)
	}
	return payload, nil
}

// inboundFrame is the only message shape clients are allowed to send.
type inboundFrame struct {
	Owner int64 `json:"owner"`
}

// parseInboundFrame strictly decodes an owner frame. Unknown fields,
// non-numeric owner values, and trailing data are all rejected.
func parseInboundFrame(data []byte, frame *inboundFrame) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(frame); err != nil {
		return fmt.Errorf("decoding inbound frame: %w", err)
	}
	if dec.More() {
		return fmt.Errorf("trailing data after inbound frame")
	}
	return nil
}
