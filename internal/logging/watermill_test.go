// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

func TestWatermillAdapterLevels(t *testing.T) {
	var buf bytes.Buffer
	adapter := &WatermillAdapter{logger: zerolog.New(&buf)}

	adapter.Info("published", watermill.LogFields{"topic": "notifications"})

	output := buf.String()
	if !strings.Contains(output, `"topic":"notifications"`) {
		t.Errorf("expected topic field, got: %s", output)
	}
	if !strings.Contains(output, "published") {
		t.Errorf("expected message, got: %s", output)
	}
}

func TestWatermillAdapterError(t *testing.T) {
	var buf bytes.Buffer
	adapter := &WatermillAdapter{logger: zerolog.New(&buf)}

	adapter.Error("delivery failed", errors.New("boom"), nil)

	output := buf.String()
	if !strings.Contains(output, `"error":"boom"`) {
		t.Errorf("expected error field, got: %s", output)
	}
}

func TestWatermillAdapterWith(t *testing.T) {
	var buf bytes.Buffer
	adapter := &WatermillAdapter{logger: zerolog.New(&buf)}

	child := adapter.With(watermill.LogFields{"subscriber": "registry"})
	child.Info("consumed", nil)

	if !strings.Contains(buf.String(), `"subscriber":"registry"`) {
		t.Errorf("expected inherited field, got: %s", buf.String())
	}
}
