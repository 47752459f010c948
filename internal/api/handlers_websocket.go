// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

package api

import (
	"errors"
	"net/http"

	"github.com/nvoronin/taskboard/internal/logging"
	"github.com/nvoronin/taskboard/internal/notify"
	"github.com/nvoronin/taskboard/internal/store"
)

// originChecker allows upgrades from the configured CORS origins.
// Requests without an Origin header (non-browser clients) are allowed.
func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

// WebSocketNotifications subscribes a connection to a user's notification
// stream. The user id in the route is validated before the upgrade: a
// malformed id or unknown user is rejected outright, so the connection is
// never accepted and never joins the registry.
func (h *Handler) WebSocketNotifications(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "user_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid user id", err)
		return
	}

	if _, err := h.store.GetUser(r.Context(), userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "user not found", nil)
			return
		}
		respondStoreError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	logging.Ctx(r.Context()).Debug().Int64("user_id", userID).Msg("websocket subscribed")
	notify.NewClient(h.registry, conn, userID, h.wsConfig).Start()
}
