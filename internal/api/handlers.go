// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

// Package api implements the HTTP surface: REST handlers for users,
// projects, tasks, comments, and messages, the websocket subscription
// endpoint, and the Chi router tying them together.
package api

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/nvoronin/taskboard/internal/auth"
	"github.com/nvoronin/taskboard/internal/config"
	"github.com/nvoronin/taskboard/internal/notify"
	"github.com/nvoronin/taskboard/internal/store"
)

// Handler carries the dependencies shared by all endpoint handlers.
type Handler struct {
	store    *store.Store
	jwt      *auth.JWTManager
	tokens   *auth.TokenStore
	registry *notify.Registry
	trigger  *notify.Trigger

	wsConfig   config.WebSocketConfig
	bcryptCost int
	upgrader   websocket.Upgrader
}

// NewHandler wires the endpoint handlers.
func NewHandler(
	st *store.Store,
	jwt *auth.JWTManager,
	tokens *auth.TokenStore,
	registry *notify.Registry,
	trigger *notify.Trigger,
	cfg *config.Config,
) *Handler {
	return &Handler{
		store:      st,
		jwt:        jwt,
		tokens:     tokens,
		registry:   registry,
		trigger:    trigger,
		wsConfig:   cfg.WebSocket,
		bcryptCost: cfg.Auth.BcryptCost,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(cfg.Security.CORSOrigins),
		},
	}
}

// HealthLive reports process liveness.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]string{"status": "alive"})
}

// HealthReady reports readiness, checking the database.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "database unavailable", err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"status": "ready"})
}
