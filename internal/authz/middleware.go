// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

package authz

import (
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/nvoronin/taskboard/internal/auth"
	"github.com/nvoronin/taskboard/internal/logging"
	"github.com/nvoronin/taskboard/internal/models"
)

// Middleware enforces the role policy on incoming requests.
type Middleware struct {
	enforcer *Enforcer
}

// NewMiddleware creates authorization middleware backed by the enforcer.
func NewMiddleware(enforcer *Enforcer) *Middleware {
	return &Middleware{enforcer: enforcer}
}

// Authorize maps the request to a subject role and an action derived from
// the HTTP method, then enforces the policy against the request path.
// Requests without claims are enforced as the anonymous role.
func (m *Middleware) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject := RoleAnonymous
		if _, ok := auth.ClaimsFromContext(r.Context()); ok {
			subject = RoleUser
		}

		action := methodToAction(r.Method)
		allowed, err := m.enforcer.Enforce(subject, r.URL.Path, action)
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).
				Str("subject", subject).
				Str("path", r.URL.Path).
				Msg("authorization error")
			writeForbidden(w, http.StatusInternalServerError, "INTERNAL_ERROR", "authorization check failed")
			return
		}

		if !allowed {
			logging.Ctx(r.Context()).Debug().
				Str("subject", subject).
				Str("path", r.URL.Path).
				Str("action", action).
				Msg("request denied by policy")
			status := http.StatusForbidden
			code := "FORBIDDEN"
			if subject == RoleAnonymous {
				// Anonymous callers are told to authenticate rather
				// than being refused outright.
				status = http.StatusUnauthorized
				code = "UNAUTHORIZED"
			}
			writeForbidden(w, status, code, "insufficient permissions")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// methodToAction maps HTTP methods to policy actions.
func methodToAction(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return "read"
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return "write"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}

func writeForbidden(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := models.NewErrorResponse(code, message, nil)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("writing authorization response")
	}
}
