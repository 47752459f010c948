// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

package authz

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nvoronin/taskboard/internal/auth"
)

func okHandler() (http.Handler, *bool) {
	called := new(bool)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	}), called
}

func TestAuthorizeAnonymous(t *testing.T) {
	mw := NewMiddleware(newTestEnforcer(t))

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"read projects allowed", http.MethodGet, "/api/v1/projects", http.StatusOK},
		{"post comment allowed", http.MethodPost, "/api/v1/comments", http.StatusOK},
		{"post project denied", http.MethodPost, "/api/v1/projects", http.StatusUnauthorized},
		{"delete task denied", http.MethodDelete, "/api/v1/tasks/7", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, called := okHandler()
			handler := mw.Authorize(next)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if wantCalled := tt.wantStatus == http.StatusOK; *called != wantCalled {
				t.Errorf("handler called = %v, want %v", *called, wantCalled)
			}
		})
	}
}

func TestAuthorizeAuthenticated(t *testing.T) {
	mw := NewMiddleware(newTestEnforcer(t))

	next, called := okHandler()
	handler := mw.Authorize(next)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects", nil)
	claims := &auth.Claims{UserID: 42, Username: "maria", TokenType: auth.TokenTypeAccess}
	req = req.WithContext(auth.ContextWithClaims(req.Context(), claims))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !*called {
		t.Fatal("handler not called for permitted request")
	}
}
