// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

package api

import (
	"errors"
	"net/http"

	"github.com/nvoronin/taskboard/internal/auth"
	"github.com/nvoronin/taskboard/internal/logging"
	"github.com/nvoronin/taskboard/internal/models"
	"github.com/nvoronin/taskboard/internal/store"
)

// Login exchanges credentials for an access/refresh token pair.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "invalid credentials", nil)
			return
		}
		respondStoreError(w, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		logging.Ctx(r.Context()).Debug().Str("username", req.Username).Msg("login rejected")
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "invalid credentials", nil)
		return
	}

	pair, err := h.jwt.GenerateTokenPair(user.ID, user.Username)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to issue tokens", err)
		return
	}
	if err := h.tokens.Save(pair.RefreshID, user.ID, pair.RefreshExpiry); err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to issue tokens", err)
		return
	}

	respondSuccess(w, http.StatusOK, models.TokenPairResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
	})
}

// Refresh rotates a refresh token and returns a fresh pair. The old
// refresh token is revoked; replaying it fails.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	claims, err := h.jwt.ValidateRefresh(req.RefreshToken)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "invalid refresh token", err)
		return
	}

	pair, err := h.jwt.GenerateTokenPair(claims.UserID, claims.Username)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to issue tokens", err)
		return
	}

	if err := h.tokens.Rotate(claims.ID, pair.RefreshID, claims.UserID, pair.RefreshExpiry); err != nil {
		if errors.Is(err, auth.ErrTokenRevoked) {
			respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "refresh token revoked", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to rotate token", err)
		return
	}

	respondSuccess(w, http.StatusOK, models.TokenPairResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
	})
}

// Logout revokes a refresh token. Revoking an already-revoked token still
// succeeds; the end state is the same.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	claims, err := h.jwt.ValidateRefresh(req.RefreshToken)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "invalid refresh token", err)
		return
	}

	if err := h.tokens.Revoke(claims.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to revoke token", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
