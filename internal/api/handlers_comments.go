// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

package api

import (
	"net/http"

	"github.com/nvoronin/taskboard/internal/models"
)

// CreateComment attaches a comment to a task. Comments are open to
// anonymous callers.
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req models.CommentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	comment := &models.Comment{
		Name:   req.Name,
		Body:   req.Body,
		TaskID: req.TaskID,
	}
	if err := h.store.CreateComment(r.Context(), comment); err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, comment)
}

// ListComments returns comments matching the range filters.
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	filter, err := parseRangeFilter(r, false)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), err)
		return
	}

	comments, err := h.store.ListComments(r.Context(), filter, nil)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondList(w, comments, len(comments))
}

// GetComment returns one comment.
func (h *Handler) GetComment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid comment id", err)
		return
	}

	comment, err := h.store.GetComment(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, comment)
}

// UpdateComment replaces a comment's fields.
func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid comment id", err)
		return
	}

	var req models.CommentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	comment := &models.Comment{
		ID:     id,
		Name:   req.Name,
		Body:   req.Body,
		TaskID: req.TaskID,
	}
	if err := h.store.UpdateComment(r.Context(), comment); err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, comment)
}

// DeleteComment removes a comment.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid comment id", err)
		return
	}

	if err := h.store.DeleteComment(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
