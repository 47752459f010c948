// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

package api

import (
	"net/http"

	"github.com/nvoronin/taskboard/internal/models"
)

// CreateMessage persists a message and then fires its notification. The
// trigger runs only after the store commit succeeds, so a failed write can
// never notify; a failed notification is logged inside the trigger and
// never fails this request.
func (h *Handler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	var req models.MessageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	msg := &models.Message{
		Title:     req.Title,
		Text:      req.Text,
		OwnerID:   req.OwnerID,
		ProjectID: req.ProjectID,
		TaskID:    req.TaskID,
	}
	if err := h.store.CreateMessage(r.Context(), msg); err != nil {
		respondStoreError(w, err)
		return
	}

	h.trigger.MessageCreated(r.Context(), msg)

	respondSuccess(w, http.StatusCreated, msg)
}

// ListMessages returns messages matching the range filters.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	filter, err := parseRangeFilter(r, false)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), err)
		return
	}

	messages, err := h.store.ListMessages(r.Context(), filter)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondList(w, messages, len(messages))
}

// GetMessage returns one message.
func (h *Handler) GetMessage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid message id", err)
		return
	}

	msg, err := h.store.GetMessage(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, msg)
}

// DeleteMessage removes a message. Already-delivered notifications are
// not recalled.
func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid message id", err)
		return
	}

	if err := h.store.DeleteMessage(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
