// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

package api

import (
	"net/http"

	"github.com/nvoronin/taskboard/internal/models"
)

// CreateTask creates a task in a project.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req models.TaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task := &models.Task{
		Title:              req.Title,
		Description:        req.Description,
		Status:             req.Status,
		Priority:           req.Priority,
		Term:               req.Term,
		ProjectID:          req.ProjectID,
		ExecutorID:         req.ExecutorID,
		ResponsibleForTest: req.ResponsibleForTest,
	}
	if err := h.store.CreateTask(r.Context(), task); err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, task)
}

// ListTasks returns tasks matching the range filters, including term
// bounds and ordering.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	filter, err := parseRangeFilter(r, true)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), err)
		return
	}

	tasks, err := h.store.ListTasks(r.Context(), filter, nil)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondList(w, tasks, len(tasks))
}

// GetTask returns one task.
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid task id", err)
		return
	}

	task, err := h.store.GetTask(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, task)
}

// UpdateTask replaces a task's fields.
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid task id", err)
		return
	}

	var req models.TaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task := &models.Task{
		ID:                 id,
		Title:              req.Title,
		Description:        req.Description,
		Status:             req.Status,
		Priority:           req.Priority,
		Term:               req.Term,
		ProjectID:          req.ProjectID,
		ExecutorID:         req.ExecutorID,
		ResponsibleForTest: req.ResponsibleForTest,
	}
	if err := h.store.UpdateTask(r.Context(), task); err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, task)
}

// DeleteTask removes a task and its comments.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid task id", err)
		return
	}

	if err := h.store.DeleteTask(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTaskComments returns the comments of one task, with range filters.
func (h *Handler) ListTaskComments(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid task id", err)
		return
	}

	if _, err := h.store.GetTask(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}

	filter, err := parseRangeFilter(r, false)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), err)
		return
	}

	comments, err := h.store.ListComments(r.Context(), filter, &id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondList(w, comments, len(comments))
}
