// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

package api

import (
	"net/http"

	"github.com/nvoronin/taskboard/internal/models"
)

// CreateProject creates a project with its member list.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req models.ProjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	project := &models.Project{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		UserIDs:     req.UserIDs,
	}
	if err := h.store.CreateProject(r.Context(), project); err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, project)
}

// ListProjects returns projects matching the range filters.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	filter, err := parseRangeFilter(r, false)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), err)
		return
	}

	projects, err := h.store.ListProjects(r.Context(), filter)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondList(w, projects, len(projects))
}

// GetProject returns one project with its members.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid project id", err)
		return
	}

	project, err := h.store.GetProject(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, project)
}

// UpdateProject replaces a project's fields and member list.
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid project id", err)
		return
	}

	var req models.ProjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	project := &models.Project{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		UserIDs:     req.UserIDs,
	}
	if err := h.store.UpdateProject(r.Context(), project); err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, project)
}

// DeleteProject removes a project and, through the schema, its tasks.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid project id", err)
		return
	}

	if err := h.store.DeleteProject(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListProjectTasks returns the tasks of one project, with range filters.
func (h *Handler) ListProjectTasks(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid project id", err)
		return
	}

	// A missing project is a 404 rather than an empty list.
	if _, err := h.store.GetProject(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}

	filter, err := parseRangeFilter(r, true)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), err)
		return
	}

	tasks, err := h.store.ListTasks(r.Context(), filter, &id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondList(w, tasks, len(tasks))
}
