// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/nvoronin/taskboard/internal/logging"
	"github.com/nvoronin/taskboard/internal/models"
	"github.com/nvoronin/taskboard/internal/store"
	"github.com/nvoronin/taskboard/internal/validation"
)

// maxBodyBytes caps request bodies; every payload in this API is small.
const maxBodyBytes = 1 << 20

// respondJSON writes the response envelope with proper headers.
func respondJSON(w http.ResponseWriter, status int, response models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("failed to write JSON response")
	}
}

func respondSuccess(w http.ResponseWriter, status int, data interface{}) {
	respondJSON(w, status, models.NewSuccessResponse(data))
}

func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Debug().Str("code", code).Err(err).Msg("api error")
	}
	respondJSON(w, status, models.NewErrorResponse(code, message, nil))
}

// respondStoreError maps store failures onto the error taxonomy: missing
// rows are 404s, bad references are field-level validation errors, and
// everything else is an internal error.
func respondStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "resource not found", nil)
		return
	}
	if errors.Is(err, store.ErrUsernameTaken) {
		respondJSON(w, http.StatusBadRequest, models.NewErrorResponse(
			"VALIDATION_ERROR", "username already taken",
			map[string]interface{}{"username": "username already taken"},
		))
		return
	}
	if ref, ok := store.AsInvalidReference(err); ok {
		respondJSON(w, http.StatusBadRequest, models.NewErrorResponse(
			"VALIDATION_ERROR", ref.Error(),
			map[string]interface{}{ref.Field: fmt.Sprintf("referenced id %d does not exist", ref.ID)},
		))
		return
	}
	logging.Error().Err(err).Msg("store error")
	respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
}

// decodeJSON strictly decodes the request body into v. Unknown fields are
// rejected so typos fail loudly instead of silently dropping data.
func decodeJSON(r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decoding request body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("unexpected data after JSON body")
	}
	return nil
}

// decodeAndValidate decodes the body into v and validates it, writing the
// error response itself on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := decodeJSON(r, v); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed request body", err)
		return false
	}
	if validationErr := validation.ValidateStruct(v); validationErr != nil {
		apiErr := validationErr.ToAPIError()
		respondJSON(w, http.StatusBadRequest, models.NewErrorResponse(apiErr.Code, apiErr.Message, apiErr.Details))
		return false
	}
	return true
}

// idParam parses the named route parameter as a positive integer id.
func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

// timeFormats accepted by range filter query parameters.
var timeFormats = []string{time.RFC3339, "2006-01-02"}

func parseFilterTime(value string) (*time.Time, error) {
	for _, layout := range timeFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid time value %q", value)
}

// parseRangeFilter reads the created/updated/term range parameters and the
// ordering parameter from the query string. Term bounds are only consumed
// where the entity has a term.
func parseRangeFilter(r *http.Request, withTerm bool) (store.RangeFilter, error) {
	var filter store.RangeFilter
	query := r.URL.Query()

	fields := []struct {
		key  string
		dest **time.Time
		use  bool
	}{
		{"created_from", &filter.CreatedFrom, true},
		{"created_to", &filter.CreatedTo, true},
		{"updated_from", &filter.UpdatedFrom, true},
		{"updated_to", &filter.UpdatedTo, true},
		{"term_from", &filter.TermFrom, withTerm},
		{"term_to", &filter.TermTo, withTerm},
	}
	for _, f := range fields {
		value := query.Get(f.key)
		if value == "" || !f.use {
			continue
		}
		t, err := parseFilterTime(value)
		if err != nil {
			return filter, fmt.Errorf("%s: %w", f.key, err)
		}
		*f.dest = t
	}

	filter.Ordering = strings.TrimSpace(query.Get("ordering"))
	return filter, nil
}

// listResponse wraps list payloads with a count.
func respondList(w http.ResponseWriter, data interface{}, count int) {
	resp := models.NewSuccessResponse(data)
	resp.Metadata.Count = count
	respondJSON(w, http.StatusOK, resp)
}
