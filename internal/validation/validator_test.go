// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

package validation

import (
	"strings"
	"testing"

	"github.com/nvoronin/taskboard/internal/models"
)

func TestValidateStructSuccess(t *testing.T) {
	req := models.ProjectRequest{
		Title:  "Alpha",
		Status: models.ProjectStatusActive,
	}
	if err := ValidateStruct(&req); err != nil {
		t.Fatalf("expected valid request, got: %v", err)
	}
}

func TestValidateStructMissingRequired(t *testing.T) {
	req := models.ProjectRequest{Status: models.ProjectStatusActive}

	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation error for missing title")
	}

	errs := err.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), err)
	}
	if errs[0].Field() != "title" {
		t.Errorf("expected json field name 'title', got %q", errs[0].Field())
	}
	if errs[0].Tag() != "required" {
		t.Errorf("expected tag 'required', got %q", errs[0].Tag())
	}
}

func TestValidateStructOneof(t *testing.T) {
	req := models.TaskRequest{
		Title:     "Build",
		Status:    "BAD",
		Priority:  models.TaskPriorityHigh,
		ProjectID: 1,
	}

	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation error for bad status")
	}
	if !strings.Contains(err.Error(), "status must be one of") {
		t.Errorf("expected oneof message, got: %v", err)
	}
}

func TestValidateStructMultipleErrors(t *testing.T) {
	req := models.RegisterUserRequest{
		Username: "ab",
		Email:    "not-an-email",
		Password: "short",
	}

	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	if len(err.Errors()) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(err.Errors()), err)
	}
}

func TestToAPIError(t *testing.T) {
	req := models.MessageRequest{Text: "hello", OwnerID: 0, ProjectID: 1}

	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation errors")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("expected VALIDATION_ERROR code, got %q", apiErr.Code)
	}
	if _, ok := apiErr.Details["title"]; !ok {
		t.Errorf("expected 'title' in details, got %v", apiErr.Details)
	}
	if _, ok := apiErr.Details["owner"]; !ok {
		t.Errorf("expected 'owner' in details, got %v", apiErr.Details)
	}
}

func TestToAPIErrorEmpty(t *testing.T) {
	ve := &RequestValidationError{}
	apiErr := ve.ToAPIError()

	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("expected VALIDATION_ERROR code, got %q", apiErr.Code)
	}
	if apiErr.Message != "Validation failed" {
		t.Errorf("unexpected message: %q", apiErr.Message)
	}
}
