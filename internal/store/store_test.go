// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

package store

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/nvoronin/taskboard/internal/logging"
	"github.com/nvoronin/taskboard/internal/models"
)

func init() {
	logging.Init(logging.Config{Level: "error", Output: io.Discard})
}

// newTestStore opens a store backed by a temp file database.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "test.db"), time.Second)
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seedUser creates a user and returns it.
func seedUser(t *testing.T, s *Store, username string) *models.User {
	t.Helper()

	user := &models.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	if err := s.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seeding user %s: %v", username, err)
	}
	return user
}

// seedProject creates a project and returns it.
func seedProject(t *testing.T, s *Store, title string) *models.Project {
	t.Helper()

	project := &models.Project{Title: title, Status: models.ProjectStatusActive}
	if err := s.CreateProject(context.Background(), project); err != nil {
		t.Fatalf("seeding project %s: %v", title, err)
	}
	return project
}

// seedTask creates a task in the given project and returns it.
func seedTask(t *testing.T, s *Store, projectID int64, title string) *models.Task {
	t.Helper()

	task := &models.Task{
		Title:     title,
		Status:    models.TaskStatusCreated,
		Priority:  models.TaskPriorityAvg,
		ProjectID: projectID,
	}
	if err := s.CreateTask(context.Background(), task); err != nil {
		t.Fatalf("seeding task %s: %v", title, err)
	}
	return task
}

func TestUserCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, s, "alice")
	if user.ID == 0 {
		t.Fatal("expected assigned user id")
	}

	got, err := s.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.Username != "alice" {
		t.Errorf("expected username alice, got %q", got.Username)
	}

	byName, err := s.GetUserByUsername(ctx, "alice")
	if err != nil || byName.ID != user.ID {
		t.Fatalf("GetUserByUsername failed: %v", err)
	}

	user.Email = "new@example.com"
	if err := s.UpdateUser(ctx, user); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}

	if err := s.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	if _, err := s.GetUser(ctx, user.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	s := newTestStore(t)
	seedUser(t, s, "alice")

	dup := &models.User{Username: "alice", PasswordHash: "y"}
	if err := s.CreateUser(context.Background(), dup); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestProjectMembers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u1 := seedUser(t, s, "alice")
	u2 := seedUser(t, s, "bob")

	project := &models.Project{
		Title:   "Alpha",
		Status:  models.ProjectStatusActive,
		UserIDs: []int64{u1.ID, u2.ID},
	}
	if err := s.CreateProject(ctx, project); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	got, err := s.GetProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if len(got.UserIDs) != 2 {
		t.Fatalf("expected 2 members, got %v", got.UserIDs)
	}

	got.UserIDs = []int64{u2.ID}
	if err := s.UpdateProject(ctx, got); err != nil {
		t.Fatalf("UpdateProject failed: %v", err)
	}

	got, err = s.GetProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetProject after update failed: %v", err)
	}
	if len(got.UserIDs) != 1 || got.UserIDs[0] != u2.ID {
		t.Errorf("expected members [%d], got %v", u2.ID, got.UserIDs)
	}
}

func TestProjectInvalidMember(t *testing.T) {
	s := newTestStore(t)

	project := &models.Project{
		Title:   "Alpha",
		Status:  models.ProjectStatusActive,
		UserIDs: []int64{999},
	}
	err := s.CreateProject(context.Background(), project)
	if err == nil {
		t.Fatal("expected invalid reference error")
	}
	refErr, ok := AsInvalidReference(err)
	if !ok || refErr.ID != 999 {
		t.Errorf("expected InvalidReferenceError for 999, got %v", err)
	}
}

func TestTaskInvalidProject(t *testing.T) {
	s := newTestStore(t)

	task := &models.Task{
		Title:     "Orphan",
		Status:    models.TaskStatusCreated,
		Priority:  models.TaskPriorityLow,
		ProjectID: 42,
	}
	err := s.CreateTask(context.Background(), task)
	if _, ok := AsInvalidReference(err); !ok {
		t.Errorf("expected InvalidReferenceError, got %v", err)
	}
}

func TestListTasksFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	project := seedProject(t, s, "Alpha")

	early := seedTask(t, s, project.ID, "early")
	cutoff := time.Now().UTC()
	time.Sleep(5 * time.Millisecond)
	late := seedTask(t, s, project.ID, "late")

	got, err := s.ListTasks(ctx, RangeFilter{CreatedFrom: &cutoff}, nil)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != late.ID {
		t.Errorf("expected only the late task, got %v", got)
	}

	got, err = s.ListTasks(ctx, RangeFilter{CreatedTo: &cutoff}, nil)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != early.ID {
		t.Errorf("expected only the early task, got %v", got)
	}
}

func TestListTasksTermRange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	project := seedProject(t, s, "Alpha")

	soon := time.Now().UTC().Add(24 * time.Hour)
	later := time.Now().UTC().Add(72 * time.Hour)

	t1 := &models.Task{Title: "soon", Status: "GR", Priority: "LW", ProjectID: project.ID, Term: &soon}
	t2 := &models.Task{Title: "later", Status: "GR", Priority: "LW", ProjectID: project.ID, Term: &later}
	for _, task := range []*models.Task{t1, t2} {
		if err := s.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
	}

	mid := time.Now().UTC().Add(48 * time.Hour)
	got, err := s.ListTasks(ctx, RangeFilter{TermTo: &mid}, nil)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != t1.ID {
		t.Errorf("expected only the sooner task, got %v", got)
	}
}

func TestListTasksOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	project := seedProject(t, s, "Alpha")

	seedTask(t, s, project.ID, "bravo")
	seedTask(t, s, project.ID, "alpha")

	got, err := s.ListTasks(ctx, RangeFilter{Ordering: "title"}, nil)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if got[0].Title != "alpha" {
		t.Errorf("expected ascending title order, got %q first", got[0].Title)
	}

	got, err = s.ListTasks(ctx, RangeFilter{Ordering: "-title"}, nil)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if got[0].Title != "bravo" {
		t.Errorf("expected descending title order, got %q first", got[0].Title)
	}

	// Unknown fields fall back to id ordering instead of reaching SQL.
	if _, err := s.ListTasks(ctx, RangeFilter{Ordering: "title; DROP TABLE tasks"}, nil); err != nil {
		t.Fatalf("ListTasks with hostile ordering failed: %v", err)
	}
}

func TestListTasksByProject(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p1 := seedProject(t, s, "Alpha")
	p2 := seedProject(t, s, "Beta")
	seedTask(t, s, p1.ID, "in alpha")
	seedTask(t, s, p2.ID, "in beta")

	got, err := s.ListTasks(ctx, RangeFilter{}, &p1.ID)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(got) != 1 || got[0].ProjectID != p1.ID {
		t.Errorf("expected only project %d tasks, got %v", p1.ID, got)
	}
}

func TestCommentCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	project := seedProject(t, s, "Alpha")
	task := seedTask(t, s, project.ID, "build")

	comment := &models.Comment{Name: "alice", Body: "looks good", TaskID: task.ID}
	if err := s.CreateComment(ctx, comment); err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}

	list, err := s.ListComments(ctx, RangeFilter{}, &task.ID)
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(list))
	}

	comment.Body = "revised"
	if err := s.UpdateComment(ctx, comment); err != nil {
		t.Fatalf("UpdateComment failed: %v", err)
	}

	if err := s.DeleteComment(ctx, comment.ID); err != nil {
		t.Fatalf("DeleteComment failed: %v", err)
	}
	if _, err := s.GetComment(ctx, comment.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCommentInvalidTask(t *testing.T) {
	s := newTestStore(t)

	comment := &models.Comment{Name: "alice", Body: "orphan", TaskID: 77}
	err := s.CreateComment(context.Background(), comment)
	if _, ok := AsInvalidReference(err); !ok {
		t.Errorf("expected InvalidReferenceError, got %v", err)
	}
}

func TestCreateMessage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := seedUser(t, s, "alice")
	project := seedProject(t, s, "Alpha")

	msg := &models.Message{
		Title:     "deploy done",
		Text:      "v2 is live",
		OwnerID:   owner.ID,
		ProjectID: project.ID,
	}
	if err := s.CreateMessage(ctx, msg); err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}
	if msg.ID == 0 {
		t.Fatal("expected assigned message id")
	}

	got, err := s.GetMessage(ctx, msg.ID)
	if err != nil {
		t.Fatalf("GetMessage failed: %v", err)
	}
	if got.OwnerID != owner.ID || got.Title != "deploy done" {
		t.Errorf("unexpected message: %+v", got)
	}
}

func TestCreateMessageInvalidProjectLeavesNoRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := seedUser(t, s, "alice")

	msg := &models.Message{
		Title:     "oops",
		Text:      "bad project",
		OwnerID:   owner.ID,
		ProjectID: 999,
	}
	err := s.CreateMessage(ctx, msg)
	if _, ok := AsInvalidReference(err); !ok {
		t.Fatalf("expected InvalidReferenceError, got %v", err)
	}

	list, err := s.ListMessages(ctx, RangeFilter{})
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected no partial message rows, got %v", list)
	}
}

func TestDeleteMessageNotFound(t *testing.T) {
	s := newTestStore(t)

	if err := s.DeleteMessage(context.Background(), 12345); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestProjectTitle(t *testing.T) {
	s := newTestStore(t)
	project := seedProject(t, s, "Alpha")

	title, err := s.ProjectTitle(context.Background(), project.ID)
	if err != nil || title != "Alpha" {
		t.Errorf("expected title Alpha, got %q (%v)", title, err)
	}
	if _, err := s.ProjectTitle(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
