// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// blockingService counts starts and blocks until canceled, optionally
// failing the first n runs.
type blockingService struct {
	starts   atomic.Int64
	failRuns int64
	started  chan struct{}
}

func newBlockingService(failRuns int64) *blockingService {
	return &blockingService{
		failRuns: failRuns,
		started:  make(chan struct{}, 16),
	}
}

func (s *blockingService) Serve(ctx context.Context) error {
	run := s.starts.Add(1)
	s.started <- struct{}{}
	if run <= s.failRuns {
		return errors.New("synthetic failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *blockingService) String() string { return "blocking-service" }

func waitStarted(t *testing.T, svc *blockingService) {
	t.Helper()
	select {
	case <-svc.started:
	case <-time.After(5 * time.Second):
		t.Fatal("service did not start")
	}
}

func TestTreeStopsOnContextCancel(t *testing.T) {
	tree := NewTree(testLogger(), DefaultTreeConfig())
	svc := newBlockingService(0)
	tree.AddMessagingService(svc)

	ctx, cancel := context.WithCancel(context.Background())
	done := tree.ServeBackground(ctx)

	waitStarted(t, svc)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("ServeBackground err = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("tree did not stop after cancel")
	}

	if got := svc.starts.Load(); got != 1 {
		t.Fatalf("service started %d times, want 1", got)
	}
}

func TestTreeRestartsFailedService(t *testing.T) {
	config := DefaultTreeConfig()
	config.FailureBackoff = 10 * time.Millisecond
	tree := NewTree(testLogger(), config)

	svc := newBlockingService(1)
	tree.AddAPIService(svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := tree.ServeBackground(ctx)

	waitStarted(t, svc)
	waitStarted(t, svc)

	if got := svc.starts.Load(); got < 2 {
		t.Fatalf("service started %d times, want at least 2", got)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("tree did not stop after cancel")
	}
}

func TestTreeLayersAreIndependent(t *testing.T) {
	config := DefaultTreeConfig()
	config.FailureBackoff = 10 * time.Millisecond
	tree := NewTree(testLogger(), config)

	crashing := newBlockingService(1)
	steady := newBlockingService(0)
	tree.AddMessagingService(crashing)
	tree.AddAPIService(steady)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := tree.ServeBackground(ctx)

	waitStarted(t, steady)
	waitStarted(t, crashing)
	waitStarted(t, crashing)

	// The api-layer service must not have been restarted by the
	// messaging-layer crash.
	if got := steady.starts.Load(); got != 1 {
		t.Fatalf("steady service started %d times, want 1", got)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("tree did not stop after cancel")
	}
}

func TestDefaultTreeConfig(t *testing.T) {
	config := DefaultTreeConfig()
	if config.FailureThreshold != 5.0 {
		t.Errorf("FailureThreshold = %v, want 5.0", config.FailureThreshold)
	}
	if config.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", config.ShutdownTimeout)
	}
}
