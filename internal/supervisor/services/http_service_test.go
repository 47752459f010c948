// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

// fakeServer blocks in ListenAndServe until Shutdown is called, like
// *http.Server does.
type fakeServer struct {
	serveErr     error
	shutdownErr  error
	shutdownDone chan struct{}
	stopped      chan struct{}
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		shutdownDone: make(chan struct{}),
		stopped:      make(chan struct{}),
	}
}

func (f *fakeServer) ListenAndServe() error {
	if f.serveErr != nil {
		return f.serveErr
	}
	<-f.stopped
	return http.ErrServerClosed
}

func (f *fakeServer) Shutdown(ctx context.Context) error {
	close(f.stopped)
	close(f.shutdownDone)
	return f.shutdownErr
}

func TestHTTPServiceShutsDownOnCancel(t *testing.T) {
	srv := newFakeServer()
	svc := NewHTTPService(srv, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Serve err = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	select {
	case <-srv.shutdownDone:
	default:
		t.Fatal("Shutdown was not called")
	}
}

func TestHTTPServiceReturnsListenError(t *testing.T) {
	srv := newFakeServer()
	srv.serveErr = errors.New("listen tcp: address in use")
	svc := NewHTTPService(srv, time.Second)

	err := svc.Serve(context.Background())
	if err == nil || !errors.Is(err, srv.serveErr) {
		t.Fatalf("Serve err = %v, want wrapped listen error", err)
	}
}

func TestHTTPServiceIgnoresServerClosed(t *testing.T) {
	srv := newFakeServer()
	srv.serveErr = http.ErrServerClosed
	svc := NewHTTPService(srv, time.Second)

	if err := svc.Serve(context.Background()); err != nil {
		t.Fatalf("Serve err = %v, want nil for ErrServerClosed", err)
	}
}

func TestHTTPServiceReportsShutdownError(t *testing.T) {
	srv := newFakeServer()
	srv.shutdownErr = errors.New("connections still active")
	svc := NewHTTPService(srv, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	cancel()

	select {
	case err := <-done:
		if err == nil || !errors.Is(err, srv.shutdownErr) {
			t.Fatalf("Serve err = %v, want wrapped shutdown error", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestHTTPServiceString(t *testing.T) {
	svc := NewHTTPService(newFakeServer(), 0)
	if got := svc.String(); got != "http-server" {
		t.Fatalf("String() = %q", got)
	}
}
