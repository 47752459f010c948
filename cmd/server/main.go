// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

// Package main is the entry point for the Taskboard server.
//
// Taskboard is a self-hosted project and task management backend with
// real-time message notifications over WebSocket. Users organize work into
// projects, tasks, and comments; messages posted against a project or task
// are pushed to the owner's open WebSocket connections the moment they are
// stored.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, optional YAML file, TASKBOARD_ env vars (Koanf v2)
//  2. Store: SQLite via sqlx with WAL mode and in-code migrations
//  3. Auth: JWT manager (HS256) plus a Badger-backed refresh token store
//  4. Authorization: Casbin RBAC with embedded model and policy
//  5. Notifications: connection registry, Watermill channel, post-commit trigger
//  6. HTTP API: chi router with CORS, rate limiting, and Prometheus metrics
//  7. Supervision: suture tree running the notifier and HTTP server
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - TASKBOARD_-prefixed environment variables
//   - Config file (taskboard.yaml)
//   - Built-in defaults
//
// Commonly set values:
//   - TASKBOARD_SERVER_PORT: listen port (default 8080)
//   - TASKBOARD_DATABASE_PATH: SQLite file path
//   - TASKBOARD_AUTH_JWT_SECRET: 32+ character signing secret
//   - TASKBOARD_AUTH_TOKEN_STORE_PATH: Badger directory for refresh tokens
//     (empty runs Badger in memory; tokens do not survive restarts)
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (configurable timeout)
//   - Closes WebSocket connections, the notification bus, and the store
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/nvoronin/taskboard/internal/api"
	"github.com/nvoronin/taskboard/internal/auth"
	"github.com/nvoronin/taskboard/internal/authz"
	"github.com/nvoronin/taskboard/internal/config"
	"github.com/nvoronin/taskboard/internal/logging"
	"github.com/nvoronin/taskboard/internal/notify"
	"github.com/nvoronin/taskboard/internal/store"
	"github.com/nvoronin/taskboard/internal/supervisor"
	"github.com/nvoronin/taskboard/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("db_path", cfg.Database.Path).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Taskboard")

	st, err := store.New(cfg.Database.Path, cfg.Database.BusyTimeout)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	jwtManager, err := auth.NewJWTManager(&cfg.Auth)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}

	tokens, err := auth.NewTokenStore(cfg.Auth.TokenStorePath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open refresh token store")
	}
	defer func() {
		if err := tokens.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing token store")
		}
	}()
	if cfg.Auth.TokenStorePath == "" {
		logging.Warn().Msg("Refresh token store is in-memory; tokens will not survive restarts")
	}

	enforcer, err := authz.NewEnforcer(authz.DefaultEnforcerConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize authorization enforcer")
	}
	defer enforcer.Close()

	// Notification pipeline: registry receives from the channel, the
	// trigger publishes into it after successful message writes.
	registry := notify.NewRegistry()
	channel := notify.NewChannel(registry)
	trigger := notify.NewTrigger(channel, st)

	handler := api.NewHandler(st, jwtManager, tokens, registry, trigger, cfg)
	router := api.NewRouter(
		handler,
		api.NewChiMiddleware(cfg.Security),
		auth.NewMiddleware(jwtManager),
		authz.NewMiddleware(enforcer),
	)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	treeConfig := supervisor.DefaultTreeConfig()
	treeConfig.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(logging.NewSlogLogger(), treeConfig)
	tree.AddMessagingService(services.NewNotifierService(channel))
	tree.AddAPIService(services.NewHTTPService(httpServer, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor has fully stopped.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	if unstopped, err := tree.UnstoppedServiceReport(); err == nil && len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	// The notifier has stopped; drop remaining connections and the bus.
	registry.CloseAll()
	if err := channel.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing notification channel")
	}

	logging.Info().Msg("Taskboard stopped gracefully")
}
