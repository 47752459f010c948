// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TASKBOARD_JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %q", cfg.Logging.Level)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TASKBOARD_JWT_SECRET", "test-secret")
	t.Setenv("TASKBOARD_SERVER_PORT", "9001")
	t.Setenv("TASKBOARD_LOG_LEVEL", "debug")
	t.Setenv("TASKBOARD_ACCESS_TOKEN_TTL", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != 9001 {
		t.Errorf("expected env port 9001, got %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected env log level debug, got %q", cfg.Logging.Level)
	}
	if cfg.Auth.AccessTokenTTL != 30*time.Minute {
		t.Errorf("expected 30m access TTL, got %v", cfg.Auth.AccessTokenTTL)
	}
}

func TestLoadCORSOriginsFromEnv(t *testing.T) {
	t.Setenv("TASKBOARD_JWT_SECRET", "test-secret")
	t.Setenv("TASKBOARD_CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(cfg.Security.CORSOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.Security.CORSOrigins)
	}
	if cfg.Security.CORSOrigins[0] != "https://a.example.com" {
		t.Errorf("expected trimmed origin, got %q", cfg.Security.CORSOrigins[0])
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 9100\nauth:\n  jwt_secret: file-secret\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("expected file port 9100, got %d", cfg.Server.Port)
	}
	if cfg.Auth.JWTSecret != "file-secret" {
		t.Errorf("expected file jwt secret, got %q", cfg.Auth.JWTSecret)
	}
}

func TestEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 9100\nauth:\n  jwt_secret: file-secret\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("TASKBOARD_SERVER_PORT", "9200")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != 9200 {
		t.Errorf("expected env to override file, got port %d", cfg.Server.Port)
	}
}

func TestLoadValidationFailure(t *testing.T) {
	t.Setenv("TASKBOARD_JWT_SECRET", "test-secret")
	t.Setenv("TASKBOARD_SERVER_PORT", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation failure for port 0")
	}
}

func TestEnvTransformFuncDropsUnknown(t *testing.T) {
	if got := envTransformFunc("SOME_RANDOM_VAR"); got != "" {
		t.Errorf("expected unknown env var to be dropped, got %q", got)
	}
	if got := envTransformFunc("SERVER_PORT"); got != "server.port" {
		t.Errorf("expected server.port, got %q", got)
	}
}
