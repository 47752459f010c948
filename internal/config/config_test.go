// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

package config

import (
	"strings"
	"testing"
	"time"
)

// validConfig returns a configuration that passes Validate.
func validConfig() *Config {
	cfg := Default()
	cfg.Auth.JWTSecret = "test-secret"
	return cfg
}

func TestDefaultIsValidWithSecret(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config with secret to validate, got: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "port zero",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
		{
			name:    "port too large",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port",
		},
		{
			name:    "bad environment",
			mutate:  func(c *Config) { c.Server.Environment = "staging" },
			wantErr: "server.environment",
		},
		{
			name:    "empty db path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: "database.path",
		},
		{
			name:    "missing jwt secret",
			mutate:  func(c *Config) { c.Auth.JWTSecret = "" },
			wantErr: "auth.jwt_secret",
		},
		{
			name: "short secret in production",
			mutate: func(c *Config) {
				c.Server.Environment = "production"
				c.Auth.JWTSecret = "short"
			},
			wantErr: "auth.jwt_secret",
		},
		{
			name:    "zero access ttl",
			mutate:  func(c *Config) { c.Auth.AccessTokenTTL = 0 },
			wantErr: "auth.access_token_ttl",
		},
		{
			name: "refresh ttl not longer than access",
			mutate: func(c *Config) {
				c.Auth.RefreshTokenTTL = c.Auth.AccessTokenTTL
			},
			wantErr: "auth.refresh_token_ttl",
		},
		{
			name:    "bcrypt cost too low",
			mutate:  func(c *Config) { c.Auth.BcryptCost = 2 },
			wantErr: "auth.bcrypt_cost",
		},
		{
			name:    "zero pong wait",
			mutate:  func(c *Config) { c.WebSocket.PongWait = 0 },
			wantErr: "websocket.pong_wait",
		},
		{
			name:    "zero send buffer",
			mutate:  func(c *Config) { c.WebSocket.SendBufferSize = 0 },
			wantErr: "websocket.send_buffer_size",
		},
		{
			name:    "zero rate limit requests",
			mutate:  func(c *Config) { c.Security.RateLimitReqs = 0 },
			wantErr: "security.rate_limit_requests",
		},
		{
			name: "rate limit disabled skips rate checks",
			mutate: func(c *Config) {
				c.Security.RateLimitDisabled = true
				c.Security.RateLimitReqs = 0
			},
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid config, got: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestServerAddr(t *testing.T) {
	cfg := ServerConfig{Host: "127.0.0.1", Port: 8000}
	if got := cfg.Addr(); got != "127.0.0.1:8000" {
		t.Errorf("expected '127.0.0.1:8000', got %q", got)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Auth.AccessTokenTTL != 15*time.Minute {
		t.Errorf("expected 15m access TTL, got %v", cfg.Auth.AccessTokenTTL)
	}
	if cfg.WebSocket.PongWait != 60*time.Second {
		t.Errorf("expected 60s pong wait, got %v", cfg.WebSocket.PongWait)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "*" {
		t.Errorf("expected wildcard CORS default, got %v", cfg.Security.CORSOrigins)
	}
}
