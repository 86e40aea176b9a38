// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"PSDIR_DB_PATH" envDefault:"./data/psdir.db"`
	SessionSecret string `env:"PSDIR_SESSION_SECRET,required"`
	ServerHost    string `env:"PSDIR_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"PSDIR_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"PSDIR_ENV" envDefault:"development"`
	LogLevel      string `env:"PSDIR_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"PSDIR_UPLOADS_DIR" envDefault:"./uploads"`

	// SiteURL is the public origin used in email links.
	SiteURL string `env:"PSDIR_SITE_URL" envDefault:"http://localhost:8080"`

	// Email configuration. Sending is disabled when the API key is empty.
	SendGridAPIKey string `env:"PSDIR_SENDGRID_API_KEY"`
	EmailFrom      string `env:"PSDIR_EMAIL_FROM" envDefault:"noreply@localhost"`
	EmailFromName  string `env:"PSDIR_EMAIL_FROM_NAME" envDefault:"Project Sydney"`

	// Cache configuration
	RedisURL    string `env:"PSDIR_REDIS_URL"`                       // Optional Redis URL for distributed caching
	CachePrefix string `env:"PSDIR_CACHE_PREFIX" envDefault:"psdir:"`
	CacheTTL    int    `env:"PSDIR_CACHE_TTL" envDefault:"300"` // Default cache TTL in seconds

	// DigestHour is the local hour (0-23) when the daily digest is sent.
	DigestHour int `env:"PSDIR_DIGEST_HOUR" envDefault:"7"`

	// Bootstrap super admin, created on first start when no users exist.
	BootstrapEmail    string `env:"PSDIR_BOOTSTRAP_EMAIL"`
	BootstrapPassword string `env:"PSDIR_BOOTSTRAP_PASSWORD"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// EmailEnabled returns true if outbound email is configured.
func (c Config) EmailEnabled() bool {
	return c.SendGridAPIKey != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("PSDIR_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("PSDIR_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if cfg.DigestHour < 0 || cfg.DigestHour > 23 {
		return nil, fmt.Errorf("PSDIR_DIGEST_HOUR must be between 0 and 23, got %d", cfg.DigestHour)
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("PSDIR_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
