// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler implements the JSON API: public directory reads,
// submission intake, session auth, and the role-gated admin surface.
package handler

import (
	"database/sql"
	"log/slog"

	"github.com/alexedwards/scs/v2"

	"github.com/PeterAppleyard/ps-directory/internal/cache"
	"github.com/PeterAppleyard/ps-directory/internal/middleware"
	"github.com/PeterAppleyard/ps-directory/internal/notify"
	"github.com/PeterAppleyard/ps-directory/internal/storage"
	"github.com/PeterAppleyard/ps-directory/internal/store"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db       *sql.DB
	queries  *store.Queries
	sessions *scs.SessionManager
	dir      *cache.Directory
	notifier *notify.Notifier
	objects  *storage.Store
	login    *middleware.LoginProtection
	siteURL  string
	logger   *slog.Logger
}

// Config carries the dependencies New needs.
type Config struct {
	DB       *sql.DB
	Sessions *scs.SessionManager
	Cache    *cache.Directory
	Notifier *notify.Notifier
	Objects  *storage.Store
	Login    *middleware.LoginProtection
	SiteURL  string
	Logger   *slog.Logger
}

// New creates the API handler.
func New(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	login := cfg.Login
	if login == nil {
		login = middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	}
	return &Handler{
		db:       cfg.DB,
		queries:  store.New(cfg.DB),
		sessions: cfg.Sessions,
		dir:      cfg.Cache,
		notifier: cfg.Notifier,
		objects:  cfg.Objects,
		login:    login,
		siteURL:  cfg.SiteURL,
		logger:   logger,
	}
}
