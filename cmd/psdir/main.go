// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/PeterAppleyard/ps-directory/internal/auth"
	"github.com/PeterAppleyard/ps-directory/internal/cache"
	"github.com/PeterAppleyard/ps-directory/internal/config"
	"github.com/PeterAppleyard/ps-directory/internal/handler"
	"github.com/PeterAppleyard/ps-directory/internal/logging"
	"github.com/PeterAppleyard/ps-directory/internal/mailer"
	"github.com/PeterAppleyard/ps-directory/internal/model"
	"github.com/PeterAppleyard/ps-directory/internal/notify"
	"github.com/PeterAppleyard/ps-directory/internal/scheduler"
	"github.com/PeterAppleyard/ps-directory/internal/session"
	"github.com/PeterAppleyard/ps-directory/internal/storage"
	"github.com/PeterAppleyard/ps-directory/internal/store"
	"github.com/PeterAppleyard/ps-directory/internal/version"
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "psdir - Project Sydney house directory\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PSDIR_SESSION_SECRET     Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PSDIR_DB_PATH            SQLite database path (default: ./data/psdir.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PSDIR_SERVER_PORT        Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PSDIR_ENV                Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PSDIR_UPLOADS_DIR        Image storage directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PSDIR_SITE_URL           Public origin used in email links\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PSDIR_SENDGRID_API_KEY   SendGrid API key (email disabled when empty)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PSDIR_REDIS_URL          Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PSDIR_DIGEST_HOUR        Hour of day for the daily digest (default: 7)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PSDIR_BOOTSTRAP_EMAIL    First super_admin account, created when no users exist\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PSDIR_BOOTSTRAP_PASSWORD Password for the bootstrap account\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("%s %s (commit: %s, built: %s)\n",
			version.Name, version.Version, version.GitCommit, version.BuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(textHandler)
	slog.SetDefault(logger)

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade to the event-logging handler now that the DB is available.
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	queries := store.New(db)

	if err := bootstrapSuperAdmin(context.Background(), queries, cfg); err != nil {
		return fmt.Errorf("bootstrapping super admin: %w", err)
	}

	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	// Cache backend: Redis when configured, in-process memory otherwise.
	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	var backend cache.Cache
	if cfg.UseRedisCache() {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL, cfg.CachePrefix, cacheTTL)
		if err != nil {
			slog.Warn("cache initialized", "backend", "memory", "note", "Redis unavailable, using fallback", "error", err)
			backend = cache.NewMemoryCache(cacheTTL)
		} else {
			slog.Info("cache initialized", "backend", "redis", "url", cfg.RedisURL)
			backend = redisCache
		}
	} else {
		slog.Info("cache initialized", "backend", "memory")
		backend = cache.NewMemoryCache(cacheTTL)
	}
	dir := cache.NewDirectory(backend, cacheTTL)
	defer func() {
		if err := dir.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()

	// Outbound email
	var sender mailer.Sender
	if cfg.EmailEnabled() {
		sender = mailer.NewSendGrid(cfg.SendGridAPIKey, cfg.EmailFrom, cfg.EmailFromName)
		slog.Info("email sender initialized", "from", cfg.EmailFrom)
	} else {
		sender = mailer.DisabledSender{}
		slog.Info("email sending disabled", "reason", "no API key configured")
	}
	notifier := notify.New(queries, sender, cfg.SiteURL, logger)

	// Image storage
	objects, err := storage.New(cfg.UploadsDir)
	if err != nil {
		return fmt.Errorf("initializing upload storage: %w", err)
	}
	slog.Info("upload storage initialized", "dir", cfg.UploadsDir)

	// Background jobs: daily digest and token/event cleanup.
	sched := scheduler.New(db, notifier, cfg.DigestHour, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	h := handler.New(handler.Config{
		DB:       db,
		Sessions: sessionManager,
		Cache:    dir,
		Notifier: notifier,
		Objects:  objects,
		SiteURL:  cfg.SiteURL,
		Logger:   logger,
	})

	routes := h.Routes(handler.RouteConfig{
		CSRFKey:  []byte(cfg.SessionSecret),
		IsDev:    cfg.IsDevelopment(),
		MediaDir: cfg.UploadsDir,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           routes,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // allow large uploads and slow connections
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// bootstrapSuperAdmin creates the first super_admin account on an empty
// database when PSDIR_BOOTSTRAP_EMAIL and PSDIR_BOOTSTRAP_PASSWORD are set.
func bootstrapSuperAdmin(ctx context.Context, queries *store.Queries, cfg *config.Config) error {
	count, err := queries.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if cfg.BootstrapEmail == "" || cfg.BootstrapPassword == "" {
		slog.Warn("no users exist and no bootstrap account configured",
			"hint", "set PSDIR_BOOTSTRAP_EMAIL and PSDIR_BOOTSTRAP_PASSWORD")
		return nil
	}
	if len(cfg.BootstrapPassword) < auth.MinPasswordLength {
		return fmt.Errorf("PSDIR_BOOTSTRAP_PASSWORD must be at least %d characters", auth.MinPasswordLength)
	}

	hash, err := auth.HashArgon2(cfg.BootstrapPassword)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	user, err := queries.CreateUser(ctx, store.CreateUserParams{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(cfg.BootstrapEmail)),
		PasswordHash: hash,
		CreatedAt:    now,
	})
	if err != nil {
		return err
	}
	if err := queries.CreateProfile(ctx, store.CreateProfileParams{
		UserID:    user.ID,
		Role:      model.RoleSuperAdmin,
		CreatedAt: now,
	}); err != nil {
		return err
	}

	slog.Info("bootstrap super_admin created", "email", user.Email)
	return nil
}
