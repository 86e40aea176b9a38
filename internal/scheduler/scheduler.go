// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the recurring maintenance jobs: the daily
// notification digest and cleanup of expired tokens and old events.
package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/PeterAppleyard/ps-directory/internal/notify"
	"github.com/PeterAppleyard/ps-directory/internal/store"
)

// eventRetention is how long persisted log events are kept.
const eventRetention = 90 * 24 * time.Hour

// Scheduler owns the cron instance and its jobs.
type Scheduler struct {
	db       *sql.DB
	notifier *notify.Notifier
	cron     *cron.Cron
	logger   *slog.Logger

	digestHour int
}

// New creates a scheduler. digestHour is the local hour (0-23) the daily
// digest goes out.
func New(db *sql.DB, notifier *notify.Notifier, digestHour int, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		db:         db,
		notifier:   notifier,
		cron:       cron.New(),
		logger:     logger,
		digestHour: digestHour,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(fmt.Sprintf("0 %d * * *", s.digestHour), func() {
		if err := s.notifier.SendDailyDigest(context.Background()); err != nil {
			s.logger.Error("daily digest failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	// Hourly cleanup of expired reset tokens and old events.
	_, err = s.cron.AddFunc("30 * * * *", func() {
		if err := s.cleanup(context.Background()); err != nil {
			s.logger.Error("cleanup job failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()), "digest_hour", s.digestHour)
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// cleanup removes expired password reset tokens and prunes old events.
func (s *Scheduler) cleanup(ctx context.Context) error {
	queries := store.New(s.db)
	now := time.Now().UTC()

	tokens, err := queries.DeleteExpiredPasswordResets(ctx, now)
	if err != nil {
		return fmt.Errorf("deleting expired password resets: %w", err)
	}

	events, err := queries.PruneEvents(ctx, now.Add(-eventRetention))
	if err != nil {
		return fmt.Errorf("pruning events: %w", err)
	}

	if tokens > 0 || events > 0 {
		s.logger.Info("cleanup complete", "expired_tokens", tokens, "pruned_events", events)
	}
	return nil
}
