// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package notify fans submission and moderation events out to email.
// Dispatch is fire-and-forget: callers never block on delivery and
// failures are logged, never surfaced to the request path.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/PeterAppleyard/ps-directory/internal/mailer"
	"github.com/PeterAppleyard/ps-directory/internal/model"
	"github.com/PeterAppleyard/ps-directory/internal/store"
	"github.com/PeterAppleyard/ps-directory/internal/util"
)

// sendTimeout bounds a single detached delivery attempt.
const sendTimeout = 30 * time.Second

// Notifier resolves recipients and dispatches transactional email.
type Notifier struct {
	queries *store.Queries
	sender  mailer.Sender
	siteURL string
	logger  *slog.Logger
}

// New creates a Notifier.
func New(queries *store.Queries, sender mailer.Sender, siteURL string, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		queries: queries,
		sender:  sender,
		siteURL: siteURL,
		logger:  logger,
	}
}

// NewSubmission alerts moderators about a freshly submitted house. Instant
// recipients get mail right away; daily recipients are covered by a single
// queued digest entry per house. Returns immediately.
func (n *Notifier) NewSubmission(ctx context.Context, house store.House) {
	if !n.sender.Enabled() {
		return
	}

	detached := context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(detached, sendTimeout)
		defer cancel()

		recipients, err := n.queries.ListSubmissionRecipients(ctx)
		if err != nil {
			n.logger.Error("resolving submission recipients", "error", err, "house_id", house.ID)
			return
		}

		var wantsDigest bool
		for _, r := range recipients {
			if r.NotificationFrequency == model.FrequencyDaily {
				wantsDigest = true
				continue
			}
			msg := mailer.NewSubmission(r.Email, house.AddressStreet, house.AddressSuburb, n.siteURL)
			if err := n.sender.Send(ctx, msg); err != nil {
				n.logger.Error("sending submission alert", "error", err, "house_id", house.ID)
			}
		}

		if wantsDigest {
			err := n.queries.EnqueueDigest(ctx, store.EnqueueDigestParams{
				HouseID:       house.ID,
				AddressStreet: house.AddressStreet,
				AddressSuburb: house.AddressSuburb,
				CreatedAt:     time.Now().UTC(),
			})
			if err != nil {
				n.logger.Error("queueing digest entry", "error", err, "house_id", house.ID)
			}
		}
	}()
}

// StatusUpdate tells the submitter their house was published or rejected.
// Houses submitted without an email address are skipped. Returns immediately.
func (n *Notifier) StatusUpdate(ctx context.Context, house store.House, status string) {
	if !n.sender.Enabled() || !house.SubmitterEmail.Valid {
		return
	}

	to := house.SubmitterEmail.String
	notes := util.StringFromNull(house.VerificationNotes)
	detached := context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(detached, sendTimeout)
		defer cancel()

		msg := mailer.StatusUpdate(to, house.AddressStreet, house.AddressSuburb,
			status, notes, n.siteURL, house.ID)
		if err := n.sender.Send(ctx, msg); err != nil {
			n.logger.Error("sending status update", "error", err, "house_id", house.ID)
		}
	}()
}

// Invite sends an account invitation with a setup token. Returns immediately.
func (n *Notifier) Invite(ctx context.Context, email, role, token string) {
	if !n.sender.Enabled() {
		return
	}

	detached := context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(detached, sendTimeout)
		defer cancel()

		if err := n.sender.Send(ctx, mailer.Invite(email, role, n.siteURL, token)); err != nil {
			n.logger.Error("sending invite", "error", err)
		}
	}()
}

// PasswordReset sends a reset link. Returns immediately.
func (n *Notifier) PasswordReset(ctx context.Context, email, token string) {
	if !n.sender.Enabled() {
		return
	}

	detached := context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(detached, sendTimeout)
		defer cancel()

		if err := n.sender.Send(ctx, mailer.PasswordReset(email, n.siteURL, token)); err != nil {
			n.logger.Error("sending password reset", "error", err)
		}
	}()
}

// SendDailyDigest drains the digest queue to every daily-frequency
// recipient. Unlike the event hooks this runs synchronously so the
// scheduler can log the outcome.
func (n *Notifier) SendDailyDigest(ctx context.Context) error {
	entries, err := n.queries.ListDigestQueue(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	digest := make([]mailer.DigestEntry, 0, len(entries))
	for _, e := range entries {
		digest = append(digest, mailer.DigestEntry{Address: e.AddressStreet, Suburb: e.AddressSuburb})
	}

	recipients, err := n.queries.ListSubmissionRecipients(ctx)
	if err != nil {
		return err
	}

	sent := 0
	if n.sender.Enabled() {
		for _, r := range recipients {
			if r.NotificationFrequency != model.FrequencyDaily {
				continue
			}
			if err := n.sender.Send(ctx, mailer.DailyDigest(r.Email, digest, n.siteURL)); err != nil {
				n.logger.Error("sending daily digest", "error", err, "to", r.Email)
				continue
			}
			sent++
		}
	}

	if err := n.queries.ClearDigestQueue(ctx); err != nil {
		return err
	}

	n.logger.Info("daily digest sent", "entries", len(entries), "recipients", sent)
	return nil
}
