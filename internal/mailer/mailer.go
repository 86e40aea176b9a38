// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mailer sends transactional email through SendGrid. When no API
// key is configured, the mailer is disabled and sends become logged no-ops.
package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Message is a single outbound email.
type Message struct {
	To       string
	Subject  string
	BodyHTML string
}

// Sender delivers messages. Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Enabled() bool
}

// SendGridSender delivers mail through the SendGrid v3 API.
type SendGridSender struct {
	client   *sendgrid.Client
	from     string
	fromName string
}

// NewSendGrid creates a SendGrid-backed sender.
func NewSendGrid(apiKey, from, fromName string) *SendGridSender {
	return &SendGridSender{
		client:   sendgrid.NewSendClient(apiKey),
		from:     from,
		fromName: fromName,
	}
}

// Enabled reports that this sender delivers mail.
func (s *SendGridSender) Enabled() bool { return true }

// Send delivers a single message. Click and open tracking are disabled so
// SendGrid does not rewrite the links in transactional mail.
func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	from := mail.NewEmail(s.fromName, s.from)
	to := mail.NewEmail("", msg.To)
	m := mail.NewSingleEmail(from, msg.Subject, to, "", msg.BodyHTML)

	trackingSettings := mail.NewTrackingSettings()
	clickTracking := mail.NewClickTrackingSetting()
	clickTracking.SetEnable(false)
	clickTracking.SetEnableText(false)
	trackingSettings.SetClickTracking(clickTracking)
	openTracking := mail.NewOpenTrackingSetting()
	openTracking.SetEnable(false)
	trackingSettings.SetOpenTracking(openTracking)
	m.SetTrackingSettings(trackingSettings)

	response, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid API error: %d - %s", response.StatusCode, response.Body)
	}
	return nil
}

// DisabledSender drops all mail and logs at debug level. Used when no
// SendGrid API key is configured.
type DisabledSender struct{}

// Enabled reports that mail delivery is off.
func (DisabledSender) Enabled() bool { return false }

// Send logs and discards the message.
func (DisabledSender) Send(_ context.Context, msg Message) error {
	slog.Debug("email delivery disabled, dropping message",
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}
