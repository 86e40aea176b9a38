// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mailer

import (
	"fmt"
	"html"
	"strings"
)

const (
	siteName  = "Pettit & Sevitt Directory"
	bodyStyle = `font-family: Helvetica, Arial, sans-serif; color: #111;`
	noteStyle = `font-family: Helvetica, Arial, sans-serif; color: #555;`
	linkStyle = `color: #000; font-weight: bold;`
)

// footer closes every message with the site link.
func footer(siteURL string) string {
	return fmt.Sprintf(
		`<hr style="border: 1px solid #eee; margin: 24px 0;" />`+
			`<p style="font-family: Helvetica, Arial, sans-serif; font-size: 12px; color: #999;">`+
			`%s — <a href="%s" style="color: #999;">%s</a></p>`,
		html.EscapeString(siteName), siteURL, html.EscapeString(siteURL),
	)
}

// NewSubmission composes the moderator alert sent when a house is submitted.
func NewSubmission(to, address, suburb, siteURL string) Message {
	loc := html.EscapeString(address) + ", " + html.EscapeString(suburb)
	var b strings.Builder
	fmt.Fprintf(&b, `<p style="%s">A new home has been submitted for review.</p>`, bodyStyle)
	fmt.Fprintf(&b, `<p style="%s"><strong>%s</strong></p>`, bodyStyle, loc)
	fmt.Fprintf(&b, `<p style="font-family: Helvetica, Arial, sans-serif;"><a href="%s/admin" style="%s">Review in Admin &rarr;</a></p>`, siteURL, linkStyle)
	b.WriteString(footer(siteURL))

	return Message{
		To:       to,
		Subject:  fmt.Sprintf("New submission: %s, %s", address, suburb),
		BodyHTML: b.String(),
	}
}

// StatusUpdate composes the email sent to a submitter when their house is
// published or rejected. Moderator notes are included when present.
func StatusUpdate(to, address, suburb, status, notes, siteURL, houseID string) Message {
	approved := status == "published"
	loc := html.EscapeString(address) + ", " + html.EscapeString(suburb)

	var b strings.Builder
	if approved {
		fmt.Fprintf(&b, `<p style="%s">Great news!</p>`, bodyStyle)
		fmt.Fprintf(&b, `<p style="%s">Your submission for <strong>%s</strong> has been <strong>published to the directory</strong>.</p>`, bodyStyle, loc)
	} else {
		fmt.Fprintf(&b, `<p style="%s">Thanks for your submission.</p>`, bodyStyle)
		fmt.Fprintf(&b, `<p style="%s">Your submission for <strong>%s</strong> has been <strong>reviewed but not approved at this time</strong>.</p>`, bodyStyle, loc)
	}
	if notes != "" {
		fmt.Fprintf(&b, `<p style="%s">%s</p>`, noteStyle, html.EscapeString(notes))
	}
	if approved {
		fmt.Fprintf(&b, `<p style="font-family: Helvetica, Arial, sans-serif;"><a href="%s/house/%s" style="%s">View your listing &rarr;</a></p>`, siteURL, houseID, linkStyle)
	}
	b.WriteString(footer(siteURL))

	subject := fmt.Sprintf("Update on your submission — %s", suburb)
	if approved {
		subject = fmt.Sprintf("Your submission has been approved — %s", suburb)
	}

	return Message{To: to, Subject: subject, BodyHTML: b.String()}
}

// Invite composes the account invitation email carrying a one-time setup link.
func Invite(to, role, siteURL, token string) Message {
	link := fmt.Sprintf("%s/reset-password?token=%s", siteURL, token)
	var b strings.Builder
	fmt.Fprintf(&b, `<p style="%s">You have been invited to join the %s as a <strong>%s</strong>.</p>`, bodyStyle, html.EscapeString(siteName), html.EscapeString(role))
	fmt.Fprintf(&b, `<p style="font-family: Helvetica, Arial, sans-serif;"><a href="%s" style="%s">Set your password &rarr;</a></p>`, link, linkStyle)
	fmt.Fprintf(&b, `<p style="%s">This link expires in 7 days.</p>`, noteStyle)
	b.WriteString(footer(siteURL))

	return Message{
		To:       to,
		Subject:  fmt.Sprintf("You're invited to the %s", siteName),
		BodyHTML: b.String(),
	}
}

// PasswordReset composes the self-service password reset email.
func PasswordReset(to, siteURL, token string) Message {
	link := fmt.Sprintf("%s/reset-password?token=%s", siteURL, token)
	var b strings.Builder
	fmt.Fprintf(&b, `<p style="%s">A password reset was requested for your account.</p>`, bodyStyle)
	fmt.Fprintf(&b, `<p style="font-family: Helvetica, Arial, sans-serif;"><a href="%s" style="%s">Reset your password &rarr;</a></p>`, link, linkStyle)
	fmt.Fprintf(&b, `<p style="%s">This link expires in 2 hours. If you did not request a reset, you can ignore this email.</p>`, noteStyle)
	b.WriteString(footer(siteURL))

	return Message{To: to, Subject: "Reset your password", BodyHTML: b.String()}
}

// DigestEntry is one pending submission summarized in a daily digest.
type DigestEntry struct {
	Address string
	Suburb  string
}

// DailyDigest composes the once-a-day summary of new submissions for
// moderators on the daily notification frequency.
func DailyDigest(to string, entries []DigestEntry, siteURL string) Message {
	var b strings.Builder
	fmt.Fprintf(&b, `<p style="%s">%d new submission(s) are waiting for review.</p>`, bodyStyle, len(entries))
	b.WriteString(`<ul style="font-family: Helvetica, Arial, sans-serif; color: #111;">`)
	for _, e := range entries {
		fmt.Fprintf(&b, `<li><strong>%s, %s</strong></li>`, html.EscapeString(e.Address), html.EscapeString(e.Suburb))
	}
	b.WriteString(`</ul>`)
	fmt.Fprintf(&b, `<p style="font-family: Helvetica, Arial, sans-serif;"><a href="%s/admin" style="%s">Review in Admin &rarr;</a></p>`, siteURL, linkStyle)
	b.WriteString(footer(siteURL))

	return Message{
		To:       to,
		Subject:  fmt.Sprintf("Daily digest: %d new submission(s)", len(entries)),
		BodyHTML: b.String(),
	}
}
