package mailer

import (
	"context"
	"strings"
	"testing"
)

func TestDisabledSender(t *testing.T) {
	var s DisabledSender
	if s.Enabled() {
		t.Error("DisabledSender.Enabled() should be false")
	}
	if err := s.Send(context.Background(), Message{To: "x@example.com"}); err != nil {
		t.Errorf("DisabledSender.Send = %v, want nil", err)
	}
}

func TestNewSubmission(t *testing.T) {
	msg := NewSubmission("mod@example.com", "37 Gould Ave", "Hornsby Heights", "https://example.com")

	if msg.Subject != "New submission: 37 Gould Ave, Hornsby Heights" {
		t.Errorf("Subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.BodyHTML, "37 Gould Ave, Hornsby Heights") {
		t.Error("body should contain the address")
	}
	if !strings.Contains(msg.BodyHTML, "https://example.com/admin") {
		t.Error("body should link to the admin area")
	}
}

func TestStatusUpdateApproved(t *testing.T) {
	msg := StatusUpdate("owner@example.com", "37 Gould Ave", "Hornsby Heights",
		"published", "", "https://example.com", "abc-123")

	if !strings.HasPrefix(msg.Subject, "Your submission has been approved") {
		t.Errorf("Subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.BodyHTML, "published to the directory") {
		t.Error("approved body should announce publication")
	}
	if !strings.Contains(msg.BodyHTML, "/house/abc-123") {
		t.Error("approved body should link to the listing")
	}
}

func TestStatusUpdateRejected(t *testing.T) {
	msg := StatusUpdate("owner@example.com", "37 Gould Ave", "Hornsby Heights",
		"rejected", "Missing photos", "https://example.com", "abc-123")

	if !strings.HasPrefix(msg.Subject, "Update on your submission") {
		t.Errorf("Subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.BodyHTML, "not approved at this time") {
		t.Error("rejected body should soften the outcome")
	}
	if !strings.Contains(msg.BodyHTML, "Missing photos") {
		t.Error("moderator notes should be included")
	}
	if strings.Contains(msg.BodyHTML, "/house/abc-123") {
		t.Error("rejected body should not link to a listing")
	}
}

func TestStatusUpdateEscapesNotes(t *testing.T) {
	msg := StatusUpdate("owner@example.com", "1 X St", "Sub",
		"rejected", `<script>alert(1)</script>`, "https://example.com", "id")
	if strings.Contains(msg.BodyHTML, "<script>") {
		t.Error("notes must be HTML-escaped")
	}
}

func TestInviteAndReset(t *testing.T) {
	inv := Invite("new@example.com", "admin", "https://example.com", "tok123")
	if !strings.Contains(inv.BodyHTML, "reset-password?token=tok123") {
		t.Error("invite should carry the setup link")
	}
	if !strings.Contains(inv.BodyHTML, "admin") {
		t.Error("invite should name the granted role")
	}

	rst := PasswordReset("u@example.com", "https://example.com", "tok456")
	if !strings.Contains(rst.BodyHTML, "reset-password?token=tok456") {
		t.Error("reset should carry the reset link")
	}
	if rst.Subject != "Reset your password" {
		t.Errorf("Subject = %q", rst.Subject)
	}
}

func TestDailyDigest(t *testing.T) {
	msg := DailyDigest("mod@example.com", []DigestEntry{
		{Address: "37 Gould Ave", Suburb: "Hornsby Heights"},
		{Address: "14A Main St", Suburb: "Ryde"},
	}, "https://example.com")

	if msg.Subject != "Daily digest: 2 new submission(s)" {
		t.Errorf("Subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.BodyHTML, "37 Gould Ave, Hornsby Heights") ||
		!strings.Contains(msg.BodyHTML, "14A Main St, Ryde") {
		t.Error("digest should list every entry")
	}
}
