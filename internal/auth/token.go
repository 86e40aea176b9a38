// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"
)

// Token purposes for the password_resets table.
const (
	TokenPurposeReset  = "reset"
	TokenPurposeInvite = "invite"
)

// Token lifetimes. Invites get longer because they sit in inboxes.
const (
	ResetTokenTTL  = 2 * time.Hour
	InviteTokenTTL = 7 * 24 * time.Hour
)

// NewToken generates a random URL-safe token and the hash under which it is
// stored. Only the hash is persisted; the raw token travels in the email link.
func NewToken() (token, tokenHash string, err error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("generating token: %w", err)
	}

	token = base64.RawURLEncoding.EncodeToString(raw)
	return token, HashToken(token), nil
}

// HashToken returns the storage hash for a raw token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
