// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/PeterAppleyard/ps-directory/internal/auth"
	"github.com/PeterAppleyard/ps-directory/internal/middleware"
	"github.com/PeterAppleyard/ps-directory/internal/store"
)

// loginFailedMessage never reveals whether the email or password was wrong.
const loginFailedMessage = "Invalid email or password"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a moderator and starts a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.login.AllowIP(r) {
		writeJSONError(w, http.StatusTooManyRequests, "Too many requests. Please slow down.")
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		writeJSONError(w, http.StatusUnauthorized, loginFailedMessage)
		return
	}

	if h.login.IsLocked(email) {
		writeJSONError(w, http.StatusTooManyRequests, "Account temporarily locked. Try again later.")
		return
	}

	ctx := r.Context()
	user, err := h.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			h.logger.Error("looking up login email", "error", err)
		}
		h.login.RecordFailure(email)
		writeJSONError(w, http.StatusUnauthorized, loginFailedMessage)
		return
	}

	ok, err := auth.VerifyArgon2(req.Password, user.PasswordHash)
	if err != nil || !ok {
		if err != nil {
			h.logger.Error("verifying password", "error", err, "user_id", user.ID)
		}
		h.login.RecordFailure(email)
		writeJSONError(w, http.StatusUnauthorized, loginFailedMessage)
		return
	}

	h.login.RecordSuccess(email)

	// Transparently upgrade hashes created with older parameters.
	if auth.NeedsRehash(user.PasswordHash) {
		if hash, err := auth.HashArgon2(req.Password); err == nil {
			if err := h.queries.UpdateUserPassword(ctx, user.ID, hash, time.Now().UTC()); err != nil {
				h.logger.Warn("upgrading password hash", "error", err, "user_id", user.ID)
			}
		}
	}

	// Session fixation guard: new token on privilege change.
	if err := h.sessions.RenewToken(ctx); err != nil {
		h.logger.Error("renewing session token", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Login failed")
		return
	}
	h.sessions.Put(ctx, middleware.SessionKeyUserID, user.ID)

	if err := h.queries.UpdateUserLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		h.logger.Warn("recording last login", "error", err, "user_id", user.ID)
	}

	role := ""
	if profile, err := h.queries.GetProfileByUserID(ctx, user.ID); err == nil {
		role = profile.Role
	}

	writeJSONSuccess(w, map[string]any{
		"user": map[string]any{
			"id":    user.ID,
			"email": user.Email,
			"role":  role,
		},
	})
}

// Logout destroys the current session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context()); err != nil {
		h.logger.Error("destroying session", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Logout failed")
		return
	}
	writeJSONSuccess(w, nil)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword issues a reset token when the address belongs to an
// account. The response is identical either way so addresses cannot be
// probed.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	respond := func() {
		writeJSONSuccess(w, map[string]any{
			"message": "If that address has an account, a reset link is on its way.",
		})
	}
	if email == "" {
		respond()
		return
	}

	ctx := r.Context()
	user, err := h.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			h.logger.Error("looking up reset email", "error", err)
		}
		respond()
		return
	}

	token, tokenHash, err := auth.NewToken()
	if err != nil {
		h.logger.Error("generating reset token", "error", err)
		respond()
		return
	}

	now := time.Now().UTC()
	err = h.queries.CreatePasswordReset(ctx, store.CreatePasswordResetParams{
		TokenHash: tokenHash,
		UserID:    user.ID,
		Purpose:   auth.TokenPurposeReset,
		ExpiresAt: now.Add(auth.ResetTokenTTL),
		CreatedAt: now,
	})
	if err != nil {
		h.logger.Error("storing reset token", "error", err, "user_id", user.ID)
		respond()
		return
	}

	h.notifier.PasswordReset(ctx, user.Email, token)
	respond()
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPassword consumes a reset or invite token and sets a new password.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Token == "" {
		writeJSONError(w, http.StatusBadRequest, "Missing token")
		return
	}
	if len(req.Password) < auth.MinPasswordLength {
		writeJSONError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	ctx := r.Context()
	reset, err := h.queries.GetPasswordReset(ctx, auth.HashToken(req.Token))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid or expired token")
		return
	}
	if time.Now().UTC().After(reset.ExpiresAt) {
		_ = h.queries.DeletePasswordReset(ctx, reset.TokenHash)
		writeJSONError(w, http.StatusBadRequest, "Invalid or expired token")
		return
	}

	hash, err := auth.HashArgon2(req.Password)
	if err != nil {
		h.logger.Error("hashing new password", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	if err := h.queries.UpdateUserPassword(ctx, reset.UserID, hash, time.Now().UTC()); err != nil {
		h.logger.Error("updating password", "error", err, "user_id", reset.UserID)
		writeJSONError(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	if err := h.queries.DeletePasswordReset(ctx, reset.TokenHash); err != nil {
		h.logger.Warn("consuming reset token", "error", err)
	}

	writeJSONSuccess(w, map[string]any{"message": "Password updated. You can sign in now."})
}

// Me returns the authenticated caller's identity and preferences.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		writeJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	out := map[string]any{
		"id":    user.ID,
		"email": user.Email,
	}
	if profile := middleware.GetProfile(r); profile != nil {
		out["role"] = profile.Role
		out["theme"] = profile.Theme
		out["notification_frequency"] = profile.NotificationFrequency
		out["email_on_new_submission"] = profile.EmailOnNewSubmission
		out["email_on_approval"] = profile.EmailOnApproval
	} else {
		// No profile yet: report no role rather than inventing one. Role
		// gates deny such accounts regardless.
		out["role"] = ""
	}

	writeJSONSuccess(w, map[string]any{"user": out})
}
