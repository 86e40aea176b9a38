// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"time"

	"github.com/PeterAppleyard/ps-directory/internal/auth"
	"github.com/PeterAppleyard/ps-directory/internal/middleware"
	"github.com/PeterAppleyard/ps-directory/internal/model"
	"github.com/PeterAppleyard/ps-directory/internal/store"
)

type notificationSettingsRequest struct {
	EmailOnNewSubmission  bool   `json:"email_on_new_submission"`
	EmailOnApproval       bool   `json:"email_on_approval"`
	NotificationFrequency string `json:"notification_frequency"`
}

// UpdateNotificationSettings replaces the caller's notification
// preferences.
func (h *Handler) UpdateNotificationSettings(w http.ResponseWriter, r *http.Request) {
	var req notificationSettingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !model.IsValidFrequency(req.NotificationFrequency) {
		writeJSONError(w, http.StatusBadRequest, "Invalid notification frequency")
		return
	}

	err := h.queries.UpdateProfileNotifications(r.Context(), store.UpdateProfileNotificationsParams{
		UserID:                middleware.GetUserID(r),
		EmailOnNewSubmission:  req.EmailOnNewSubmission,
		EmailOnApproval:       req.EmailOnApproval,
		NotificationFrequency: req.NotificationFrequency,
		UpdatedAt:             time.Now().UTC(),
	})
	if err != nil {
		h.logger.Error("updating notification settings", "error", err, "user_id", middleware.GetUserID(r))
		writeJSONError(w, http.StatusInternalServerError, "Failed to save settings")
		return
	}

	writeJSONSuccess(w, nil)
}

type themeRequest struct {
	Theme string `json:"theme"`
}

// UpdateTheme stores the caller's theme preference.
func (h *Handler) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !model.IsValidTheme(req.Theme) {
		writeJSONError(w, http.StatusBadRequest, "Invalid theme")
		return
	}

	if err := h.queries.UpdateProfileTheme(r.Context(), middleware.GetUserID(r), req.Theme, time.Now().UTC()); err != nil {
		h.logger.Error("updating theme", "error", err, "user_id", middleware.GetUserID(r))
		writeJSONError(w, http.StatusInternalServerError, "Failed to save settings")
		return
	}

	writeJSONSuccess(w, map[string]any{"theme": req.Theme})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword lets the caller rotate their own password after
// re-proving the current one.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		writeJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.NewPassword) < auth.MinPasswordLength {
		writeJSONError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	ok, err := auth.VerifyArgon2(req.CurrentPassword, user.PasswordHash)
	if err != nil || !ok {
		writeJSONError(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	hash, err := auth.HashArgon2(req.NewPassword)
	if err != nil {
		h.logger.Error("hashing new password", "error", err, "user_id", user.ID)
		writeJSONError(w, http.StatusInternalServerError, "Failed to change password")
		return
	}

	if err := h.queries.UpdateUserPassword(r.Context(), user.ID, hash, time.Now().UTC()); err != nil {
		h.logger.Error("updating password", "error", err, "user_id", user.ID)
		writeJSONError(w, http.StatusInternalServerError, "Failed to change password")
		return
	}

	writeJSONSuccess(w, nil)
}
