// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/PeterAppleyard/ps-directory/internal/auth"
	"github.com/PeterAppleyard/ps-directory/internal/middleware"
	"github.com/PeterAppleyard/ps-directory/internal/model"
	"github.com/PeterAppleyard/ps-directory/internal/store"
)

// ListUsers serves every account with its profile.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.queries.ListUsersWithProfiles(r.Context())
	if err != nil {
		h.logger.Error("listing users", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to load users")
		return
	}
	if users == nil {
		users = []store.UserWithProfile{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

type inviteUserRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// InviteUser creates an account with a locked random password and emails
// a setup link. Grantable roles are capped by the caller's own role:
// admins can invite superusers, super admins can invite up to admin,
// nobody can invite a super admin.
func (h *Handler) InviteUser(w http.ResponseWriter, r *http.Request) {
	var req inviteUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		writeJSONError(w, http.StatusBadRequest, "A valid email is required")
		return
	}
	if !model.IsValidRole(req.Role) {
		writeJSONError(w, http.StatusBadRequest, "Invalid role")
		return
	}
	if !model.CanAssignRole(middleware.GetRole(r), req.Role) {
		writeJSONError(w, http.StatusForbidden, "Unauthorized")
		return
	}

	ctx := r.Context()
	if _, err := h.queries.GetUserByEmail(ctx, email); err == nil {
		writeJSONError(w, http.StatusConflict, "An account with that email already exists")
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		h.logger.Error("checking invite email", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to invite user")
		return
	}

	// The account starts with an unguessable placeholder credential; the
	// invite token is the only way in until a password is set.
	placeholder, _, err := auth.NewToken()
	if err != nil {
		h.logger.Error("generating placeholder credential", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to invite user")
		return
	}
	hash, err := auth.HashArgon2(placeholder)
	if err != nil {
		h.logger.Error("hashing placeholder credential", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to invite user")
		return
	}

	now := time.Now().UTC()
	user, err := h.queries.CreateUser(ctx, store.CreateUserParams{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
	})
	if err != nil {
		h.logger.Error("creating invited user", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to invite user")
		return
	}

	if err := h.queries.CreateProfile(ctx, store.CreateProfileParams{
		UserID:    user.ID,
		Role:      req.Role,
		CreatedAt: now,
	}); err != nil {
		h.logger.Error("creating invited profile", "error", err, "user_id", user.ID)
		writeJSONError(w, http.StatusInternalServerError, "Failed to invite user")
		return
	}

	token, tokenHash, err := auth.NewToken()
	if err != nil {
		h.logger.Error("generating invite token", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to invite user")
		return
	}
	if err := h.queries.CreatePasswordReset(ctx, store.CreatePasswordResetParams{
		TokenHash: tokenHash,
		UserID:    user.ID,
		Purpose:   auth.TokenPurposeInvite,
		ExpiresAt: now.Add(auth.InviteTokenTTL),
		CreatedAt: now,
	}); err != nil {
		h.logger.Error("storing invite token", "error", err, "user_id", user.ID)
		writeJSONError(w, http.StatusInternalServerError, "Failed to invite user")
		return
	}

	h.notifier.Invite(ctx, email, req.Role, token)

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":    user.ID,
		"email": user.Email,
		"role":  req.Role,
	})
}

type setRoleRequest struct {
	Role string `json:"role"`
}

// SetUserRole changes another account's role, within the caller's grant
// ceiling. Nobody can change their own role.
func (h *Handler) SetUserRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	targetID := chi.URLParam(r, "id")

	if targetID == middleware.GetUserID(r) {
		writeJSONError(w, http.StatusBadRequest, "You cannot change your own role")
		return
	}

	var req setRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !model.IsValidRole(req.Role) {
		writeJSONError(w, http.StatusBadRequest, "Invalid role")
		return
	}
	if !model.CanAssignRole(middleware.GetRole(r), req.Role) {
		writeJSONError(w, http.StatusForbidden, "Unauthorized")
		return
	}

	if err := h.queries.UpdateProfileRole(ctx, targetID, req.Role, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("updating role", "error", err, "target_id", targetID)
		writeJSONError(w, http.StatusInternalServerError, "Failed to update role")
		return
	}

	writeJSONSuccess(w, map[string]any{"id": targetID, "role": req.Role})
}

// DeleteUser removes an account and its profile. Super admin only, and
// never the caller's own account.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	targetID := chi.URLParam(r, "id")

	if targetID == middleware.GetUserID(r) {
		writeJSONError(w, http.StatusBadRequest, "You cannot remove your own account")
		return
	}

	if err := h.queries.DeleteUser(ctx, targetID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("deleting user", "error", err, "target_id", targetID)
		writeJSONError(w, http.StatusInternalServerError, "Failed to remove user")
		return
	}

	writeJSONSuccess(w, map[string]any{"id": targetID})
}
