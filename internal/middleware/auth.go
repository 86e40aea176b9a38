// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, rate limiting, and request context handling.
package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/PeterAppleyard/ps-directory/internal/model"
	"github.com/PeterAppleyard/ps-directory/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request-scoped caller data.
const (
	ContextKeyUser    ContextKey = "user"
	ContextKeyProfile ContextKey = "profile"
)

// SessionKeyUserID is the session key for storing the authenticated user ID.
const SessionKeyUserID = "user_id"

// writeJSONError writes a minimal JSON error response.
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   message,
	})
}

// LoadUser creates middleware that resolves the session's user and profile
// into the request context. The context is populated once here and never
// mutated downstream; handlers read it through GetUser and GetProfile.
// Requests without a valid session pass through without caller data.
func LoadUser(sm *scs.SessionManager, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetString(r.Context(), SessionKeyUserID)
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := queries.GetUserByID(r.Context(), userID)
			if err != nil {
				// Stale session for a removed account. Clear it.
				_ = sm.Destroy(r.Context())
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)

			if profile, err := queries.GetProfileByUserID(r.Context(), userID); err == nil {
				ctx = context.WithValue(ctx, ContextKeyProfile, profile)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth creates middleware that rejects unauthenticated requests.
// Must run after LoadUser.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetUser(r) == nil {
				writeJSONError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole creates middleware that rejects callers whose role does not
// meet the given minimum. The rejection is a generic authorization error;
// it never explains which check failed. Must run after LoadUser.
func RequireRole(minimum string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile := GetProfile(r)
			if profile == nil || !model.MeetsMinimum(profile.Role, minimum) {
				writeJSONError(w, http.StatusForbidden, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUser retrieves the current user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *store.User {
	user, ok := r.Context().Value(ContextKeyUser).(store.User)
	if !ok {
		return nil
	}
	return &user
}

// GetProfile retrieves the current profile from the request context.
// Returns nil if no profile is in context.
func GetProfile(r *http.Request) *store.Profile {
	profile, ok := r.Context().Value(ContextKeyProfile).(store.Profile)
	if !ok {
		return nil
	}
	return &profile
}

// GetUserID returns the current user's ID, or "" when unauthenticated.
func GetUserID(r *http.Request) string {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return ""
}

// GetRole returns the current caller's role, or "" when unauthenticated.
func GetRole(r *http.Request) string {
	if profile := GetProfile(r); profile != nil {
		return profile.Role
	}
	return ""
}
