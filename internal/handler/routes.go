// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/PeterAppleyard/ps-directory/internal/middleware"
	"github.com/PeterAppleyard/ps-directory/internal/model"
)

// RouteConfig carries the router-level settings Routes needs.
type RouteConfig struct {
	// CSRFKey authenticates CSRF tokens on the session-backed routes.
	CSRFKey []byte

	// IsDev relaxes CSRF trusted origins for local development.
	IsDev bool

	// MediaDir is the directory served under /media/.
	MediaDir string

	// SubmitRPS and SubmitBurst rate limit the public write endpoints
	// per client IP.
	SubmitRPS   float64
	SubmitBurst int
}

// Routes assembles the full HTTP surface.
func (h *Handler) Routes(cfg RouteConfig) http.Handler {
	if cfg.SubmitRPS <= 0 {
		cfg.SubmitRPS = 0.2 // one submission per 5 seconds
	}
	if cfg.SubmitBurst <= 0 {
		cfg.SubmitBurst = 5
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(h.sessions.LoadAndSave)
	r.Use(middleware.LoadUser(h.sessions, h.db))

	r.Get("/healthz", h.Health)

	// Stored images.
	fileServer := http.FileServer(http.Dir(cfg.MediaDir))
	r.Handle("/media/*", http.StripPrefix("/media/", fileServer))

	submitLimit := middleware.PublicRateLimit(cfg.SubmitRPS, cfg.SubmitBurst)

	// Public API.
	r.Route("/api", func(r chi.Router) {
		r.Get("/houses", h.ListHouses)
		r.Get("/houses/{id}", h.GetHouse)
		r.Get("/map", h.MapData)
		r.Get("/styles", h.ListStyles)
		r.Get("/featured", h.Featured)

		r.Group(func(r chi.Router) {
			r.Use(submitLimit)
			r.Post("/houses", h.SubmitHouse)
			r.Post("/houses/{id}/stories", h.SubmitStory)
			r.Post("/upload", h.Upload)
			r.Post("/images", h.AttachImage)
		})
	})

	// Session auth.
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Group(func(r chi.Router) {
			r.Use(submitLimit)
			r.Post("/forgot-password", h.ForgotPassword)
			r.Post("/reset-password", h.ResetPassword)
		})
		r.With(middleware.RequireAuth()).Get("/me", h.Me)
	})

	// Admin API: session + CSRF + role gates.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.CSRF(middleware.DefaultCSRFConfig(cfg.CSRFKey, cfg.IsDev)))
		r.Use(middleware.RequireAuth())

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(model.RoleSuperuser))
			r.Get("/houses", h.AdminListHouses)
			r.Put("/houses/{id}", h.EditHouse)
			r.Delete("/images/{id}", h.DeleteImage)
			r.Post("/styles", h.AddStyle)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(model.RoleAdmin))
			r.Post("/houses/{id}/approve", h.ApproveHouse)
			r.Post("/houses/{id}/reject", h.RejectHouse)
			r.Post("/houses/{id}/feature", h.FeatureHouse)
			r.Delete("/styles/{id}", h.DeleteStyle)
			r.Get("/stories", h.AdminListStories)
			r.Post("/stories/{id}/approve", h.ApproveStory)
			r.Get("/users", h.ListUsers)
			r.Post("/users/invite", h.InviteUser)
			r.Post("/users/{id}/role", h.SetUserRole)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(model.RoleSuperAdmin))
			r.Delete("/users/{id}", h.DeleteUser)
			r.Get("/events", h.AdminListEvents)
		})

		// Self-service settings need a session but no elevated role.
		r.Route("/settings", func(r chi.Router) {
			r.Put("/notifications", h.UpdateNotificationSettings)
			r.Put("/theme", h.UpdateTheme)
			r.Put("/password", h.ChangePassword)
		})
	})

	return r
}
