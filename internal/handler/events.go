// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strconv"
	"time"
)

// defaultEventLimit bounds the diagnostics listing when no limit is given.
const defaultEventLimit = 100

// maxEventLimit caps the diagnostics listing.
const maxEventLimit = 500

// EventView is one persisted log record as served to admins.
type EventView struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Source    *string   `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// AdminListEvents serves the newest persisted log records for diagnostics.
func (h *Handler) AdminListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := int64(defaultEventLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 {
			writeJSONError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = min(parsed, maxEventLimit)
	}

	events, err := h.queries.ListRecentEvents(ctx, limit)
	if err != nil {
		h.logger.Error("listing events", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to load events")
		return
	}

	views := make([]EventView, 0, len(events))
	for _, e := range events {
		view := EventView{
			ID:        e.ID,
			Level:     e.Level,
			Message:   e.Message,
			CreatedAt: e.CreatedAt,
		}
		if e.Source.Valid {
			view.Source = &e.Source.String
		}
		views = append(views, view)
	}

	writeJSON(w, http.StatusOK, map[string]any{"events": views})
}
