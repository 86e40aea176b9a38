// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/PeterAppleyard/ps-directory/internal/store"
)

type addStyleRequest struct {
	Name string `json:"name"`
}

// AddStyle appends a style to the taxonomy. Names are case-sensitive
// unique; new entries go to the end of the sort order.
func (h *Handler) AddStyle(w http.ResponseWriter, r *http.Request) {
	var req addStyleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeJSONError(w, http.StatusBadRequest, "Style name is required")
		return
	}

	ctx := r.Context()
	count, err := h.queries.CountStylesByName(ctx, name)
	if err != nil {
		h.logger.Error("checking style uniqueness", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to add style")
		return
	}
	if count > 0 {
		writeJSONError(w, http.StatusConflict, "That style already exists")
		return
	}

	maxOrder, err := h.queries.MaxStyleSortOrder(ctx)
	if err != nil {
		h.logger.Error("resolving style sort order", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to add style")
		return
	}

	style, err := h.queries.CreateStyle(ctx, store.CreateStyleParams{
		Name:      name,
		SortOrder: maxOrder + 1,
	})
	if err != nil {
		h.logger.Error("creating style", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to add style")
		return
	}

	h.dir.Invalidate(ctx)
	writeJSON(w, http.StatusCreated, map[string]any{"style": style})
}

// DeleteStyle removes a taxonomy entry. Styles still referenced by any
// house are refused with the usage count so the moderator knows what to
// reassign first.
func (h *Handler) DeleteStyle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid style ID")
		return
	}

	style, err := h.queries.GetStyleByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "Style not found")
			return
		}
		h.logger.Error("loading style", "error", err, "style_id", id)
		writeJSONError(w, http.StatusInternalServerError, "Failed to delete style")
		return
	}

	inUse, err := h.queries.CountHousesByStyle(ctx, style.Name)
	if err != nil {
		h.logger.Error("counting style usage", "error", err, "style", style.Name)
		writeJSONError(w, http.StatusInternalServerError, "Failed to delete style")
		return
	}
	if inUse > 0 {
		writeJSONError(w, http.StatusConflict,
			fmt.Sprintf("Cannot delete: %d house(s) still use this style", inUse))
		return
	}

	if err := h.queries.DeleteStyle(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "Style not found")
			return
		}
		h.logger.Error("deleting style", "error", err, "style_id", id)
		writeJSONError(w, http.StatusInternalServerError, "Failed to delete style")
		return
	}

	h.dir.Invalidate(ctx)
	writeJSONSuccess(w, nil)
}
