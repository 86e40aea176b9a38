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

	"github.com/PeterAppleyard/ps-directory/internal/middleware"
	"github.com/PeterAppleyard/ps-directory/internal/model"
	"github.com/PeterAppleyard/ps-directory/internal/store"
	"github.com/PeterAppleyard/ps-directory/internal/util"
)

// AdminListHouses serves the moderation queue. Pending listings come
// newest first; published ones sort by suburb then street. Defaults to
// pending when no status is given.
func (h *Handler) AdminListHouses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := r.URL.Query().Get("status")
	if status == "" {
		status = model.StatusPending
	}
	if !model.IsValidHouseStatus(status) {
		writeJSONError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	houses, err := h.queries.ListHousesByStatus(ctx, status)
	if err != nil {
		h.logger.Error("listing houses for moderation", "error", err, "status", status)
		writeJSONError(w, http.StatusInternalServerError, "Failed to load houses")
		return
	}

	views := make([]HouseView, 0, len(houses))
	for _, house := range houses {
		views = append(views, h.houseView(ctx, house, false))
	}

	// Queue totals for the moderation dashboard tabs.
	counts := make(map[string]int64, 3)
	for _, s := range []string{model.StatusPending, model.StatusPublished, model.StatusRejected} {
		count, err := h.queries.CountHousesByStatus(ctx, s)
		if err != nil {
			h.logger.Error("counting houses", "error", err, "status", s)
			writeJSONError(w, http.StatusInternalServerError, "Failed to load houses")
			return
		}
		counts[s] = count
	}

	writeJSON(w, http.StatusOK, map[string]any{"houses": views, "status": status, "counts": counts})
}

type moderationRequest struct {
	Notes string `json:"notes"`
}

// ApproveHouse publishes a pending house and emails the submitter.
func (h *Handler) ApproveHouse(w http.ResponseWriter, r *http.Request) {
	h.moderateHouse(w, r, model.StatusPublished)
}

// RejectHouse rejects a pending house and emails the submitter.
func (h *Handler) RejectHouse(w http.ResponseWriter, r *http.Request) {
	h.moderateHouse(w, r, model.StatusRejected)
}

func (h *Handler) moderateHouse(w http.ResponseWriter, r *http.Request, newStatus string) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	// Notes are optional; a missing body means no notes.
	var req moderationRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	notes := util.NullStringFromValue(strings.TrimSpace(req.Notes))

	err := h.queries.UpdateHouseStatus(ctx, store.UpdateHouseStatusParams{
		ID:                id,
		Status:            newStatus,
		VerificationNotes: notes,
		VerifiedBy:        util.NullStringFromValue(middleware.GetUserID(r)),
		UpdatedAt:         time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "House not found")
			return
		}
		h.logger.Error("updating house status", "error", err, "house_id", id, "status", newStatus)
		writeJSONError(w, http.StatusInternalServerError, "Failed to update submission")
		return
	}

	house, err := h.queries.GetHouseByID(ctx, id)
	if err != nil {
		h.logger.Error("reloading moderated house", "error", err, "house_id", id)
	} else {
		h.notifier.StatusUpdate(ctx, house, newStatus)
	}

	h.dir.Invalidate(ctx)
	writeJSONSuccess(w, map[string]any{"id": id, "status": newStatus})
}

// editHouseRequest carries every mutable listing field as raw strings,
// mirroring the moderation form. Blank or unparseable numerics become NULL.
type editHouseRequest struct {
	AddressStreet   string `json:"address_street"`
	AddressSuburb   string `json:"address_suburb"`
	AddressState    string `json:"address_state"`
	AddressPostcode string `json:"address_postcode"`
	Style           string `json:"style"`
	YearBuilt       string `json:"year_built"`
	BuilderName     string `json:"builder_name"`
	Condition       string `json:"condition"`
	Description     string `json:"description"`
	Latitude        string `json:"latitude"`
	Longitude       string `json:"longitude"`
	ListingURL      string `json:"listing_url"`
	SoldListingURL  string `json:"sold_listing_url"`
}

// EditHouse replaces all mutable fields of a listing.
func (h *Handler) EditHouse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req editHouseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	req.AddressStreet = strings.TrimSpace(req.AddressStreet)
	req.AddressSuburb = strings.TrimSpace(req.AddressSuburb)
	req.AddressState = strings.TrimSpace(req.AddressState)
	req.AddressPostcode = strings.TrimSpace(req.AddressPostcode)

	if req.AddressStreet == "" || req.AddressSuburb == "" ||
		req.AddressState == "" || req.AddressPostcode == "" {
		writeJSONError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	err := h.queries.UpdateHouse(ctx, store.UpdateHouseParams{
		ID:              id,
		AddressStreet:   req.AddressStreet,
		AddressSuburb:   req.AddressSuburb,
		AddressState:    req.AddressState,
		AddressPostcode: req.AddressPostcode,
		Style:           util.NullStringFromValue(req.Style),
		YearBuilt:       util.ParseNullInt64(req.YearBuilt),
		BuilderName:     util.NullStringFromValue(req.BuilderName),
		Condition:       util.NullStringFromValue(req.Condition),
		Description:     util.NullStringFromValue(req.Description),
		Latitude:        util.ParseNullFloat64(req.Latitude),
		Longitude:       util.ParseNullFloat64(req.Longitude),
		ListingURL:      util.NullStringFromValue(req.ListingURL),
		SoldListingURL:  util.NullStringFromValue(req.SoldListingURL),
		Slug:            util.HouseSlug(req.AddressStreet, req.AddressSuburb),
		UpdatedAt:       time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "House not found")
			return
		}
		h.logger.Error("editing house", "error", err, "house_id", id)
		writeJSONError(w, http.StatusInternalServerError, "Failed to edit submission")
		return
	}

	h.dir.Invalidate(ctx)
	writeJSONSuccess(w, map[string]any{"id": id})
}

// FeatureHouse marks one house as featured. Clearing the previous holder
// and setting the new one happen in a single transaction so two concurrent
// calls cannot leave two featured houses.
func (h *Handler) FeatureHouse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	house, err := h.queries.GetHouseByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "House not found")
			return
		}
		h.logger.Error("loading house to feature", "error", err, "house_id", id)
		writeJSONError(w, http.StatusInternalServerError, "Failed to feature house")
		return
	}
	if house.Status != model.StatusPublished {
		writeJSONError(w, http.StatusBadRequest, "Only published houses can be featured")
		return
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		h.logger.Error("starting feature transaction", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to feature house")
		return
	}
	defer tx.Rollback()

	qtx := h.queries.WithTx(tx)
	if err := qtx.ClearFeatured(ctx); err != nil {
		h.logger.Error("clearing featured flag", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to feature house")
		return
	}
	if err := qtx.SetFeatured(ctx, id); err != nil {
		h.logger.Error("setting featured flag", "error", err, "house_id", id)
		writeJSONError(w, http.StatusInternalServerError, "Failed to feature house")
		return
	}
	if err := tx.Commit(); err != nil {
		h.logger.Error("committing feature transaction", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to feature house")
		return
	}

	h.dir.Invalidate(ctx)
	writeJSONSuccess(w, map[string]any{"id": id})
}

// ApproveStory publishes a pending community story.
func (h *Handler) ApproveStory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := h.queries.ApproveStory(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "Pending story not found")
			return
		}
		h.logger.Error("approving story", "error", err, "story_id", id)
		writeJSONError(w, http.StatusInternalServerError, "Failed to approve story")
		return
	}

	writeJSONSuccess(w, map[string]any{"id": id})
}

// AdminListStories serves pending stories for moderation.
func (h *Handler) AdminListStories(w http.ResponseWriter, r *http.Request) {
	stories, err := h.queries.ListStoriesByStatus(r.Context(), model.StatusPending)
	if err != nil {
		h.logger.Error("listing pending stories", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to load stories")
		return
	}
	if stories == nil {
		stories = []store.PropertyStory{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"stories": stories})
}
