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

	"github.com/PeterAppleyard/ps-directory/internal/middleware"
	"github.com/PeterAppleyard/ps-directory/internal/model"
	"github.com/PeterAppleyard/ps-directory/internal/store"
	"github.com/PeterAppleyard/ps-directory/internal/util"
)

// submitHouseRequest is the public submission payload. Optional text fields
// collapse to NULL when blank; numeric fields are nullable.
type submitHouseRequest struct {
	AddressStreet   string   `json:"address_street"`
	AddressSuburb   string   `json:"address_suburb"`
	AddressState    string   `json:"address_state"`
	AddressPostcode string   `json:"address_postcode"`
	Style           string   `json:"style"`
	YearBuilt       *int64   `json:"year_built"`
	BuilderName     string   `json:"builder_name"`
	Condition       string   `json:"condition"`
	Description     string   `json:"description"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	ListingURL      string   `json:"listing_url"`
	SoldListingURL  string   `json:"sold_listing_url"`
	SubmitterEmail  string   `json:"submitter_email"`
}

// SubmitHouse accepts a public house submission. The house always enters
// the queue as pending regardless of the payload.
func (h *Handler) SubmitHouse(w http.ResponseWriter, r *http.Request) {
	var req submitHouseRequest
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

	var lat, lng sql.NullFloat64
	if req.Latitude != nil {
		lat = sql.NullFloat64{Float64: *req.Latitude, Valid: true}
	}
	if req.Longitude != nil {
		lng = sql.NullFloat64{Float64: *req.Longitude, Valid: true}
	}
	var yearBuilt sql.NullInt64
	if req.YearBuilt != nil {
		yearBuilt = sql.NullInt64{Int64: *req.YearBuilt, Valid: true}
	}

	house, err := h.queries.CreateHouse(r.Context(), store.CreateHouseParams{
		ID:              uuid.New().String(),
		AddressStreet:   req.AddressStreet,
		AddressSuburb:   req.AddressSuburb,
		AddressState:    req.AddressState,
		AddressPostcode: req.AddressPostcode,
		Latitude:        lat,
		Longitude:       lng,
		Style:           util.NullStringFromValue(req.Style),
		YearBuilt:       yearBuilt,
		BuilderName:     util.NullStringFromValue(req.BuilderName),
		Condition:       util.NullStringFromValue(req.Condition),
		Description:     util.NullStringFromValue(req.Description),
		Status:          model.StatusPending,
		ContributorID:   util.NullStringFromValue(middleware.GetUserID(r)),
		ListingURL:      util.NullStringFromValue(req.ListingURL),
		SoldListingURL:  util.NullStringFromValue(req.SoldListingURL),
		SubmitterEmail:  util.NullStringFromValue(req.SubmitterEmail),
		Slug:            util.HouseSlug(req.AddressStreet, req.AddressSuburb),
		CreatedAt:       time.Now().UTC(),
	})
	if err != nil {
		h.logger.Error("creating house submission", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Insert failed")
		return
	}

	h.notifier.NewSubmission(r.Context(), house)

	writeJSON(w, http.StatusCreated, map[string]any{"id": house.ID})
}

// submitStoryRequest is the public community story payload.
type submitStoryRequest struct {
	AuthorName      string `json:"author_name"`
	Story           string `json:"story"`
	PeriodOrContext string `json:"period_or_context"`
}

// SubmitStory accepts a community story for a published house. Stories
// enter as pending and only appear publicly once approved.
func (h *Handler) SubmitStory(w http.ResponseWriter, r *http.Request) {
	houseID := chi.URLParam(r, "id")

	house, err := h.queries.GetHouseByID(r.Context(), houseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "House not found")
			return
		}
		h.logger.Error("loading house for story", "error", err, "house_id", houseID)
		writeJSONError(w, http.StatusInternalServerError, "Failed to submit story")
		return
	}
	if house.Status != model.StatusPublished {
		writeJSONError(w, http.StatusNotFound, "House not found")
		return
	}

	var req submitStoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	req.AuthorName = strings.TrimSpace(req.AuthorName)
	req.Story = strings.TrimSpace(req.Story)
	if req.AuthorName == "" || req.Story == "" {
		writeJSONError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	story, err := h.queries.CreateStory(r.Context(), store.CreateStoryParams{
		ID:              uuid.New().String(),
		HouseID:         house.ID,
		AuthorName:      req.AuthorName,
		Story:           req.Story,
		PeriodOrContext: util.NullStringFromValue(req.PeriodOrContext),
		Status:          model.StatusPending,
		CreatedAt:       time.Now().UTC(),
	})
	if err != nil {
		h.logger.Error("creating story", "error", err, "house_id", houseID)
		writeJSONError(w, http.StatusInternalServerError, "Insert failed")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"id": story.ID})
}
