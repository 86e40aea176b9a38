// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PeterAppleyard/ps-directory/internal/cache"
	"github.com/PeterAppleyard/ps-directory/internal/model"
	"github.com/PeterAppleyard/ps-directory/internal/storage"
	"github.com/PeterAppleyard/ps-directory/internal/store"
	"github.com/PeterAppleyard/ps-directory/internal/util"
)

// HouseView is a published listing as served to the public.
type HouseView struct {
	ID              string      `json:"id"`
	Slug            string      `json:"slug"`
	AddressStreet   string      `json:"address_street"`
	AddressSuburb   string      `json:"address_suburb"`
	AddressState    string      `json:"address_state"`
	AddressPostcode string      `json:"address_postcode"`
	Latitude        *float64    `json:"latitude"`
	Longitude       *float64    `json:"longitude"`
	Style           *string     `json:"style"`
	YearBuilt       *int64      `json:"year_built"`
	BuilderName     *string     `json:"builder_name"`
	Condition       *string     `json:"condition"`
	Description     *string     `json:"description"`
	DescriptionHTML string      `json:"description_html,omitempty"`
	ListingURL      *string     `json:"listing_url"`
	SoldListingURL  *string     `json:"sold_listing_url"`
	IsFeatured      bool        `json:"is_featured"`
	Images          []ImageView `json:"images"`
}

// ImageView is an image record with its public URL.
type ImageView struct {
	ID        string  `json:"id"`
	URL       string  `json:"url"`
	Caption   *string `json:"caption"`
	IsPrimary bool    `json:"is_primary"`
	SortOrder int64   `json:"sort_order"`
}

// StoryView is an approved community story with rendered narrative.
type StoryView struct {
	ID              string  `json:"id"`
	AuthorName      string  `json:"author_name"`
	Story           string  `json:"story"`
	StoryHTML       string  `json:"story_html"`
	PeriodOrContext *string `json:"period_or_context"`
}

// MapPoint is a published house reduced to what the map needs. The label
// drops the street number so exact addresses stay off the public map.
type MapPoint struct {
	ID        string  `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Label     string  `json:"label"`
	Style     *string `json:"style"`
}

func (h *Handler) houseView(ctx context.Context, house store.House, withDescriptionHTML bool) HouseView {
	v := HouseView{
		ID:              house.ID,
		Slug:            house.Slug,
		AddressStreet:   house.AddressStreet,
		AddressSuburb:   house.AddressSuburb,
		AddressState:    house.AddressState,
		AddressPostcode: house.AddressPostcode,
		Latitude:        util.Float64PtrFromNull(house.Latitude),
		Longitude:       util.Float64PtrFromNull(house.Longitude),
		Style:           util.StringPtrFromNull(house.Style),
		YearBuilt:       util.Int64PtrFromNull(house.YearBuilt),
		BuilderName:     util.StringPtrFromNull(house.BuilderName),
		Condition:       util.StringPtrFromNull(house.Condition),
		Description:     util.StringPtrFromNull(house.Description),
		ListingURL:      util.StringPtrFromNull(house.ListingURL),
		SoldListingURL:  util.StringPtrFromNull(house.SoldListingURL),
		IsFeatured:      house.IsFeatured,
		Images:          []ImageView{},
	}

	if withDescriptionHTML && house.Description.Valid {
		v.DescriptionHTML = renderNarrative(house.Description.String)
	}

	images, err := h.queries.ListImagesByHouse(ctx, house.ID)
	if err != nil {
		h.logger.Error("listing house images", "error", err, "house_id", house.ID)
		return v
	}
	for _, img := range images {
		v.Images = append(v.Images, ImageView{
			ID:        img.ID,
			URL:       storage.PublicURL(img.StoragePath),
			Caption:   util.StringPtrFromNull(img.Caption),
			IsPrimary: img.IsPrimary,
			SortOrder: img.SortOrder,
		})
	}
	return v
}

// ListHouses serves the published directory, ordered by suburb then street.
func (h *Handler) ListHouses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var views []HouseView
	if h.dir.GetJSON(ctx, cache.KeyPublishedHouses, &views) {
		writeJSON(w, http.StatusOK, map[string]any{"houses": views})
		return
	}

	houses, err := h.queries.ListHousesByStatus(ctx, model.StatusPublished)
	if err != nil {
		h.logger.Error("listing published houses", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to load houses")
		return
	}

	views = make([]HouseView, 0, len(houses))
	for _, house := range houses {
		views = append(views, h.houseView(ctx, house, false))
	}

	h.dir.SetJSON(ctx, cache.KeyPublishedHouses, views)
	writeJSON(w, http.StatusOK, map[string]any{"houses": views})
}

// GetHouse serves one published house with its approved stories rendered.
func (h *Handler) GetHouse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	house, err := h.queries.GetHouseByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "House not found")
			return
		}
		h.logger.Error("loading house", "error", err, "house_id", id)
		writeJSONError(w, http.StatusInternalServerError, "Failed to load house")
		return
	}
	if house.Status != model.StatusPublished {
		// Unpublished listings are indistinguishable from absent ones.
		writeJSONError(w, http.StatusNotFound, "House not found")
		return
	}

	stories, err := h.queries.ListStoriesByHouseAndStatus(ctx, house.ID, model.StoryStatusApproved)
	if err != nil {
		h.logger.Error("listing house stories", "error", err, "house_id", id)
		writeJSONError(w, http.StatusInternalServerError, "Failed to load house")
		return
	}

	storyViews := make([]StoryView, 0, len(stories))
	for _, s := range stories {
		storyViews = append(storyViews, StoryView{
			ID:              s.ID,
			AuthorName:      s.AuthorName,
			Story:           s.Story,
			StoryHTML:       renderNarrative(s.Story),
			PeriodOrContext: util.StringPtrFromNull(s.PeriodOrContext),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"house":   h.houseView(ctx, house, true),
		"stories": storyViews,
	})
}

// MapData serves published houses that have coordinates.
func (h *Handler) MapData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var points []MapPoint
	if h.dir.GetJSON(ctx, cache.KeyMapData, &points) {
		writeJSON(w, http.StatusOK, map[string]any{"points": points})
		return
	}

	houses, err := h.queries.ListPublishedWithCoordinates(ctx)
	if err != nil {
		h.logger.Error("listing map houses", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to load map data")
		return
	}

	points = make([]MapPoint, 0, len(houses))
	for _, house := range houses {
		points = append(points, MapPoint{
			ID:        house.ID,
			Latitude:  house.Latitude.Float64,
			Longitude: house.Longitude.Float64,
			Label:     util.StripStreetNumber(house.AddressStreet) + ", " + house.AddressSuburb,
			Style:     util.StringPtrFromNull(house.Style),
		})
	}

	h.dir.SetJSON(ctx, cache.KeyMapData, points)
	writeJSON(w, http.StatusOK, map[string]any{"points": points})
}

// ListStyles serves the style taxonomy in sort order.
func (h *Handler) ListStyles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var styles []store.HouseStyle
	if h.dir.GetJSON(ctx, cache.KeyStyles, &styles) {
		writeJSON(w, http.StatusOK, map[string]any{
			"styles":     styles,
			"conditions": model.HouseConditions,
		})
		return
	}

	styles, err := h.queries.ListStyles(ctx)
	if err != nil {
		h.logger.Error("listing styles", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to load styles")
		return
	}
	if styles == nil {
		styles = []store.HouseStyle{}
	}

	h.dir.SetJSON(ctx, cache.KeyStyles, styles)
	writeJSON(w, http.StatusOK, map[string]any{
		"styles":     styles,
		"conditions": model.HouseConditions,
	})
}

// Featured serves the featured house, or null when none is set.
func (h *Handler) Featured(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var cached map[string]any
	if h.dir.GetJSON(ctx, cache.KeyFeatured, &cached) {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	house, err := h.queries.GetFeaturedHouse(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusOK, map[string]any{"house": nil})
			return
		}
		h.logger.Error("loading featured house", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to load featured house")
		return
	}

	view := h.houseView(ctx, house, true)
	h.dir.SetJSON(ctx, cache.KeyFeatured, map[string]any{"house": view})
	writeJSON(w, http.StatusOK, map[string]any{"house": view})
}
