package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PeterAppleyard/ps-directory/internal/model"
	"github.com/PeterAppleyard/ps-directory/internal/store"
)

func TestListHousesOnlyPublished(t *testing.T) {
	h, q := testHandler(t)
	createHouse(t, q, "1 Hidden St", "Ryde", model.StatusPending)
	createHouse(t, q, "2 Open Ave", "Ryde", model.StatusPublished)

	rec := httptest.NewRecorder()
	h.ListHouses(rec, httptest.NewRequest(http.MethodGet, "/api/houses", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Houses []HouseView `json:"houses"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Houses) != 1 || resp.Houses[0].AddressStreet != "2 Open Ave" {
		t.Errorf("houses = %+v, want only the published one", resp.Houses)
	}
}

func TestGetHouseHidesUnpublished(t *testing.T) {
	h, q := testHandler(t)
	pending := createHouse(t, q, "1 Hidden St", "Ryde", model.StatusPending)

	rec := httptest.NewRecorder()
	r := withURLParam(httptest.NewRequest(http.MethodGet, "/api/houses/"+pending.ID, nil), "id", pending.ID)
	h.GetHouse(rec, r)

	if rec.Code != http.StatusNotFound {
		t.Errorf("pending house status = %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	r = withURLParam(httptest.NewRequest(http.MethodGet, "/api/houses/nope", nil), "id", "nope")
	h.GetHouse(rec, r)
	if rec.Code != http.StatusNotFound {
		t.Errorf("absent house status = %d, want 404", rec.Code)
	}
}

func TestGetHouseIncludesApprovedStories(t *testing.T) {
	h, q := testHandler(t)
	house := createHouse(t, q, "2 Open Ave", "Ryde", model.StatusPublished)

	// One pending, one approved.
	submitStory(t, h, house.ID, "Jan", "We **loved** this place.")
	approvedID := submitStory(t, h, house.ID, "Pat", "Built by my grandfather.")
	approveStoryDirect(t, q, approvedID)

	rec := httptest.NewRecorder()
	r := withURLParam(httptest.NewRequest(http.MethodGet, "/api/houses/"+house.ID, nil), "id", house.ID)
	h.GetHouse(rec, r)

	var resp struct {
		Stories []StoryView `json:"stories"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Stories) != 1 {
		t.Fatalf("stories = %d, want 1 (approved only)", len(resp.Stories))
	}
	if resp.Stories[0].AuthorName != "Pat" {
		t.Errorf("story author = %q", resp.Stories[0].AuthorName)
	}
	if resp.Stories[0].StoryHTML == "" {
		t.Error("approved story should carry rendered HTML")
	}
}

func TestMapDataStripsStreetNumbers(t *testing.T) {
	h, q := testHandler(t)
	house := createHouse(t, q, "37 Gould Ave", "Hornsby Heights", model.StatusPublished)
	setCoordinates(t, q, house, -33.68, 151.09)
	// Published without coordinates stays off the map.
	createHouse(t, q, "2 Open Ave", "Ryde", model.StatusPublished)

	rec := httptest.NewRecorder()
	h.MapData(rec, httptest.NewRequest(http.MethodGet, "/api/map", nil))

	var resp struct {
		Points []MapPoint `json:"points"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Points) != 1 {
		t.Fatalf("points = %d, want 1", len(resp.Points))
	}
	if resp.Points[0].Label != "Gould Ave, Hornsby Heights" {
		t.Errorf("label = %q, want street number stripped", resp.Points[0].Label)
	}
}

func TestFeaturedNoneSet(t *testing.T) {
	h, q := testHandler(t)
	createHouse(t, q, "2 Open Ave", "Ryde", model.StatusPublished)

	rec := httptest.NewRecorder()
	h.Featured(rec, httptest.NewRequest(http.MethodGet, "/api/featured", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["house"] != nil {
		t.Errorf("house = %v, want null", resp["house"])
	}
}

func TestListHousesServedFromCacheAfterFirstRead(t *testing.T) {
	h, q := testHandler(t)
	createHouse(t, q, "2 Open Ave", "Ryde", model.StatusPublished)

	rec := httptest.NewRecorder()
	h.ListHouses(rec, httptest.NewRequest(http.MethodGet, "/api/houses", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("first read status = %d", rec.Code)
	}

	// A second house appears only after invalidation.
	createHouse(t, q, "3 New St", "Ryde", model.StatusPublished)

	rec = httptest.NewRecorder()
	h.ListHouses(rec, httptest.NewRequest(http.MethodGet, "/api/houses", nil))
	var resp struct {
		Houses []HouseView `json:"houses"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Houses) != 1 {
		t.Fatalf("cached read = %d houses, want 1", len(resp.Houses))
	}

	h.dir.Invalidate(context.Background())

	rec = httptest.NewRecorder()
	h.ListHouses(rec, httptest.NewRequest(http.MethodGet, "/api/houses", nil))
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Houses) != 2 {
		t.Errorf("post-invalidation read = %d houses, want 2", len(resp.Houses))
	}
}

func TestListStylesIncludesConditions(t *testing.T) {
	h, q := testHandler(t)
	if _, err := q.CreateStyle(context.Background(), store.CreateStyleParams{Name: "Split Level", SortOrder: 1}); err != nil {
		t.Fatalf("CreateStyle: %v", err)
	}

	var resp struct {
		Styles     []store.HouseStyle `json:"styles"`
		Conditions []string           `json:"conditions"`
	}

	// Both the fresh and the cached response carry the condition list.
	for _, pass := range []string{"fresh", "cached"} {
		rec := httptest.NewRecorder()
		h.ListStyles(rec, httptest.NewRequest(http.MethodGet, "/api/styles", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", pass, rec.Code)
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: unmarshal: %v", pass, err)
		}
		if len(resp.Styles) != 1 || resp.Styles[0].Name != "Split Level" {
			t.Errorf("%s: styles = %+v", pass, resp.Styles)
		}
		if len(resp.Conditions) != len(model.HouseConditions) {
			t.Errorf("%s: conditions = %v, want %v", pass, resp.Conditions, model.HouseConditions)
		}
	}
}
