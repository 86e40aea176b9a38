package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PeterAppleyard/ps-directory/internal/model"
	"github.com/PeterAppleyard/ps-directory/internal/store"
	"github.com/PeterAppleyard/ps-directory/internal/util"
)

func TestAddStyle(t *testing.T) {
	h, q := testHandler(t)
	su := createUser(t, q, "mod@example.com", "correct-horse-battery", model.RoleSuperuser)

	add := func(name string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.AddStyle(rec, asUser(jsonRequest(http.MethodPost, "/x", `{"name":"`+name+`"}`), su, model.RoleSuperuser))
		return rec
	}

	if rec := add("Split Level"); rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if rec := add("Lowline"); rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}

	// Duplicate is refused; different case is a different style.
	if rec := add("Split Level"); rec.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", rec.Code)
	}
	if rec := add("split level"); rec.Code != http.StatusCreated {
		t.Errorf("case-variant status = %d, want 201 (names are case-sensitive)", rec.Code)
	}

	styles, _ := q.ListStyles(context.Background())
	if len(styles) != 3 {
		t.Fatalf("styles = %d, want 3", len(styles))
	}
	// New entries append to the sort order.
	for i := 1; i < len(styles); i++ {
		if styles[i].SortOrder <= styles[i-1].SortOrder {
			t.Errorf("sort order not increasing: %+v", styles)
		}
	}
}

func TestAddStyleBlankName(t *testing.T) {
	h, q := testHandler(t)
	su := createUser(t, q, "mod@example.com", "correct-horse-battery", model.RoleSuperuser)

	rec := httptest.NewRecorder()
	h.AddStyle(rec, asUser(jsonRequest(http.MethodPost, "/x", `{"name":"  "}`), su, model.RoleSuperuser))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDeleteStyleInUse(t *testing.T) {
	h, q := testHandler(t)
	admin := createUser(t, q, "admin@example.com", "correct-horse-battery", model.RoleAdmin)

	ctx := context.Background()
	style, err := q.CreateStyle(ctx, store.CreateStyleParams{Name: "Split Level", SortOrder: 1})
	if err != nil {
		t.Fatalf("CreateStyle: %v", err)
	}

	// Two houses reference the style.
	for i := 0; i < 2; i++ {
		house := createHouse(t, q, fmt.Sprintf("%d X St", i+1), "Ryde", model.StatusPublished)
		err := q.UpdateHouse(ctx, store.UpdateHouseParams{
			ID:              house.ID,
			AddressStreet:   house.AddressStreet,
			AddressSuburb:   house.AddressSuburb,
			AddressState:    house.AddressState,
			AddressPostcode: house.AddressPostcode,
			Style:           util.NullStringFromValue("Split Level"),
			Slug:            house.Slug,
			UpdatedAt:       house.UpdatedAt,
		})
		if err != nil {
			t.Fatalf("UpdateHouse: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	r := withURLParam(httptest.NewRequest(http.MethodDelete, "/x", nil), "id", fmt.Sprint(style.ID))
	h.DeleteStyle(rec, asUser(r, admin, model.RoleAdmin))

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	var resp struct {
		Error string `json:"error"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Error != "Cannot delete: 2 house(s) still use this style" {
		t.Errorf("error = %q, want the usage count", resp.Error)
	}
}

func TestDeleteStyleUnused(t *testing.T) {
	h, q := testHandler(t)
	admin := createUser(t, q, "admin@example.com", "correct-horse-battery", model.RoleAdmin)

	style, _ := q.CreateStyle(context.Background(), store.CreateStyleParams{Name: "Lowline", SortOrder: 1})

	rec := httptest.NewRecorder()
	r := withURLParam(httptest.NewRequest(http.MethodDelete, "/x", nil), "id", fmt.Sprint(style.ID))
	h.DeleteStyle(rec, asUser(r, admin, model.RoleAdmin))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	// Second delete finds nothing.
	rec = httptest.NewRecorder()
	r = withURLParam(httptest.NewRequest(http.MethodDelete, "/x", nil), "id", fmt.Sprint(style.ID))
	h.DeleteStyle(rec, asUser(r, admin, model.RoleAdmin))
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}
