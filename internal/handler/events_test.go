package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/PeterAppleyard/ps-directory/internal/model"
	"github.com/PeterAppleyard/ps-directory/internal/store"
	"github.com/PeterAppleyard/ps-directory/internal/util"
)

func TestAdminListEvents(t *testing.T) {
	h, q := testHandler(t)
	root := createUser(t, q, "root@example.com", "correct-horse-battery", model.RoleSuperAdmin)

	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)
	for i, msg := range []string{"disk almost full", "smtp gateway down"} {
		err := q.CreateEvent(ctx, store.CreateEventParams{
			Level:     "WARN",
			Message:   msg,
			Source:    util.NullStringFromValue("notify"),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	h.AdminListEvents(rec, asUser(httptest.NewRequest(http.MethodGet, "/admin/events", nil), root, model.RoleSuperAdmin))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Events []EventView `json:"events"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Events) != 2 {
		t.Fatalf("events = %d, want 2", len(resp.Events))
	}
	if resp.Events[0].Message != "smtp gateway down" {
		t.Errorf("first event = %q, want newest first", resp.Events[0].Message)
	}
	if resp.Events[0].Source == nil || *resp.Events[0].Source != "notify" {
		t.Errorf("source = %v", resp.Events[0].Source)
	}
}

func TestAdminListEventsLimit(t *testing.T) {
	h, q := testHandler(t)
	root := createUser(t, q, "root@example.com", "correct-horse-battery", model.RoleSuperAdmin)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		err := q.CreateEvent(ctx, store.CreateEventParams{
			Level:     "ERROR",
			Message:   "boom",
			CreatedAt: time.Now().UTC().Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	h.AdminListEvents(rec, asUser(httptest.NewRequest(http.MethodGet, "/admin/events?limit=2", nil), root, model.RoleSuperAdmin))

	var resp struct {
		Events []EventView `json:"events"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Events) != 2 {
		t.Errorf("events = %d, want limit honored", len(resp.Events))
	}

	rec = httptest.NewRecorder()
	h.AdminListEvents(rec, asUser(httptest.NewRequest(http.MethodGet, "/admin/events?limit=zero", nil), root, model.RoleSuperAdmin))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", rec.Code)
	}
}
