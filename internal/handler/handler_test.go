package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/PeterAppleyard/ps-directory/internal/auth"
	"github.com/PeterAppleyard/ps-directory/internal/cache"
	"github.com/PeterAppleyard/ps-directory/internal/mailer"
	"github.com/PeterAppleyard/ps-directory/internal/middleware"
	"github.com/PeterAppleyard/ps-directory/internal/model"
	"github.com/PeterAppleyard/ps-directory/internal/notify"
	"github.com/PeterAppleyard/ps-directory/internal/session"
	"github.com/PeterAppleyard/ps-directory/internal/storage"
	"github.com/PeterAppleyard/ps-directory/internal/store"
)

// testHandler builds a Handler on a temp database with a memory cache,
// disk storage under a temp dir, and email delivery disabled.
func testHandler(t *testing.T) (*Handler, *store.Queries) {
	t.Helper()
	return testHandlerWithSender(t, mailer.DisabledSender{})
}

// testHandlerWithSender is testHandler with a caller-supplied mail sender.
func testHandlerWithSender(t *testing.T, sender mailer.Sender) (*Handler, *store.Queries) {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "handler-test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	objects, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}

	queries := store.New(db)
	mem := cache.NewMemoryCache(time.Minute)
	t.Cleanup(func() { mem.Close() })

	h := New(Config{
		DB:       db,
		Sessions: session.New(db, true),
		Cache:    cache.NewDirectory(mem, time.Minute),
		Notifier: notify.New(queries, sender, "https://example.com", nil),
		Objects:  objects,
		SiteURL:  "https://example.com",
	})
	return h, queries
}

// jsonRequest builds a request with a JSON body.
func jsonRequest(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// withURLParam injects a chi URL parameter for direct handler calls.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// asUser attaches an authenticated caller to the request context.
func asUser(r *http.Request, user store.User, role string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.ContextKeyUser, user)
	ctx = context.WithValue(ctx, middleware.ContextKeyProfile, store.Profile{
		UserID:                user.ID,
		Role:                  role,
		NotificationFrequency: model.FrequencyInstant,
		Theme:                 model.ThemeSystem,
	})
	return r.WithContext(ctx)
}

// createUser inserts a user with the given role and password.
func createUser(t *testing.T, q *store.Queries, email, password, role string) store.User {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	hash, err := auth.HashArgon2(password)
	if err != nil {
		t.Fatalf("HashArgon2: %v", err)
	}
	user, err := q.CreateUser(ctx, store.CreateUserParams{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := q.CreateProfile(ctx, store.CreateProfileParams{
		UserID:    user.ID,
		Role:      role,
		CreatedAt: now,
	}); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	return user
}

// createHouse inserts a house in the given status.
func createHouse(t *testing.T, q *store.Queries, street, suburb, status string) store.House {
	t.Helper()
	house, err := q.CreateHouse(context.Background(), store.CreateHouseParams{
		ID:              uuid.New().String(),
		AddressStreet:   street,
		AddressSuburb:   suburb,
		AddressState:    "NSW",
		AddressPostcode: "2077",
		Status:          model.StatusPending,
		Slug:            "test-" + uuid.New().String()[:8],
		CreatedAt:       time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateHouse: %v", err)
	}
	if status != model.StatusPending {
		err = q.UpdateHouseStatus(context.Background(), store.UpdateHouseStatusParams{
			ID:        house.ID,
			Status:    status,
			UpdatedAt: time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("UpdateHouseStatus: %v", err)
		}
		house, err = q.GetHouseByID(context.Background(), house.ID)
		if err != nil {
			t.Fatalf("GetHouseByID: %v", err)
		}
	}
	return house
}

func setCoordinates(t *testing.T, q *store.Queries, house store.House, lat, lng float64) {
	t.Helper()
	err := q.UpdateHouse(context.Background(), store.UpdateHouseParams{
		ID:              house.ID,
		AddressStreet:   house.AddressStreet,
		AddressSuburb:   house.AddressSuburb,
		AddressState:    house.AddressState,
		AddressPostcode: house.AddressPostcode,
		Latitude:        sql.NullFloat64{Float64: lat, Valid: true},
		Longitude:       sql.NullFloat64{Float64: lng, Valid: true},
		Slug:            house.Slug,
		UpdatedAt:       time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("UpdateHouse: %v", err)
	}
}
