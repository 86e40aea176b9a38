package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"

	"github.com/PeterAppleyard/ps-directory/internal/auth"
	"github.com/PeterAppleyard/ps-directory/internal/middleware"
	"github.com/PeterAppleyard/ps-directory/internal/model"
	"github.com/PeterAppleyard/ps-directory/internal/store"
)

// withSession wraps a handler func in the session middleware so scs has a
// request context to work with.
func withSession(h *Handler, fn http.HandlerFunc) http.Handler {
	return h.sessions.LoadAndSave(fn)
}

func TestLoginSuccess(t *testing.T) {
	h, q := testHandler(t)
	createUser(t, q, "mod@example.com", "correct-horse-battery", model.RoleAdmin)

	rec := httptest.NewRecorder()
	body := `{"email":"MOD@example.com","password":"correct-horse-battery"}`
	withSession(h, h.Login).ServeHTTP(rec, jsonRequest(http.MethodPost, "/auth/login", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success bool `json:"success"`
		User    struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Success || resp.User.Role != model.RoleAdmin {
		t.Errorf("response = %s", rec.Body.String())
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("login should set a session cookie")
	}
}

func TestLoginFailureIsGeneric(t *testing.T) {
	h, q := testHandler(t)
	createUser(t, q, "mod@example.com", "correct-horse-battery", model.RoleAdmin)

	cases := []string{
		`{"email":"mod@example.com","password":"wrong"}`,
		`{"email":"nobody@example.com","password":"whatever"}`,
	}
	var bodies []string
	for _, body := range cases {
		rec := httptest.NewRecorder()
		withSession(h, h.Login).ServeHTTP(rec, jsonRequest(http.MethodPost, "/auth/login", body))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
		bodies = append(bodies, rec.Body.String())
	}
	if bodies[0] != bodies[1] {
		t.Errorf("wrong-password and unknown-email responses differ: %s vs %s", bodies[0], bodies[1])
	}
}

func TestForgotPasswordAlwaysSucceeds(t *testing.T) {
	h, q := testHandler(t)
	createUser(t, q, "mod@example.com", "correct-horse-battery", model.RoleAdmin)

	var bodies []string
	for _, email := range []string{"mod@example.com", "stranger@example.com"} {
		rec := httptest.NewRecorder()
		h.ForgotPassword(rec, jsonRequest(http.MethodPost, "/auth/forgot-password", `{"email":"`+email+`"}`))
		if rec.Code != http.StatusOK {
			t.Errorf("email %s: status = %d, want 200", email, rec.Code)
		}
		bodies = append(bodies, rec.Body.String())
	}
	if bodies[0] != bodies[1] {
		t.Errorf("known and unknown addresses must be indistinguishable: %s vs %s", bodies[0], bodies[1])
	}
}

func TestResetPasswordFlow(t *testing.T) {
	h, q := testHandler(t)
	user := createUser(t, q, "mod@example.com", "old-password-here", model.RoleAdmin)

	token, tokenHash, err := auth.NewToken()
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}
	now := time.Now().UTC()
	if err := q.CreatePasswordReset(context.Background(), store.CreatePasswordResetParams{
		TokenHash: tokenHash,
		UserID:    user.ID,
		Purpose:   auth.TokenPurposeReset,
		ExpiresAt: now.Add(auth.ResetTokenTTL),
		CreatedAt: now,
	}); err != nil {
		t.Fatalf("CreatePasswordReset: %v", err)
	}

	rec := httptest.NewRecorder()
	body := `{"token":"` + token + `","password":"brand-new-password"}`
	h.ResetPassword(rec, jsonRequest(http.MethodPost, "/auth/reset-password", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// New password verifies; token is consumed.
	updated, _ := q.GetUserByID(context.Background(), user.ID)
	if ok, _ := auth.VerifyArgon2("brand-new-password", updated.PasswordHash); !ok {
		t.Error("new password should verify")
	}
	rec = httptest.NewRecorder()
	h.ResetPassword(rec, jsonRequest(http.MethodPost, "/auth/reset-password", body))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("reused token status = %d, want 400", rec.Code)
	}
}

func TestResetPasswordExpiredToken(t *testing.T) {
	h, q := testHandler(t)
	user := createUser(t, q, "mod@example.com", "old-password-here", model.RoleAdmin)

	token, tokenHash, _ := auth.NewToken()
	now := time.Now().UTC()
	q.CreatePasswordReset(context.Background(), store.CreatePasswordResetParams{
		TokenHash: tokenHash,
		UserID:    user.ID,
		Purpose:   auth.TokenPurposeReset,
		ExpiresAt: now.Add(-time.Minute),
		CreatedAt: now.Add(-3 * time.Hour),
	})

	rec := httptest.NewRecorder()
	body := `{"token":"` + token + `","password":"brand-new-password"}`
	h.ResetPassword(rec, jsonRequest(http.MethodPost, "/auth/reset-password", body))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expired token status = %d, want 400", rec.Code)
	}
}

func TestResetPasswordTooShort(t *testing.T) {
	h, _ := testHandler(t)
	rec := httptest.NewRecorder()
	h.ResetPassword(rec, jsonRequest(http.MethodPost, "/auth/reset-password", `{"token":"t","password":"short"}`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// legacyHash builds a verifiable argon2id hash with outdated parameters.
func legacyHash(t *testing.T, password string) string {
	t.Helper()

	salt := []byte("0123456789abcdef")
	const (
		memory  = 4096
		timeC   = 1
		threads = 1
	)
	hash := argon2.IDKey([]byte(password), salt, timeC, memory, threads, 32)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, memory, timeC, threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash))
}

func TestLoginUpgradesLegacyHash(t *testing.T) {
	h, q := testHandler(t)

	old := legacyHash(t, "correct-horse-battery")
	if !auth.NeedsRehash(old) {
		t.Fatal("fixture hash should need a rehash")
	}
	now := time.Now().UTC()
	user, err := q.CreateUser(context.Background(), store.CreateUserParams{
		ID:           uuid.New().String(),
		Email:        "legacy@example.com",
		PasswordHash: old,
		CreatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := q.CreateProfile(context.Background(), store.CreateProfileParams{
		UserID: user.ID, Role: model.RoleAdmin, CreatedAt: now,
	}); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	rec := httptest.NewRecorder()
	body := `{"email":"legacy@example.com","password":"correct-horse-battery"}`
	withSession(h, h.Login).ServeHTTP(rec, jsonRequest(http.MethodPost, "/auth/login", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	updated, _ := q.GetUserByID(context.Background(), user.ID)
	if updated.PasswordHash == old {
		t.Error("hash should be upgraded on login")
	}
	if auth.NeedsRehash(updated.PasswordHash) {
		t.Error("upgraded hash should use current parameters")
	}
	if ok, _ := auth.VerifyArgon2("correct-horse-battery", updated.PasswordHash); !ok {
		t.Error("password should still verify after the upgrade")
	}
}

func TestMeWithoutProfileReportsNoRole(t *testing.T) {
	h, q := testHandler(t)
	user := createUser(t, q, "mod@example.com", "correct-horse-battery", model.RoleAdmin)

	// Identity in context, no profile resolved.
	r := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	r = r.WithContext(context.WithValue(r.Context(), middleware.ContextKeyUser, user))

	rec := httptest.NewRecorder()
	h.Me(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		User struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.User.Role != "" {
		t.Errorf("role = %q, want empty when no profile exists", resp.User.Role)
	}
}
