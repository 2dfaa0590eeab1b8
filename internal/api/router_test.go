package api

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/bookvault/books-api/internal/core/domain"
	"github.com/bookvault/books-api/internal/infrastructure/config"
	"github.com/bookvault/books-api/internal/infrastructure/supabase"
	"github.com/bookvault/books-api/internal/testutil"
)

const routerJWTSecret = "router-test-secret"

// TestRouter_BookLifecycle drives the whole API surface through the real
// router against an in-process fake backend. The router is built once: the
// prometheus middleware registers collectors in the default registry and
// cannot be instantiated twice.
func TestRouter_BookLifecycle(t *testing.T) {
	backend := testutil.NewFakeBackend(routerJWTSecret)
	t.Cleanup(backend.Close)

	backend.AddUser("alice@example.com", "alice-pass")
	backend.AddUser("bob@example.com", "bob-pass")

	cfg := &config.Config{
		Port:           "8080",
		Env:            "test",
		DuplicateScope: "global",
		Supabase: config.SupabaseConfig{
			URL:       backend.URL(),
			Key:       "service-key",
			JWTSecret: routerJWTSecret,
		},
	}
	e := NewRouter(cfg, supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.Key), nil, zerolog.Nop())

	do := func(method, target, token, body string) (*httptest.ResponseRecorder, map[string]any) {
		t.Helper()
		var req *http.Request
		if body != "" {
			req = httptest.NewRequest(method, target, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		} else {
			req = httptest.NewRequest(method, target, nil)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		var decoded map[string]any
		if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") &&
			strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
			_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
		}
		return rec, decoded
	}

	login := func(username, password string) (*httptest.ResponseRecorder, map[string]any) {
		t.Helper()
		form := url.Values{"username": {username}, "password": {password}}
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		var decoded map[string]any
		_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
		return rec, decoded
	}

	// Login failures collapse to 400 regardless of cause.
	rec, body := login("alice@example.com", "wrong-pass")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad password: expected 400, got %d (%s)", rec.Code, rec.Body.String())
	}
	if body["error"] != "invalid username or password" {
		t.Fatalf("bad password: unexpected body %v", body)
	}

	rec, body = login("alice@example.com", "alice-pass")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	aliceToken, _ := body["access_token"].(string)
	if aliceToken == "" {
		t.Fatal("login: expected an access token")
	}

	_, body = login("bob@example.com", "bob-pass")
	bobToken, _ := body["access_token"].(string)
	if bobToken == "" {
		t.Fatal("login: expected an access token for bob")
	}

	// No token, no books.
	rec, _ = do(http.MethodGet, "/book", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated list: expected 401, got %d", rec.Code)
	}

	// Create as alice.
	rec, body = do(http.MethodPost, "/book", aliceToken, `{"name":"Dune","description":"sci-fi"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("create: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	bookID, _ := body["id"].(string)
	if bookID == "" {
		t.Fatalf("create: expected an id in %v", body)
	}

	// Global duplicate guard blocks bob from reusing the name.
	rec, body = do(http.MethodPost, "/book", bobToken, `{"name":"Dune"}`)
	if rec.Code != http.StatusBadRequest || body["error"] != "book already exists" {
		t.Fatalf("duplicate create: expected 400 book already exists, got %d (%s)", rec.Code, rec.Body.String())
	}

	// Listing is owner-scoped.
	rec, _ = do(http.MethodGet, "/book", bobToken, "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("bob's list must be empty, got %d (%s)", rec.Code, rec.Body.String())
	}

	var aliceBooks []domain.Book
	rec, _ = do(http.MethodGet, "/book", aliceToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("alice's list: expected 200, got %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &aliceBooks); err != nil || len(aliceBooks) != 1 {
		t.Fatalf("alice's list: expected one book, got %s", rec.Body.String())
	}

	// Update as owner.
	rec, _ = do(http.MethodPut, "/book/"+bookID, aliceToken, `{"name":"Dune Messiah"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if rows := backend.Books(); rows[0].Name != "Dune Messiah" || rows[0].UpdatedAt == "" {
		t.Fatalf("update: row not stamped, got %+v", rows[0])
	}

	// Malformed id is rejected before any lookup.
	rec, _ = do(http.MethodPut, "/book/not-a-uuid", aliceToken, `{"name":"X"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed id: expected 400, got %d", rec.Code)
	}

	// Bob cannot touch alice's book; he cannot tell it exists.
	rec, _ = do(http.MethodPut, "/book/"+bookID, bobToken, `{"name":"Hijack"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("foreign update: expected 404, got %d", rec.Code)
	}
	rec, _ = do(http.MethodDelete, "/book/"+bookID, bobToken, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("foreign delete: expected 404, got %d", rec.Code)
	}

	// Owner delete succeeds; a second delete reports not found.
	rec, _ = do(http.MethodDelete, "/book/"+bookID, aliceToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	rec, _ = do(http.MethodDelete, "/book/"+bookID, aliceToken, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("repeated delete: expected 404, got %d", rec.Code)
	}

	// Operational endpoints are reachable without auth.
	rec, _ = do(http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("liveness: expected 200, got %d", rec.Code)
	}
	rec, _ = do(http.MethodGet, "/health/ready", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("readiness: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	rec, _ = do(http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", rec.Code)
	}
}
