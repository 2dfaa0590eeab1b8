// Package testutil provides an in-process fake of the managed backend for
// tests: GoTrue-style password grant and token introspection under /auth/v1,
// and a PostgREST-style books table under /rest/v1. Behaviour is limited to
// what the production client exercises.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type account struct {
	id           string
	email        string
	passwordHash []byte
}

// BookRow mirrors one row of the fake books table.
type BookRow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	UserID      string `json:"user_id"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// FakeBackend is a threadsafe fake auth+data backend served over httptest.
type FakeBackend struct {
	mu       sync.Mutex
	accounts map[string]*account // keyed by email
	tokens   map[string]string   // access token -> user id
	books    []BookRow
	secret   string
	server   *httptest.Server
}

// NewFakeBackend starts the fake. Tokens are HS256-signed with jwtSecret so
// callers can also verify them locally.
func NewFakeBackend(jwtSecret string) *FakeBackend {
	b := &FakeBackend{
		accounts: make(map[string]*account),
		tokens:   make(map[string]string),
		secret:   jwtSecret,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/v1/token", b.handleToken)
	mux.HandleFunc("/auth/v1/user", b.handleUser)
	mux.HandleFunc("/auth/v1/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/rest/v1/books", b.handleBooks)

	b.server = httptest.NewServer(mux)
	return b
}

func (b *FakeBackend) URL() string { return b.server.URL }

func (b *FakeBackend) Close() { b.server.Close() }

// AddUser registers an account with a bcrypt-hashed password and returns the
// generated user id.
func (b *FakeBackend) AddUser(email, password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	acc := &account{id: uuid.NewString(), email: email, passwordHash: hash}
	b.accounts[email] = acc
	return acc.id
}

// SeedBook inserts a row directly, bypassing the HTTP surface.
func (b *FakeBackend) SeedBook(name, description, userID string) BookRow {
	b.mu.Lock()
	defer b.mu.Unlock()
	row := BookRow{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		UserID:      userID,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	b.books = append(b.books, row)
	return row
}

// Books returns a snapshot of the table.
func (b *FakeBackend) Books() []BookRow {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]BookRow, len(b.books))
	copy(out, b.books)
	return out
}

func (b *FakeBackend) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Query().Get("grant_type") != "password" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error_description": "unsupported grant"})
		return
	}

	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error_description": "bad payload"})
		return
	}

	b.mu.Lock()
	acc := b.accounts[creds.Email]
	b.mu.Unlock()

	if acc == nil || bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(creds.Password)) != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error_description": "Invalid login credentials"})
		return
	}

	claims := jwt.MapClaims{
		"sub":   acc.id,
		"email": acc.email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(b.secret))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error_description": "sign failed"})
		return
	}

	b.mu.Lock()
	b.tokens[token] = acc.id
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": token,
		"token_type":   "bearer",
		"user":         map[string]string{"id": acc.id, "email": acc.email},
	})
}

func (b *FakeBackend) handleUser(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

	b.mu.Lock()
	userID, ok := b.tokens[token]
	var email string
	if ok {
		for _, acc := range b.accounts {
			if acc.id == userID {
				email = acc.email
			}
		}
	}
	b.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": "invalid token"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": userID, "email": email})
}

func (b *FakeBackend) handleBooks(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	match := rowFilter(r)

	switch r.Method {
	case http.MethodGet:
		limit, offset := -1, 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, _ = strconv.Atoi(raw)
		}
		if raw := r.URL.Query().Get("offset"); raw != "" {
			offset, _ = strconv.Atoi(raw)
		}

		matched := []BookRow{}
		for _, row := range b.books {
			if match(row) {
				matched = append(matched, row)
			}
		}
		if offset > 0 {
			if offset > len(matched) {
				offset = len(matched)
			}
			matched = matched[offset:]
		}
		if limit >= 0 && limit < len(matched) {
			matched = matched[:limit]
		}
		writeJSON(w, http.StatusOK, matched)

	case http.MethodPost:
		var row BookRow
		if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad payload"})
			return
		}
		row.ID = uuid.NewString()
		row.CreatedAt = time.Now().UTC().Format(time.RFC3339)
		b.books = append(b.books, row)
		writeJSON(w, http.StatusCreated, []BookRow{row})

	case http.MethodPatch:
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad payload"})
			return
		}
		updated := []BookRow{}
		for i, row := range b.books {
			if !match(row) {
				continue
			}
			if v, ok := payload["name"]; ok {
				b.books[i].Name = v
			}
			if v, ok := payload["description"]; ok {
				b.books[i].Description = v
			}
			if v, ok := payload["updated_at"]; ok {
				b.books[i].UpdatedAt = v
			}
			updated = append(updated, b.books[i])
		}
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		deleted := []BookRow{}
		remaining := b.books[:0]
		for _, row := range b.books {
			if match(row) {
				deleted = append(deleted, row)
			} else {
				remaining = append(remaining, row)
			}
		}
		b.books = remaining
		writeJSON(w, http.StatusOK, deleted)

	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "method not allowed"})
	}
}

// rowFilter builds a predicate from the eq. query operators the client uses.
func rowFilter(r *http.Request) func(BookRow) bool {
	type cond struct{ column, value string }
	conds := []cond{}
	for _, column := range []string{"id", "name", "user_id"} {
		raw := r.URL.Query().Get(column)
		if strings.HasPrefix(raw, "eq.") {
			conds = append(conds, cond{column, strings.TrimPrefix(raw, "eq.")})
		}
	}
	return func(row BookRow) bool {
		for _, c := range conds {
			var got string
			switch c.column {
			case "id":
				got = row.ID
			case "name":
				got = row.Name
			case "user_id":
				got = row.UserID
			}
			if got != c.value {
				return false
			}
		}
		return true
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
