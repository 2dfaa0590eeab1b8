package supabase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const defaultTimeout = 10 * time.Second

// Client is a minimal HTTP client for a Supabase-style managed backend:
// GoTrue authentication under /auth/v1 and PostgREST tables under /rest/v1.
// It is stateless and safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// NewClient builds a client for the given project URL and service key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: defaultTimeout},
	}
}

// APIError carries a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("supabase: status %d: %s", e.Status, e.Message)
}

// request describes one call against the backend. token, when set, replaces
// the service key as the bearer credential.
type request struct {
	method string
	path   string
	query  url.Values
	prefer string
	token  string
	body   any
}

func (c *Client) do(ctx context.Context, req request, out any) error {
	var reader io.Reader
	if req.body != nil {
		buf, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("supabase encode: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	endpoint := c.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("supabase request: %w", err)
	}

	httpReq.Header.Set("apikey", c.apiKey)
	token := req.token
	if token == "" {
		token = c.apiKey
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.prefer != "" {
		httpReq.Header.Set("Prefer", req.prefer)
	}

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return fmt.Errorf("supabase request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("supabase read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(data)}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("supabase decode: %w", err)
		}
	}
	return nil
}

// Health pings the auth service's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodGet, path: "/auth/v1/health"}, nil)
}

// errorMessage extracts a human-readable message from an error body. GoTrue
// and PostgREST use different field names for it.
func errorMessage(data []byte) string {
	var payload struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		switch {
		case payload.Message != "":
			return payload.Message
		case payload.Msg != "":
			return payload.Msg
		case payload.ErrorDescription != "":
			return payload.ErrorDescription
		}
	}
	return strings.TrimSpace(string(data))
}
