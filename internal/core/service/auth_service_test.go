package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bookvault/books-api/internal/core/domain"
	"github.com/bookvault/books-api/internal/core/ports"
)

type stubAuthGateway struct {
	session *ports.Session
	err     error
	calls   int
}

func (g *stubAuthGateway) SignInWithPassword(_ context.Context, _, _ string) (*ports.Session, error) {
	g.calls++
	return g.session, g.err
}

func (g *stubAuthGateway) UserFromToken(_ context.Context, _ string) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

type stubLimiter struct {
	allow bool
	err   error
}

func (l *stubLimiter) Allow(_ context.Context, _ string) (bool, error) {
	return l.allow, l.err
}

func TestAuthService_Login_Success(t *testing.T) {
	gateway := &stubAuthGateway{session: &ports.Session{
		AccessToken: "tok-123",
		User:        &domain.User{ID: "u1", Email: "a@example.com"},
	}}
	svc := NewAuthService(gateway, nil, discardLogger)

	result, err := svc.Login(context.Background(), "a@example.com", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AccessToken == nil || *result.AccessToken != "tok-123" {
		t.Fatalf("expected access token tok-123, got %v", result.AccessToken)
	}
}

func TestAuthService_Login_NoTokenInSession(t *testing.T) {
	// The remote service can accept the credentials yet omit the token
	// (e.g. email confirmation pending). The caller still gets a 200 body,
	// with access_token null.
	gateway := &stubAuthGateway{session: &ports.Session{
		User: &domain.User{ID: "u1"},
	}}
	svc := NewAuthService(gateway, nil, discardLogger)

	result, err := svc.Login(context.Background(), "a@example.com", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AccessToken != nil {
		t.Fatalf("expected nil access token, got %q", *result.AccessToken)
	}
}

func TestAuthService_Login_GatewayRejection(t *testing.T) {
	gateway := &stubAuthGateway{err: errors.New("invalid login credentials")}
	svc := NewAuthService(gateway, nil, discardLogger)

	_, err := svc.Login(context.Background(), "a@example.com", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_NilUserInSession(t *testing.T) {
	gateway := &stubAuthGateway{session: &ports.Session{AccessToken: "tok"}}
	svc := NewAuthService(gateway, nil, discardLogger)

	_, err := svc.Login(context.Background(), "a@example.com", "secret")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_EmptyCredentialsSkipGateway(t *testing.T) {
	gateway := &stubAuthGateway{}
	svc := NewAuthService(gateway, nil, discardLogger)

	cases := []struct{ email, password string }{
		{"", "secret"},
		{"a@example.com", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if _, err := svc.Login(context.Background(), tc.email, tc.password); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("(%q, %q): expected ErrInvalidCredentials, got %v", tc.email, tc.password, err)
		}
	}
	if gateway.calls != 0 {
		t.Errorf("gateway must not be called for empty credentials, got %d calls", gateway.calls)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	gateway := &stubAuthGateway{session: &ports.Session{
		AccessToken: "tok",
		User:        &domain.User{ID: "u1"},
	}}
	svc := NewAuthService(gateway, &stubLimiter{allow: false}, discardLogger)

	_, err := svc.Login(context.Background(), "a@example.com", "secret")
	if !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if gateway.calls != 0 {
		t.Error("throttled attempt must not reach the gateway")
	}
}

func TestAuthService_Login_LimiterFailureAllows(t *testing.T) {
	gateway := &stubAuthGateway{session: &ports.Session{
		AccessToken: "tok",
		User:        &domain.User{ID: "u1"},
	}}
	svc := NewAuthService(gateway, &stubLimiter{err: errors.New("redis down")}, discardLogger)

	result, err := svc.Login(context.Background(), "a@example.com", "secret")
	if err != nil {
		t.Fatalf("limiter failure must not block logins, got %v", err)
	}
	if result.AccessToken == nil {
		t.Fatal("expected access token despite limiter failure")
	}
}
