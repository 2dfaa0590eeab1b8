package supabase

import (
	"context"
	"net/http"
	"net/url"

	"github.com/bookvault/books-api/internal/core/domain"
	"github.com/bookvault/books-api/internal/core/ports"
)

// AuthGateway implements ports.AuthGateway against the GoTrue endpoints.
type AuthGateway struct {
	client *Client
}

func NewAuthGateway(client *Client) *AuthGateway {
	return &AuthGateway{client: client}
}

type gotrueUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	User        *gotrueUser `json:"user"`
}

// SignInWithPassword exchanges credentials through the password grant.
func (g *AuthGateway) SignInWithPassword(ctx context.Context, email, password string) (*ports.Session, error) {
	query := url.Values{}
	query.Set("grant_type", "password")

	var resp tokenResponse
	err := g.client.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  query,
		body:   map[string]string{"email": email, "password": password},
	}, &resp)
	if err != nil {
		return nil, err
	}

	session := &ports.Session{AccessToken: resp.AccessToken}
	if resp.User != nil {
		session.User = &domain.User{ID: resp.User.ID, Email: resp.User.Email}
	}
	return session, nil
}

// UserFromToken resolves the identity behind an access token remotely.
func (g *AuthGateway) UserFromToken(ctx context.Context, accessToken string) (*domain.User, error) {
	var u gotrueUser
	err := g.client.do(ctx, request{
		method: http.MethodGet,
		path:   "/auth/v1/user",
		token:  accessToken,
	}, &u)
	if err != nil {
		return nil, err
	}
	return &domain.User{ID: u.ID, Email: u.Email}, nil
}
