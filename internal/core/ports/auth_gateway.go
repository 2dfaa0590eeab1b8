package ports

import (
	"context"

	"github.com/bookvault/books-api/internal/core/domain"
)

// Session is the result of a password-grant sign-in. AccessToken may be
// empty when the remote service confirms the user without issuing a token.
type Session struct {
	AccessToken string
	User        *domain.User
}

// AuthGateway fronts the managed authentication service. Credential
// verification and token issuance happen entirely on the remote side.
type AuthGateway interface {
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	// UserFromToken resolves the identity behind an access token.
	UserFromToken(ctx context.Context, accessToken string) (*domain.User, error)
}
