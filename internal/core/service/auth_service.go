package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/bookvault/books-api/internal/core/domain"
	"github.com/bookvault/books-api/internal/core/ports"
)

// AuthService implements login as a pass-through to the managed auth
// service. No credential material is verified or stored locally.
type AuthService struct {
	gateway ports.AuthGateway
	limiter ports.LoginLimiter // nil disables throttling
	logger  zerolog.Logger
}

func NewAuthService(gateway ports.AuthGateway, limiter ports.LoginLimiter, logger zerolog.Logger) *AuthService {
	return &AuthService{gateway: gateway, limiter: limiter, logger: logger}
}

// Login forwards the credentials to the remote password-grant endpoint.
// Any remote rejection collapses into ErrInvalidCredentials; the caller
// never learns whether the account exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, email)
		if err != nil {
			// A broken limiter must not lock everyone out.
			s.logger.Warn().Err(err).Msg("login limiter unavailable, allowing attempt")
		} else if !ok {
			s.logger.Info().Str("email", email).Msg("login throttled")
			return nil, domain.ErrTooManyAttempts
		}
	}

	session, err := s.gateway.SignInWithPassword(ctx, email, password)
	if err != nil {
		s.logger.Info().Str("email", email).Err(err).Msg("sign-in rejected")
		return nil, domain.ErrInvalidCredentials
	}
	if session == nil || session.User == nil {
		return nil, domain.ErrInvalidCredentials
	}

	result := &ports.LoginResult{}
	if session.AccessToken != "" {
		token := session.AccessToken
		result.AccessToken = &token
	}

	s.logger.Info().Str("user_id", session.User.ID).Msg("user logged in")
	return result, nil
}
