package ports

import "context"

// LoginResult carries the access token returned to the client. The token is
// a pointer so an absent token serialises as JSON null, matching the remote
// service's contract.
type LoginResult struct {
	AccessToken *string `json:"access_token"`
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}
