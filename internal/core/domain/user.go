package domain

// User models the authenticated identity resolved from a bearer credential
// by the managed auth service. This layer never mutates it.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}
