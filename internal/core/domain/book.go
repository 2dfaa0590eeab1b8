package domain

import "errors"

var ErrBookNotFound = errors.New("book not found")
var ErrDuplicateName = errors.New("book already exists")
var ErrOperationFailed = errors.New("something went wrong")
var ErrInvalidCredentials = errors.New("invalid username or password")
var ErrTooManyAttempts = errors.New("too many login attempts")

// Book mirrors a row of the remote "books" table. The row itself lives in
// the managed backend; this layer never stores it locally.
type Book struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	UserID      string `json:"user_id,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}
