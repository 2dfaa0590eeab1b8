package handler

// bookRequest is the client-supplied body for create and update. The owner
// is never part of it; it always comes from the authenticated user.
type bookRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}
