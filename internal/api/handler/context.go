package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookvault/books-api/internal/core/domain"
)

// CurrentUser extracts the authenticated user injected by the Auth
// middleware and fast-fails before any service call. Absence means the
// route was wired without the middleware; reject rather than proceed with
// an unscoped query.
func CurrentUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get("user").(*domain.User)
	if user == nil || user.ID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return user, nil
}
