package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/bookvault/books-api/internal/core/domain"
	"github.com/bookvault/books-api/internal/core/ports"
)

// Auth resolves the bearer credential into the current user and injects it
// into the request context under "user". With a non-empty jwtSecret the
// token is verified locally (HS256, the managed service's signing scheme);
// otherwise it is introspected against the remote auth service.
func Auth(jwtSecret string, gateway ports.AuthGateway) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			var user *domain.User
			if jwtSecret != "" {
				u, err := userFromJWT(parts[1], jwtSecret)
				if err != nil {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				user = u
			} else {
				u, err := gateway.UserFromToken(c.Request().Context(), parts[1])
				if err != nil || u == nil || u.ID == "" {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				user = u
			}

			c.Set("user", user)
			return next(c)
		}
	}
}

func userFromJWT(token, secret string) (*domain.User, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, jwt.ErrTokenInvalidSubject
	}
	email, _ := claims["email"].(string)

	return &domain.User{ID: sub, Email: email}, nil
}
