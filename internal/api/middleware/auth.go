package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/users-api/internal/api/metrics"
	"github.com/99minutos/users-api/internal/core/domain"
	"github.com/99minutos/users-api/internal/core/ports"
)

// UserKey is the echo context key holding the authenticated *domain.User.
const UserKey = "user"

// Authenticate resolves "Authorization: Bearer <jwt>" to a user and stores it
// under UserKey. Requests without a header, or using another scheme, continue
// anonymously. A bearer token that does not verify fails the request.
func Authenticate(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return next(c)
			}

			user, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				result := "error"
				if errors.Is(err, domain.ErrTokenInvalid) {
					result = "rejected"
				}
				metrics.AuthAttemptsTotal.WithLabelValues("bearer", result).Inc()
				return err
			}

			metrics.AuthAttemptsTotal.WithLabelValues("bearer", "success").Inc()
			c.Set(UserKey, user)
			return next(c)
		}
	}
}

// RequireAuth rejects anonymous requests with domain.ErrNotAuthenticated.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := CurrentUser(c); !ok {
			return domain.ErrNotAuthenticated
		}
		return next(c)
	}
}

// CurrentUser returns the user attached by Authenticate, if any.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(UserKey).(*domain.User)
	return user, ok && user != nil
}

// bearerToken extracts the token of a "Bearer <token>" header. An empty
// token after the scheme still counts as a bearer attempt.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) == 0 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	if len(parts) != 2 {
		return "", true
	}
	return parts[1], true
}
