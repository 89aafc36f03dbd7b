package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/users-api/internal/api/middleware"
	"github.com/99minutos/users-api/internal/core/domain"
)

// ctxUser returns the authenticated user injected by the Authenticate
// middleware. Routes behind RequireAuth always have one; the check here keeps
// handlers safe if mounted without it.
func ctxUser(c echo.Context) (*domain.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}
	return user, nil
}

// bindAndValidate decodes the JSON body into req, trims its fields and runs
// the struct validation. Unsupported media types keep echo's 415; any other
// decode failure is a malformed body.
func bindAndValidate(c echo.Context, req interface{ normalize() }) error {
	if err := c.Bind(req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusUnsupportedMediaType {
			return err
		}
		return domain.ErrMalformedBody
	}
	req.normalize()
	return c.Validate(req)
}
