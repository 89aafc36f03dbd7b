package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/users-api/internal/core/domain"
)

// errorResponse is the envelope for transport and calculator errors.
type errorResponse struct {
	Error string `json:"error"`
}

// detailResponse is the envelope for authentication and parse errors.
type detailResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

const (
	msgDateFormat = "Dates format should be: %Y-%m-%d"
	msgDateOrder  = "initial_date should be less than final_date"

	codeTokenNotValid = "token_not_valid"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Renders field validation failures as {"field": ["message", ...]}.
//   - Maps authentication failures to 401 with a {"detail", "code"} body.
//   - Maps other known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if code == http.StatusUnauthorized {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Bearer realm="api"`)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, any) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, verr.Fields
	}

	// Echo's own errors (404 from router, 405, 415, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusBadRequest, map[string][]string{domain.NonFieldErrors: {domain.MsgInvalidCredentials}}
	case errors.Is(err, domain.ErrDuplicateUsername):
		return http.StatusBadRequest, map[string][]string{"username": {domain.MsgNotUnique}}
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusBadRequest, map[string][]string{"email": {domain.MsgNotUnique}}
	case errors.Is(err, domain.ErrMalformedBody):
		return http.StatusBadRequest, detailResponse{Detail: "JSON parse error"}
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized, detailResponse{Detail: "Authentication credentials were not provided."}
	case errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusUnauthorized, detailResponse{Detail: "Given token not valid for any token type", Code: codeTokenNotValid}
	case errors.Is(err, domain.ErrRefreshTokenInvalid):
		return http.StatusUnauthorized, detailResponse{Detail: "Token is invalid or expired", Code: codeTokenNotValid}
	case errors.Is(err, domain.ErrInvalidDateFormat):
		return http.StatusBadRequest, errorResponse{Error: msgDateFormat}
	case errors.Is(err, domain.ErrDateOrder):
		return http.StatusBadRequest, errorResponse{Error: msgDateOrder}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Error: "user not found"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
