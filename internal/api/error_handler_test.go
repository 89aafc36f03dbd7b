package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/users-api/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	verr := domain.NewValidationError()
	verr.Add("username", domain.MsgRequired)

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"validation", verr, http.StatusBadRequest, `{"username":["This field is required."]}`},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusBadRequest, `{"non_field_errors":["Invalid credentials."]}`},
		{"duplicate email", domain.ErrDuplicateEmail, http.StatusBadRequest, `{"email":["This field must be unique."]}`},
		{"malformed body", domain.ErrMalformedBody, http.StatusBadRequest, `{"detail":"JSON parse error"}`},
		{"not authenticated", domain.ErrNotAuthenticated, http.StatusUnauthorized, `{"detail":"Authentication credentials were not provided."}`},
		{"wrapped token error", fmt.Errorf("%w: signature is invalid", domain.ErrTokenInvalid), http.StatusUnauthorized, `{"detail":"Given token not valid for any token type","code":"token_not_valid"}`},
		{"refresh token", domain.ErrRefreshTokenInvalid, http.StatusUnauthorized, `{"detail":"Token is invalid or expired","code":"token_not_valid"}`},
		{"date format", domain.ErrInvalidDateFormat, http.StatusBadRequest, `{"error":"Dates format should be: %Y-%m-%d"}`},
		{"date order", domain.ErrDateOrder, http.StatusBadRequest, `{"error":"initial_date should be less than final_date"}`},
		{"echo not found", echo.ErrNotFound, http.StatusNotFound, `{"error":"Not Found"}`},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, `{"error":"internal server error"}`},
	}

	handle := NewHTTPErrorHandler(zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			handle(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if got := rec.Body.String(); got != tt.wantBody+"\n" {
				t.Fatalf("expected body %s, got %s", tt.wantBody, got)
			}
			hasChallenge := rec.Header().Get(echo.HeaderWWWAuthenticate) != ""
			if hasChallenge != (tt.wantCode == http.StatusUnauthorized) {
				t.Fatalf("unexpected WWW-Authenticate header %q", rec.Header().Get(echo.HeaderWWWAuthenticate))
			}
		})
	}
}

func TestHTTPErrorHandler_HeadHasNoBody(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodHead, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrNotAuthenticated, c)

	if rec.Code != http.StatusUnauthorized || rec.Body.Len() != 0 {
		t.Fatalf("expected empty 401, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestHTTPErrorHandler_SkipsCommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late failure"), c)

	if rec.Code != http.StatusOK || rec.Body.String() != "done" {
		t.Fatalf("committed response was modified: %d %q", rec.Code, rec.Body.String())
	}
}
