package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/users-api/internal/api/metrics"
	"github.com/99minutos/users-api/internal/core/domain"
	"github.com/99minutos/users-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Signup creates a new user account.
//
// @Summary      Sign up
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      201   {object}  domain.Profile
// @Failure      400   {object}  map[string][]string
// @Router       /users/signup/ [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Signup(c.Request().Context(), req.toInput())
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("signup", outcome(err)).Inc()
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("signup", "success").Inc()
	return c.JSON(http.StatusCreated, user.Profile())
}

// Login authenticates a user and returns an access/refresh token pair.
//
// @Summary      Log in
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string][]string
// @Router       /users/login/ [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), deref(req.Username), deref(req.Password))
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", outcome(err)).Inc()
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	return c.JSON(http.StatusOK, loginResponse{
		User:    res.User.Profile(),
		Access:  res.Tokens.Access,
		Refresh: res.Tokens.Refresh,
	})
}

// Logout closes the caller's session.
//
// @Summary      Log out
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  logoutResponse
// @Failure      401  {object}  map[string]string
// @Router       /users/logout/ [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, logoutResponse{Success: "Session closed."})
}

// Refresh exchanges a refresh token for a new access token.
//
// @Summary      Refresh access token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  refreshResponse
// @Failure      400   {object}  map[string][]string
// @Failure      401   {object}  map[string]string
// @Router       /users/token/refresh/ [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	access, err := h.authService.Refresh(c.Request().Context(), deref(req.Refresh))
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("refresh", outcome(err)).Inc()
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("refresh", "success").Inc()
	return c.JSON(http.StatusOK, refreshResponse{Access: access})
}

// outcome labels a failed auth operation for metrics.
func outcome(err error) string {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrRefreshTokenInvalid):
		return "rejected"
	default:
		return "error"
	}
}
