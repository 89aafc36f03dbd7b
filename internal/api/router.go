package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"

	_ "github.com/99minutos/users-api/docs"
	"github.com/99minutos/users-api/internal/api/handler"
	"github.com/99minutos/users-api/internal/api/middleware"
	"github.com/99minutos/users-api/internal/core/ports"
	infrahttp "github.com/99minutos/users-api/internal/infrastructure/http"
	"github.com/99minutos/users-api/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
//
// Routes are registered without a trailing slash; RemoveTrailingSlash lets
// clients call either form. The audit middleware runs before it so request
// logs keep the path as sent.
func NewRouter(authService ports.AuthService, auditService ports.AuditService, checks map[string]handlers.Check, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Pre-routing middleware ---
	e.Pre(middleware.Audit(auditService, log))
	e.Pre(echomiddleware.RemoveTrailingSlash())

	// --- Global middleware ---
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.Metrics())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomiddleware.Recover())
	e.Use(middleware.Authenticate(authService))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(authService)
	dateHandler := handler.NewDateHandler()
	auditHandler := handler.NewAuditHandler(auditService)

	// --- User routes ---
	users := e.Group("/users")
	users.POST("/signup", authHandler.Signup)
	users.POST("/login", authHandler.Login)
	users.POST("/logout", authHandler.Logout, middleware.RequireAuth)
	users.POST("/token/refresh", authHandler.Refresh)

	// --- Protected routes ---
	e.GET("/difference/:initial_date/:final_date", dateHandler.Difference, middleware.RequireAuth)
	e.GET("/security/logs/:username", auditHandler.Logs, middleware.RequireAuth)

	// --- API schema ---
	e.GET("/api/schema", schema)
	e.GET("/api/schema/swagger/*", echoSwagger.WrapHandler)

	// --- Probes and metrics ---
	infrahttp.RegisterProbes(e, checks)

	return e
}

// schema serves the OpenAPI document.
func schema(c echo.Context) error {
	doc, err := swag.ReadDoc()
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, []byte(doc))
}
