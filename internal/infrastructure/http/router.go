package http

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"

	"github.com/99minutos/users-api/internal/infrastructure/http/handlers"
)

// RegisterProbes mounts the operational endpoints on e. None of them require
// authentication.
func RegisterProbes(e *echo.Echo, checks map[string]handlers.Check) {
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are the stores up?

	e.GET("/metrics", echoprometheus.NewHandler())
}
