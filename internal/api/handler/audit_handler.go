package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/users-api/internal/core/ports"
)

type AuditHandler struct {
	auditService ports.AuditService
}

func NewAuditHandler(auditService ports.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// Logs lists the request log rows recorded for a username, oldest first.
//
// @Summary      Request logs for a user
// @Tags         security
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Exact username ('Anonymous' for unauthenticated requests)"
// @Success      200       {array}   domain.RequestLog
// @Failure      401       {object}  map[string]string
// @Router       /security/logs/{username}/ [get]
func (h *AuditHandler) Logs(c echo.Context) error {
	logs, err := h.auditService.ListByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, logs)
}
