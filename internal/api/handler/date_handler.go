package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/users-api/internal/core/domain"
)

type DateHandler struct{}

func NewDateHandler() *DateHandler {
	return &DateHandler{}
}

// Difference returns the number of days between two YYYY-MM-DD dates.
//
// @Summary      Days between two dates
// @Tags         difference
// @Produce      json
// @Security     BearerAuth
// @Param        initial_date  path      string  true  "YYYY-MM-DD"
// @Param        final_date    path      string  true  "YYYY-MM-DD, after initial_date"
// @Success      200           {object}  differenceResponse
// @Failure      400           {object}  map[string]string
// @Failure      401           {object}  map[string]string
// @Router       /difference/{initial_date}/{final_date}/ [get]
func (h *DateHandler) Difference(c echo.Context) error {
	days, err := domain.DaysBetween(c.Param("initial_date"), c.Param("final_date"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, differenceResponse{Difference: fmt.Sprintf("%d days", days)})
}
