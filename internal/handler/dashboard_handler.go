package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/prepdesk/sales-prep/api/internal/service"
)

// DashboardHandler exposes the dashboard aggregation endpoint.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats handles GET /dashboard.
func (h *DashboardHandler) Stats(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "invalid session")
	}

	stats, err := h.dashboard.Stats(c.Request().Context(), userID)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to load dashboard")
	}
	return Success(c, http.StatusOK, "dashboard retrieved", stats)
}
