package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/prepdesk/sales-prep/api/internal/repository"
	"github.com/prepdesk/sales-prep/api/internal/service"
)

// CacheAdminHandler exposes operator endpoints for the research cache.
type CacheAdminHandler struct {
	dashboard *service.DashboardService
}

// NewCacheAdminHandler constructs a CacheAdminHandler.
func NewCacheAdminHandler(dashboard *service.DashboardService) *CacheAdminHandler {
	return &CacheAdminHandler{dashboard: dashboard}
}

// Stats handles GET /admin/cache/stats.
func (h *CacheAdminHandler) Stats(c echo.Context) error {
	stats, err := h.dashboard.CacheStats(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to load cache stats")
	}
	return Success(c, http.StatusOK, "cache stats retrieved", stats)
}

// Evict handles DELETE /admin/cache/:company. The parameter accepts either a
// display name or an already-normalized key.
func (h *CacheAdminHandler) Evict(c echo.Context) error {
	company := c.Param("company")
	if company == "" {
		return Error(c, http.StatusBadRequest, "company is required")
	}

	if err := h.dashboard.EvictCacheEntry(c.Request().Context(), company); err != nil {
		if errors.Is(err, repository.ErrCacheMiss) {
			return Error(c, http.StatusNotFound, "company not cached")
		}
		return Error(c, http.StatusInternalServerError, "failed to evict cache entry")
	}
	return Success(c, http.StatusOK, "cache entry evicted", nil)
}
