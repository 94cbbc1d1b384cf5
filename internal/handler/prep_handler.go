package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/prepdesk/sales-prep/api/internal/agent"
	"github.com/prepdesk/sales-prep/api/internal/dto"
	"github.com/prepdesk/sales-prep/api/internal/middleware"
	"github.com/prepdesk/sales-prep/api/internal/repository"
	"github.com/prepdesk/sales-prep/api/internal/service"
)

// PrepHandler exposes prep generation, retrieval and outcome endpoints.
type PrepHandler struct {
	preps     *service.PrepService
	dashboard *service.DashboardService
}

// NewPrepHandler constructs a PrepHandler.
func NewPrepHandler(preps *service.PrepService, dashboard *service.DashboardService) *PrepHandler {
	return &PrepHandler{preps: preps, dashboard: dashboard}
}

// Create handles POST /preps. The response carries the finished report; the
// request blocks until research and synthesis complete.
func (h *PrepHandler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "invalid session")
	}

	var req dto.CreatePrepRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	prep, err := h.preps.CreatePrep(c.Request().Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			return Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrProfileRequired):
			return Error(c, http.StatusNotFound, "save a business profile before generating preps")
		default:
			var callErr *agent.CallError
			if errors.As(err, &callErr) {
				return Error(c, http.StatusBadGateway, callErr.Error())
			}
			var verr *service.ValidationError
			if errors.As(err, &verr) {
				return Error(c, http.StatusBadGateway, verr.Error())
			}
			return Error(c, http.StatusInternalServerError, "failed to generate prep")
		}
	}

	return Success(c, http.StatusCreated, "prep generated", map[string]any{
		"prep_id":   prep.ID.String(),
		"report":    prep.Report,
		"cache_hit": prep.CacheHit,
	})
}

// Get handles GET /preps/:id.
func (h *PrepHandler) Get(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "invalid session")
	}
	prepID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid prep id")
	}

	prep, err := h.preps.GetPrep(c.Request().Context(), userID, prepID)
	if err != nil {
		if errors.Is(err, repository.ErrPrepNotFound) {
			return Error(c, http.StatusNotFound, "prep not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to load prep")
	}
	return Success(c, http.StatusOK, "prep retrieved", prep)
}

// List handles GET /preps with pagination and filters.
func (h *PrepHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "invalid session")
	}

	filter := dto.PrepListFilter{
		Status: c.QueryParam("status"),
		Search: c.QueryParam("search"),
	}
	if page, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil {
		filter.Limit = limit
	}

	summaries, pagination, err := h.dashboard.ListPreps(c.Request().Context(), userID, filter)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list preps")
	}
	return Success(c, http.StatusOK, "preps retrieved", map[string]any{
		"preps":      summaries,
		"pagination": pagination,
	})
}

// RecordOutcome handles POST /preps/:id/outcome.
func (h *PrepHandler) RecordOutcome(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "invalid session")
	}
	prepID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid prep id")
	}

	var req dto.RecordOutcomeRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	outcome, err := h.preps.RecordOutcome(c.Request().Context(), userID, prepID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			return Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrPrepNotFound):
			return Error(c, http.StatusNotFound, "prep not found")
		default:
			return Error(c, http.StatusInternalServerError, "failed to record outcome")
		}
	}
	return Success(c, http.StatusOK, "outcome recorded", outcome)
}

// GetOutcome handles GET /preps/:id/outcome.
func (h *PrepHandler) GetOutcome(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "invalid session")
	}
	prepID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid prep id")
	}

	outcome, err := h.preps.GetOutcome(c.Request().Context(), userID, prepID)
	if err != nil {
		if errors.Is(err, repository.ErrOutcomeNotFound) {
			return Error(c, http.StatusNotFound, "outcome not recorded")
		}
		return Error(c, http.StatusInternalServerError, "failed to load outcome")
	}
	return Success(c, http.StatusOK, "outcome retrieved", outcome)
}

// currentUserID reads the authenticated user's id set by the JWT middleware.
func currentUserID(c echo.Context) (uuid.UUID, error) {
	raw, _ := c.Get(middleware.ContextKeyUserID).(string)
	return uuid.Parse(raw)
}
