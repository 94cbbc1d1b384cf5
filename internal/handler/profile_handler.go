package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/prepdesk/sales-prep/api/internal/dto"
	"github.com/prepdesk/sales-prep/api/internal/repository"
	"github.com/prepdesk/sales-prep/api/internal/service"
)

// ProfileHandler exposes the caller's business profile endpoints.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get handles GET /profile.
func (h *ProfileHandler) Get(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "invalid session")
	}

	profile, err := h.profiles.Get(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return Error(c, http.StatusNotFound, "profile not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to load profile")
	}
	return Success(c, http.StatusOK, "profile retrieved", profile)
}

// Upsert handles POST /profile, replacing the saved profile wholesale.
func (h *ProfileHandler) Upsert(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "invalid session")
	}

	var req dto.UpsertProfileRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	profile, err := h.profiles.Upsert(c.Request().Context(), userID, req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return Error(c, http.StatusBadRequest, err.Error())
		}
		return Error(c, http.StatusInternalServerError, "failed to save profile")
	}
	return Success(c, http.StatusOK, "profile saved", profile)
}
