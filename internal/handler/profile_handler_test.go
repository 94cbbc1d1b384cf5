package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/prepdesk/sales-prep/api/internal/dto"
	"github.com/prepdesk/sales-prep/api/internal/entity"
	"github.com/prepdesk/sales-prep/api/internal/service"
)

func newProfileHandlerForTest(repo *fakeProfilesRepo) *ProfileHandler {
	return NewProfileHandler(service.NewProfileService(repo))
}

func profilePayload() dto.UpsertProfileRequest {
	portfolio := make([]dto.PortfolioItemRequest, entity.MinPortfolioItems)
	for i := range portfolio {
		portfolio[i] = dto.PortfolioItemRequest{Name: "Project", Description: "warehouse automation rollout"}
	}
	return dto.UpsertProfileRequest{
		CompanyName:        "Prepdesk Consulting",
		CompanyDescription: "We build sales tooling",
		Portfolio:          portfolio,
	}
}

func TestProfileHandler_Upsert(t *testing.T) {
	e := echo.New()
	repo := &fakeProfilesRepo{}
	handler := newProfileHandlerForTest(repo)

	body, _ := json.Marshal(profilePayload())
	req := httptest.NewRequest(http.MethodPost, "/profile", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	_ = handler.Upsert(authedContext(e, req, rec))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if repo.profile == nil || repo.profile.UserID != handlerUserID {
		t.Fatalf("profile not saved for caller: %+v", repo.profile)
	}
}

func TestProfileHandler_Upsert_TooFewProjects(t *testing.T) {
	e := echo.New()
	handler := newProfileHandlerForTest(&fakeProfilesRepo{})

	payload := profilePayload()
	payload.Portfolio = payload.Portfolio[:2]
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/profile", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	_ = handler.Upsert(authedContext(e, req, rec))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestProfileHandler_Get(t *testing.T) {
	e := echo.New()
	repo := &fakeProfilesRepo{}
	handler := newProfileHandlerForTest(repo)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	rec := httptest.NewRecorder()
	_ = handler.Get(authedContext(e, req, rec))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before save, got %d", rec.Code)
	}

	repo.profile = handlerProfile()
	rec = httptest.NewRecorder()
	_ = handler.Get(authedContext(e, req, rec))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
