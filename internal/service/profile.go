package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/prepdesk/sales-prep/api/internal/dto"
	"github.com/prepdesk/sales-prep/api/internal/entity"
	"github.com/prepdesk/sales-prep/api/internal/repository"
)

// Length bounds for profile free-text fields.
const (
	maxCompanyDescriptionLength = 500
	maxProjectDescriptionLength = 200
)

// ProfileService manages the caller's business profile.
type ProfileService struct {
	profiles repository.ProfilesRepository
}

// NewProfileService constructs a profile service.
func NewProfileService(profiles repository.ProfilesRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// Get returns the caller's saved profile.
func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*entity.UserProfile, error) {
	return s.profiles.Get(ctx, userID)
}

// Upsert validates and saves the caller's profile, replacing any previous
// version wholesale.
func (s *ProfileService) Upsert(ctx context.Context, userID uuid.UUID, req dto.UpsertProfileRequest) (*entity.UserProfile, error) {
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	req.CompanyDescription = strings.TrimSpace(req.CompanyDescription)

	if req.CompanyName == "" {
		return nil, fmt.Errorf("%w: company_name is required", ErrInvalidRequest)
	}
	if req.CompanyDescription == "" {
		return nil, fmt.Errorf("%w: company_description is required", ErrInvalidRequest)
	}
	if len(req.CompanyDescription) > maxCompanyDescriptionLength {
		return nil, fmt.Errorf("%w: company_description exceeds %d characters", ErrInvalidRequest, maxCompanyDescriptionLength)
	}
	if len(req.Portfolio) < entity.MinPortfolioItems || len(req.Portfolio) > entity.MaxPortfolioItems {
		return nil, fmt.Errorf("%w: portfolio must contain between %d and %d projects",
			ErrInvalidRequest, entity.MinPortfolioItems, entity.MaxPortfolioItems)
	}

	portfolio := make([]entity.PortfolioItem, 0, len(req.Portfolio))
	for i, item := range req.Portfolio {
		name := strings.TrimSpace(item.Name)
		description := strings.TrimSpace(item.Description)
		if name == "" {
			return nil, fmt.Errorf("%w: portfolio[%d].name is required", ErrInvalidRequest, i)
		}
		if description == "" {
			return nil, fmt.Errorf("%w: portfolio[%d].description is required", ErrInvalidRequest, i)
		}
		if len(description) > maxProjectDescriptionLength {
			return nil, fmt.Errorf("%w: portfolio[%d].description exceeds %d characters",
				ErrInvalidRequest, i, maxProjectDescriptionLength)
		}
		portfolio = append(portfolio, entity.PortfolioItem{
			Name:           name,
			ClientIndustry: strings.TrimSpace(item.ClientIndustry),
			Description:    description,
			KeyOutcomes:    strings.TrimSpace(item.KeyOutcomes),
		})
	}

	industries := make([]string, 0, len(req.IndustriesServed))
	for _, industry := range req.IndustriesServed {
		if trimmed := strings.TrimSpace(industry); trimmed != "" {
			industries = append(industries, trimmed)
		}
	}

	return s.profiles.Upsert(ctx, &entity.UserProfile{
		UserID:             userID,
		CompanyName:        req.CompanyName,
		CompanyDescription: req.CompanyDescription,
		IndustriesServed:   industries,
		Portfolio:          portfolio,
	})
}
