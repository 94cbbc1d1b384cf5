package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prepdesk/sales-prep/api/internal/entity"
)

// ErrProfileNotFound signals the user has not saved a business profile yet.
var ErrProfileNotFound = errors.New("profile not found")

// ProfilesRepository declares persistence for user business profiles.
type ProfilesRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*entity.UserProfile, error)
	Upsert(ctx context.Context, profile *entity.UserProfile) (*entity.UserProfile, error)
}

// PGXProfilesRepository implements ProfilesRepository with pgx.
type PGXProfilesRepository struct {
	pool pgxPool
}

// NewPGXProfilesRepository instantiates a profiles repository.
func NewPGXProfilesRepository(pool *pgxpool.Pool) *PGXProfilesRepository {
	return &PGXProfilesRepository{pool: pool}
}

// Get fetches the profile for a user.
func (r *PGXProfilesRepository) Get(ctx context.Context, userID uuid.UUID) (*entity.UserProfile, error) {
	row := r.pool.QueryRow(ctx, `
        SELECT user_id, company_name, company_description, industries_served, portfolio, created_at, updated_at
        FROM user_profiles
        WHERE user_id = $1
    `, userID)

	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("query profile: %w", err)
	}
	return profile, nil
}

// Upsert stores the profile, replacing any previous version wholesale.
func (r *PGXProfilesRepository) Upsert(ctx context.Context, profile *entity.UserProfile) (*entity.UserProfile, error) {
	if profile == nil {
		return nil, errors.New("profile is required")
	}

	portfolio, err := json.Marshal(profile.Portfolio)
	if err != nil {
		return nil, fmt.Errorf("marshal portfolio: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
        INSERT INTO user_profiles (user_id, company_name, company_description, industries_served, portfolio)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id) DO UPDATE SET
            company_name = EXCLUDED.company_name,
            company_description = EXCLUDED.company_description,
            industries_served = EXCLUDED.industries_served,
            portfolio = EXCLUDED.portfolio,
            updated_at = NOW()
        RETURNING user_id, company_name, company_description, industries_served, portfolio, created_at, updated_at
    `, profile.UserID, profile.CompanyName, profile.CompanyDescription, profile.IndustriesServed, portfolio)

	saved, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return saved, nil
}

func scanProfile(row pgx.Row) (*entity.UserProfile, error) {
	var (
		profile   entity.UserProfile
		portfolio []byte
	)
	err := row.Scan(&profile.UserID, &profile.CompanyName, &profile.CompanyDescription,
		&profile.IndustriesServed, &portfolio, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(portfolio, &profile.Portfolio); err != nil {
		return nil, fmt.Errorf("decode portfolio: %w", err)
	}
	return &profile, nil
}
