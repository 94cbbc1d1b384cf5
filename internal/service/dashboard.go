package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/prepdesk/sales-prep/api/internal/dto"
	"github.com/prepdesk/sales-prep/api/internal/entity"
	"github.com/prepdesk/sales-prep/api/internal/repository"
)

// Dashboard aggregation knobs.
const (
	// MinutesSavedPerPrep is the estimated manual research time one generated
	// prep replaces.
	MinutesSavedPerPrep = 18
	recentPrepCount     = 10
	upcomingWindow      = 7 * 24 * time.Hour
	defaultPageLimit    = 20
	maxPageLimit        = 100
)

// DashboardService aggregates prep history for the dashboard views.
type DashboardService struct {
	preps repository.PrepsRepository
	cache repository.CacheRepository
}

// NewDashboardService constructs a dashboard service.
func NewDashboardService(preps repository.PrepsRepository, cache repository.CacheRepository) *DashboardService {
	return &DashboardService{preps: preps, cache: cache}
}

// Stats builds the caller's dashboard summary. Success rate counts successful
// outcomes against completed meetings only; cancelled and rescheduled
// meetings never dilute it.
func (s *DashboardService) Stats(ctx context.Context, userID uuid.UUID) (*dto.DashboardStats, error) {
	row, err := s.preps.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.preps.Recent(ctx, userID, recentPrepCount)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.preps.Upcoming(ctx, userID, upcomingWindow)
	if err != nil {
		return nil, err
	}

	stats := &dto.DashboardStats{
		TotalPreps:       row.TotalPreps,
		TotalCompleted:   row.TotalCompleted,
		TotalSuccessful:  row.TotalSuccessful,
		AvgConfidence:    row.AvgConfidence,
		TimeSavedMinutes: row.TotalPreps * MinutesSavedPerPrep,
		RecentPreps:      recent,
		UpcomingMeetings: upcoming,
	}
	stats.TimeSavedHours = float64(stats.TimeSavedMinutes) / 60
	if row.TotalCompleted > 0 {
		stats.SuccessRate = float64(row.TotalSuccessful) / float64(row.TotalCompleted) * 100
	}
	return stats, nil
}

// ListPreps returns one page of the caller's prep history.
func (s *DashboardService) ListPreps(ctx context.Context, userID uuid.UUID, filter dto.PrepListFilter) ([]dto.PrepSummary, *dto.Pagination, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	summaries, total, err := s.preps.List(ctx, userID, filter)
	if err != nil {
		return nil, nil, err
	}

	totalPages := (total + filter.Limit - 1) / filter.Limit
	pagination := &dto.Pagination{
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalCount: total,
		TotalPages: totalPages,
		HasNext:    filter.Page < totalPages,
		HasPrev:    filter.Page > 1 && total > 0,
	}
	return summaries, pagination, nil
}

// CacheStats summarises the shared research cache for operators.
func (s *DashboardService) CacheStats(ctx context.Context) (*dto.CacheStats, error) {
	row, err := s.cache.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.CacheStats{
		TotalEntries:  row.TotalEntries,
		FreshEntries:  row.FreshEntries,
		StaleEntries:  row.TotalEntries - row.FreshEntries,
		AvgConfidence: row.AvgConfidence,
		TTLDays:       int(entity.ResearchTTL.Hours() / 24),
	}, nil
}

// EvictCacheEntry removes one company's cached research.
func (s *DashboardService) EvictCacheEntry(ctx context.Context, companyName string) error {
	return s.cache.Delete(ctx, NormalizeCompanyName(companyName))
}
