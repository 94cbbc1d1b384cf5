package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prepdesk/sales-prep/api/internal/dto"
	"github.com/prepdesk/sales-prep/api/internal/entity"
)

// Sentinel errors for prep and outcome lookups.
var (
	ErrPrepNotFound    = errors.New("prep not found")
	ErrOutcomeNotFound = errors.New("outcome not recorded")
)

// PrepStatsRow aggregates one user's prep history for the dashboard.
type PrepStatsRow struct {
	TotalPreps      int
	AvgConfidence   float64
	TotalCompleted  int
	TotalSuccessful int
}

// PrepsRepository declares persistence for prep reports and meeting outcomes.
// All reads are scoped to the owning user; a prep belonging to someone else
// behaves exactly like a missing one.
type PrepsRepository interface {
	Insert(ctx context.Context, prep *entity.Prep) (*entity.Prep, error)
	GetByID(ctx context.Context, userID, prepID uuid.UUID) (*entity.Prep, error)
	List(ctx context.Context, userID uuid.UUID, filter dto.PrepListFilter) ([]dto.PrepSummary, int, error)
	Recent(ctx context.Context, userID uuid.UUID, limit int) ([]dto.PrepSummary, error)
	Upcoming(ctx context.Context, userID uuid.UUID, within time.Duration) ([]dto.PrepSummary, error)
	Stats(ctx context.Context, userID uuid.UUID) (*PrepStatsRow, error)
	UpsertOutcome(ctx context.Context, outcome *entity.MeetingOutcome) (*entity.MeetingOutcome, error)
	GetOutcome(ctx context.Context, userID, prepID uuid.UUID) (*entity.MeetingOutcome, error)
}

// PGXPrepsRepository implements PrepsRepository with pgx.
type PGXPrepsRepository struct {
	pool pgxPool
}

// NewPGXPrepsRepository instantiates a preps repository.
func NewPGXPrepsRepository(pool *pgxpool.Pool) *PGXPrepsRepository {
	return &PGXPrepsRepository{pool: pool}
}

// Insert persists a finished prep and returns it with database-assigned fields.
func (r *PGXPrepsRepository) Insert(ctx context.Context, prep *entity.Prep) (*entity.Prep, error) {
	if prep == nil {
		return nil, errors.New("prep is required")
	}

	report, err := json.Marshal(prep.Report)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
        INSERT INTO meeting_preps (
            user_id, company_name, company_name_normalized, meeting_objective,
            meeting_date, contact_person_name, contact_linkedin_url,
            report, overall_confidence, cache_hit
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, created_at
    `, prep.UserID, prep.CompanyName, prep.NormalizedName, prep.MeetingObjective,
		prep.MeetingDate, prep.ContactPersonName, prep.ContactLinkedInURL,
		report, prep.OverallConfidence, prep.CacheHit)

	saved := *prep
	if err := row.Scan(&saved.ID, &saved.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert prep: %w", err)
	}
	return &saved, nil
}

// GetByID fetches one prep with its full report.
func (r *PGXPrepsRepository) GetByID(ctx context.Context, userID, prepID uuid.UUID) (*entity.Prep, error) {
	row := r.pool.QueryRow(ctx, `
        SELECT id, user_id, company_name, company_name_normalized, meeting_objective,
               meeting_date, contact_person_name, contact_linkedin_url,
               report, overall_confidence, cache_hit, created_at
        FROM meeting_preps
        WHERE id = $1 AND user_id = $2
    `, prepID, userID)

	prep, err := scanPrep(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPrepNotFound
		}
		return nil, fmt.Errorf("query prep: %w", err)
	}
	return prep, nil
}

// List returns a page of prep summaries plus the unpaged total. Status filters
// on the recorded outcome's meeting status; search matches the company name.
func (r *PGXPrepsRepository) List(ctx context.Context, userID uuid.UUID, filter dto.PrepListFilter) ([]dto.PrepSummary, int, error) {
	conditions := []string{"p.user_id = $1"}
	args := []any{userID}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("p.company_name ILIKE $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("o.meeting_status = $%d", len(args)))
	}
	where := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`
        SELECT COUNT(*)
        FROM meeting_preps p
        LEFT JOIN meeting_outcomes o ON o.prep_id = p.id
        WHERE %s
    `, where)

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count preps: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	listQuery := fmt.Sprintf(`
        SELECT p.id, p.company_name, p.meeting_objective, p.meeting_date,
               p.overall_confidence, p.cache_hit, o.meeting_status, p.created_at
        FROM meeting_preps p
        LEFT JOIN meeting_outcomes o ON o.prep_id = p.id
        WHERE %s
        ORDER BY p.created_at DESC
        LIMIT $%d OFFSET $%d
    `, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list preps: %w", err)
	}
	defer rows.Close()

	summaries, err := scanPrepSummaries(rows)
	if err != nil {
		return nil, 0, err
	}
	return summaries, total, nil
}

// Recent returns the user's latest preps, newest first.
func (r *PGXPrepsRepository) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]dto.PrepSummary, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT p.id, p.company_name, p.meeting_objective, p.meeting_date,
               p.overall_confidence, p.cache_hit, o.meeting_status, p.created_at
        FROM meeting_preps p
        LEFT JOIN meeting_outcomes o ON o.prep_id = p.id
        WHERE p.user_id = $1
        ORDER BY p.created_at DESC
        LIMIT $2
    `, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent preps: %w", err)
	}
	defer rows.Close()

	return scanPrepSummaries(rows)
}

// Upcoming returns preps whose meeting date falls inside the window from now.
func (r *PGXPrepsRepository) Upcoming(ctx context.Context, userID uuid.UUID, within time.Duration) ([]dto.PrepSummary, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT p.id, p.company_name, p.meeting_objective, p.meeting_date,
               p.overall_confidence, p.cache_hit, o.meeting_status, p.created_at
        FROM meeting_preps p
        LEFT JOIN meeting_outcomes o ON o.prep_id = p.id
        WHERE p.user_id = $1
          AND p.meeting_date IS NOT NULL
          AND p.meeting_date >= NOW()
          AND p.meeting_date < NOW() + $2::interval
        ORDER BY p.meeting_date ASC
    `, userID, within.String())
	if err != nil {
		return nil, fmt.Errorf("query upcoming preps: %w", err)
	}
	defer rows.Close()

	return scanPrepSummaries(rows)
}

// Stats aggregates one user's prep counts and outcome tallies.
func (r *PGXPrepsRepository) Stats(ctx context.Context, userID uuid.UUID) (*PrepStatsRow, error) {
	row := r.pool.QueryRow(ctx, `
        SELECT COUNT(*),
               COALESCE(AVG(p.overall_confidence), 0),
               COUNT(*) FILTER (WHERE o.meeting_status = 'completed'),
               COUNT(*) FILTER (WHERE o.meeting_status = 'completed' AND o.outcome = 'successful')
        FROM meeting_preps p
        LEFT JOIN meeting_outcomes o ON o.prep_id = p.id
        WHERE p.user_id = $1
    `, userID)

	var stats PrepStatsRow
	if err := row.Scan(&stats.TotalPreps, &stats.AvgConfidence, &stats.TotalCompleted, &stats.TotalSuccessful); err != nil {
		return nil, fmt.Errorf("query prep stats: %w", err)
	}
	return &stats, nil
}

// UpsertOutcome stores post-meeting feedback, replacing any earlier record for
// the same prep.
func (r *PGXPrepsRepository) UpsertOutcome(ctx context.Context, outcome *entity.MeetingOutcome) (*entity.MeetingOutcome, error) {
	if outcome == nil {
		return nil, errors.New("outcome is required")
	}

	row := r.pool.QueryRow(ctx, `
        INSERT INTO meeting_outcomes (
            prep_id, meeting_status, outcome, prep_accuracy,
            most_useful_section, what_was_missing, general_notes
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (prep_id) DO UPDATE SET
            meeting_status = EXCLUDED.meeting_status,
            outcome = EXCLUDED.outcome,
            prep_accuracy = EXCLUDED.prep_accuracy,
            most_useful_section = EXCLUDED.most_useful_section,
            what_was_missing = EXCLUDED.what_was_missing,
            general_notes = EXCLUDED.general_notes,
            updated_at = NOW()
        RETURNING id, prep_id, meeting_status, outcome, prep_accuracy,
                  most_useful_section, what_was_missing, general_notes, created_at, updated_at
    `, outcome.PrepID, outcome.MeetingStatus, outcome.Outcome, outcome.PrepAccuracy,
		outcome.MostUsefulSection, outcome.WhatWasMissing, outcome.GeneralNotes)

	saved, err := scanOutcome(row)
	if err != nil {
		return nil, fmt.Errorf("upsert outcome: %w", err)
	}
	return saved, nil
}

// GetOutcome fetches the recorded outcome for a prep the user owns.
func (r *PGXPrepsRepository) GetOutcome(ctx context.Context, userID, prepID uuid.UUID) (*entity.MeetingOutcome, error) {
	row := r.pool.QueryRow(ctx, `
        SELECT o.id, o.prep_id, o.meeting_status, o.outcome, o.prep_accuracy,
               o.most_useful_section, o.what_was_missing, o.general_notes, o.created_at, o.updated_at
        FROM meeting_outcomes o
        JOIN meeting_preps p ON p.id = o.prep_id
        WHERE o.prep_id = $1 AND p.user_id = $2
    `, prepID, userID)

	outcome, err := scanOutcome(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOutcomeNotFound
		}
		return nil, fmt.Errorf("query outcome: %w", err)
	}
	return outcome, nil
}

func scanPrep(row pgx.Row) (*entity.Prep, error) {
	var (
		prep   entity.Prep
		report []byte
	)
	err := row.Scan(&prep.ID, &prep.UserID, &prep.CompanyName, &prep.NormalizedName,
		&prep.MeetingObjective, &prep.MeetingDate, &prep.ContactPersonName,
		&prep.ContactLinkedInURL, &report, &prep.OverallConfidence, &prep.CacheHit, &prep.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(report, &prep.Report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &prep, nil
}

func scanPrepSummaries(rows pgx.Rows) ([]dto.PrepSummary, error) {
	var summaries []dto.PrepSummary
	for rows.Next() {
		var (
			summary dto.PrepSummary
			id      uuid.UUID
		)
		err := rows.Scan(&id, &summary.CompanyName, &summary.MeetingObjective, &summary.MeetingDate,
			&summary.OverallConfidence, &summary.CacheHit, &summary.OutcomeStatus, &summary.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan prep summary: %w", err)
		}
		summary.ID = id.String()
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prep summaries: %w", err)
	}
	return summaries, nil
}

func scanOutcome(row pgx.Row) (*entity.MeetingOutcome, error) {
	var outcome entity.MeetingOutcome
	err := row.Scan(&outcome.ID, &outcome.PrepID, &outcome.MeetingStatus, &outcome.Outcome,
		&outcome.PrepAccuracy, &outcome.MostUsefulSection, &outcome.WhatWasMissing,
		&outcome.GeneralNotes, &outcome.CreatedAt, &outcome.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &outcome, nil
}
