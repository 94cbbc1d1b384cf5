package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prepdesk/sales-prep/api/internal/entity"
)

// ErrCacheMiss signals no cached research for the requested company.
var ErrCacheMiss = errors.New("company not cached")

// CacheStatsRow aggregates the research cache for operator reporting.
type CacheStatsRow struct {
	TotalEntries  int
	FreshEntries  int
	AvgConfidence float64
}

// CacheRepository declares persistence for the shared research cache.
type CacheRepository interface {
	Lookup(ctx context.Context, normalizedName string) (*entity.CacheEntry, error)
	Store(ctx context.Context, entry *entity.CacheEntry) error
	Delete(ctx context.Context, normalizedName string) error
	Stats(ctx context.Context) (*CacheStatsRow, error)
}

// PGXCacheRepository implements CacheRepository with pgx.
type PGXCacheRepository struct {
	pool pgxPool
}

// NewPGXCacheRepository instantiates a cache repository.
func NewPGXCacheRepository(pool *pgxpool.Pool) *PGXCacheRepository {
	return &PGXCacheRepository{pool: pool}
}

// Lookup fetches the cached research record for a normalized company name.
// Staleness is the caller's concern; entries are returned regardless of age.
func (r *PGXCacheRepository) Lookup(ctx context.Context, normalizedName string) (*entity.CacheEntry, error) {
	row := r.pool.QueryRow(ctx, `
        SELECT company_name_normalized, research, confidence_score, source_urls, last_updated
        FROM company_cache
        WHERE company_name_normalized = $1
    `, normalizedName)

	entry, err := scanCacheEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("query cache entry: %w", err)
	}
	return entry, nil
}

// Store writes a cache entry, replacing any existing row wholesale. The
// database clock stamps last_updated so freshness checks share one clock.
func (r *PGXCacheRepository) Store(ctx context.Context, entry *entity.CacheEntry) error {
	if entry == nil {
		return errors.New("cache entry is required")
	}

	research, err := json.Marshal(entry.Research)
	if err != nil {
		return fmt.Errorf("marshal research record: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
        INSERT INTO company_cache (company_name_normalized, research, confidence_score, source_urls, last_updated)
        VALUES ($1, $2, $3, $4, NOW())
        ON CONFLICT (company_name_normalized) DO UPDATE SET
            research = EXCLUDED.research,
            confidence_score = EXCLUDED.confidence_score,
            source_urls = EXCLUDED.source_urls,
            last_updated = NOW()
    `, entry.NormalizedName, research, entry.Confidence, entry.SourceURLs)
	if err != nil {
		return fmt.Errorf("store cache entry: %w", err)
	}
	return nil
}

// Delete evicts a single company from the cache.
func (r *PGXCacheRepository) Delete(ctx context.Context, normalizedName string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM company_cache WHERE company_name_normalized = $1`, normalizedName)
	if err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrCacheMiss
	}
	return nil
}

// Stats summarises cache size, freshness and confidence.
func (r *PGXCacheRepository) Stats(ctx context.Context) (*CacheStatsRow, error) {
	row := r.pool.QueryRow(ctx, `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE last_updated > NOW() - $1::interval),
               COALESCE(AVG(confidence_score), 0)
        FROM company_cache
    `, entity.ResearchTTL.String())

	var stats CacheStatsRow
	if err := row.Scan(&stats.TotalEntries, &stats.FreshEntries, &stats.AvgConfidence); err != nil {
		return nil, fmt.Errorf("query cache stats: %w", err)
	}
	return &stats, nil
}

func scanCacheEntry(row pgx.Row) (*entity.CacheEntry, error) {
	var (
		entry    entity.CacheEntry
		research []byte
		updated  time.Time
	)
	if err := row.Scan(&entry.NormalizedName, &research, &entry.Confidence, &entry.SourceURLs, &updated); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(research, &entry.Research); err != nil {
		return nil, fmt.Errorf("decode research record: %w", err)
	}
	entry.LastUpdated = updated
	entry.Research.LastUpdated = updated
	return &entry, nil
}
