package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sifan077/LinkDesk/internal/app/model"
)

// Totals aggregates counters over the whole store.
type Totals struct {
	URLs         int64 `json:"total_urls"`
	Clicks       int64 `json:"total_clicks"`
	UniqueEmails int64 `json:"unique_emails"`
	Tags         int64 `json:"total_tags"`
}

// StatsRepository runs aggregate queries directly on the pgx pool.
type StatsRepository interface {
	Totals(ctx context.Context) (Totals, error)
	UniqueEmails(ctx context.Context) ([]string, error)
	TagsWithCounts(ctx context.Context) ([]model.TagCount, error)
}

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository returns a pgx-backed StatsRepository.
func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) Totals(ctx context.Context) (Totals, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM urls),
			(SELECT COALESCE(SUM(clicks), 0) FROM urls),
			(SELECT COUNT(DISTINCT email) FROM urls WHERE email IS NOT NULL),
			(SELECT COUNT(*) FROM tags)
	`

	var t Totals
	if err := r.pool.QueryRow(ctx, query).Scan(&t.URLs, &t.Clicks, &t.UniqueEmails, &t.Tags); err != nil {
		return Totals{}, fmt.Errorf("stats totals: %w", err)
	}
	return t, nil
}

func (r *statsRepository) UniqueEmails(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT email
		FROM urls
		WHERE email IS NOT NULL
		ORDER BY email
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("stats unique emails: %w", err)
	}
	emails, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("stats unique emails: %w", err)
	}
	return emails, nil
}

func (r *statsRepository) TagsWithCounts(ctx context.Context) ([]model.TagCount, error) {
	query := `
		SELECT t.name, t.slug, COUNT(u.id) AS url_count
		FROM urls u
		JOIN tags t ON t.id = u.tag_id
		GROUP BY t.id, t.name, t.slug
		ORDER BY url_count DESC, t.name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("stats tag counts: %w", err)
	}
	counts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.TagCount, error) {
		var tc model.TagCount
		err := row.Scan(&tc.Name, &tc.Slug, &tc.Count)
		return tc, err
	})
	if err != nil {
		return nil, fmt.Errorf("stats tag counts: %w", err)
	}
	return counts, nil
}
