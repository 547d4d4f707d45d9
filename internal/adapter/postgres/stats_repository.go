package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/domain"
)

type StatsRepo struct {
	pool *pgxpool.Pool
}

func NewStatsRepo(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

const statsColumns = "id, views, likes, dislikes, version, updated_at"

func scanStats(row pgx.Row) (*domain.EngagementRecord, error) {
	var rec domain.EngagementRecord
	if err := row.Scan(&rec.ID, &rec.Views, &rec.Likes, &rec.Dislikes, &rec.Version, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return &rec, nil
}

func (r *StatsRepo) Get(ctx context.Context) (*domain.EngagementRecord, error) {
	rec, err := scanStats(r.pool.QueryRow(ctx,
		`SELECT `+statsColumns+` FROM reportage_stats WHERE id = $1`, domain.ReportageID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reportage stats: %w", err)
	}
	return rec, nil
}

func (r *StatsRepo) SetViews(ctx context.Context, views int64) (*domain.EngagementRecord, error) {
	rec, err := scanStats(r.pool.QueryRow(ctx, `
		UPDATE reportage_stats SET views = $2, version = version + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING `+statsColumns, domain.ReportageID, views))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set views: %w", err)
	}
	return rec, nil
}

func (r *StatsRepo) SetReactions(ctx context.Context, likes, dislikes int64) (*domain.EngagementRecord, error) {
	rec, err := scanStats(r.pool.QueryRow(ctx, `
		UPDATE reportage_stats SET likes = $2, dislikes = $3, version = version + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING `+statsColumns, domain.ReportageID, likes, dislikes))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set reactions: %w", err)
	}
	return rec, nil
}
