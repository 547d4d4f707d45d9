package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/domain"
)

type CommentRepo struct {
	pool *pgxpool.Pool
}

func NewCommentRepo(pool *pgxpool.Pool) *CommentRepo {
	return &CommentRepo{pool: pool}
}

func (r *CommentRepo) Create(ctx context.Context, c domain.Comment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO comments (id, author, email, body, page, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Author, c.Email, c.Text, c.Page, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

func (r *CommentRepo) ListRecent(ctx context.Context, limit int) ([]domain.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, author, email, body, page, created_at
		FROM comments
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	comments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Comment, error) {
		var c domain.Comment
		err := row.Scan(&c.ID, &c.Author, &c.Email, &c.Text, &c.Page, &c.CreatedAt)
		c.CreatedAt = c.CreatedAt.UTC()
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan comments: %w", err)
	}
	return comments, nil
}
