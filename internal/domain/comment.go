package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultCommentAuthor = "Anonyme"
	MaxCommentLength     = 2000
)

type Comment struct {
	ID        uuid.UUID
	Author    string
	Email     string
	Text      string
	Page      string
	CreatedAt time.Time
}

type CommentRepository interface {
	Create(ctx context.Context, c Comment) error
	ListRecent(ctx context.Context, limit int) ([]Comment, error)
}
