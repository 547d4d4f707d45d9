package app

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/adapter/metrics"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/domain"
)

const (
	DefaultCommentLimit = 50
	MaxCommentLimit     = 200
)

// CommentInput is a visitor submission before normalization.
type CommentInput struct {
	Author string
	Email  string
	Text   string
	Page   string
}

type CommentService struct {
	repo    domain.CommentRepository
	metrics *metrics.EngagementMetrics
	clock   clockwork.Clock
}

func NewCommentService(repo domain.CommentRepository, m *metrics.EngagementMetrics, clock clockwork.Clock) *CommentService {
	return &CommentService{repo: repo, metrics: m, clock: clock}
}

// Post validates and stores a comment. Blank text is rejected; a blank author
// becomes domain.DefaultCommentAuthor.
func (s *CommentService) Post(ctx context.Context, in CommentInput) (*domain.Comment, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, domain.ErrEmptyComment
	}
	if utf8.RuneCountInString(text) > domain.MaxCommentLength {
		return nil, domain.ErrCommentTooLong
	}

	author := strings.TrimSpace(in.Author)
	if author == "" {
		author = domain.DefaultCommentAuthor
	}

	c := domain.Comment{
		ID:        uuid.New(),
		Author:    author,
		Email:     strings.TrimSpace(in.Email),
		Text:      text,
		Page:      strings.TrimSpace(in.Page),
		CreatedAt: s.clock.Now().UTC(),
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to store comment: %w", err)
	}
	s.metrics.CommentsCreated.Inc()

	return &c, nil
}

// ListRecent returns the newest comments first. Non-positive limits use the
// default, larger ones are capped.
func (s *CommentService) ListRecent(ctx context.Context, limit int) ([]domain.Comment, error) {
	switch {
	case limit <= 0:
		limit = DefaultCommentLimit
	case limit > MaxCommentLimit:
		limit = MaxCommentLimit
	}
	return s.repo.ListRecent(ctx, limit)
}
