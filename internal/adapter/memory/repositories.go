package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/domain"
)

// StatsRepository is an in-memory domain.StatsRepository.
type StatsRepository struct {
	clock clockwork.Clock

	mu  sync.Mutex
	rec domain.EngagementRecord
}

func NewStatsRepository(clock clockwork.Clock) *StatsRepository {
	return &StatsRepository{
		clock: clock,
		rec:   domain.EngagementRecord{ID: domain.ReportageID, UpdatedAt: clock.Now().UTC()},
	}
}

func (r *StatsRepository) Get(_ context.Context) (*domain.EngagementRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.rec
	return &rec, nil
}

func (r *StatsRepository) SetViews(_ context.Context, views int64) (*domain.EngagementRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rec.Views = views
	r.rec.Version++
	r.rec.UpdatedAt = r.clock.Now().UTC()
	rec := r.rec
	return &rec, nil
}

func (r *StatsRepository) SetReactions(_ context.Context, likes, dislikes int64) (*domain.EngagementRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rec.Likes = likes
	r.rec.Dislikes = dislikes
	r.rec.Version++
	r.rec.UpdatedAt = r.clock.Now().UTC()
	rec := r.rec
	return &rec, nil
}

// CommentRepository is an in-memory domain.CommentRepository.
type CommentRepository struct {
	mu       sync.Mutex
	comments []domain.Comment
}

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{}
}

func (r *CommentRepository) Create(_ context.Context, c domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments = append(r.comments, c)
	return nil
}

func (r *CommentRepository) ListRecent(_ context.Context, limit int) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := slices.Clone(r.comments)
	slices.SortStableFunc(out, func(a, b domain.Comment) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
