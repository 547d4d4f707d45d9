package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/adapter/metrics"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/domain"
)

const (
	opIncrementViews  = "increment_views"
	opUpdateReactions = "update_reactions"
)

// StatsService owns the authoritative engagement record. Writes take
// absolute values from the client and announce the stored result on the
// change bus.
type StatsService struct {
	repo      domain.StatsRepository
	publisher domain.ChangePublisher
	metrics   *metrics.EngagementMetrics
	clock     clockwork.Clock
	readGroup singleflight.Group
}

func NewStatsService(repo domain.StatsRepository, publisher domain.ChangePublisher, m *metrics.EngagementMetrics, clock clockwork.Clock) *StatsService {
	return &StatsService{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		clock:     clock,
	}
}

// GetStats reads the record. Concurrent callers share one query.
func (s *StatsService) GetStats(ctx context.Context) (*domain.EngagementRecord, error) {
	v, err, _ := s.readGroup.Do("stats", func() (any, error) {
		return s.repo.Get(ctx)
	})
	if err != nil {
		return nil, err
	}
	rec := *v.(*domain.EngagementRecord)
	return &rec, nil
}

// IncrementViews stores currentViews+1. The base is the caller's last known
// value, so concurrent first plays may collapse into one increment.
func (s *StatsService) IncrementViews(ctx context.Context, currentViews int64) (*domain.EngagementRecord, error) {
	if currentViews < 0 {
		return nil, domain.ErrNegativeCounter
	}
	return s.write(ctx, opIncrementViews, func() (*domain.EngagementRecord, error) {
		return s.repo.SetViews(ctx, currentViews+1)
	})
}

// UpdateReactions replaces both reaction counters.
func (s *StatsService) UpdateReactions(ctx context.Context, likes, dislikes int64) (*domain.EngagementRecord, error) {
	if likes < 0 || dislikes < 0 {
		return nil, domain.ErrNegativeCounter
	}
	return s.write(ctx, opUpdateReactions, func() (*domain.EngagementRecord, error) {
		return s.repo.SetReactions(ctx, likes, dislikes)
	})
}

func (s *StatsService) write(ctx context.Context, op string, fn func() (*domain.EngagementRecord, error)) (*domain.EngagementRecord, error) {
	start := s.clock.Now()
	rec, err := fn()
	s.metrics.WriteDuration.WithLabelValues(op).Observe(s.clock.Since(start).Seconds())

	if err != nil {
		s.metrics.Writes.WithLabelValues(op, "error").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.Writes.WithLabelValues(op, "success").Inc()

	s.publish(ctx, *rec)
	return rec, nil
}

// publish failures are logged only; the write already succeeded and clients
// still get the echoed record.
func (s *StatsService) publish(ctx context.Context, rec domain.EngagementRecord) {
	if err := s.publisher.PublishStatsChanged(ctx, rec); err != nil {
		s.metrics.ChangesPublished.WithLabelValues("error").Inc()
		slog.WarnContext(ctx, "Failed to publish stats change", "error", err)
		return
	}
	s.metrics.ChangesPublished.WithLabelValues("success").Inc()
}
