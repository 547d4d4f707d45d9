package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/adapter/metrics"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/domain"
)

type mockStatsRepo struct {
	getFn          func(ctx context.Context) (*domain.EngagementRecord, error)
	setViewsFn     func(ctx context.Context, views int64) (*domain.EngagementRecord, error)
	setReactionsFn func(ctx context.Context, likes, dislikes int64) (*domain.EngagementRecord, error)
}

func (m *mockStatsRepo) Get(ctx context.Context) (*domain.EngagementRecord, error) {
	if m.getFn != nil {
		return m.getFn(ctx)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockStatsRepo) SetViews(ctx context.Context, views int64) (*domain.EngagementRecord, error) {
	if m.setViewsFn != nil {
		return m.setViewsFn(ctx, views)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockStatsRepo) SetReactions(ctx context.Context, likes, dislikes int64) (*domain.EngagementRecord, error) {
	if m.setReactionsFn != nil {
		return m.setReactionsFn(ctx, likes, dislikes)
	}
	return nil, fmt.Errorf("not implemented")
}

type mockPublisher struct {
	mu        sync.Mutex
	published []domain.EngagementRecord
	err       error
}

func (m *mockPublisher) PublishStatsChanged(_ context.Context, rec domain.EngagementRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, rec)
	return nil
}

func (m *mockPublisher) records() []domain.EngagementRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.EngagementRecord(nil), m.published...)
}

type mockCommentRepo struct {
	createFn     func(ctx context.Context, c domain.Comment) error
	listRecentFn func(ctx context.Context, limit int) ([]domain.Comment, error)
}

func (m *mockCommentRepo) Create(ctx context.Context, c domain.Comment) error {
	if m.createFn != nil {
		return m.createFn(ctx, c)
	}
	return nil
}

func (m *mockCommentRepo) ListRecent(ctx context.Context, limit int) ([]domain.Comment, error) {
	if m.listRecentFn != nil {
		return m.listRecentFn(ctx, limit)
	}
	return nil, nil
}

type recordingBroadcaster struct {
	mu      sync.Mutex
	records []domain.EngagementRecord
}

func (b *recordingBroadcaster) Broadcast(rec domain.EngagementRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = append(b.records, rec)
}

func (b *recordingBroadcaster) received() []domain.EngagementRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.EngagementRecord(nil), b.records...)
}

func newTestMetrics() *metrics.EngagementMetrics {
	return metrics.NewEngagementMetrics(prometheus.NewRegistry())
}
