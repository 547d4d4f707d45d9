package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/adapter/metrics"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/domain"
)

const statsChangesChannel = "reportage_stats:changes"

// ChangeBus shares engagement record changes between server instances so a
// write handled by one instance reaches websocket clients of all of them.
type ChangeBus struct {
	rdb     *goredis.Client
	metrics *metrics.EngagementMetrics
}

var (
	_ domain.ChangePublisher  = (*ChangeBus)(nil)
	_ domain.ChangeSubscriber = (*ChangeBus)(nil)
)

// NewChangeBus creates a bus on rdb. m may be nil.
func NewChangeBus(rdb *goredis.Client, m *metrics.EngagementMetrics) *ChangeBus {
	return &ChangeBus{rdb: rdb, metrics: m}
}

func (b *ChangeBus) PublishStatsChanged(ctx context.Context, rec domain.EngagementRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode stats change: %w", err)
	}
	if err := b.rdb.Publish(ctx, statsChangesChannel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish stats change: %w", err)
	}
	return nil
}

// Run subscribes and hands every decoded record to handler until ctx is done.
// go-redis re-establishes the subscription after connection loss.
func (b *ChangeBus) Run(ctx context.Context, handler func(domain.EngagementRecord)) {
	pubsub := b.rdb.Subscribe(ctx, statsChangesChannel)
	defer func() { _ = pubsub.Close() }()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok || msg == nil {
				return
			}
			b.handleChange(msg.Payload, handler)
		case <-ctx.Done():
			return
		}
	}
}

func (b *ChangeBus) handleChange(payload string, handler func(domain.EngagementRecord)) {
	if payload == "" {
		slog.Warn("Empty stats change message")
		return
	}

	var rec domain.EngagementRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		slog.Warn("Dropping malformed stats change message", "error", err)
		return
	}

	if b.metrics != nil {
		b.metrics.ChangesReceived.Inc()
	}
	slog.Debug("Stats change received via pub/sub", "views", rec.Views, "likes", rec.Likes, "dislikes", rec.Dislikes)
	handler(rec)
}
