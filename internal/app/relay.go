package app

import (
	"context"
	"log/slog"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/domain"
)

// Broadcaster delivers a snapshot to the clients connected to this instance.
type Broadcaster interface {
	Broadcast(rec domain.EngagementRecord)
}

// ChangeRelay forwards every record seen on the change bus to the local
// broadcaster.
type ChangeRelay struct {
	subscriber  domain.ChangeSubscriber
	broadcaster Broadcaster
}

func NewChangeRelay(subscriber domain.ChangeSubscriber, broadcaster Broadcaster) *ChangeRelay {
	return &ChangeRelay{subscriber: subscriber, broadcaster: broadcaster}
}

// Run blocks until ctx is done.
func (r *ChangeRelay) Run(ctx context.Context) {
	slog.Info("Change relay started")
	r.subscriber.Run(ctx, r.broadcaster.Broadcast)
	slog.Info("Change relay stopped")
}
