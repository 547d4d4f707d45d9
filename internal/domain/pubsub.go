package domain

import "context"

// ChangePublisher announces a new record version to every server instance.
type ChangePublisher interface {
	PublishStatsChanged(ctx context.Context, rec EngagementRecord) error
}

// ChangeSubscriber delivers every announced record to handler until ctx is done.
type ChangeSubscriber interface {
	Run(ctx context.Context, handler func(EngagementRecord))
}
