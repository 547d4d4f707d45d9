package memory

import (
	"context"
	"sync"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/domain"
)

// ChangeBus relays published records to handlers running in the same process.
// It stands in for the Redis bus when the server runs as a single instance.
type ChangeBus struct {
	mu       sync.RWMutex
	handlers map[int]func(domain.EngagementRecord)
	nextID   int
}

func NewChangeBus() *ChangeBus {
	return &ChangeBus{handlers: make(map[int]func(domain.EngagementRecord))}
}

func (b *ChangeBus) PublishStatsChanged(_ context.Context, rec domain.EngagementRecord) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, h := range b.handlers {
		h(rec)
	}
	return nil
}

// Run registers handler and blocks until ctx is done.
func (b *ChangeBus) Run(ctx context.Context, handler func(domain.EngagementRecord)) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = handler
	b.mu.Unlock()

	<-ctx.Done()

	b.mu.Lock()
	delete(b.handlers, id)
	b.mu.Unlock()
}
