// Package memory provides in-process implementations of the domain stores, used by tests
// and by the CLI's offline mode.
package memory

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/domain"
)

// CounterStore holds one EngagementRecord and delivers every committed write
// to all subscribers synchronously, outside the store lock.
type CounterStore struct {
	clock clockwork.Clock

	mu          sync.Mutex
	rec         domain.EngagementRecord
	subscribers map[int]func(domain.EngagementRecord)
	nextID      int
}

func NewCounterStore(initial domain.EngagementRecord, clock clockwork.Clock) *CounterStore {
	if initial.ID == 0 {
		initial.ID = domain.ReportageID
	}
	return &CounterStore{
		clock:       clock,
		rec:         initial,
		subscribers: make(map[int]func(domain.EngagementRecord)),
	}
}

func (s *CounterStore) Read(_ context.Context) (domain.EngagementRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec, nil
}

func (s *CounterStore) IncrementViews(ctx context.Context, currentViews int64) (domain.EngagementRecord, error) {
	if currentViews < 0 {
		return domain.EngagementRecord{}, domain.ErrNegativeCounter
	}
	return s.write(ctx, func(rec *domain.EngagementRecord) {
		rec.Views = currentViews + 1
	})
}

func (s *CounterStore) UpdateReactions(ctx context.Context, likes, dislikes int64) (domain.EngagementRecord, error) {
	if likes < 0 || dislikes < 0 {
		return domain.EngagementRecord{}, domain.ErrNegativeCounter
	}
	return s.write(ctx, func(rec *domain.EngagementRecord) {
		rec.Likes = likes
		rec.Dislikes = dislikes
	})
}

func (s *CounterStore) write(_ context.Context, mutate func(*domain.EngagementRecord)) (domain.EngagementRecord, error) {
	s.mu.Lock()
	mutate(&s.rec)
	s.rec.Version++
	s.rec.UpdatedAt = s.clock.Now().UTC()
	rec := s.rec
	listeners := make([]func(domain.EngagementRecord), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(rec)
	}
	return rec, nil
}

func (s *CounterStore) Subscribe(_ context.Context, onChange func(domain.EngagementRecord)) (domain.Unsubscribe, error) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = onChange
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}, nil
}

func (s *CounterStore) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers)
}
