package engagement

import (
	"context"
	"errors"
	"sync"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/domain"
)

type mockCounterStore struct {
	readFn            func(ctx context.Context) (domain.EngagementRecord, error)
	incrementViewsFn  func(ctx context.Context, currentViews int64) (domain.EngagementRecord, error)
	updateReactionsFn func(ctx context.Context, likes, dislikes int64) (domain.EngagementRecord, error)
	subscribeFn       func(ctx context.Context, onChange func(domain.EngagementRecord)) (domain.Unsubscribe, error)

	mu             sync.Mutex
	incrementCalls []int64
	reactionCalls  [][2]int64
}

func (m *mockCounterStore) Read(ctx context.Context) (domain.EngagementRecord, error) {
	if m.readFn != nil {
		return m.readFn(ctx)
	}
	return domain.EngagementRecord{ID: domain.ReportageID}, nil
}

func (m *mockCounterStore) IncrementViews(ctx context.Context, currentViews int64) (domain.EngagementRecord, error) {
	m.mu.Lock()
	m.incrementCalls = append(m.incrementCalls, currentViews)
	m.mu.Unlock()
	if m.incrementViewsFn != nil {
		return m.incrementViewsFn(ctx, currentViews)
	}
	return domain.EngagementRecord{ID: domain.ReportageID, Views: currentViews + 1}, nil
}

func (m *mockCounterStore) UpdateReactions(ctx context.Context, likes, dislikes int64) (domain.EngagementRecord, error) {
	m.mu.Lock()
	m.reactionCalls = append(m.reactionCalls, [2]int64{likes, dislikes})
	m.mu.Unlock()
	if m.updateReactionsFn != nil {
		return m.updateReactionsFn(ctx, likes, dislikes)
	}
	return domain.EngagementRecord{ID: domain.ReportageID, Likes: likes, Dislikes: dislikes}, nil
}

func (m *mockCounterStore) Subscribe(ctx context.Context, onChange func(domain.EngagementRecord)) (domain.Unsubscribe, error) {
	if m.subscribeFn != nil {
		return m.subscribeFn(ctx, onChange)
	}
	return func() {}, nil
}

func (m *mockCounterStore) incrementCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.incrementCalls)
}

func (m *mockCounterStore) lastReaction() [2]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.reactionCalls) == 0 {
		return [2]int64{-1, -1}
	}
	return m.reactionCalls[len(m.reactionCalls)-1]
}

// echoStore keeps a record and echoes every write, like a store with no
// other clients.
func echoStore(start domain.EngagementRecord) *mockCounterStore {
	var mu sync.Mutex
	rec := start
	return &mockCounterStore{
		readFn: func(context.Context) (domain.EngagementRecord, error) {
			mu.Lock()
			defer mu.Unlock()
			return rec, nil
		},
		incrementViewsFn: func(_ context.Context, current int64) (domain.EngagementRecord, error) {
			mu.Lock()
			defer mu.Unlock()
			rec.Views = current + 1
			return rec, nil
		},
		updateReactionsFn: func(_ context.Context, likes, dislikes int64) (domain.EngagementRecord, error) {
			mu.Lock()
			defer mu.Unlock()
			rec.Likes, rec.Dislikes = likes, dislikes
			return rec, nil
		},
	}
}

type mapLocalStore struct {
	mu     sync.Mutex
	items  map[string]string
	setErr error
	getErr error
}

func newMapLocalStore() *mapLocalStore {
	return &mapLocalStore{items: make(map[string]string)}
}

func (s *mapLocalStore) GetItem(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *mapLocalStore) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.items[key] = value
	return nil
}

func (s *mapLocalStore) RemoveItem(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

var errNetwork = errors.New("network unreachable")
