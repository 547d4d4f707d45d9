package memory

import "sync"

type LocalStore struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewLocalStore() *LocalStore {
	return &LocalStore{items: make(map[string]string)}
}

func (s *LocalStore) GetItem(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *LocalStore) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

func (s *LocalStore) RemoveItem(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}
