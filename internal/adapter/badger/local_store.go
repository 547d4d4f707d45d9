// Package badger persists device-local state in a Badger database directory.
package badger

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

const keyPrefix = "item:"

// LocalStore implements domain.LocalStore on top of Badger. Each key is
// written in its own transaction, so every SetItem is durable once it returns.
type LocalStore struct {
	db *badger.DB
}

// Open opens (or creates) the store in dir.
func Open(dir string) (*LocalStore, error) {
	opts := badger.DefaultOptions(dir).
		WithLogger(&slogAdapter{logger: slog.Default().With("component", "badger")}).
		WithSyncWrites(true)
	return open(opts)
}

// OpenInMemory opens a store that lives only as long as the process.
func OpenInMemory() (*LocalStore, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(&slogAdapter{logger: slog.Default().With("component", "badger")})
	return open(opts)
}

func open(opts badger.Options) (*LocalStore, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db at %q: %w", opts.Dir, err)
	}
	return &LocalStore{db: db}, nil
}

func itemKey(key string) []byte {
	return []byte(keyPrefix + key)
}

func (s *LocalStore) GetItem(key string) (string, bool, error) {
	var value string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(itemKey(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *LocalStore) SetItem(key, value string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(itemKey(key), []byte(value)))
	})
	if err != nil {
		return fmt.Errorf("failed to set %q: %w", key, err)
	}
	return nil
}

func (s *LocalStore) RemoveItem(key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(itemKey(key))
	})
	if err != nil {
		return fmt.Errorf("failed to remove %q: %w", key, err)
	}
	return nil
}

// Keys lists every stored key, without the internal prefix.
func (s *LocalStore) Keys() ([]string, error) {
	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	return keys, nil
}

func (s *LocalStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close badger db: %w", err)
	}
	return nil
}

// slogAdapter routes Badger's printf-style logging into slog. Badger's info
// output is chatty, so it is demoted to debug.
type slogAdapter struct {
	logger *slog.Logger
}

func (l *slogAdapter) Errorf(f string, v ...any) {
	l.logger.Error(fmt.Sprintf(f, v...))
}

func (l *slogAdapter) Warningf(f string, v ...any) {
	l.logger.Warn(fmt.Sprintf(f, v...))
}

func (l *slogAdapter) Infof(f string, v ...any) {
	l.logger.Debug(fmt.Sprintf(f, v...))
}

func (l *slogAdapter) Debugf(f string, v ...any) {
	l.logger.Debug(fmt.Sprintf(f, v...))
}
