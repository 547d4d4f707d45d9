package httpclient

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/domain"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/platform/retry"
)

type dialFunc func(ctx context.Context) (*websocket.Conn, error)

type subscription struct {
	ctx      context.Context
	cancel   context.CancelFunc
	onChange func(domain.EngagementRecord)
	dial     dialFunc
	policy   retry.Policy

	mu   sync.Mutex
	conn *websocket.Conn

	stopOnce   sync.Once
	done       chan struct{}
	delivering atomic.Bool
}

func newSubscription(parent context.Context, conn *websocket.Conn, onChange func(domain.EngagementRecord), dial dialFunc, policy retry.Policy) *subscription {
	ctx, cancel := context.WithCancel(parent)
	return &subscription{
		ctx:      ctx,
		cancel:   cancel,
		onChange: onChange,
		dial:     dial,
		policy:   policy,
		conn:     conn,
		done:     make(chan struct{}),
	}
}

func (s *subscription) run() {
	defer close(s.done)

	for {
		s.readUntilError()
		if s.ctx.Err() != nil {
			return
		}

		slog.Warn("Live subscription dropped, reconnecting")
		policy := s.policy
		policy.OnRetry = func(attempt int, err error, backoff time.Duration) {
			slog.Debug("Live subscription reconnect failed", "attempt", attempt, "error", err, "backoff", backoff)
		}
		conn, err := retry.Do(s.ctx, policy, retry.Always, func() (*websocket.Conn, error) {
			return s.dial(s.ctx)
		})
		if err != nil {
			return
		}

		s.mu.Lock()
		if s.ctx.Err() != nil {
			s.mu.Unlock()
			_ = conn.Close()
			return
		}
		s.conn = conn
		s.mu.Unlock()
		slog.Info("Live subscription re-established")
	}
}

func (s *subscription) readUntilError() {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	defer func() { _ = conn.Close() }()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if s.ctx.Err() == nil {
				slog.Debug("Live subscription read failed", "error", err)
			}
			return
		}

		var rec domain.EngagementRecord
		if err := json.Unmarshal(msg, &rec); err != nil {
			slog.Warn("Dropping malformed live message", "error", err)
			continue
		}
		if s.ctx.Err() != nil {
			return
		}
		s.delivering.Store(true)
		s.onChange(rec)
		s.delivering.Store(false)
	}
}

// stop cancels reconnects, closes the connection, and waits for the reader
// so no callback runs after it returns. While a callback is running the wait
// is skipped: stop may be called from that callback, and the reader starts no
// further callback once cancelled.
func (s *subscription) stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		s.mu.Lock()
		_ = s.conn.Close()
		s.mu.Unlock()
	})
	if s.delivering.Load() {
		return
	}
	<-s.done
}
