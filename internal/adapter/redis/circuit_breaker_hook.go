package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	goredis "github.com/redis/go-redis/v9"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/adapter/metrics"
)

const breakerName = "redis"

// CircuitBreakerHook is a go-redis hook that stops talking to Redis once
// most recent calls failed. While open, publishes and pings fail at once, so
// a dead Redis slows down neither stats writes nor readiness probes.
type CircuitBreakerHook struct {
	cb      circuitbreaker.CircuitBreaker[any]
	metrics *metrics.StorageMetrics
}

var _ goredis.Hook = (*CircuitBreakerHook)(nil)

// NewCircuitBreakerHook opens at a 60% failure rate over at least 5 calls in
// a 10s window and lets one probe through after delay. m may be nil.
func NewCircuitBreakerHook(delay time.Duration, m *metrics.StorageMetrics) *CircuitBreakerHook {
	h := &CircuitBreakerHook{metrics: m}
	h.cb = circuitbreaker.Builder[any]().
		WithFailureRateThreshold(60, 5, 10*time.Second).
		WithDelay(delay).
		WithSuccessThreshold(1).
		OnStateChanged(h.stateChanged).
		Build()
	return h
}

func (h *CircuitBreakerHook) stateChanged(e circuitbreaker.StateChangedEvent) {
	slog.Warn("Circuit breaker state changed",
		"component", breakerName,
		"from", e.OldState.String(),
		"to", e.NewState.String(),
	)
	if h.metrics != nil {
		h.metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(StateValue(e.NewState))
	}
}

// StateValue maps a breaker state to the gauge encoding used in metrics.
func StateValue(state circuitbreaker.State) float64 {
	switch state {
	case circuitbreaker.ClosedState:
		return 0
	case circuitbreaker.HalfOpenState:
		return 1
	case circuitbreaker.OpenState:
		return 2
	default:
		return -1
	}
}

// guard runs call when the breaker allows it and records the outcome.
// A redis.Nil reply is an answer, not a failure.
func (h *CircuitBreakerHook) guard(call func() error) error {
	if !h.cb.TryAcquirePermit() {
		if h.metrics != nil {
			h.metrics.CircuitBreakerRejections.WithLabelValues(breakerName).Inc()
		}
		return fmt.Errorf("redis unavailable: %w", circuitbreaker.ErrOpen)
	}

	err := call()
	if err != nil && !errors.Is(err, goredis.Nil) {
		h.cb.RecordError(err)
		return err
	}
	h.cb.RecordSuccess()
	return err
}

func (h *CircuitBreakerHook) DialHook(next goredis.DialHook) goredis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		var conn net.Conn
		err := h.guard(func() error {
			var dialErr error
			conn, dialErr = next(ctx, network, addr)
			return dialErr
		})
		if err != nil {
			return nil, fmt.Errorf("redis dial %s: %w", addr, err)
		}
		return conn, nil
	}
}

func (h *CircuitBreakerHook) ProcessHook(next goredis.ProcessHook) goredis.ProcessHook {
	return func(ctx context.Context, cmd goredis.Cmder) error {
		return h.guard(func() error { return next(ctx, cmd) })
	}
}

func (h *CircuitBreakerHook) ProcessPipelineHook(next goredis.ProcessPipelineHook) goredis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []goredis.Cmder) error {
		return h.guard(func() error { return next(ctx, cmds) })
	}
}

func (h *CircuitBreakerHook) State() circuitbreaker.State {
	return h.cb.State()
}
