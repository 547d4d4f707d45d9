package engagement

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/domain"
)

// Snapshot is a consistent copy of everything a Machine displays.
type Snapshot struct {
	Vote     domain.Vote `json:"vote"`
	Viewed   bool        `json:"viewed"`
	Counters Counters    `json:"counters"`
	Loading  bool        `json:"loading"`
}

// Machine is safe for concurrent use. The mutex only guards local state and is
// never held across a CounterStore call, so an action may start while an
// earlier one is still waiting on the store.
type Machine struct {
	store  domain.CounterStore
	local  domain.LocalStore
	logger *slog.Logger

	mu          sync.Mutex
	state       domain.VoteState
	counters    Counters
	loading     bool
	viewPending bool
	closed      bool
	subscribed  bool
	unsubscribe domain.Unsubscribe

	onPush func(Snapshot)
}

type Option func(*Machine)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) { m.logger = logger }
}

// WithPushObserver calls fn with the machine's snapshot after every pushed
// record has been applied. fn runs on the subscription's goroutine.
func WithPushObserver(fn func(Snapshot)) Option {
	return func(m *Machine) { m.onPush = fn }
}

// New restores the device's VoteState from local. Call Start to load the
// shared counters and begin receiving pushes.
func New(store domain.CounterStore, local domain.LocalStore, opts ...Option) *Machine {
	m := &Machine{
		store:  store,
		local:  local,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.state = LoadState(local, m.logger)
	return m
}

// Start reads the shared record and subscribes to its changes. Failures are
// logged and returned, and the machine stays usable either way. Calling Start
// again refreshes the counters and retries a failed subscription, but never
// opens a second one.
func (m *Machine) Start(ctx context.Context) error {
	m.mu.Lock()
	m.loading = true
	subscribe := !m.subscribed && !m.closed
	m.subscribed = true
	m.mu.Unlock()

	var errs []error

	rec, err := m.store.Read(ctx)
	if err != nil {
		readErr := &domain.RemoteReadError{Err: err}
		m.logger.WarnContext(ctx, "Failed to read engagement record", "error", readErr)
		errs = append(errs, readErr)
	} else {
		m.reconcile(rec)
	}

	if !subscribe {
		return errors.Join(errs...)
	}

	unsubscribe, err := m.store.Subscribe(ctx, m.OnRemoteUpdate)
	if err != nil {
		m.mu.Lock()
		m.subscribed = false
		m.mu.Unlock()

		subErr := &domain.RemoteReadError{Err: err}
		m.logger.WarnContext(ctx, "Failed to subscribe to engagement changes", "error", subErr)
		errs = append(errs, subErr)
		return errors.Join(errs...)
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		unsubscribe()
		return errors.Join(errs...)
	}
	m.unsubscribe = unsubscribe
	m.mu.Unlock()

	return errors.Join(errs...)
}

func (m *Machine) Like(ctx context.Context) domain.Vote {
	return m.react(ctx, ActionLike)
}

func (m *Machine) Dislike(ctx context.Context) domain.Vote {
	return m.react(ctx, ActionDislike)
}

func (m *Machine) react(ctx context.Context, action Action) domain.Vote {
	m.mu.Lock()
	next, delta := Transition(m.state.Vote, action)
	m.state.Vote = next
	m.counters = m.counters.Apply(delta)
	m.loading = true
	likes, dislikes := m.counters.Likes, m.counters.Dislikes
	m.persistLocked(ctx)
	m.mu.Unlock()

	rec, err := m.store.UpdateReactions(ctx, likes, dislikes)
	if err != nil {
		m.logger.WarnContext(ctx, "Failed to update reactions",
			"action", action.String(),
			"likes", likes,
			"dislikes", dislikes,
			"error", &domain.RemoteWriteError{Op: "update_reactions", Err: err})
		return next
	}

	m.reconcile(rec)
	return next
}

// RegisterView counts one view for this device. It returns true only for the
// call that actually incremented the shared counter; later calls, and calls
// made while an increment is in flight, do nothing.
func (m *Machine) RegisterView(ctx context.Context) bool {
	m.mu.Lock()
	if m.state.Viewed || m.viewPending {
		m.mu.Unlock()
		return false
	}
	m.viewPending = true
	m.loading = true
	current := m.counters.Views
	m.mu.Unlock()

	rec, err := m.store.IncrementViews(ctx, current)

	m.mu.Lock()
	m.viewPending = false
	if err != nil {
		m.mu.Unlock()
		m.logger.WarnContext(ctx, "Failed to register view",
			"views", current,
			"error", &domain.RemoteWriteError{Op: "increment_views", Err: err})
		return false
	}
	m.state.Viewed = true
	m.persistLocked(ctx)
	m.mu.Unlock()

	m.reconcile(rec)
	return true
}

// OnRemoteUpdate replaces the display counters with a pushed snapshot. The
// device's own vote is never derived from the aggregate.
func (m *Machine) OnRemoteUpdate(rec domain.EngagementRecord) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.counters = countersOf(rec)
	snap := m.snapshotLocked()
	m.mu.Unlock()

	if m.onPush != nil {
		m.onPush(snap)
	}
}

func (m *Machine) reconcile(rec domain.EngagementRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.counters = countersOf(rec)
	m.loading = false
}

func (m *Machine) persistLocked(ctx context.Context) {
	if err := SaveState(m.local, m.state); err != nil {
		m.logger.ErrorContext(ctx, "Failed to persist vote state", "error", err)
	}
}

// Close stops the push subscription. Snapshots arriving afterwards are
// ignored; in-flight store calls are left to finish. Close may be called from
// a push observer.
func (m *Machine) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	unsubscribe := m.unsubscribe
	m.unsubscribe = nil
	m.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (m *Machine) State() domain.VoteState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine) Counters() Counters {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters
}

// Loading reports whether the display counters are still waiting on the
// store. It stays true after a failed call until the next successful one.
func (m *Machine) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Machine) snapshotLocked() Snapshot {
	return Snapshot{
		Vote:     m.state.Vote,
		Viewed:   m.state.Viewed,
		Counters: m.counters,
		Loading:  m.loading,
	}
}
