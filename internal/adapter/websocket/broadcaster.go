package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/adapter/metrics"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/domain"
)

const (
	commandTimeout = 5 * time.Second
	stopTimeout    = 10 * time.Second
)

type broadcasterCmd interface{ isBroadcasterCmd() }

type baseBroadcasterCmd struct{}

func (baseBroadcasterCmd) isBroadcasterCmd() {}

const (
	registerPending int32 = iota
	registerAccepted
	registerAbandoned
)

type registerCmd struct {
	baseBroadcasterCmd
	connection   *websocket.Conn
	initial      *domain.EngagementRecord
	errorChannel chan error
	// claim decides once whether the actor or a timed-out caller owns the
	// registration.
	claim *atomic.Int32
}

type unregisterCmd struct {
	baseBroadcasterCmd
	connection *websocket.Conn
}

type broadcastCmd struct {
	baseBroadcasterCmd
	record domain.EngagementRecord
}

type clientCountCmd struct {
	baseBroadcasterCmd
	replyChannel chan int
}

type stopCmd struct {
	baseBroadcasterCmd
}

// Broadcaster is an actor owning every live connection. Each broadcast
// snapshot is queued to all clients; clients that cannot keep up are
// disconnected rather than slowing the others down.
type Broadcaster struct {
	cmdCh      chan broadcasterCmd
	clock      clockwork.Clock
	metrics    *metrics.WebSocketMetrics
	clients    map[*websocket.Conn]*clientWriter
	latest     *domain.EngagementRecord
	maxClients int
	done       chan struct{}
}

// NewBroadcaster starts the actor. m may be nil.
func NewBroadcaster(clock clockwork.Clock, maxClients int, m *metrics.WebSocketMetrics) *Broadcaster {
	b := &Broadcaster{
		cmdCh:      make(chan broadcasterCmd, 256),
		clock:      clock,
		metrics:    m,
		clients:    make(map[*websocket.Conn]*clientWriter),
		maxClients: maxClients,
		done:       make(chan struct{}),
	}
	go b.run()
	return b
}

// Register adds a client and queues its first snapshot: initial, or a newer
// record already broadcast. The connection is closed when at capacity. After
// a timeout the actor skips the queued registration and the caller keeps
// ownership of conn.
func (b *Broadcaster) Register(conn *websocket.Conn, initial *domain.EngagementRecord) error {
	errCh := make(chan error, 1)
	claim := new(atomic.Int32)
	b.cmdCh <- registerCmd{connection: conn, initial: initial, errorChannel: errCh, claim: claim}

	timer := b.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case err := <-errCh:
		return err
	case <-timer.Chan():
		if claim.CompareAndSwap(registerPending, registerAbandoned) {
			return fmt.Errorf("register command timed out after %v", commandTimeout)
		}
		// The actor took it just now and is about to answer.
		return <-errCh
	}
}

func (b *Broadcaster) Unregister(conn *websocket.Conn) {
	b.cmdCh <- unregisterCmd{connection: conn}
}

// Broadcast queues rec to every connected client.
func (b *Broadcaster) Broadcast(rec domain.EngagementRecord) {
	b.cmdCh <- broadcastCmd{record: rec}
}

// ClientCount returns the number of connected clients, or -1 on timeout.
func (b *Broadcaster) ClientCount() int {
	replyCh := make(chan int, 1)
	b.cmdCh <- clientCountCmd{replyChannel: replyCh}

	timer := b.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case count := <-replyCh:
		return count
	case <-timer.Chan():
		slog.Warn("ClientCount timed out", "timeout", commandTimeout)
		return -1
	}
}

// Stop closes every connection with a close frame and waits for the actor
// to exit.
func (b *Broadcaster) Stop() {
	b.cmdCh <- stopCmd{}

	timeout := b.clock.NewTimer(stopTimeout)
	defer timeout.Stop()

	select {
	case <-b.done:
		slog.Info("Broadcaster stopped gracefully")
	case <-timeout.Chan():
		slog.Warn("Broadcaster stop timeout exceeded", "timeout", stopTimeout)
	}
}

func (b *Broadcaster) run() {
	defer close(b.done)
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Broadcaster panic recovered", "panic", r)
			b.closeAllClients("broadcaster panic")
		}
	}()

	for cmd := range b.cmdCh {
		switch c := cmd.(type) {
		case registerCmd:
			b.handleRegister(c)
		case unregisterCmd:
			b.handleUnregister(c.connection)
		case broadcastCmd:
			b.handleBroadcast(c.record)
		case clientCountCmd:
			c.replyChannel <- len(b.clients)
		case stopCmd:
			b.handleStop()
			return
		default:
			slog.Warn("Broadcaster received unknown command type", "command_type", fmt.Sprintf("%T", cmd))
		}
	}
}

func (b *Broadcaster) handleRegister(c registerCmd) {
	if !c.claim.CompareAndSwap(registerPending, registerAccepted) {
		slog.Debug("Skipping abandoned registration")
		return
	}

	if len(b.clients) >= b.maxClients {
		slog.Warn("Rejecting client: max clients reached", "max_clients", b.maxClients)
		if b.metrics != nil {
			b.metrics.ConnectionsRejected.Inc()
		}
		_ = c.connection.Close()
		c.errorChannel <- fmt.Errorf("max clients (%d) reached", b.maxClients)
		return
	}

	cw := newClientWriter(c.connection, b.clock)
	b.clients[c.connection] = cw
	if b.metrics != nil {
		b.metrics.ActiveConnections.Inc()
	}

	if first := newer(c.initial, b.latest); first != nil {
		rec := *first
		b.latest = &rec
		if data, err := json.Marshal(first); err == nil {
			cw.trySend(data)
		}
	}

	slog.Debug("Client registered", "total_clients", len(b.clients))
	c.errorChannel <- nil
}

func (b *Broadcaster) handleUnregister(conn *websocket.Conn) {
	cw, exists := b.clients[conn]
	if !exists {
		return
	}

	cw.stop()
	delete(b.clients, conn)
	if b.metrics != nil {
		b.metrics.ActiveConnections.Dec()
	}

	slog.Debug("Client unregistered", "remaining_clients", len(b.clients))
}

func (b *Broadcaster) handleBroadcast(rec domain.EngagementRecord) {
	if b.latest != nil && rec.Version < b.latest.Version {
		slog.Debug("Dropping out-of-order snapshot", "version", rec.Version, "latest_version", b.latest.Version)
		return
	}
	b.latest = &rec

	data, err := json.Marshal(rec)
	if err != nil {
		slog.Error("Failed to marshal broadcast message", "error", err)
		return
	}

	var slow []*websocket.Conn
	for conn, writer := range b.clients {
		if !writer.trySend(data) {
			slow = append(slow, conn)
			continue
		}
		if b.metrics != nil {
			b.metrics.MessagesPublished.Inc()
		}
	}

	for _, conn := range slow {
		slog.Warn("Disconnecting slow client", "remote_addr", conn.RemoteAddr().String())
		if b.metrics != nil {
			b.metrics.SlowClientsEvicted.Inc()
		}
		b.handleUnregister(conn)
	}
}

func (b *Broadcaster) handleStop() {
	slog.Info("Broadcaster shutting down", "total_clients", len(b.clients))
	b.closeAllClients("Server shutting down")
}

func (b *Broadcaster) closeAllClients(reason string) {
	for conn, cw := range b.clients {
		cw.stopGraceful(reason)
		delete(b.clients, conn)
	}
	if b.metrics != nil {
		b.metrics.ActiveConnections.Set(0)
	}
}

// newer picks the later committed of two optional records. Ties go to a,
// the record read from the database.
func newer(a, b *domain.EngagementRecord) *domain.EngagementRecord {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case b.Version > a.Version:
		return b
	default:
		return a
	}
}
