package websocket

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/domain"
)

// Handler upgrades GET /api/reportage/live. Clients only listen: the first
// message is the current record and every later one is a pushed snapshot.
type Handler struct {
	upgrader    websocket.Upgrader
	broadcaster *Broadcaster
	current     func(ctx context.Context) (*domain.EngagementRecord, error)
}

// NewHandler wires the upgrade endpoint. current supplies the snapshot sent
// on connect; when it fails the client waits for the next broadcast.
func NewHandler(b *Broadcaster, checkOrigin func(*http.Request) bool, current func(ctx context.Context) (*domain.EngagementRecord, error)) *Handler {
	return &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		broadcaster: b,
		current:     current,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	initial, err := h.current(r.Context())
	if err != nil {
		slog.WarnContext(r.Context(), "Failed to load snapshot for new client", "error", err)
		initial = nil
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.DebugContext(r.Context(), "WebSocket upgrade failed", "error", err)
		return
	}

	if err := h.broadcaster.Register(conn, initial); err != nil {
		slog.WarnContext(r.Context(), "WebSocket client rejected", "error", err)
		_ = conn.Close()
		return
	}
	defer h.broadcaster.Unregister(conn)

	// Reading drives pong handling and notices disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
