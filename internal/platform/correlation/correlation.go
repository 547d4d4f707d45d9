package correlation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// HeaderName carries the request ID between client, server and logs.
const HeaderName = "X-Request-ID"

const maxIncomingLen = 64

type contextKey struct{}

// NewID generates a fresh request ID.
func NewID() string {
	return uuid.NewString()
}

// FromHeader accepts a caller-supplied request ID when it is short and made
// of printable ASCII, and otherwise generates a new one.
func FromHeader(value string) string {
	if value == "" || len(value) > maxIncomingLen {
		return NewID()
	}
	for i := 0; i < len(value); i++ {
		if value[i] < 0x21 || value[i] > 0x7e {
			return NewID()
		}
	}
	return value
}

// WithID returns a new context carrying the given request ID.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// ID extracts the request ID from ctx, returning ("", false) if not present.
func ID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKey{}).(string)
	return id, ok && id != ""
}

// Handler wraps an existing slog.Handler and adds a "request_id" attribute
// whenever the record's context carries one.
type Handler struct {
	inner slog.Handler
}

func NewHandler(inner slog.Handler) *Handler {
	return &Handler{inner: inner}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := ID(ctx); ok {
		r.AddAttrs(slog.String("request_id", id))
	}
	if err := h.inner.Handle(ctx, r); err != nil {
		return fmt.Errorf("request id handler: %w", err)
	}
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{inner: h.inner.WithAttrs(attrs)}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{inner: h.inner.WithGroup(name)}
}
