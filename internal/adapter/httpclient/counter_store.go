// Package httpclient implements domain.CounterStore against the engagement server's REST API,
// with pushes delivered over a websocket subscription.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/gorilla/websocket"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/domain"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/platform/correlation"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/platform/retry"
)

const (
	statsPath     = "/api/reportage/stats"
	viewsPath     = "/api/reportage/views"
	reactionsPath = "/api/reportage/reactions"
	livePath      = "/api/reportage/live"

	defaultTimeout      = 10 * time.Second
	defaultBreakerDelay = 15 * time.Second
	maxErrorBody        = 4 << 10
)

// StatusError is a non-2xx answer from the server.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// clientError reports whether err is a 4xx answer, which says nothing about
// server health.
func clientError(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode >= 400 && se.StatusCode < 500
}

type CounterStore struct {
	baseURL      string
	httpClient   *http.Client
	dialer       *websocket.Dialer
	cb           circuitbreaker.CircuitBreaker[any]
	breakerDelay time.Duration
	reconnect    retry.Policy
}

var _ domain.CounterStore = (*CounterStore)(nil)

type Option func(*CounterStore)

func WithHTTPClient(c *http.Client) Option {
	return func(s *CounterStore) { s.httpClient = c }
}

func WithDialer(d *websocket.Dialer) Option {
	return func(s *CounterStore) { s.dialer = d }
}

// WithBreakerDelay sets how long writes fail fast once the breaker opens.
func WithBreakerDelay(d time.Duration) Option {
	return func(s *CounterStore) { s.breakerDelay = d }
}

// WithReconnectPolicy controls how a dropped subscription is re-dialed.
// MaxAttempts is ignored: reconnecting stops only on Unsubscribe.
func WithReconnectPolicy(p retry.Policy) Option {
	return func(s *CounterStore) { s.reconnect = p }
}

// New creates a store for the server at baseURL (http or https).
func New(baseURL string, opts ...Option) (*CounterStore, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL %q: scheme must be http or https", baseURL)
	}

	s := &CounterStore{
		baseURL:      strings.TrimRight(u.String(), "/"),
		httpClient:   &http.Client{Timeout: defaultTimeout},
		dialer:       websocket.DefaultDialer,
		breakerDelay: defaultBreakerDelay,
		reconnect: retry.Policy{
			InitialBackoff: 500 * time.Millisecond,
			MaxBackoff:     30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reconnect.MaxAttempts = 0

	s.cb = circuitbreaker.Builder[any]().
		WithFailureRateThreshold(60, 5, 10*time.Second).
		WithDelay(s.breakerDelay).
		WithSuccessThreshold(1).
		OnStateChanged(func(e circuitbreaker.StateChangedEvent) {
			slog.Warn("Circuit breaker state changed",
				"component", "engagement_server",
				"from", e.OldState.String(),
				"to", e.NewState.String(),
			)
		}).
		Build()

	return s, nil
}

func (s *CounterStore) Read(ctx context.Context) (domain.EngagementRecord, error) {
	return s.do(ctx, http.MethodGet, statsPath, nil)
}

func (s *CounterStore) IncrementViews(ctx context.Context, currentViews int64) (domain.EngagementRecord, error) {
	return s.write(ctx, viewsPath, map[string]int64{"current_views": currentViews})
}

func (s *CounterStore) UpdateReactions(ctx context.Context, likes, dislikes int64) (domain.EngagementRecord, error) {
	return s.write(ctx, reactionsPath, map[string]int64{"likes": likes, "dislikes": dislikes})
}

func (s *CounterStore) write(ctx context.Context, path string, body any) (domain.EngagementRecord, error) {
	if !s.cb.TryAcquirePermit() {
		return domain.EngagementRecord{}, fmt.Errorf("engagement server circuit breaker open: %w", circuitbreaker.ErrOpen)
	}

	rec, err := s.do(ctx, http.MethodPost, path, body)
	if err != nil && !clientError(err) {
		s.cb.RecordError(err)
		return rec, err
	}
	s.cb.RecordSuccess()
	return rec, err
}

func (s *CounterStore) do(ctx context.Context, method, path string, body any) (domain.EngagementRecord, error) {
	var rec domain.EngagementRecord

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return rec, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return rec, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id, ok := correlation.ID(ctx); ok {
		req.Header.Set(correlation.HeaderName, id)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return rec, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return rec, decodeStatusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return rec, fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return rec, nil
}

func decodeStatusError(resp *http.Response) error {
	se := &StatusError{StatusCode: resp.StatusCode}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		se.Message = body.Error
	} else {
		se.Message = strings.TrimSpace(string(data))
	}
	return se
}

// Subscribe dials the live endpoint and calls onChange for every pushed
// record until the returned Unsubscribe is called. ctx bounds the first dial
// only. A dropped connection is re-dialed with backoff; the server's
// snapshot on connect resynchronizes the caller.
func (s *CounterStore) Subscribe(ctx context.Context, onChange func(domain.EngagementRecord)) (domain.Unsubscribe, error) {
	conn, err := s.dial(ctx)
	if err != nil {
		return nil, err
	}

	sub := newSubscription(context.WithoutCancel(ctx), conn, onChange, s.dial, s.reconnect)
	go sub.run()
	return sub.stop, nil
}

func (s *CounterStore) dial(ctx context.Context) (*websocket.Conn, error) {
	wsURL := "ws" + strings.TrimPrefix(s.baseURL, "http") + livePath

	header := http.Header{}
	if id, ok := correlation.ID(ctx); ok {
		header.Set(correlation.HeaderName, id)
	}

	conn, resp, err := s.dialer.DialContext(ctx, wsURL, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", livePath, err)
	}
	return conn, nil
}
