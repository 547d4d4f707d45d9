package httpserver_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/adapter/httpclient"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/adapter/httpserver"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/adapter/memory"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/adapter/websocket"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/app"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/content"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/domain"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/engagement"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/platform/config"
)

// forwardingBroadcaster lets the test observe what the relay hands to the
// websocket broadcaster.
type forwardingBroadcaster struct {
	next *websocket.Broadcaster

	mu   sync.Mutex
	seen int
}

func (f *forwardingBroadcaster) Broadcast(rec domain.EngagementRecord) {
	f.mu.Lock()
	f.seen++
	f.mu.Unlock()
	f.next.Broadcast(rec)
}

func (f *forwardingBroadcaster) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen
}

type backend struct {
	url         string
	broadcaster *websocket.Broadcaster
}

func startBackend(t *testing.T) backend {
	t.Helper()

	clock := clockwork.NewRealClock()
	statsRepo := memory.NewStatsRepository(clock)
	bus := memory.NewChangeBus()

	stats := app.NewStatsService(statsRepo, bus, nil, clock)
	comments := app.NewCommentService(memory.NewCommentRepository(), nil, clock)
	catalog, err := content.LoadCatalog(nil)
	require.NoError(t, err)

	broadcaster := websocket.NewBroadcaster(clock, 10, nil)
	t.Cleanup(broadcaster.Stop)
	wsHandler := websocket.NewHandler(broadcaster, func(*http.Request) bool { return true }, stats.GetStats)

	forward := &forwardingBroadcaster{next: broadcaster}
	relay := app.NewChangeRelay(bus, forward)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go relay.Run(ctx)

	// Wait for the relay to be listening before any client writes.
	require.Eventually(t, func() bool {
		rec, err := statsRepo.Get(context.Background())
		require.NoError(t, err)
		_ = bus.PublishStatsChanged(context.Background(), *rec)
		return forward.count() > 0
	}, 2*time.Second, 5*time.Millisecond)

	cfg := &config.Config{
		AppEnv:               "test",
		Port:                 "0",
		SiteURL:              "https://baol.example",
		CommentRatePerSecond: 100,
		CommentBurst:         100,
	}
	srv := httpserver.NewServer(cfg, stats, comments, catalog, wsHandler, nil, nil, nil)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	return backend{url: ts.URL, broadcaster: broadcaster}
}

func startDevice(t *testing.T, url string) *engagement.Machine {
	t.Helper()

	store, err := httpclient.New(url)
	require.NoError(t, err)

	m := engagement.New(store, memory.NewLocalStore())
	require.NoError(t, m.Start(context.Background()))
	t.Cleanup(m.Close)
	return m
}

func TestEngagementFlow_TwoDevices(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping end-to-end flow in short mode")
	}

	b := startBackend(t)
	ctx := context.Background()

	first := startDevice(t, b.url)
	second := startDevice(t, b.url)
	require.Eventually(t, func() bool { return b.broadcaster.ClientCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	assert.False(t, first.Loading())
	assert.Equal(t, engagement.Counters{}, first.Counters())

	assert.Equal(t, domain.VoteLike, first.Like(ctx))
	// The connect snapshot may still be in flight, so wait for the push that follows it.
	require.Eventually(t, func() bool {
		return first.Counters() == engagement.Counters{Likes: 1}
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return second.Counters().Likes == 1
	}, 2*time.Second, 10*time.Millisecond, "push should reach the other device")
	assert.Equal(t, domain.VoteNone, second.State().Vote, "pushes never touch the local vote")

	assert.Equal(t, domain.VoteDislike, second.Dislike(ctx))
	require.Eventually(t, func() bool {
		return first.Counters() == engagement.Counters{Likes: 1, Dislikes: 1}
	}, 2*time.Second, 10*time.Millisecond)

	// Switching reverses the earlier reaction in a single write.
	assert.Equal(t, domain.VoteDislike, first.Dislike(ctx))
	require.Eventually(t, func() bool {
		return second.Counters() == engagement.Counters{Dislikes: 2}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestEngagementFlow_ViewCountedOncePerDevice(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping end-to-end flow in short mode")
	}

	b := startBackend(t)
	ctx := context.Background()
	device := startDevice(t, b.url)

	assert.True(t, device.RegisterView(ctx))
	assert.False(t, device.RegisterView(ctx))

	assert.True(t, device.State().Viewed)
	require.Eventually(t, func() bool {
		return device.Counters().Views == 1
	}, 2*time.Second, 10*time.Millisecond)

	other := startDevice(t, b.url)
	assert.Equal(t, int64(1), other.Counters().Views)
	assert.True(t, other.RegisterView(ctx))
	require.Eventually(t, func() bool {
		return device.Counters().Views == 2
	}, 2*time.Second, 10*time.Millisecond)
}
