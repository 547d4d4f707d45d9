package httpserver

import (
	"context"
	"errors"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/app"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/domain"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/platform/config"
)

// --- Mock implementations ---

type mockStatsService struct {
	getStatsFn        func(ctx context.Context) (*domain.EngagementRecord, error)
	incrementViewsFn  func(ctx context.Context, currentViews int64) (*domain.EngagementRecord, error)
	updateReactionsFn func(ctx context.Context, likes, dislikes int64) (*domain.EngagementRecord, error)
}

func (m *mockStatsService) GetStats(ctx context.Context) (*domain.EngagementRecord, error) {
	if m.getStatsFn != nil {
		return m.getStatsFn(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockStatsService) IncrementViews(ctx context.Context, currentViews int64) (*domain.EngagementRecord, error) {
	if m.incrementViewsFn != nil {
		return m.incrementViewsFn(ctx, currentViews)
	}
	return nil, errors.New("not implemented")
}

func (m *mockStatsService) UpdateReactions(ctx context.Context, likes, dislikes int64) (*domain.EngagementRecord, error) {
	if m.updateReactionsFn != nil {
		return m.updateReactionsFn(ctx, likes, dislikes)
	}
	return nil, errors.New("not implemented")
}

type mockCommentService struct {
	postFn       func(ctx context.Context, in app.CommentInput) (*domain.Comment, error)
	listRecentFn func(ctx context.Context, limit int) ([]domain.Comment, error)
}

func (m *mockCommentService) Post(ctx context.Context, in app.CommentInput) (*domain.Comment, error) {
	if m.postFn != nil {
		return m.postFn(ctx, in)
	}
	return nil, errors.New("not implemented")
}

func (m *mockCommentService) ListRecent(ctx context.Context, limit int) ([]domain.Comment, error) {
	if m.listRecentFn != nil {
		return m.listRecentFn(ctx, limit)
	}
	return nil, nil
}

type mockCatalog struct {
	programFn  func(ctx context.Context, tag string) []domain.ProgramItem
	speakersFn func(ctx context.Context, q string) []domain.Speaker
}

func (m *mockCatalog) Program(ctx context.Context, tag string) []domain.ProgramItem {
	if m.programFn != nil {
		return m.programFn(ctx, tag)
	}
	return nil
}

func (m *mockCatalog) Speakers(ctx context.Context, q string) []domain.Speaker {
	if m.speakersFn != nil {
		return m.speakersFn(ctx, q)
	}
	return nil
}

// --- Test helpers ---

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:               "test",
		Port:                 "0",
		SiteURL:              "https://baol.example",
		CommentRatePerSecond: 100,
		CommentBurst:         100,
	}
}

func newTestServer(t *testing.T, opts ...func(*Server)) *Server {
	t.Helper()

	srv := &Server{
		echo:     echo.New(),
		config:   testConfig(),
		stats:    &mockStatsService{},
		comments: &mockCommentService{},
		catalog:  &mockCatalog{},
	}

	for _, opt := range opts {
		opt(srv)
	}

	// Register routes so endpoints are available for testing
	srv.registerRoutes()

	return srv
}

func withStats(stats statsService) func(*Server) {
	return func(s *Server) {
		s.stats = stats
	}
}

func withComments(comments commentService) func(*Server) {
	return func(s *Server) {
		s.comments = comments
	}
}

func withCatalog(catalog contentCatalog) func(*Server) {
	return func(s *Server) {
		s.catalog = catalog
	}
}

func withConfig(cfg *config.Config) func(*Server) {
	return func(s *Server) {
		s.config = cfg
	}
}

func withHealthChecks(checks ...HealthCheck) func(*Server) {
	return func(s *Server) {
		s.healthChecks = checks
	}
}

// callHandler wraps a handler with error middleware, matching production behavior
func callHandler(handler echo.HandlerFunc, c echo.Context) error {
	return ErrorHandlingMiddleware()(handler)(c)
}
