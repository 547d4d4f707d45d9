package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/adapter/metrics"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/app"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/domain"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/platform/config"
)

type statsService interface {
	GetStats(ctx context.Context) (*domain.EngagementRecord, error)
	IncrementViews(ctx context.Context, currentViews int64) (*domain.EngagementRecord, error)
	UpdateReactions(ctx context.Context, likes, dislikes int64) (*domain.EngagementRecord, error)
}

type commentService interface {
	Post(ctx context.Context, in app.CommentInput) (*domain.Comment, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Comment, error)
}

type contentCatalog interface {
	Program(ctx context.Context, tag string) []domain.ProgramItem
	Speakers(ctx context.Context, q string) []domain.Speaker
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	stats    statsService
	comments commentService
	catalog  contentCatalog

	websocketHandler http.Handler
	metricsHandler   http.Handler
	httpMetrics      *metrics.HTTPMetrics

	healthChecks []HealthCheck
	startTime    time.Time
}

// NewServer wires routes. metricsHandler and httpMetrics may be nil.
func NewServer(cfg *config.Config, stats statsService, comments commentService, catalog contentCatalog, websocketHandler http.Handler, metricsHandler http.Handler, httpMetrics *metrics.HTTPMetrics, healthChecks []HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:             e,
		config:           cfg,
		stats:            stats,
		comments:         comments,
		catalog:          catalog,
		websocketHandler: websocketHandler,
		metricsHandler:   metricsHandler,
		httpMetrics:      httpMetrics,
		healthChecks:     healthChecks,
		startTime:        time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// ServeHTTP exposes the router for in-process tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
