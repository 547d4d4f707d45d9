package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/adapter/httpserver"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/adapter/memory"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/adapter/metrics"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/adapter/postgres"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/adapter/redis"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/adapter/websocket"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/app"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/content"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/domain"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/platform/config"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/platform/logging"
)

const redisBreakerDelay = 30 * time.Second

// changeBus is what the server needs from either bus implementation.
type changeBus interface {
	domain.ChangePublisher
	domain.ChangeSubscriber
}

func runGracefulShutdown(srv *httpserver.Server, broadcaster *websocket.Broadcaster, stopRelay context.CancelFunc) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		stopRelay()
		broadcaster.Stop()

		close(done)
	}()

	return done
}

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config, storageMetrics *metrics.StorageMetrics) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL, postgres.NewMetricsTracer(storageMetrics))
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrationsWithLock(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func setupRedis(ctx context.Context, cfg *config.Config, storageMetrics *metrics.StorageMetrics) *goredis.Client {
	breaker := redis.NewCircuitBreakerHook(redisBreakerDelay, storageMetrics)
	client, err := redis.NewClient(ctx, cfg.RedisURL, breaker)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	reg := metrics.NewRegistry()
	storageMetrics := metrics.NewStorageMetrics(reg)
	engagementMetrics := metrics.NewEngagementMetrics(reg)
	cacheMetrics := metrics.NewCacheMetrics(reg)
	wsMetrics := metrics.NewWebSocketMetrics(reg)
	httpMetrics := metrics.NewHTTPMetrics(reg)

	pool := setupDB(cfg, storageMetrics)
	defer pool.Close()

	healthChecks := []httpserver.HealthCheck{
		{Name: "postgres", Check: pool.Ping},
	}

	var bus changeBus = memory.NewChangeBus()
	if cfg.RedisEnabled() {
		redisClient := setupRedis(context.Background(), cfg, storageMetrics)
		defer func() { _ = redisClient.Close() }()

		bus = redis.NewChangeBus(redisClient, engagementMetrics)
		healthChecks = append(healthChecks, httpserver.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	} else {
		slog.Info("REDIS_URL not set, relaying changes in-process only")
	}

	stats := app.NewStatsService(postgres.NewStatsRepo(pool), bus, engagementMetrics, clock)
	comments := app.NewCommentService(postgres.NewCommentRepo(pool), engagementMetrics, clock)

	placeholders := content.NewPlaceholderCache(content.FileLoader(cfg.PlaceholdersPath), cfg.PlaceholdersTTL, clock, cacheMetrics)
	catalog, err := content.LoadCatalog(placeholders)
	if err != nil {
		slog.Error("Failed to load event content", "error", err)
		os.Exit(1)
	}

	broadcaster := websocket.NewBroadcaster(clock, cfg.MaxWebSocketConnections, wsMetrics)
	checkOrigin := websocket.NewCheckOrigin(cfg.SiteURL, cfg.AppEnv == "development")
	wsHandler := websocket.NewHandler(broadcaster, checkOrigin, stats.GetStats)

	relayCtx, stopRelay := context.WithCancel(context.Background())
	defer stopRelay()
	go app.NewChangeRelay(bus, broadcaster).Run(relayCtx)

	srv := httpserver.NewServer(cfg, stats, comments, catalog, wsHandler, metrics.Handler(reg), httpMetrics, healthChecks)

	done := runGracefulShutdown(srv, broadcaster, stopRelay)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
