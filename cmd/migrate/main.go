// Command migrate brings the database schema up to date without starting the
// server, and can zero the engagement counters before an event.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/adapter/postgres"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/domain"
)

func main() {
	var (
		databaseURL   = flag.String("database", os.Getenv("DATABASE_URL"), "Postgres URL (or set DATABASE_URL env)")
		resetCounters = flag.Bool("reset-counters", false, "Set views, likes and dislikes back to zero after migrating")
		verbose       = flag.Bool("verbose", false, "Verbose logging")
	)
	flag.Parse()

	if *databaseURL == "" {
		log.Fatal("Database URL required (--database or DATABASE_URL env)")
	}

	// Configure logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.Connect(ctx, *databaseURL, nil)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()
	slog.Info("Connected to database", "url", sanitizeURL(*databaseURL))

	if err := postgres.RunMigrationsWithLock(ctx, pool); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if *resetCounters {
		if err := reset(ctx, postgres.NewStatsRepo(pool)); err != nil {
			log.Fatalf("Reset failed: %v", err)
		}
	}

	slog.Info("Done")
}

func reset(ctx context.Context, repo domain.StatsRepository) error {
	if _, err := repo.SetViews(ctx, 0); err != nil {
		return fmt.Errorf("failed to reset views: %w", err)
	}
	rec, err := repo.SetReactions(ctx, 0, 0)
	if err != nil {
		return fmt.Errorf("failed to reset reactions: %w", err)
	}
	slog.Info("Counters reset", "updated_at", rec.UpdatedAt)
	return nil
}

func sanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}
