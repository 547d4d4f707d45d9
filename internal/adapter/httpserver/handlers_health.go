package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/platform/version"
)

const serviceName = "baol-server"

const (
	startupProbeTimeout   = 2 * time.Second
	readinessProbeTimeout = 5 * time.Second
)

// HealthCheck is a named dependency probe.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// probeResponse reports every check, keyed by name: "ok" or the failure.
type probeResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (s *Server) registerHealthRoutes() {
	s.echo.GET("/health/startup", s.probe(startupProbeTimeout))
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.probe(readinessProbeTimeout))
	s.echo.GET("/version", s.handleVersion)
}

func (s *Server) handleLiveness(c echo.Context) error {
	response := map[string]any{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(s.startTime).Seconds()),
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write liveness response: %w", err)
	}
	return nil
}

// probe runs all health checks in parallel within timeout. Any failure makes
// the whole probe unhealthy.
func (s *Server) probe(timeout time.Duration) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
		defer cancel()

		resp := s.runHealthChecks(ctx)
		status := http.StatusOK
		if resp.Status != "ready" {
			status = http.StatusServiceUnavailable
		}
		if err := c.JSON(status, resp); err != nil {
			return fmt.Errorf("failed to send JSON response: %w", err)
		}
		return nil
	}
}

func (s *Server) runHealthChecks(ctx context.Context) probeResponse {
	resp := probeResponse{Status: "ready", Checks: make(map[string]string, len(s.healthChecks))}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, hc := range s.healthChecks {
		wg.Go(func() {
			result := "ok"
			if err := hc.Check(ctx); err != nil {
				slog.WarnContext(ctx, "Health check failed", "check", hc.Name, "error", err)
				result = err.Error()
			}

			mu.Lock()
			defer mu.Unlock()
			resp.Checks[hc.Name] = result
			if result != "ok" {
				resp.Status = "unhealthy"
			}
		})
	}
	wg.Wait()

	return resp
}

func (s *Server) handleVersion(c echo.Context) error {
	if err := c.JSON(http.StatusOK, version.Get(serviceName)); err != nil {
		return fmt.Errorf("failed to write version response: %w", err)
	}
	return nil
}
