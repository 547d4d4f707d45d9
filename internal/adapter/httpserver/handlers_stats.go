package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/domain"
	apperrors "github.com/kevinbibang94/baol-digital-show-clean/internal/platform/errors"
)

type incrementViewsRequest struct {
	CurrentViews *int64 `json:"current_views"`
}

type updateReactionsRequest struct {
	Likes    *int64 `json:"likes"`
	Dislikes *int64 `json:"dislikes"`
}

func (s *Server) registerStatsRoutes() {
	s.echo.GET("/api/reportage/stats", s.handleGetStats)
	s.echo.POST("/api/reportage/views", s.handleIncrementViews)
	s.echo.POST("/api/reportage/reactions", s.handleUpdateReactions)
	if s.websocketHandler != nil {
		s.echo.GET("/api/reportage/live", echo.WrapHandler(s.websocketHandler))
	}
}

func (s *Server) handleGetStats(c echo.Context) error {
	rec, err := s.stats.GetStats(c.Request().Context())
	if err != nil {
		return statsError(err, "failed to read stats")
	}
	return writeRecord(c, rec)
}

func (s *Server) handleIncrementViews(c echo.Context) error {
	var req incrementViewsRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.CurrentViews == nil {
		return apperrors.ValidationError("current_views is required")
	}

	rec, err := s.stats.IncrementViews(c.Request().Context(), *req.CurrentViews)
	if err != nil {
		return statsError(err, "failed to increment views").WithField("current_views", *req.CurrentViews)
	}
	return writeRecord(c, rec)
}

func (s *Server) handleUpdateReactions(c echo.Context) error {
	var req updateReactionsRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.Likes == nil || req.Dislikes == nil {
		return apperrors.ValidationError("likes and dislikes are required")
	}

	rec, err := s.stats.UpdateReactions(c.Request().Context(), *req.Likes, *req.Dislikes)
	if err != nil {
		return statsError(err, "failed to update reactions").
			WithField("likes", *req.Likes).
			WithField("dislikes", *req.Dislikes)
	}
	return writeRecord(c, rec)
}

func statsError(err error, message string) *apperrors.Error {
	switch {
	case errors.Is(err, domain.ErrNegativeCounter):
		return apperrors.ValidationError(domain.ErrNegativeCounter.Error())
	case errors.Is(err, domain.ErrRecordNotFound):
		return apperrors.NotFoundError("engagement record not found").WithField("id", domain.ReportageID)
	default:
		return apperrors.UnavailableError(message, err)
	}
}

func writeRecord(c echo.Context, rec *domain.EngagementRecord) error {
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	if err := c.JSON(http.StatusOK, rec); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
