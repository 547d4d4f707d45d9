package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/app"
	"github.com/kevinbibang94/baol-digital-show-clean/internal/domain"
	apperrors "github.com/kevinbibang94/baol-digital-show-clean/internal/platform/errors"
)

type postCommentRequest struct {
	Author string `json:"author"`
	Email  string `json:"email"`
	Text   string `json:"text"`
	Page   string `json:"page"`
}

// commentResponse leaves out the email address.
type commentResponse struct {
	ID        uuid.UUID `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Page      string    `json:"page,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toCommentResponse(c domain.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		Author:    c.Author,
		Text:      c.Text,
		Page:      c.Page,
		CreatedAt: c.CreatedAt,
	}
}

func (s *Server) registerCommentRoutes() {
	limiter := newRateLimiter(s.config.CommentRatePerSecond, s.config.CommentBurst)

	s.echo.GET("/api/comments", s.handleListComments)
	s.echo.POST("/api/comments", s.handlePostComment, limiter)
}

func (s *Server) handleListComments(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return apperrors.ValidationError("limit must be an integer").WithField("limit", raw)
		}
		limit = n
	}

	comments, err := s.comments.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return apperrors.UnavailableError("failed to list comments", err)
	}

	resp := make([]commentResponse, 0, len(comments))
	for _, comment := range comments {
		resp = append(resp, toCommentResponse(comment))
	}
	if err := c.JSON(http.StatusOK, resp); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handlePostComment(c echo.Context) error {
	var req postCommentRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	comment, err := s.comments.Post(c.Request().Context(), app.CommentInput{
		Author: req.Author,
		Email:  req.Email,
		Text:   req.Text,
		Page:   req.Page,
	})
	switch {
	case errors.Is(err, domain.ErrEmptyComment):
		return apperrors.ValidationError(domain.ErrEmptyComment.Error())
	case errors.Is(err, domain.ErrCommentTooLong):
		return apperrors.ValidationError(domain.ErrCommentTooLong.Error()).WithField("max_length", domain.MaxCommentLength)
	case err != nil:
		return apperrors.UnavailableError("failed to store comment", err)
	}

	if err := c.JSON(http.StatusCreated, toCommentResponse(*comment)); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
