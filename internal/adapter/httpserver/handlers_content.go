package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) registerContentRoutes() {
	s.echo.GET("/api/program", s.handleProgram)
	s.echo.GET("/api/speakers", s.handleSpeakers)
}

func (s *Server) handleProgram(c echo.Context) error {
	items := s.catalog.Program(c.Request().Context(), c.QueryParam("tag"))
	if err := c.JSON(http.StatusOK, items); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleSpeakers(c echo.Context) error {
	speakers := s.catalog.Speakers(c.Request().Context(), c.QueryParam("q"))
	if err := c.JSON(http.StatusOK, speakers); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
