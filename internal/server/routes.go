package server

import (
	"github.com/labstack/echo/v4"

	"github.com/cognicore/sentitag/internal/metrics"
)

func (s *Server) registerRoutes() {
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	s.echo.POST("/api/classify", s.handleClassify)
	s.echo.GET("/api/categories", s.handleCategories)

	if s.store != nil {
		s.echo.GET("/api/history", s.handleHistory)
		s.echo.GET("/api/history/:id", s.handleRecord)
		s.echo.GET("/api/counts", s.handleCounts)
	}
}
