package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cognicore/sentitag/internal/metrics"
	"github.com/cognicore/sentitag/pkg/sentitag"
	"github.com/cognicore/sentitag/pkg/sentitag/internalerr"
	"github.com/cognicore/sentitag/pkg/sentitag/lexicon"
	"github.com/cognicore/sentitag/pkg/sentitag/store"
)

const metricsOrigin = "http"

type classifyRequest struct {
	Text    *string `json:"text"`
	Explain bool    `json:"explain"`
}

type classifyResponse struct {
	Result   sentitag.Result  `json:"result"`
	Matches  []sentitag.Match `json:"matches,omitempty"`
	RecordID string           `json:"record_id,omitempty"`
}

type categoryResponse struct {
	Name    lexicon.Category `json:"name"`
	Phrases []string         `json:"phrases"`
}

type recordResponse struct {
	ID           string             `json:"id"`
	Source       string             `json:"source"`
	MessageIndex int                `json:"message_index"`
	Text         string             `json:"text"`
	Categories   []lexicon.Category `json:"categories"`
	Neutral      bool               `json:"neutral"`
	ClassifiedAt time.Time          `json:"classified_at"`
}

type countsResponse struct {
	Total      int64                      `json:"total"`
	Neutral    int64                      `json:"neutral"`
	ByCategory map[lexicon.Category]int64 `json:"by_category"`
}

func (s *Server) handleLiveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": s.clock.Since(s.startTime).Seconds(),
	})
}

func (s *Server) handleClassify(c echo.Context) error {
	var req classifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	res, err := s.classifier.ClassifyValue(req.Text)
	if err != nil {
		metrics.ObserveInvalid(metricsOrigin)
		return echo.NewHTTPError(http.StatusBadRequest, "text is required")
	}
	metrics.ObserveResult(metricsOrigin, res)

	resp := classifyResponse{Result: res}
	if req.Explain {
		resp.Matches = s.classifier.Explain(*req.Text)
	}

	if s.store != nil {
		now := s.clock.Now()
		rec := store.Record{
			ID:           store.NewID(now),
			Source:       metricsOrigin,
			Text:         *req.Text,
			Categories:   res.Categories(),
			Neutral:      res.IsNeutral(),
			ClassifiedAt: now,
		}
		if err := s.store.Save(c.Request().Context(), rec); err != nil {
			s.logger.Error("save record failed", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to record result")
		}
		resp.RecordID = rec.ID
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleCategories(c echo.Context) error {
	entries := s.classifier.Lexicon().Entries()
	out := make([]categoryResponse, len(entries))
	for i, e := range entries {
		out[i] = categoryResponse{Name: e.Category, Phrases: e.Phrases}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleHistory(c echo.Context) error {
	limit := store.DefaultRecentLimit
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}

	recs, err := s.store.Recent(c.Request().Context(), limit)
	if err != nil {
		s.logger.Error("load history failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load history")
	}

	out := make([]recordResponse, len(recs))
	for i, r := range recs {
		out[i] = recordResponse(r)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleRecord(c echo.Context) error {
	rec, err := s.store.Get(c.Request().Context(), c.Param("id"))
	if errors.Is(err, internalerr.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "record not found")
	}
	if err != nil {
		s.logger.Error("load record failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load record")
	}
	return c.JSON(http.StatusOK, recordResponse(rec))
}

func (s *Server) handleCounts(c echo.Context) error {
	counts, err := s.store.Counts(c.Request().Context())
	if err != nil {
		s.logger.Error("count records failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to count records")
	}
	return c.JSON(http.StatusOK, countsResponse(counts))
}
