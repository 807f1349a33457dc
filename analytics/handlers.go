package analytics

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// EntriesFunc resolves the feed entries for the request's workspace.
type EntriesFunc func(c echo.Context) ([]Entry, error)

// Handler serves the analytics JSON API.
type Handler struct {
	series  []Point
	entries EntriesFunc
}

// NewHandler creates a handler over a fixed series.
func NewHandler(series []Point, entries EntriesFunc) *Handler {
	return &Handler{series: series, entries: entries}
}

// StatsResponse is the JSON response for the stats endpoint.
type StatsResponse struct {
	Series        []Point `json:"series"`
	Summary       Summary `json:"summary"`
	TotalViews    int     `json:"series_views"`
	TotalVisitors int     `json:"series_visitors"`
	Peak          string  `json:"peak,omitempty"`
}

// Series returns the static traffic series.
func (h *Handler) Series() []Point {
	out := make([]Point, len(h.series))
	copy(out, h.series)
	return out
}

// GetStats returns the series and the aggregates as JSON.
func (h *Handler) GetStats(c echo.Context) error {
	entries, err := h.entries(c)
	if err != nil {
		c.Logger().Errorf("Failed to get analytics entries: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	views, visitors := Totals(h.series)
	resp := StatsResponse{
		Series:        h.Series(),
		Summary:       Summarize(entries),
		TotalViews:    views,
		TotalVisitors: visitors,
	}
	if p, ok := Peak(h.series); ok {
		resp.Peak = p.Name
	}
	return c.JSON(http.StatusOK, resp)
}

// RegisterRoutes registers the analytics API on g with route middleware m.
func (h *Handler) RegisterRoutes(g *echo.Group, m ...echo.MiddlewareFunc) {
	g.GET("/analytics", h.GetStats, m...)
}
