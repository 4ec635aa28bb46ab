package handlers

import (
	"net/http"
	"time"

	"github.com/anonto42/newsline-radio/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// StatsHandler handles live listener counters and likes
type StatsHandler struct {
	statsRepository repositories.StatsRepository
	now             func() time.Time
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(statsRepo repositories.StatsRepository) *StatsHandler {
	return &StatsHandler{statsRepository: statsRepo, now: time.Now}
}

// RegisterStatsRoutes registers the read-only stats routes
func (h *StatsHandler) RegisterStatsRoutes(g *echo.Group) {
	g.GET("/stats", h.GetStats)
	g.GET("/likes/:user_id", h.GetLikeStatus)
}

// RegisterListenerRoutes registers the counter-changing routes, which are rate limited
func (h *StatsHandler) RegisterListenerRoutes(g *echo.Group) {
	g.POST("/listeners/join", h.Join)
	g.POST("/listeners/leave", h.Leave)
	g.POST("/likes/:user_id/toggle", h.ToggleLike)
}

// Join counts a new listener
func (h *StatsHandler) Join(c echo.Context) error {
	if err := h.statsRepository.TrackListener(c.Request().Context(), h.now().UTC()); err != nil {
		return toHTTPError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Leave removes a listener
func (h *StatsHandler) Leave(c echo.Context) error {
	if err := h.statsRepository.DecrementListener(c.Request().Context(), h.now().UTC()); err != nil {
		return toHTTPError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetStats returns the listener counters
func (h *StatsHandler) GetStats(c echo.Context) error {
	stats, err := h.statsRepository.GetStats(c.Request().Context())
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// ToggleLike flips the like of an anonymous listener
func (h *StatsHandler) ToggleLike(c echo.Context) error {
	liked, err := h.statsRepository.ToggleLike(c.Request().Context(), c.Param("user_id"), h.now().UTC())
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"liked": liked})
}

// GetLikeStatus reports whether the listener likes the stream
func (h *StatsHandler) GetLikeStatus(c echo.Context) error {
	liked, err := h.statsRepository.HasLiked(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"liked": liked})
}
