package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/socialhub/backend/internal/services"
)

// FeedHandler serves the personalized feed and the trending ranking
type FeedHandler struct {
	feed     *services.FeedService
	trending *services.TrendingService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feed *services.FeedService, trending *services.TrendingService) *FeedHandler {
	return &FeedHandler{feed: feed, trending: trending}
}

// RegisterFeedRoutes registers routes that require authentication
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// RegisterPublicFeedRoutes registers routes that tolerate anonymous callers
func (h *FeedHandler) RegisterPublicFeedRoutes(g *echo.Group) {
	g.GET("/trending", h.GetTrending)
}

// GetFeed returns a page of posts authored by users the viewer follows,
// newest first
func (h *FeedHandler) GetFeed(c echo.Context) error {
	page, size := pageParams(c, 10)
	feed, err := h.feed.GetFeed(c.Request().Context(), getUserIDFromContext(c), page, size)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, feed)
}

// GetTrending returns recent posts ranked by like count
func (h *FeedHandler) GetTrending(c echo.Context) error {
	limit := 10
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid limit")
		}
		if parsed > 50 {
			parsed = 50
		}
		limit = parsed
	}

	posts, err := h.trending.GetTrending(c.Request().Context(), getUserIDFromContext(c), limit)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, posts)
}
