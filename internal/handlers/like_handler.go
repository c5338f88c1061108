package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/socialhub/backend/internal/services"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	engagement *services.EngagementService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(engagement *services.EngagementService) *LikeHandler {
	return &LikeHandler{engagement: engagement}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/likes", h.LikePost)
	g.DELETE("/posts/:post_id/likes", h.UnlikePost)
	g.GET("/posts/:post_id/likes/status", h.GetLikeStatus)
}

// LikePost handles liking a post
func (h *LikeHandler) LikePost(c echo.Context) error {
	post, err := h.engagement.LikePost(c.Request().Context(), getUserIDFromContext(c), c.Param("post_id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, post)
}

// UnlikePost handles unliking a post
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	post, err := h.engagement.UnlikePost(c.Request().Context(), getUserIDFromContext(c), c.Param("post_id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// GetLikeStatus reports whether the authenticated user has liked a post
func (h *LikeHandler) GetLikeStatus(c echo.Context) error {
	postID := c.Param("post_id")
	liked, err := h.engagement.HasLiked(getUserIDFromContext(c), postID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"post_id": postID, "has_liked": liked})
}
