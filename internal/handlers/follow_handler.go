package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/socialhub/backend/internal/models"
	"github.com/socialhub/backend/internal/services"
)

// FollowHandler handles HTTP requests related to the follow graph
type FollowHandler struct {
	graph *services.GraphService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(graph *services.GraphService) *FollowHandler {
	return &FollowHandler{graph: graph}
}

// RegisterFollowRoutes registers routes that require authentication
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.Follow)
	g.DELETE("/users/:id/follow", h.Unfollow)
	g.GET("/users/:id/follow/status", h.GetFollowStatus)
}

// RegisterPublicFollowRoutes registers read-only follow-graph routes
func (h *FollowHandler) RegisterPublicFollowRoutes(g *echo.Group) {
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
	g.GET("/users/:id/follow/counts", h.GetFollowCounts)
}

func pathUserID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	return uint(id), nil
}

// Follow makes the authenticated user follow the user in the path
func (h *FollowHandler) Follow(c echo.Context) error {
	targetID, err := pathUserID(c)
	if err != nil {
		return err
	}
	if err := h.graph.Follow(getUserIDFromContext(c), targetID); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Followed successfully"})
}

// Unfollow removes the authenticated user's follow edge to the path user
func (h *FollowHandler) Unfollow(c echo.Context) error {
	targetID, err := pathUserID(c)
	if err != nil {
		return err
	}
	if err := h.graph.Unfollow(getUserIDFromContext(c), targetID); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Unfollowed successfully"})
}

// GetFollowStatus reports whether the authenticated user follows the path user
func (h *FollowHandler) GetFollowStatus(c echo.Context) error {
	targetID, err := pathUserID(c)
	if err != nil {
		return err
	}
	following, err := h.graph.IsFollowing(getUserIDFromContext(c), targetID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user_id": targetID, "is_following": following})
}

// GetFollowers lists the users following the path user
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	userID, err := pathUserID(c)
	if err != nil {
		return err
	}
	users, err := h.graph.Followers(userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, compactUsers(users))
}

// GetFollowing lists the users the path user follows
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	userID, err := pathUserID(c)
	if err != nil {
		return err
	}
	users, err := h.graph.Following(userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, compactUsers(users))
}

// GetFollowCounts returns follower and following counts for the path user
func (h *FollowHandler) GetFollowCounts(c echo.Context) error {
	userID, err := pathUserID(c)
	if err != nil {
		return err
	}
	followers, following, err := h.graph.Counts(userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user_id":         userID,
		"followers_count": followers,
		"following_count": following,
	})
}

func compactUsers(users []models.User) []models.UserCompact {
	out := make([]models.UserCompact, len(users))
	for i := range users {
		out[i] = users[i].ToCompact()
	}
	return out
}
