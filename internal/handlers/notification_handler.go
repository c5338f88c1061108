package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/socialhub/backend/internal/models"
	"github.com/socialhub/backend/internal/repositories"
	"github.com/socialhub/backend/internal/services"
)

// NotificationHandler handles HTTP requests related to notifications
type NotificationHandler struct {
	notifier       *services.NotifierService
	userRepository repositories.UserRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifier *services.NotifierService, userRepo repositories.UserRepository) *NotificationHandler {
	return &NotificationHandler{notifier: notifier, userRepository: userRepo}
}

// RegisterNotificationRoutes registers notification-related routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
	g.DELETE("/notifications/:id", h.DeleteNotification)
	g.DELETE("/notifications", h.DeleteAllNotifications)
}

// notificationView is a notification enriched with the actor's profile
type notificationView struct {
	models.Notification
	Actor *models.UserCompact `json:"actor,omitempty"`
}

// GetNotifications retrieves a page of the authenticated user's
// notifications, newest first, each enriched with the acting user's
// compact profile.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	page := 1
	if raw := c.QueryParam("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid page")
		}
		page = parsed
	}
	limit := 20
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

	notifications, total, err := h.notifier.List(getUserIDFromContext(c), page, limit)
	if err != nil {
		return toHTTPError(err)
	}

	// Resolve each distinct actor once per page.
	actors := map[uint]*models.UserCompact{}
	views := make([]notificationView, len(notifications))
	for i, n := range notifications {
		view := notificationView{Notification: n}
		if actor, ok := actors[n.ActorID]; ok {
			view.Actor = actor
		} else if user, err := h.userRepository.GetUserByID(n.ActorID); err == nil {
			compact := user.ToCompact()
			actors[n.ActorID] = &compact
			view.Actor = &compact
		}
		views[i] = view
	}

	return c.JSON(http.StatusOK, echo.Map{
		"notifications": views,
		"page":          page,
		"limit":         limit,
		"total_items":   total,
	})
}

// GetUnreadCount returns the authenticated user's unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	count, err := h.notifier.UnreadCount(getUserIDFromContext(c))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"unread_count": count})
}

// MarkAsRead marks one of the authenticated user's notifications as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID")
	}
	if err := h.notifier.MarkAsRead(getUserIDFromContext(c), uint(id)); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Notification marked as read"})
}

// MarkAllAsRead marks all of the authenticated user's notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	if err := h.notifier.MarkAllAsRead(getUserIDFromContext(c)); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "All notifications marked as read"})
}

// DeleteNotification deletes one of the authenticated user's notifications
func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID")
	}
	if err := h.notifier.Delete(getUserIDFromContext(c), uint(id)); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteAllNotifications deletes every notification of the authenticated user
func (h *NotificationHandler) DeleteAllNotifications(c echo.Context) error {
	if err := h.notifier.DeleteAll(getUserIDFromContext(c)); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
