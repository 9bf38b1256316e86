package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/stackload-app/stackload/backend/internal/middleware"
	"github.com/stackload-app/stackload/backend/internal/models"
	"github.com/stackload-app/stackload/backend/internal/repositories"
	"github.com/stackload-app/stackload/backend/internal/response"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	userRepository         repositories.UserRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository, userRepo repositories.UserRepository) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notifRepo,
		userRepository:         userRepo,
	}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PATCH("/notifications/:id/read", h.MarkAsRead)
	g.PATCH("/notifications/read-all", h.MarkAllAsRead)
}

// EnrichedNotification includes actor info
type EnrichedNotification struct {
	models.Notification
	Actor models.UserCompact `json:"actor"`
}

func (h *NotificationHandler) enrichNotifications(c echo.Context, notifications []models.Notification) []EnrichedNotification {
	enriched := make([]EnrichedNotification, len(notifications))
	userCache := make(map[string]models.UserCompact)

	for i, n := range notifications {
		enriched[i] = EnrichedNotification{Notification: n}
		if actor, ok := userCache[n.ActorID]; ok {
			enriched[i].Actor = actor
			continue
		}
		if user, err := h.userRepository.GetUserByID(c.Request().Context(), n.ActorID); err == nil {
			compact := user.ToCompact()
			userCache[n.ActorID] = compact
			enriched[i].Actor = compact
		}
	}
	return enriched
}

// GetNotifications returns the subject's notifications, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	subject := middleware.SubjectFrom(c)
	if subject == nil {
		return response.Error(c, http.StatusUnauthorized, response.CodeUnauthenticated, "Not signed in")
	}

	page, limit := parsePagination(c)
	notifications, total, err := h.notificationRepository.GetByRecipientID(c.Request().Context(), subject.ID, page, limit)
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load notifications")
	}

	return response.Paginated(c, h.enrichNotifications(c, notifications), page, limit, total)
}

// GetUnreadCount returns the number of unread notifications
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	subject := middleware.SubjectFrom(c)
	if subject == nil {
		return response.Error(c, http.StatusUnauthorized, response.CodeUnauthenticated, "Not signed in")
	}

	count, err := h.notificationRepository.GetUnreadCount(c.Request().Context(), subject.ID)
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load unread count")
	}
	return response.OK(c, http.StatusOK, echo.Map{"unread_count": count})
}

// MarkAsRead transitions one notification from unread to read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	subject := middleware.SubjectFrom(c)
	if subject == nil {
		return response.Error(c, http.StatusUnauthorized, response.CodeUnauthenticated, "Not signed in")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid notification ID")
	}

	if err := h.notificationRepository.MarkAsRead(c.Request().Context(), id, subject.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Error(c, http.StatusNotFound, response.CodeNotFound, "Notification not found")
		}
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to mark notification as read")
	}
	return response.OK(c, http.StatusOK, echo.Map{"message": "Notification marked as read"})
}

// MarkAllAsRead transitions all of the subject's unread notifications to read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	subject := middleware.SubjectFrom(c)
	if subject == nil {
		return response.Error(c, http.StatusUnauthorized, response.CodeUnauthenticated, "Not signed in")
	}

	if err := h.notificationRepository.MarkAllAsRead(c.Request().Context(), subject.ID); err != nil {
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to mark notifications as read")
	}
	return response.OK(c, http.StatusOK, echo.Map{"message": "All notifications marked as read"})
}
