package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sophisticated-cleaners/booking-backend/internal/database"
	"github.com/sophisticated-cleaners/booking-backend/internal/middleware"
)

// NotificationHandler handles notification HTTP requests
type NotificationHandler struct {
	notifications *database.NotificationRepository
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifications *database.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List handles GET /api/v1/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	notifications, err := h.notifications.ListByRecipient(userCtx.UserID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to load notifications",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkRead handles PATCH /api/v1/notifications/:id/read. Scoped to the
// recipient so nobody can mark someone else's notifications.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	if err := h.notifications.MarkRead(c.Param("id"), userCtx.UserID.String()); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked read"})
}
