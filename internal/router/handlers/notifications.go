package handlers

import (
	"context"
	"net/http"

	"forum/internal/models"
	"github.com/wb-go/wbf/ginext"
)

type NotificationService interface {
	Unread(ctx context.Context, userID int64) ([]*models.Notification, error)
	MarkRead(ctx context.Context, notificationID int64) error
}

type NotificationHandler struct {
	service NotificationService
}

func NewNotificationHandler(service NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) Unread(c *ginext.Context) {
	log := requestLogger(c)
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	notifications, err := h.service.Unread(c.Request.Context(), userID)
	if err != nil {
		respondError(c, log, err, "Failed to get notifications")
		return
	}
	c.JSON(http.StatusOK, ginext.H{"notifications": notifications})
}

func (h *NotificationHandler) MarkRead(c *ginext.Context) {
	log := requestLogger(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.MarkRead(c.Request.Context(), id); err != nil {
		respondError(c, log, err, "Failed to mark notification as read")
		return
	}
	c.JSON(http.StatusOK, ginext.H{"id": id, "is_read": true})
}
