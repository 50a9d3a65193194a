package service

import (
	"context"
	"fmt"

	"forum/internal/models"
	"go.uber.org/zap"
)

type NotificationRepository interface {
	FetchUnreadNotificationsForUser(ctx context.Context, userID int64) ([]*models.Notification, error)
	MarkNotificationRead(ctx context.Context, notificationID int64) error
}

type NotificationService struct {
	repo NotificationRepository
	log  *zap.Logger
}

func NewNotificationService(repo NotificationRepository, log *zap.Logger) *NotificationService {
	return &NotificationService{
		repo: repo,
		log:  log.Named("notifications"),
	}
}

// Unread returns the user's unread notifications, newest first.
func (s *NotificationService) Unread(ctx context.Context, userID int64) ([]*models.Notification, error) {
	notifications, err := s.repo.FetchUnreadNotificationsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	return notifications, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, notificationID int64) error {
	if err := s.repo.MarkNotificationRead(ctx, notificationID); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	s.log.Debug("Notification marked read", zap.Int64("notification_id", notificationID))
	return nil
}
