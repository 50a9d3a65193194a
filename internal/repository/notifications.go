package repository

import (
	"context"
	"database/sql"
	"fmt"

	"forum/internal/models"
	"go.uber.org/zap"
)

const (
	insertNotificationQuery      = `INSERT INTO notification (user_id, sender_id, post_id, comment_id, type) VALUES ($1, $2, $3, $4, $5)`
	fetchUnreadNotificationQuery = `SELECT notification_id, user_id, sender_id, post_id, comment_id, type, is_read, created_at FROM notification WHERE user_id = $1 AND is_read = FALSE ORDER BY created_at DESC, notification_id DESC`
	markNotificationReadQuery    = `UPDATE notification SET is_read = TRUE WHERE notification_id = $1`
)

func (r *Repository) InsertNotification(ctx context.Context, n *models.Notification) error {
	_, err := r.db.ExecWithRetry(ctx, retryStrategy, insertNotificationQuery, n.RecipientID, n.SenderID, n.PostID, n.CommentID, string(n.Type))
	if err != nil {
		r.log.Error("Failed to insert notification",
			zap.Int64("recipient_id", n.RecipientID),
			zap.String("type", string(n.Type)),
			zap.Error(err))
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (r *Repository) FetchUnreadNotificationsForUser(ctx context.Context, userID int64) ([]*models.Notification, error) {
	rows, err := r.db.QueryWithRetry(ctx, retryStrategy, fetchUnreadNotificationQuery, userID)
	if err != nil {
		r.log.Error("Failed to fetch notifications", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	defer rows.Close()

	notifications := []*models.Notification{}
	for rows.Next() {
		var (
			n    models.Notification
			kind string
		)
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.SenderID, &n.PostID, &n.CommentID, &kind, &n.IsRead, &n.CreatedAt); err != nil {
			r.log.Error("Failed to scan notification", zap.Int64("user_id", userID), zap.Error(err))
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.Type = models.NotificationKind(kind)
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notifications: %w", err)
	}
	return notifications, nil
}

func (r *Repository) MarkNotificationRead(ctx context.Context, notificationID int64) error {
	res, err := r.db.ExecWithRetry(ctx, retryStrategy, markNotificationReadQuery, notificationID)
	if err != nil {
		r.log.Error("Failed to mark notification read", zap.Int64("notification_id", notificationID), zap.Error(err))
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return expectAffected(res, fmt.Sprintf("notification %d", notificationID))
}

func expectAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, models.ErrNotFound)
	}
	return nil
}
