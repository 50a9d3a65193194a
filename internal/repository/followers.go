package repository

import (
	"context"
	"errors"
	"fmt"

	"forum/internal/models"
	"go.uber.org/zap"
)

const (
	fetchFollowersQuery = `SELECT user_id FROM following WHERE channel_id = $1 ORDER BY user_id`
	fetchUserEmailQuery = `SELECT email FROM users WHERE user_id = $1`
	followQuery         = `INSERT INTO following (user_id, channel_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	unfollowQuery       = `DELETE FROM following WHERE user_id = $1 AND channel_id = $2`
	isFollowingQuery    = `SELECT EXISTS(SELECT 1 FROM following WHERE user_id = $1 AND channel_id = $2)`
)

func (r *Repository) FetchFollowerUserIDs(ctx context.Context, channelID int64) ([]int64, error) {
	ids, err := r.fetchIDs(ctx, fetchFollowersQuery, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch followers of channel %d: %w", channelID, err)
	}
	return ids, nil
}

func (r *Repository) FetchUserEmail(ctx context.Context, userID int64) (string, error) {
	var email string
	if err := r.scanOne(ctx, fetchUserEmailQuery, []interface{}{userID}, &email); err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			r.log.Error("Failed to fetch user email", zap.Int64("user_id", userID), zap.Error(err))
		}
		return "", fmt.Errorf("failed to fetch email of user %d: %w", userID, err)
	}
	return email, nil
}

func (r *Repository) Follow(ctx context.Context, userID, channelID int64) error {
	if _, err := r.db.ExecWithRetry(ctx, retryStrategy, followQuery, userID, channelID); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("user %d or channel %d: %w", userID, channelID, models.ErrNotFound)
		}
		r.log.Error("Failed to follow channel", zap.Int64("user_id", userID), zap.Int64("channel_id", channelID), zap.Error(err))
		return fmt.Errorf("failed to follow channel: %w", err)
	}
	return nil
}

func (r *Repository) Unfollow(ctx context.Context, userID, channelID int64) error {
	if _, err := r.db.ExecWithRetry(ctx, retryStrategy, unfollowQuery, userID, channelID); err != nil {
		r.log.Error("Failed to unfollow channel", zap.Int64("user_id", userID), zap.Int64("channel_id", channelID), zap.Error(err))
		return fmt.Errorf("failed to unfollow channel: %w", err)
	}
	return nil
}

func (r *Repository) IsFollowing(ctx context.Context, userID, channelID int64) (bool, error) {
	var following bool
	if err := r.scanOne(ctx, isFollowingQuery, []interface{}{userID, channelID}, &following); err != nil {
		r.log.Error("Failed to check following", zap.Int64("user_id", userID), zap.Int64("channel_id", channelID), zap.Error(err))
		return false, fmt.Errorf("failed to check following: %w", err)
	}
	return following, nil
}
