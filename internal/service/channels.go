package service

import (
	"context"
	"fmt"
	"strings"

	"forum/internal/models"
	"go.uber.org/zap"
)

type FollowRepository interface {
	Follow(ctx context.Context, userID, channelID int64) error
	Unfollow(ctx context.Context, userID, channelID int64) error
	IsFollowing(ctx context.Context, userID, channelID int64) (bool, error)
}

// Broadcaster hands a message to every follower of a channel and returns how
// many recipients were addressed.
type Broadcaster interface {
	DispatchAsync(ctx context.Context, channelID int64, msg models.Message) (int, error)
}

type ChannelService struct {
	repo   FollowRepository
	fanout Broadcaster
	log    *zap.Logger
}

func NewChannelService(repo FollowRepository, fanout Broadcaster, log *zap.Logger) *ChannelService {
	return &ChannelService{
		repo:   repo,
		fanout: fanout,
		log:    log.Named("channels"),
	}
}

func (s *ChannelService) Follow(ctx context.Context, userID, channelID int64) error {
	if err := s.repo.Follow(ctx, userID, channelID); err != nil {
		return fmt.Errorf("failed to follow channel: %w", err)
	}
	return nil
}

func (s *ChannelService) Unfollow(ctx context.Context, userID, channelID int64) error {
	if err := s.repo.Unfollow(ctx, userID, channelID); err != nil {
		return fmt.Errorf("failed to unfollow channel: %w", err)
	}
	return nil
}

func (s *ChannelService) IsFollowing(ctx context.Context, userID, channelID int64) (bool, error) {
	following, err := s.repo.IsFollowing(ctx, userID, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to check following: %w", err)
	}
	return following, nil
}

// Announce mails the message to the channel's followers. Recipients are
// resolved before returning; delivery continues in the background.
func (s *ChannelService) Announce(ctx context.Context, channelID int64, req models.AnnouncementRequest) (int, error) {
	msg := models.Message{
		Subject: strings.TrimSpace(req.Subject),
		Body:    req.Body,
	}
	if msg.Subject == "" {
		return 0, fmt.Errorf("announcement subject is required: %w", models.ErrInvalidInput)
	}
	n, err := s.fanout.DispatchAsync(ctx, channelID, msg)
	if err != nil {
		s.log.Error("Failed to start announcement", zap.Int64("channel_id", channelID), zap.Error(err))
		return 0, fmt.Errorf("failed to announce: %w", err)
	}
	s.log.Info("Announcement queued", zap.Int64("channel_id", channelID), zap.Int("recipients", n))
	return n, nil
}
