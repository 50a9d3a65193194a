package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"forum/internal/models"
	"github.com/wb-go/wbf/ginext"
	"go.uber.org/zap"
)

type ChannelService interface {
	Follow(ctx context.Context, userID, channelID int64) error
	Unfollow(ctx context.Context, userID, channelID int64) error
	IsFollowing(ctx context.Context, userID, channelID int64) (bool, error)
	Announce(ctx context.Context, channelID int64, req models.AnnouncementRequest) (int, error)
}

type ChannelHandler struct {
	service ChannelService
}

func NewChannelHandler(service ChannelService) *ChannelHandler {
	return &ChannelHandler{service: service}
}

func (h *ChannelHandler) Follow(c *ginext.Context) {
	log := requestLogger(c)
	channelID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := decodeUser(c)
	if !ok {
		return
	}
	if err := h.service.Follow(c.Request.Context(), userID, channelID); err != nil {
		respondError(c, log, err, "Failed to follow channel")
		return
	}
	c.JSON(http.StatusCreated, ginext.H{"user_id": userID, "channel_id": channelID})
}

func (h *ChannelHandler) Unfollow(c *ginext.Context) {
	log := requestLogger(c)
	channelID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := decodeUser(c)
	if !ok {
		return
	}
	if err := h.service.Unfollow(c.Request.Context(), userID, channelID); err != nil {
		respondError(c, log, err, "Failed to unfollow channel")
		return
	}
	c.JSON(http.StatusOK, ginext.H{"message": "User successfully unfollowed the channel"})
}

func (h *ChannelHandler) IsFollowing(c *ginext.Context) {
	log := requestLogger(c)
	channelID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	following, err := h.service.IsFollowing(c.Request.Context(), userID, channelID)
	if err != nil {
		respondError(c, log, err, "Failed to check following")
		return
	}
	c.JSON(http.StatusOK, ginext.H{"isFollowing": following})
}

func (h *ChannelHandler) Announce(c *ginext.Context) {
	log := requestLogger(c)
	channelID, ok := pathID(c, "id")
	if !ok {
		return
	}
	req := &models.AnnouncementRequest{}
	if err := json.NewDecoder(c.Request.Body).Decode(req); err != nil {
		log.Warn("Failed to decode request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ginext.H{"error": "Invalid request body"})
		return
	}
	n, err := h.service.Announce(c.Request.Context(), channelID, *req)
	if err != nil {
		respondError(c, log, err, "Failed to send announcement")
		return
	}
	c.JSON(http.StatusAccepted, ginext.H{"recipients": n})
}
