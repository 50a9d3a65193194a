package handlers

import (
	"context"
	"net/http"

	"forum/internal/models"
	"github.com/wb-go/wbf/ginext"
	"go.uber.org/zap"
)

type LikeService interface {
	Like(ctx context.Context, subject models.LikeSubject, subjectID, userID int64) (*models.LikeResult, error)
	Unlike(ctx context.Context, subject models.LikeSubject, subjectID, userID int64) (*models.LikeResult, error)
	Likers(ctx context.Context, subject models.LikeSubject, subjectID int64) ([]int64, error)
}

type LikeHandler struct {
	service LikeService
}

func NewLikeHandler(service LikeService) *LikeHandler {
	return &LikeHandler{service: service}
}

// Like returns a handler liking the given subject kind; the subject id is
// the :id path parameter.
func (h *LikeHandler) Like(subject models.LikeSubject) func(*ginext.Context) {
	return func(c *ginext.Context) {
		log := requestLogger(c)
		subjectID, ok := pathID(c, "id")
		if !ok {
			return
		}
		userID, ok := decodeUser(c)
		if !ok {
			return
		}
		res, err := h.service.Like(c.Request.Context(), subject, subjectID, userID)
		if err != nil {
			respondError(c, log, err, "Failed to like")
			return
		}
		log.Debug("Liked", zap.String("subject", string(subject)), zap.Int64("subject_id", subjectID), zap.Int("count", res.Count))
		c.JSON(http.StatusOK, res)
	}
}

func (h *LikeHandler) Unlike(subject models.LikeSubject) func(*ginext.Context) {
	return func(c *ginext.Context) {
		log := requestLogger(c)
		subjectID, ok := pathID(c, "id")
		if !ok {
			return
		}
		userID, ok := decodeUser(c)
		if !ok {
			return
		}
		res, err := h.service.Unlike(c.Request.Context(), subject, subjectID, userID)
		if err != nil {
			respondError(c, log, err, "Failed to unlike")
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func (h *LikeHandler) Likers(subject models.LikeSubject) func(*ginext.Context) {
	return func(c *ginext.Context) {
		log := requestLogger(c)
		subjectID, ok := pathID(c, "id")
		if !ok {
			return
		}
		ids, err := h.service.Likers(c.Request.Context(), subject, subjectID)
		if err != nil {
			respondError(c, log, err, "Failed to get likes")
			return
		}
		c.JSON(http.StatusOK, ginext.H{"user_ids": ids})
	}
}
