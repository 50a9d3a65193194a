package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"forum/internal/models"
	"github.com/wb-go/wbf/ginext"
	"go.uber.org/zap"
)

type CommentService interface {
	PostComments(ctx context.Context, postID int64) (*models.CommentTree, error)
	CreateComment(ctx context.Context, postID int64, cr models.CommentRequest) (*models.Comment, error)
	EditComment(ctx context.Context, commentID int64, content string) (*models.Comment, error)
}

type CommentHandler struct {
	service CommentService
}

func NewCommentHandler(service CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

func (h *CommentHandler) GetPostComments(c *ginext.Context) {
	log := requestLogger(c)
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	log.Debug("Getting comment tree", zap.Int64("post_id", postID))
	t, err := h.service.PostComments(c.Request.Context(), postID)
	if err != nil {
		respondError(c, log, err, "Failed to get comments")
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *CommentHandler) CreateComment(c *ginext.Context) {
	log := requestLogger(c)
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	commentRequest := &models.CommentRequest{}
	if err := json.NewDecoder(c.Request.Body).Decode(commentRequest); err != nil {
		log.Warn("Failed to decode request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ginext.H{"error": "Invalid request body"})
		return
	}
	if commentRequest.ParentID != nil && *commentRequest.ParentID <= 0 {
		log.Warn("Invalid parent id", zap.Int64("parent_id", *commentRequest.ParentID))
		c.JSON(http.StatusBadRequest, ginext.H{"error": "parent_id must be positive"})
		return
	}

	comment, err := h.service.CreateComment(c.Request.Context(), postID, *commentRequest)
	if err != nil {
		respondError(c, log, err, "Failed to create comment")
		return
	}
	log.Debug("Created comment", zap.Int64("comment_id", comment.ID))
	c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) EditComment(c *ginext.Context) {
	log := requestLogger(c)
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	req := &models.EditCommentRequest{}
	if err := json.NewDecoder(c.Request.Body).Decode(req); err != nil {
		log.Warn("Failed to decode request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ginext.H{"error": "Invalid request body"})
		return
	}

	comment, err := h.service.EditComment(c.Request.Context(), commentID, req.Content)
	if err != nil {
		respondError(c, log, err, "Failed to update comment")
		return
	}
	c.JSON(http.StatusOK, comment)
}

func requestLogger(c *ginext.Context) *zap.Logger {
	if v, ok := c.Get("logger"); ok {
		if log, ok := v.(*zap.Logger); ok {
			return log
		}
	}
	return zap.NewNop()
}

func pathID(c *ginext.Context, name string) (int64, bool) {
	idStr := c.Param(name)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		requestLogger(c).Warn("Invalid id", zap.String(name, idStr))
		c.JSON(http.StatusBadRequest, ginext.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

func decodeUser(c *ginext.Context) (int64, bool) {
	var req struct {
		UserID int64 `json:"user_id"`
	}
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil || req.UserID <= 0 {
		c.JSON(http.StatusBadRequest, ginext.H{"error": "user_id is required"})
		return 0, false
	}
	return req.UserID, true
}

func respondError(c *ginext.Context, log *zap.Logger, err error, msg string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		log.Debug(msg, zap.Error(err))
		c.JSON(http.StatusNotFound, ginext.H{"error": "Not found"})
	case errors.Is(err, models.ErrInvalidInput):
		log.Debug(msg, zap.Error(err))
		c.JSON(http.StatusBadRequest, ginext.H{"error": err.Error()})
	default:
		log.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, ginext.H{"error": msg})
	}
}
