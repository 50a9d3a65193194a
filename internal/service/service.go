package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"forum/internal/models"
	"forum/internal/notify"
	"forum/internal/tree"
	"go.uber.org/zap"
)

type CommentRepository interface {
	notify.OwnerStore
	FetchCommentsForPost(ctx context.Context, postID int64) ([]*models.Comment, error)
	FetchComment(ctx context.Context, commentID int64) (*models.Comment, error)
	InsertComment(ctx context.Context, postID, authorID int64, content string, parentID *int64) (*models.Comment, error)
	UpdateCommentContent(ctx context.Context, commentID int64, content string) error
	InsertNotification(ctx context.Context, n *models.Notification) error
}

type Service struct {
	repo CommentRepository
	log  *zap.Logger
}

func NewService(repo CommentRepository, log *zap.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.Named("service"),
	}
}

// PostComments returns the threaded comments of a post. A missing post is
// reported as models.ErrNotFound; a post without comments yields an empty
// tree.
func (s *Service) PostComments(ctx context.Context, postID int64) (*models.CommentTree, error) {
	if _, err := s.repo.FetchPostOwner(ctx, postID); err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.log.Error("Failed to look up post", zap.Int64("post_id", postID), zap.Error(err))
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	flat, err := s.repo.FetchCommentsForPost(ctx, postID)
	if err != nil {
		s.log.Error("Failed to get comments", zap.Int64("post_id", postID), zap.Error(err))
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	s.log.Debug("Got all comments for the post", zap.Int64("post_id", postID), zap.Int("count", len(flat)))

	t := tree.Build(postID, flat)
	return &t, nil
}

// CreateComment stores a comment or reply and then notifies the author of
// the post (top-level comment) or of the parent comment (reply).
//
// Notification is best-effort: the comment is returned even when the owner
// lookup or the notification insert fails. The insert, the lookup and the
// notification write are separate statements and may interleave with other
// writers.
func (s *Service) CreateComment(ctx context.Context, postID int64, cr models.CommentRequest) (*models.Comment, error) {
	content := strings.TrimSpace(cr.Content)
	if content == "" {
		return nil, fmt.Errorf("comment content is required: %w", models.ErrInvalidInput)
	}

	comment, err := s.repo.InsertComment(ctx, postID, cr.UserID, content, cr.ParentID)
	if err != nil {
		s.log.Error("Failed to create comment", zap.Int64("post_id", postID), zap.Error(err))
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	comment.Replies = []*models.Comment{}

	ev := models.NotificationEvent{
		Kind:         models.KindCommentPost,
		ActorID:      cr.UserID,
		TargetPostID: postID,
	}
	if cr.ParentID != nil {
		ev.Kind = models.KindReplyComment
		ev.TargetCommentID = cr.ParentID
	}
	notifyOwner(ctx, s.repo, s.log, ev)

	return comment, nil
}

func (s *Service) EditComment(ctx context.Context, commentID int64, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("comment content is required: %w", models.ErrInvalidInput)
	}
	if err := s.repo.UpdateCommentContent(ctx, commentID, content); err != nil {
		return nil, fmt.Errorf("failed to edit comment: %w", err)
	}
	comment, err := s.repo.FetchComment(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload comment: %w", err)
	}
	return comment, nil
}

type notificationWriter interface {
	notify.OwnerStore
	InsertNotification(ctx context.Context, n *models.Notification) error
}

// notifyOwner resolves the owner touched by ev and persists the derived
// notification. Failures are logged and swallowed.
func notifyOwner(ctx context.Context, repo notificationWriter, log *zap.Logger, ev models.NotificationEvent) {
	owner, err := notify.ResolveOwner(ctx, repo, ev)
	if err != nil {
		log.Warn("Skipping notification, owner lookup failed", zap.String("type", string(ev.Kind)), zap.Error(err))
		return
	}
	n := notify.Derive(ev, owner)
	if n == nil {
		log.Debug("No notification for event",
			zap.String("type", string(ev.Kind)),
			zap.Int64("actor_id", ev.ActorID),
			zap.Bool("owner_found", owner != nil))
		return
	}
	if err := repo.InsertNotification(ctx, n); err != nil {
		log.Warn("Failed to store notification",
			zap.String("type", string(n.Type)),
			zap.Int64("recipient_id", n.RecipientID),
			zap.Error(err))
	}
}
