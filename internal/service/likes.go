package service

import (
	"context"
	"errors"
	"fmt"

	"forum/internal/models"
	"go.uber.org/zap"
)

type LikeRepository interface {
	notificationWriter
	FetchComment(ctx context.Context, commentID int64) (*models.Comment, error)
	HasLike(ctx context.Context, subject models.LikeSubject, subjectID, userID int64) (bool, error)
	InsertLike(ctx context.Context, subject models.LikeSubject, subjectID, userID int64) (bool, error)
	DeleteLike(ctx context.Context, subject models.LikeSubject, subjectID, userID int64) error
	CountLikes(ctx context.Context, subject models.LikeSubject, subjectID int64) (int, error)
	FetchLikers(ctx context.Context, subject models.LikeSubject, subjectID int64) ([]int64, error)
}

type LikeService struct {
	repo LikeRepository
	log  *zap.Logger
}

func NewLikeService(repo LikeRepository, log *zap.Logger) *LikeService {
	return &LikeService{
		repo: repo,
		log:  log.Named("likes"),
	}
}

// Like records that userID likes the subject, at most once, and returns the
// current like count. Only a newly recorded like notifies the owner.
func (s *LikeService) Like(ctx context.Context, subject models.LikeSubject, subjectID, userID int64) (*models.LikeResult, error) {
	if err := validSubject(subject); err != nil {
		return nil, err
	}
	has, err := s.repo.HasLike(ctx, subject, subjectID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to like %s: %w", subject, err)
	}
	inserted := false
	if !has {
		inserted, err = s.repo.InsertLike(ctx, subject, subjectID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to like %s: %w", subject, err)
		}
	}
	count, err := s.repo.CountLikes(ctx, subject, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}

	if inserted {
		s.notifyLike(ctx, subject, subjectID, userID)
	}
	return &models.LikeResult{Count: count, Liked: true}, nil
}

// Unlike removes the like if present. Unliking something that was never
// liked is not an error.
func (s *LikeService) Unlike(ctx context.Context, subject models.LikeSubject, subjectID, userID int64) (*models.LikeResult, error) {
	if err := validSubject(subject); err != nil {
		return nil, err
	}
	if err := s.repo.DeleteLike(ctx, subject, subjectID, userID); err != nil {
		return nil, fmt.Errorf("failed to unlike %s: %w", subject, err)
	}
	count, err := s.repo.CountLikes(ctx, subject, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}
	return &models.LikeResult{Count: count, Liked: false}, nil
}

func (s *LikeService) Likers(ctx context.Context, subject models.LikeSubject, subjectID int64) ([]int64, error) {
	if err := validSubject(subject); err != nil {
		return nil, err
	}
	ids, err := s.repo.FetchLikers(ctx, subject, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get likers: %w", err)
	}
	return ids, nil
}

func (s *LikeService) notifyLike(ctx context.Context, subject models.LikeSubject, subjectID, userID int64) {
	ev := models.NotificationEvent{ActorID: userID}
	switch subject {
	case models.SubjectPost:
		ev.Kind = models.KindLikePost
		ev.TargetPostID = subjectID
	case models.SubjectComment:
		comment, err := s.repo.FetchComment(ctx, subjectID)
		if err != nil {
			if !errors.Is(err, models.ErrNotFound) {
				s.log.Warn("Skipping notification, comment lookup failed", zap.Int64("comment_id", subjectID), zap.Error(err))
			}
			return
		}
		ev.Kind = models.KindLikeComment
		ev.TargetPostID = comment.PostID
		ev.TargetCommentID = &comment.ID
	}
	notifyOwner(ctx, s.repo, s.log, ev)
}

func validSubject(subject models.LikeSubject) error {
	switch subject {
	case models.SubjectPost, models.SubjectComment:
		return nil
	}
	return fmt.Errorf("unknown like subject %q: %w", subject, models.ErrInvalidInput)
}
