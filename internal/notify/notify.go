// Package notify decides who, if anyone, is notified about a like, comment
// or reply.
package notify

import (
	"context"
	"errors"
	"fmt"

	"forum/internal/models"
)

// OwnerStore resolves the author of a post or comment. Missing content is
// reported as models.ErrNotFound.
type OwnerStore interface {
	FetchPostOwner(ctx context.Context, postID int64) (int64, error)
	FetchCommentOwner(ctx context.Context, commentID int64) (int64, error)
}

// Derive returns the notification to persist for ev, or nil when nothing
// should be sent: the owner is unknown, the actor is the owner, or the
// event kind is not recognised.
func Derive(ev models.NotificationEvent, owner *int64) *models.Notification {
	if owner == nil {
		return nil
	}
	if *owner == ev.ActorID {
		return nil
	}
	if !ev.Kind.Valid() {
		return nil
	}
	n := &models.Notification{
		RecipientID: *owner,
		SenderID:    ev.ActorID,
		PostID:      ev.TargetPostID,
		Type:        ev.Kind,
	}
	if ev.TargetCommentID != nil {
		id := *ev.TargetCommentID
		n.CommentID = &id
	}
	return n
}

// ResolveOwner looks up whose content ev touches. Replies and comment likes
// go to the comment's author, top-level comments and post likes to the
// post's author. Deleted or missing content yields a nil owner.
func ResolveOwner(ctx context.Context, store OwnerStore, ev models.NotificationEvent) (*int64, error) {
	var (
		owner int64
		err   error
	)
	switch ev.Kind {
	case models.KindCommentPost, models.KindLikePost:
		owner, err = store.FetchPostOwner(ctx, ev.TargetPostID)
	case models.KindReplyComment, models.KindLikeComment:
		if ev.TargetCommentID == nil {
			return nil, nil
		}
		owner, err = store.FetchCommentOwner(ctx, *ev.TargetCommentID)
	default:
		return nil, nil
	}
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve owner for %s: %w", ev.Kind, err)
	}
	return &owner, nil
}
