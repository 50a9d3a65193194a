package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"forum/internal/models"
)

type likeKey struct {
	subject   models.LikeSubject
	subjectID int64
	userID    int64
}

// repoFake is an in-memory stand-in for the postgres repository.
type repoFake struct {
	mu            sync.Mutex
	posts         map[int64]int64
	comments      map[int64]*models.Comment
	likes         map[likeKey]bool
	notifications []*models.Notification
	following     map[[2]int64]bool
	nextID        int64

	insertNotificationErr error
	ownerErr              error
	fetchCommentsErr      error
}

func newRepoFake() *repoFake {
	return &repoFake{
		posts:     map[int64]int64{},
		comments:  map[int64]*models.Comment{},
		likes:     map[likeKey]bool{},
		following: map[[2]int64]bool{},
		nextID:    100,
	}
}

func (f *repoFake) FetchPostOwner(_ context.Context, postID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ownerErr != nil {
		return 0, f.ownerErr
	}
	owner, ok := f.posts[postID]
	if !ok {
		return 0, fmt.Errorf("post %d: %w", postID, models.ErrNotFound)
	}
	return owner, nil
}

func (f *repoFake) FetchCommentOwner(_ context.Context, commentID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ownerErr != nil {
		return 0, f.ownerErr
	}
	c, ok := f.comments[commentID]
	if !ok {
		return 0, fmt.Errorf("comment %d: %w", commentID, models.ErrNotFound)
	}
	return c.AuthorID, nil
}

func (f *repoFake) FetchCommentsForPost(_ context.Context, postID int64) ([]*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchCommentsErr != nil {
		return nil, f.fetchCommentsErr
	}
	var out []*models.Comment
	for id := int64(0); id <= f.nextID; id++ {
		if c, ok := f.comments[id]; ok && c.PostID == postID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *repoFake) FetchComment(_ context.Context, commentID int64) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[commentID]
	if !ok {
		return nil, fmt.Errorf("comment %d: %w", commentID, models.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (f *repoFake) InsertComment(_ context.Context, postID, authorID int64, content string, parentID *int64) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[postID]; !ok {
		return nil, fmt.Errorf("post %d: %w", postID, models.ErrNotFound)
	}
	f.nextID++
	now := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(f.nextID) * time.Second)
	c := &models.Comment{
		ID:        f.nextID,
		PostID:    postID,
		AuthorID:  authorID,
		ParentID:  parentID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.comments[c.ID] = c
	cp := *c
	return &cp, nil
}

func (f *repoFake) UpdateCommentContent(_ context.Context, commentID int64, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[commentID]
	if !ok {
		return fmt.Errorf("comment %d: %w", commentID, models.ErrNotFound)
	}
	c.Content = content
	return nil
}

func (f *repoFake) InsertNotification(_ context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertNotificationErr != nil {
		return f.insertNotificationErr
	}
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *repoFake) HasLike(_ context.Context, subject models.LikeSubject, subjectID, userID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.likes[likeKey{subject, subjectID, userID}], nil
}

func (f *repoFake) InsertLike(_ context.Context, subject models.LikeSubject, subjectID, userID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := likeKey{subject, subjectID, userID}
	if f.likes[k] {
		return false, nil
	}
	f.likes[k] = true
	return true, nil
}

func (f *repoFake) DeleteLike(_ context.Context, subject models.LikeSubject, subjectID, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.likes, likeKey{subject, subjectID, userID})
	return nil
}

func (f *repoFake) CountLikes(_ context.Context, subject models.LikeSubject, subjectID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for k := range f.likes {
		if k.subject == subject && k.subjectID == subjectID {
			n++
		}
	}
	return n, nil
}

func (f *repoFake) FetchLikers(_ context.Context, subject models.LikeSubject, subjectID int64) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := []int64{}
	for k := range f.likes {
		if k.subject == subject && k.subjectID == subjectID {
			ids = append(ids, k.userID)
		}
	}
	return ids, nil
}

func (f *repoFake) FetchUnreadNotificationsForUser(_ context.Context, userID int64) ([]*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Notification{}
	for i := len(f.notifications) - 1; i >= 0; i-- {
		n := f.notifications[i]
		if n.RecipientID == userID && !n.IsRead {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *repoFake) MarkNotificationRead(_ context.Context, notificationID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notifications {
		if n.ID == notificationID {
			n.IsRead = true
			return nil
		}
	}
	return fmt.Errorf("notification %d: %w", notificationID, models.ErrNotFound)
}

func (f *repoFake) Follow(_ context.Context, userID, channelID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.following[[2]int64{userID, channelID}] = true
	return nil
}

func (f *repoFake) Unfollow(_ context.Context, userID, channelID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.following, [2]int64{userID, channelID})
	return nil
}

func (f *repoFake) IsFollowing(_ context.Context, userID, channelID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.following[[2]int64{userID, channelID}], nil
}

func (f *repoFake) sentNotifications() []*models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.Notification{}, f.notifications...)
}
