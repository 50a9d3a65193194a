package models

import "time"

type CommentRequest struct {
	UserID   int64  `json:"user_id"`
	Content  string `json:"content"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

type EditCommentRequest struct {
	Content string `json:"content"`
}

type Comment struct {
	ID        int64      `json:"id"`
	PostID    int64      `json:"post_id"`
	AuthorID  int64      `json:"user_id"`
	ParentID  *int64     `json:"parent_id"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Replies   []*Comment `json:"replies"`
}

// CommentTree is the threaded view of one post's comments. It is rebuilt on
// every read and never stored.
type CommentTree struct {
	PostID        int64      `json:"post_id"`
	Comments      []*Comment `json:"comments"`
	TotalComments int        `json:"total_comments"`
}

type NotificationKind string

const (
	KindLikePost     NotificationKind = "like_post"
	KindLikeComment  NotificationKind = "like_comment"
	KindCommentPost  NotificationKind = "comment_post"
	KindReplyComment NotificationKind = "reply_comment"
)

func (k NotificationKind) Valid() bool {
	switch k {
	case KindLikePost, KindLikeComment, KindCommentPost, KindReplyComment:
		return true
	}
	return false
}

// NotificationEvent describes a mutation that may notify the owner of the
// affected post or comment.
type NotificationEvent struct {
	Kind            NotificationKind
	ActorID         int64
	TargetPostID    int64
	TargetCommentID *int64
}

type Notification struct {
	ID          int64            `json:"id"`
	RecipientID int64            `json:"user_id"`
	SenderID    int64            `json:"sender_id"`
	PostID      int64            `json:"post_id"`
	CommentID   *int64           `json:"comment_id"`
	Type        NotificationKind `json:"type"`
	IsRead      bool             `json:"is_read"`
	CreatedAt   time.Time        `json:"created_at"`
}

type LikeSubject string

const (
	SubjectPost    LikeSubject = "post"
	SubjectComment LikeSubject = "comment"
)

type LikeRequest struct {
	UserID int64 `json:"user_id"`
}

type LikeResult struct {
	Count int  `json:"like_count"`
	Liked bool `json:"liked"`
}

type FollowRequest struct {
	UserID int64 `json:"user_id"`
}

type AnnouncementRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Message is a broadcast sent to every follower of a channel.
type Message struct {
	Subject string
	Body    string
}
