package repository

import (
	"context"
	"errors"
	"fmt"

	"forum/internal/models"
	"go.uber.org/zap"
)

const (
	fetchCommentsForPostQuery = `SELECT comment_id, post_id, user_id, parent_id, content, created_at, updated_at FROM comment WHERE post_id = $1 ORDER BY created_at ASC, comment_id ASC`
	fetchCommentQuery         = `SELECT comment_id, post_id, user_id, parent_id, content, created_at, updated_at FROM comment WHERE comment_id = $1`
	fetchCommentOwnerQuery    = `SELECT user_id FROM comment WHERE comment_id = $1`
	fetchPostOwnerQuery       = `SELECT user_id FROM post WHERE post_id = $1`
	insertCommentQuery        = `INSERT INTO comment (post_id, user_id, content, parent_id) VALUES ($1, $2, $3, $4) RETURNING comment_id, created_at, updated_at`
	updateCommentQuery        = `UPDATE comment SET content = $1, updated_at = now() WHERE comment_id = $2`
)

func (r *Repository) FetchCommentsForPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	rows, err := r.db.QueryWithRetry(ctx, retryStrategy, fetchCommentsForPostQuery, postID)
	if err != nil {
		r.log.Error("Failed to fetch comments for post", zap.Int64("post_id", postID), zap.Error(err))
		return nil, fmt.Errorf("failed to fetch comments for post: %w", err)
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.ParentID, &c.Content, &c.CreatedAt, &c.UpdatedAt); err != nil {
			r.log.Error("Failed to scan comment", zap.Int64("post_id", postID), zap.Error(err))
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}
	return comments, nil
}

func (r *Repository) FetchComment(ctx context.Context, commentID int64) (*models.Comment, error) {
	var c models.Comment
	err := r.scanOne(ctx, fetchCommentQuery, []interface{}{commentID},
		&c.ID, &c.PostID, &c.AuthorID, &c.ParentID, &c.Content, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			r.log.Error("Failed to fetch comment", zap.Int64("comment_id", commentID), zap.Error(err))
		}
		return nil, fmt.Errorf("failed to fetch comment %d: %w", commentID, err)
	}
	return &c, nil
}

func (r *Repository) FetchCommentOwner(ctx context.Context, commentID int64) (int64, error) {
	var owner int64
	if err := r.scanOne(ctx, fetchCommentOwnerQuery, []interface{}{commentID}, &owner); err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			r.log.Error("Failed to fetch comment owner", zap.Int64("comment_id", commentID), zap.Error(err))
		}
		return 0, fmt.Errorf("failed to fetch owner of comment %d: %w", commentID, err)
	}
	return owner, nil
}

func (r *Repository) FetchPostOwner(ctx context.Context, postID int64) (int64, error) {
	var owner int64
	if err := r.scanOne(ctx, fetchPostOwnerQuery, []interface{}{postID}, &owner); err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			r.log.Error("Failed to fetch post owner", zap.Int64("post_id", postID), zap.Error(err))
		}
		return 0, fmt.Errorf("failed to fetch owner of post %d: %w", postID, err)
	}
	return owner, nil
}

// InsertComment stores a new comment. A post that does not exist is reported
// as models.ErrNotFound; the parent id is stored as given.
func (r *Repository) InsertComment(ctx context.Context, postID, authorID int64, content string, parentID *int64) (*models.Comment, error) {
	c := models.Comment{
		PostID:   postID,
		AuthorID: authorID,
		ParentID: parentID,
		Content:  content,
	}
	err := r.scanOne(ctx, insertCommentQuery, []interface{}{postID, authorID, content, parentID},
		&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			r.log.Warn("Comment references missing post", zap.Int64("post_id", postID))
			return nil, fmt.Errorf("post %d: %w", postID, models.ErrNotFound)
		}
		r.log.Error("Failed to create comment in DB", zap.Error(err))
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return &c, nil
}

func (r *Repository) UpdateCommentContent(ctx context.Context, commentID int64, content string) error {
	res, err := r.db.ExecWithRetry(ctx, retryStrategy, updateCommentQuery, content, commentID)
	if err != nil {
		r.log.Error("Failed to update comment", zap.Int64("comment_id", commentID), zap.Error(err))
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return expectAffected(res, fmt.Sprintf("comment %d", commentID))
}
