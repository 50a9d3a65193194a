package repository

import (
	"context"
	"fmt"

	"forum/internal/models"
	"go.uber.org/zap"
)

const (
	hasLikeQuery     = `SELECT EXISTS(SELECT 1 FROM likes WHERE subject_kind = $1 AND subject_id = $2 AND user_id = $3)`
	insertLikeQuery  = `INSERT INTO likes (subject_kind, subject_id, user_id) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`
	deleteLikeQuery  = `DELETE FROM likes WHERE subject_kind = $1 AND subject_id = $2 AND user_id = $3`
	countLikesQuery  = `SELECT COUNT(*) FROM likes WHERE subject_kind = $1 AND subject_id = $2`
	fetchLikersQuery = `SELECT user_id FROM likes WHERE subject_kind = $1 AND subject_id = $2 ORDER BY created_at ASC`
)

func (r *Repository) HasLike(ctx context.Context, subject models.LikeSubject, subjectID, userID int64) (bool, error) {
	var exists bool
	if err := r.scanOne(ctx, hasLikeQuery, []interface{}{string(subject), subjectID, userID}, &exists); err != nil {
		r.log.Error("Failed to check like", zap.String("subject", string(subject)), zap.Int64("subject_id", subjectID), zap.Error(err))
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return exists, nil
}

// InsertLike records the like and reports whether a new row was written.
func (r *Repository) InsertLike(ctx context.Context, subject models.LikeSubject, subjectID, userID int64) (bool, error) {
	res, err := r.db.ExecWithRetry(ctx, retryStrategy, insertLikeQuery, string(subject), subjectID, userID)
	if err != nil {
		r.log.Error("Failed to insert like", zap.String("subject", string(subject)), zap.Int64("subject_id", subjectID), zap.Error(err))
		return false, fmt.Errorf("failed to insert like: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

func (r *Repository) DeleteLike(ctx context.Context, subject models.LikeSubject, subjectID, userID int64) error {
	if _, err := r.db.ExecWithRetry(ctx, retryStrategy, deleteLikeQuery, string(subject), subjectID, userID); err != nil {
		r.log.Error("Failed to delete like", zap.String("subject", string(subject)), zap.Int64("subject_id", subjectID), zap.Error(err))
		return fmt.Errorf("failed to delete like: %w", err)
	}
	return nil
}

func (r *Repository) CountLikes(ctx context.Context, subject models.LikeSubject, subjectID int64) (int, error) {
	var count int
	if err := r.scanOne(ctx, countLikesQuery, []interface{}{string(subject), subjectID}, &count); err != nil {
		r.log.Error("Failed to count likes", zap.String("subject", string(subject)), zap.Int64("subject_id", subjectID), zap.Error(err))
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}

func (r *Repository) FetchLikers(ctx context.Context, subject models.LikeSubject, subjectID int64) ([]int64, error) {
	return r.fetchIDs(ctx, fetchLikersQuery, string(subject), subjectID)
}

func (r *Repository) fetchIDs(ctx context.Context, query string, args ...interface{}) ([]int64, error) {
	rows, err := r.db.QueryWithRetry(ctx, retryStrategy, query, args...)
	if err != nil {
		r.log.Error("Failed to fetch ids", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch ids: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ids: %w", err)
	}
	return ids, nil
}
