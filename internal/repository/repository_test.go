package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"forum/internal/models"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/retry"
	"go.uber.org/zap"
)

// sqlExecutor runs queries once against a plain *sql.DB.
type sqlExecutor struct {
	db *sql.DB
}

func (e sqlExecutor) ExecWithRetry(ctx context.Context, _ retry.Strategy, query string, args ...interface{}) (sql.Result, error) {
	return e.db.ExecContext(ctx, query, args...)
}

func (e sqlExecutor) QueryWithRetry(ctx context.Context, _ retry.Strategy, query string, args ...interface{}) (*sql.Rows, error) {
	return e.db.QueryContext(ctx, query, args...)
}

func (e sqlExecutor) QueryRowWithRetry(ctx context.Context, _ retry.Strategy, query string, args ...interface{}) (*sql.Row, error) {
	return e.db.QueryRowContext(ctx, query, args...), nil
}

func setupRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return newRepository(sqlExecutor{db: db}, zap.NewNop()), mock
}

var commentColumns = []string{"comment_id", "post_id", "user_id", "parent_id", "content", "created_at", "updated_at"}

func TestFetchCommentsForPost(t *testing.T) {
	repo, mock := setupRepository(t)
	t1 := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(fetchCommentsForPostQuery).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(commentColumns).
			AddRow(int64(1), int64(42), int64(7), nil, "first", t1, t1).
			AddRow(int64(2), int64(42), int64(9), int64(1), "reply", t1.Add(time.Minute), t1.Add(time.Minute)))

	comments, err := repo.FetchCommentsForPost(context.Background(), 42)

	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Nil(t, comments[0].ParentID)
	require.NotNil(t, comments[1].ParentID)
	assert.Equal(t, int64(1), *comments[1].ParentID)
	assert.Equal(t, int64(9), comments[1].AuthorID)
	assert.Equal(t, "reply", comments[1].Content)
}

func TestFetchCommentsForPostEmpty(t *testing.T) {
	repo, mock := setupRepository(t)
	mock.ExpectQuery(fetchCommentsForPostQuery).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(commentColumns))

	comments, err := repo.FetchCommentsForPost(context.Background(), 42)

	require.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)
}

func TestFetchPostOwnerNotFound(t *testing.T) {
	repo, mock := setupRepository(t)
	mock.ExpectQuery(fetchPostOwnerQuery).
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FetchPostOwner(context.Background(), 42)

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFetchCommentOwner(t *testing.T) {
	repo, mock := setupRepository(t)
	mock.ExpectQuery(fetchCommentOwnerQuery).
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(9)))

	owner, err := repo.FetchCommentOwner(context.Background(), 100)

	require.NoError(t, err)
	assert.Equal(t, int64(9), owner)
}

func TestFetchCommentOwnerUpstreamFailure(t *testing.T) {
	repo, mock := setupRepository(t)
	boom := errors.New("connection reset by peer")
	mock.ExpectQuery(fetchCommentOwnerQuery).
		WithArgs(int64(100)).
		WillReturnError(boom)

	_, err := repo.FetchCommentOwner(context.Background(), 100)

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, models.ErrNotFound)
}

func TestInsertComment(t *testing.T) {
	repo, mock := setupRepository(t)
	now := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)
	parent := int64(1)
	mock.ExpectQuery(insertCommentQuery).
		WithArgs(int64(42), int64(9), "nice", int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"comment_id", "created_at", "updated_at"}).AddRow(int64(5), now, now))

	c, err := repo.InsertComment(context.Background(), 42, 9, "nice", &parent)

	require.NoError(t, err)
	assert.Equal(t, int64(5), c.ID)
	assert.Equal(t, now, c.CreatedAt)
	assert.Equal(t, &parent, c.ParentID)
}

func TestInsertCommentTopLevel(t *testing.T) {
	repo, mock := setupRepository(t)
	now := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(insertCommentQuery).
		WithArgs(int64(42), int64(9), "nice", nil).
		WillReturnRows(sqlmock.NewRows([]string{"comment_id", "created_at", "updated_at"}).AddRow(int64(6), now, now))

	c, err := repo.InsertComment(context.Background(), 42, 9, "nice", nil)

	require.NoError(t, err)
	assert.Nil(t, c.ParentID)
}

func TestInsertCommentMissingPost(t *testing.T) {
	repo, mock := setupRepository(t)
	mock.ExpectQuery(insertCommentQuery).
		WithArgs(int64(42), int64(9), "nice", nil).
		WillReturnError(&pq.Error{Code: "23503"})

	_, err := repo.InsertComment(context.Background(), 42, 9, "nice", nil)

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdateCommentContent(t *testing.T) {
	repo, mock := setupRepository(t)
	mock.ExpectExec(updateCommentQuery).
		WithArgs("edited", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(updateCommentQuery).
		WithArgs("edited", int64(6)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.UpdateCommentContent(context.Background(), 5, "edited"))
	assert.ErrorIs(t, repo.UpdateCommentContent(context.Background(), 6, "edited"), models.ErrNotFound)
}

func TestInsertNotification(t *testing.T) {
	repo, mock := setupRepository(t)
	mock.ExpectExec(insertNotificationQuery).
		WithArgs(int64(7), int64(9), int64(42), nil, "comment_post").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.InsertNotification(context.Background(), &models.Notification{
		RecipientID: 7,
		SenderID:    9,
		PostID:      42,
		Type:        models.KindCommentPost,
	})

	assert.NoError(t, err)
}

func TestFetchUnreadNotificationsForUser(t *testing.T) {
	repo, mock := setupRepository(t)
	now := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(fetchUnreadNotificationQuery).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"notification_id", "user_id", "sender_id", "post_id", "comment_id", "type", "is_read", "created_at"}).
			AddRow(int64(2), int64(7), int64(9), int64(42), int64(100), "like_comment", false, now).
			AddRow(int64(1), int64(7), int64(3), int64(42), nil, "like_post", false, now.Add(-time.Hour)))

	got, err := repo.FetchUnreadNotificationsForUser(context.Background(), 7)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.KindLikeComment, got[0].Type)
	require.NotNil(t, got[0].CommentID)
	assert.Equal(t, int64(100), *got[0].CommentID)
	assert.Nil(t, got[1].CommentID)
}

func TestMarkNotificationRead(t *testing.T) {
	repo, mock := setupRepository(t)
	mock.ExpectExec(markNotificationReadQuery).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(markNotificationReadQuery).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.MarkNotificationRead(context.Background(), 3))
	assert.ErrorIs(t, repo.MarkNotificationRead(context.Background(), 4), models.ErrNotFound)
}

func TestLikeQueries(t *testing.T) {
	repo, mock := setupRepository(t)
	ctx := context.Background()
	mock.ExpectQuery(hasLikeQuery).
		WithArgs("post", int64(42), int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(insertLikeQuery).
		WithArgs("post", int64(42), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insertLikeQuery).
		WithArgs("post", int64(42), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(countLikesQuery).
		WithArgs("post", int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(deleteLikeQuery).
		WithArgs("post", int64(42), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(fetchLikersQuery).
		WithArgs("post", int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(9)).AddRow(int64(11)))

	has, err := repo.HasLike(ctx, models.SubjectPost, 42, 9)
	require.NoError(t, err)
	assert.False(t, has)

	inserted, err := repo.InsertLike(ctx, models.SubjectPost, 42, 9)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.InsertLike(ctx, models.SubjectPost, 42, 9)
	require.NoError(t, err)
	assert.False(t, inserted)

	count, err := repo.CountLikes(ctx, models.SubjectPost, 42)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, repo.DeleteLike(ctx, models.SubjectPost, 42, 9))

	likers, err := repo.FetchLikers(ctx, models.SubjectPost, 42)
	require.NoError(t, err)
	assert.Equal(t, []int64{9, 11}, likers)
}

func TestFollowerQueries(t *testing.T) {
	repo, mock := setupRepository(t)
	ctx := context.Background()
	mock.ExpectQuery(fetchFollowersQuery).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(1)).AddRow(int64(2)))
	mock.ExpectQuery(fetchUserEmailQuery).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"email"}).AddRow("a@example.org"))
	mock.ExpectQuery(fetchUserEmailQuery).
		WithArgs(int64(2)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(followQuery).
		WithArgs(int64(1), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(followQuery).
		WithArgs(int64(1), int64(404)).
		WillReturnError(&pq.Error{Code: "23503"})
	mock.ExpectQuery(isFollowingQuery).
		WithArgs(int64(1), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(unfollowQuery).
		WithArgs(int64(1), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ids, err := repo.FetchFollowerUserIDs(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids)

	email, err := repo.FetchUserEmail(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "a@example.org", email)

	_, err = repo.FetchUserEmail(ctx, 2)
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, repo.Follow(ctx, 1, 3))
	assert.ErrorIs(t, repo.Follow(ctx, 1, 404), models.ErrNotFound)

	following, err := repo.IsFollowing(ctx, 1, 3)
	require.NoError(t, err)
	assert.True(t, following)

	require.NoError(t, repo.Unfollow(ctx, 1, 3))
}
