package repository

import (
	"context"
	"path/filepath"
	"regexp"
	"sync"
	"testing"

	"queentouch/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestCommentRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	comment := &models.Comment{
		TargetID:   "product-1",
		AuthorID:   "gold@queentouch.com",
		AuthorName: "Clienta Gold",
		Content:    "Me encantó el tono",
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "comments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(ctx, comment)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_ListByTarget(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments" WHERE target_id = $1 AND "comments"."deleted_at" IS NULL ORDER BY created_at DESC, id DESC`)).
		WithArgs("product-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "target_id", "content"}).
			AddRow(2, "product-1", "segundo").
			AddRow(1, "product-1", "primero"))

	comments, err := repo.ListByTarget(ctx, "product-1")
	assert.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "segundo", comments[0].Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_ToggleLike_Likes(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO comment_likes`).
		WithArgs("gold@queentouch.com", 5).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`UPDATE "comments" SET "like_count"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT "like_count" FROM "comments"`).
		WillReturnRows(sqlmock.NewRows([]string{"like_count"}).AddRow(3))
	mock.ExpectCommit()

	liked, count, err := repo.ToggleLike(ctx, "gold@queentouch.com", 5)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_ToggleLike_Unlikes(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	// Conflict: the like already exists, so the insert affects no rows.
	mock.ExpectExec(`INSERT INTO comment_likes`).
		WithArgs("gold@queentouch.com", 5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "comment_likes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "comments" SET "like_count"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT "like_count" FROM "comments"`).
		WillReturnRows(sqlmock.NewRows([]string{"like_count"}).AddRow(2))
	mock.ExpectCommit()

	liked, count, err := repo.ToggleLike(ctx, "gold@queentouch.com", 5)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_ToggleLike_UnlikeLostRace(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	// The like row exists when the insert runs, so it conflicts away.
	mock.ExpectExec(`INSERT INTO comment_likes`).
		WithArgs("gold@queentouch.com", 5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	// By the time the delete runs a concurrent unlike already removed the
	// row. No update may follow: decrementing here would drive like_count
	// negative.
	mock.ExpectExec(`DELETE FROM "comment_likes"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT "like_count" FROM "comments"`).
		WillReturnRows(sqlmock.NewRows([]string{"like_count"}).AddRow(0))
	mock.ExpectCommit()

	liked, count, err := repo.ToggleLike(ctx, "gold@queentouch.com", 5)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.GreaterOrEqual(t, count, 0)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_ToggleLike_Concurrent(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "likes.db") + "?_busy_timeout=5000&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Comment{}, &models.CommentLike{}))

	comment := models.Comment{TargetID: "product-1", AuthorID: "a@queentouch.com", AuthorName: "A", Content: "hola"}
	require.NoError(t, db.Create(&comment).Error)

	repo := NewCommentRepository(db)
	ctx := context.Background()

	const toggles = 8
	var wg sync.WaitGroup
	errs := make(chan error, toggles)
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := repo.ToggleLike(ctx, "gold@queentouch.com", comment.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var stored models.Comment
	require.NoError(t, db.First(&stored, comment.ID).Error)
	var rows int64
	require.NoError(t, db.Model(&models.CommentLike{}).
		Where("comment_id = ?", comment.ID).Count(&rows).Error)

	// Whatever the interleaving, the counter tracks membership and never
	// goes negative.
	assert.GreaterOrEqual(t, stored.LikeCount, 0)
	assert.LessOrEqual(t, stored.LikeCount, 1)
	assert.Equal(t, rows, int64(stored.LikeCount))
}

func TestCommentRepository_DeleteWithReplies(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	// Soft delete covers the comment and its direct replies in one statement.
	mock.ExpectExec(`UPDATE "comments" SET "deleted_at"`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	err := repo.DeleteWithReplies(ctx, 7)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
