package repository

import (
	"context"

	"queentouch/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByTarget(ctx context.Context, targetID string) ([]*models.Comment, error)
	ToggleLike(ctx context.Context, authorID string, commentID uint) (liked bool, likeCount int, err error)
	DeleteWithReplies(ctx context.Context, id uint) error
}

// commentRepository implements CommentRepository
type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByTarget(ctx context.Context, targetID string) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Where("target_id = ?", targetID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	return comments, err
}

// ToggleLike flips the (author, comment) like inside one transaction. The
// unique index on comment_likes makes the insert race-safe: concurrent
// toggles for the same pair resolve to exactly one stored row.
func (r *commentRepository) ToggleLike(ctx context.Context, authorID string, commentID uint) (bool, int, error) {
	var liked bool
	var likeCount int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// INSERT ... ON CONFLICT DO NOTHING is atomic and prevents
		// duplicate key errors under concurrent toggles.
		result := tx.Exec(
			`INSERT INTO comment_likes (author_id, comment_id, created_at)
			 VALUES (?, ?, CURRENT_TIMESTAMP)
			 ON CONFLICT (author_id, comment_id) DO NOTHING`,
			authorID, commentID,
		)
		if result.Error != nil {
			return result.Error
		}

		var delta int
		if result.RowsAffected > 0 {
			liked = true
			delta = 1
		} else {
			// Already liked; this toggle removes the like. The delete can
			// still lose to a concurrent unlike of the same pair, so only
			// decrement when this transaction actually removed the row.
			del := tx.
				Where("author_id = ? AND comment_id = ?", authorID, commentID).
				Delete(&models.CommentLike{})
			if del.Error != nil {
				return del.Error
			}
			liked = false
			if del.RowsAffected > 0 {
				delta = -1
			}
		}

		if delta != 0 {
			if err := tx.Model(&models.Comment{}).
				Where("id = ?", commentID).
				Update("like_count", gorm.Expr("like_count + ?", delta)).Error; err != nil {
				return err
			}
		}

		var comment models.Comment
		if err := tx.Select("like_count").First(&comment, commentID).Error; err != nil {
			return err
		}
		likeCount = comment.LikeCount
		return nil
	})

	if err != nil {
		return false, 0, err
	}
	return liked, likeCount, nil
}

// DeleteWithReplies soft deletes a comment and its direct replies in one
// transaction. The cascade is intentionally one level deep; replies to
// replies are re-parented to the root by the tree builder on read.
func (r *commentRepository) DeleteWithReplies(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.
			Where("id = ? OR parent_id = ?", id, id).
			Delete(&models.Comment{}).Error
	})
}
