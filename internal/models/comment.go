package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment in a discussion thread. Threads are scoped by
// TargetID (a product slug or a fixed community feed id); replies reference
// another comment in the same thread via ParentID.
//
// AuthorName is a snapshot taken when the comment is created. A later profile
// rename does not retroactively alter historical comments.
type Comment struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	TargetID   string `gorm:"not null;index" json:"target_id"`
	ParentID   *uint  `gorm:"index" json:"parent_id,omitempty"`
	AuthorID   string `gorm:"not null;index" json:"author_id"`
	AuthorName string `gorm:"not null" json:"author_name"`
	Content    string `gorm:"type:text;not null" json:"content"`
	// LikeCount is maintained incrementally alongside comment_likes rows,
	// never recomputed from a scan on the read path.
	LikeCount int            `gorm:"not null;default:0" json:"like_count"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Replies is populated by the tree builder; it is never stored.
	Replies []*Comment `gorm:"-" json:"replies,omitempty"`
}

// CommentLike records that an actor liked a comment. The unique index on
// (author_id, comment_id) is what makes the like toggle race-safe: two
// concurrent likes from the same actor collide on insert, so at most one
// membership row can ever exist per pair.
type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AuthorID  string    `gorm:"not null;uniqueIndex:idx_author_comment" json:"author_id"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_author_comment" json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`
}
