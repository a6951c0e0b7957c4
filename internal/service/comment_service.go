package service

import (
	"context"
	"errors"
	"strings"

	"queentouch/internal/middleware"
	"queentouch/internal/models"
	"queentouch/internal/moderation"
	"queentouch/internal/repository"

	"gorm.io/gorm"
)

const (
	maxCommentLen         = 2000
	moderationMaxAttempts = 3
)

// CommentService owns the comment lifecycle: creation behind the moderation
// gate, thread reads, like toggles and owner-or-admin deletes.
type CommentService struct {
	commentRepo repository.CommentRepository
	gate        moderation.Gate
}

type PostCommentInput struct {
	Actor    *models.Actor
	TargetID string
	ParentID *uint
	Content  string
}

type ToggleLikeInput struct {
	Actor     *models.Actor
	CommentID uint
}

type DeleteCommentInput struct {
	Actor     *models.Actor
	CommentID uint
}

// LikeResult reports the state after a toggle.
type LikeResult struct {
	CommentID uint `json:"comment_id"`
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

func NewCommentService(commentRepo repository.CommentRepository, gate moderation.Gate) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		gate:        gate,
	}
}

// PostComment validates, moderates and stores a new comment. The author's
// display name is snapshotted at creation time, so later profile renames do
// not rewrite existing threads.
func (s *CommentService) PostComment(ctx context.Context, in PostCommentInput) (*models.Comment, error) {
	if in.Actor == nil {
		return nil, models.NewUnauthenticatedError("You must be logged in to comment")
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 2000 characters)")
	}
	if strings.TrimSpace(in.TargetID) == "" {
		return nil, models.NewValidationError("Target is required")
	}

	if in.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("comment", *in.ParentID)
			}
			return nil, err
		}
		if parent.TargetID != in.TargetID {
			return nil, models.NewValidationError("Parent comment belongs to a different thread")
		}
	}

	if err := s.moderate(ctx, content); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		TargetID:   in.TargetID,
		ParentID:   in.ParentID,
		AuthorID:   in.Actor.Email,
		AuthorName: in.Actor.Name,
		Content:    content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// moderate runs the content gate, retrying transient failures. A definite
// verdict (accepted or rejected) is never retried.
func (s *CommentService) moderate(ctx context.Context, content string) error {
	var lastErr error
	for attempt := 1; attempt <= moderationMaxAttempts; attempt++ {
		ok, err := s.gate.Review(ctx, content)
		if err == nil {
			if !ok {
				middleware.ModerationVerdicts.WithLabelValues("rejected").Inc()
				return models.NewModerationRejectedError()
			}
			middleware.ModerationVerdicts.WithLabelValues("accepted").Inc()
			return nil
		}
		if !errors.Is(err, moderation.ErrUnavailable) {
			return err
		}
		lastErr = err
		middleware.Logger.WarnContext(ctx, "moderation gate unavailable, retrying",
			"attempt", attempt,
			"error", err.Error(),
		)
	}
	middleware.ModerationVerdicts.WithLabelValues("unavailable").Inc()
	return models.NewModerationUnavailableError(lastErr)
}

// ListComments returns the flat comment list for a target, newest first.
func (s *CommentService) ListComments(ctx context.Context, targetID string) ([]*models.Comment, error) {
	if strings.TrimSpace(targetID) == "" {
		return nil, models.NewValidationError("Target is required")
	}
	comments, err := s.commentRepo.ListByTarget(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	return comments, nil
}

// ListThread returns the target's comments assembled into a reply tree.
func (s *CommentService) ListThread(ctx context.Context, targetID string) ([]*models.Comment, error) {
	comments, err := s.ListComments(ctx, targetID)
	if err != nil {
		return nil, err
	}
	return BuildCommentTree(comments), nil
}

// ToggleLike likes the comment if the actor has not liked it, and removes
// the like otherwise.
func (s *CommentService) ToggleLike(ctx context.Context, in ToggleLikeInput) (*LikeResult, error) {
	if in.Actor == nil {
		return nil, models.NewUnauthenticatedError("You must be logged in to like comments")
	}

	if _, err := s.commentRepo.GetByID(ctx, in.CommentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("comment", in.CommentID)
		}
		return nil, err
	}

	liked, count, err := s.commentRepo.ToggleLike(ctx, in.Actor.Email, in.CommentID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{CommentID: in.CommentID, Liked: liked, LikeCount: count}, nil
}

// DeleteComment removes a comment and its direct replies. Only the author
// or a moderator may delete.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	if in.Actor == nil {
		return models.NewUnauthenticatedError("You must be logged in to delete comments")
	}

	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("comment", in.CommentID)
		}
		return err
	}

	if comment.AuthorID != in.Actor.Email && !in.Actor.CanModerate() {
		return models.NewForbiddenError("You can only delete your own comments")
	}

	return s.commentRepo.DeleteWithReplies(ctx, in.CommentID)
}
