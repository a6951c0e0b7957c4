package server

import (
	"queentouch/internal/models"
	"queentouch/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/comments/:targetId
// Returns the flat comment list for a target, newest first.
func (s *Server) GetComments(c *fiber.Ctx) error {
	targetID := c.Params("targetId")
	comments, err := s.commentService.ListComments(c.Context(), targetID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"data": comments})
}

// GetCommentThread handles GET /api/comments/:targetId/thread
// Returns the target's comments as a nested reply tree.
func (s *Server) GetCommentThread(c *fiber.Ctx) error {
	targetID := c.Params("targetId")
	thread, err := s.commentService.ListThread(c.Context(), targetID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"data": thread})
}

// CreateComment handles POST /api/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req struct {
		TargetID string `json:"target_id"`
		ParentID *uint  `json:"parent_id"`
		Content  string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.PostComment(c.Context(), service.PostCommentInput{
		Actor:    currentActor(c),
		TargetID: req.TargetID,
		ParentID: req.ParentID,
		Content:  req.Content,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// LikeComment handles POST /api/comments/:id/like
// The same call likes and unlikes; the response reports the new state.
func (s *Server) LikeComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.commentService.ToggleLike(c.Context(), service.ToggleLikeInput{
		Actor:     currentActor(c),
		CommentID: commentID,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(result)
}

// DeleteComment handles DELETE /api/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	err = s.commentService.DeleteComment(c.Context(), service.DeleteCommentInput{
		Actor:     currentActor(c),
		CommentID: commentID,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted"})
}
