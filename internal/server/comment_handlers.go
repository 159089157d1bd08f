package server

import (
	"tessera/internal/models"
	"tessera/internal/service"
	"tessera/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetComment handles GET /api/comments/:id. Soft-deleted comments are
// still returned with their flag set.
func (s *Server) GetComment(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	comment, err := s.commentService.Get(c.Context(), id)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(comment)
}

// CreateComment handles POST /api/comments. The authenticated user is
// the author; parent_comment_id makes the comment a reply.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req struct {
		Content         string `json:"content"`
		PostID          uint   `json:"post_id"`
		ParentCommentID *uint  `json:"parent_comment_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if fieldErrs := validation.ValidateCommentContent(req.Content); len(fieldErrs) > 0 {
		return models.RespondError(c, models.NewFieldValidationError(fieldErrs))
	}

	comment, err := s.commentService.Create(c.Context(), req.Content, currentUserID(c), req.PostID, req.ParentCommentID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// UpdateComment handles PUT /api/comments/:id
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	var req struct {
		Content                *string  `json:"content"`
		UsersThatLikedToAdd    []string `json:"users_that_liked_to_add"`
		UsersThatLikedToRemove []string `json:"users_that_liked_to_remove"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Content != nil {
		if fieldErrs := validation.ValidateCommentContent(*req.Content); len(fieldErrs) > 0 {
			return models.RespondError(c, models.NewFieldValidationError(fieldErrs))
		}
	}

	comment, err := s.commentService.Update(c.Context(), id, service.UpdateCommentInput{
		Content:        req.Content,
		LikersToAdd:    req.UsersThatLikedToAdd,
		LikersToRemove: req.UsersThatLikedToRemove,
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment handles PUT /api/comments/:id/delete. The comment is
// flagged as deleted rather than removed so replies keep their parent.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	comment, err := s.commentService.SoftDelete(c.Context(), id)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(comment)
}
