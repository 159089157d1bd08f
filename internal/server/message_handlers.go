package server

import (
	"tessera/internal/models"
	"tessera/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetMessages handles GET /api/messages
func (s *Server) GetMessages(c *fiber.Ctx) error {
	messages, err := s.messageService.List(c.Context())
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(messages)
}

// GetMessage handles GET /api/messages/:id
func (s *Server) GetMessage(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	msg, err := s.messageService.Get(c.Context(), id)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(msg)
}

// CreateMessage handles POST /api/messages. The authenticated user is
// the author and must be a member of the target chat.
func (s *Server) CreateMessage(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
		ChatID  uint   `json:"chat_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if fieldErrs := validation.ValidateMessageContent(req.Content); len(fieldErrs) > 0 {
		return models.RespondError(c, models.NewFieldValidationError(fieldErrs))
	}

	msg, err := s.messageService.Create(c.Context(), req.Content, currentUserID(c), req.ChatID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// DeleteMessage handles DELETE /api/messages/:id
func (s *Server) DeleteMessage(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	msg, err := s.messageService.Delete(c.Context(), id)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(msg)
}
