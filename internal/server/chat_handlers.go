package server

import (
	"tessera/internal/models"
	"tessera/internal/service"
	"tessera/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetChats handles GET /api/chats
func (s *Server) GetChats(c *fiber.Ctx) error {
	chats, err := s.chatService.List(c.Context())
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(chats)
}

// GetChat handles GET /api/chats/:id
func (s *Server) GetChat(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	chat, err := s.chatService.Get(c.Context(), id)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(chat)
}

// CreateChat handles POST /api/chats. The member list is checked for
// duplicates and minimum size before the store is touched; a chat with
// exactly the same member set is a conflict.
func (s *Server) CreateChat(c *fiber.Ctx) error {
	var req struct {
		Name  string `json:"name"`
		Users []uint `json:"users"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if fieldErrs := validation.ValidateChatMembers(req.Users); len(fieldErrs) > 0 {
		return models.RespondError(c, models.NewFieldValidationError(fieldErrs))
	}

	chat, err := s.chatService.Create(c.Context(), req.Name, req.Users)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(chat)
}

// UpdateChat handles PUT /api/chats/:id. Members to add or remove are
// addressed by username.
func (s *Server) UpdateChat(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	var req struct {
		Name          *string  `json:"name"`
		UsersToAdd    []string `json:"users_to_add"`
		UsersToRemove []string `json:"users_to_remove"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	chat, err := s.chatService.Update(c.Context(), id, service.UpdateChatInput{
		Name:          req.Name,
		UsersToAdd:    req.UsersToAdd,
		UsersToRemove: req.UsersToRemove,
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(chat)
}

// DeleteChat handles DELETE /api/chats/:id
func (s *Server) DeleteChat(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	chat, err := s.chatService.Delete(c.Context(), id)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(chat)
}
