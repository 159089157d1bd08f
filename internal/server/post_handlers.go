package server

import (
	"strings"

	"tessera/internal/models"
	"tessera/internal/service"
	"tessera/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts. An optional authors query parameter
// (comma-separated usernames) restricts the feed.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	var authors []string
	if raw := c.Query("authors"); raw != "" {
		for _, author := range strings.Split(raw, ",") {
			if author = strings.TrimSpace(author); author != "" {
				authors = append(authors, author)
			}
		}
	}

	posts, err := s.postService.List(c.Context(), authors)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	post, err := s.postService.Get(c.Context(), id)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/posts. The authenticated user is the
// author.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if fieldErrs := validation.ValidatePostContent(req.Content); len(fieldErrs) > 0 {
		return models.RespondError(c, models.NewFieldValidationError(fieldErrs))
	}

	post, err := s.postService.Create(c.Context(), req.Content, currentUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id. Content and liker changes may
// arrive together; likers are usernames.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
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
		if fieldErrs := validation.ValidatePostContent(*req.Content); len(fieldErrs) > 0 {
			return models.RespondError(c, models.NewFieldValidationError(fieldErrs))
		}
	}

	post, err := s.postService.Update(c.Context(), id, service.UpdatePostInput{
		Content:        req.Content,
		LikersToAdd:    req.UsersThatLikedToAdd,
		LikersToRemove: req.UsersThatLikedToRemove,
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	post, err := s.postService.Delete(c.Context(), id)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(post)
}
