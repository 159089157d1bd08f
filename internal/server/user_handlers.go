package server

import (
	"tessera/internal/models"
	"tessera/internal/service"
	"tessera/internal/validation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// GetUsers handles GET /api/users
func (s *Server) GetUsers(c *fiber.Ctx) error {
	users, err := s.userService.List(c.Context())
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(users)
}

// GetUser handles GET /api/users/:username
func (s *Server) GetUser(c *fiber.Ctx) error {
	user, err := s.userService.Get(c.Context(), c.Params("username"))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(user)
}

// RegisterUser handles POST /api/users. All field failures are
// reported in one response; nothing is written unless every field
// passes.
func (s *Server) RegisterUser(c *fiber.Ctx) error {
	var req struct {
		Username   string `json:"username"`
		Password   string `json:"password"`
		ProfileBio string `json:"profile_bio"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if fieldErrs := validation.ValidateRegistration(req.Username, req.Password, req.ProfileBio); len(fieldErrs) > 0 {
		return models.RespondError(c, models.NewFieldValidationError(fieldErrs))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	user, err := s.userService.Register(c.Context(), req.Username, string(hashedPassword), req.ProfileBio)
	if err != nil {
		return models.RespondError(c, err)
	}

	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// UpdateUser handles PUT /api/users/:username. Only the fields present
// in the body change; a new password is validated and re-hashed.
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	var req struct {
		Password   *string `json:"password"`
		ProfileURL *string `json:"profile_url"`
		ProfileBio *string `json:"profile_bio"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	var fieldErrs []models.FieldError
	if req.Password != nil {
		fieldErrs = append(fieldErrs, validation.ValidatePassword(*req.Password)...)
	}
	if req.ProfileBio != nil {
		fieldErrs = append(fieldErrs, validation.ValidateProfileBio(*req.ProfileBio)...)
	}
	if len(fieldErrs) > 0 {
		return models.RespondError(c, models.NewFieldValidationError(fieldErrs))
	}

	in := service.UpdateProfileInput{
		ProfileURL: req.ProfileURL,
		ProfileBio: req.ProfileBio,
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
		hashedStr := string(hashed)
		in.Password = &hashedStr
	}

	user, err := s.userService.UpdateProfile(c.Context(), c.Params("username"), in)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(user)
}

// FollowUser handles PUT /api/users/:username/follow. The path names
// the follower; the body names the target and the direction.
func (s *Server) FollowUser(c *fiber.Ctx) error {
	var req struct {
		UsernameToFollow string `json:"username_to_follow"`
		IsFollow         *bool  `json:"is_follow"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.UsernameToFollow == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("username_to_follow is required"))
	}
	// Absent is not the same as false; an omitted direction must not
	// silently unfollow.
	if req.IsFollow == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("is_follow is required"))
	}

	followee, err := s.userService.ToggleFollow(c.Context(), c.Params("username"), req.UsernameToFollow, *req.IsFollow)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(followee)
}

// DeleteUser handles DELETE /api/users/:username
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	user, err := s.userService.Delete(c.Context(), c.Params("username"))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(user)
}
