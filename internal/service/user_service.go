// Package service provides application business logic over the repositories.
package service

import (
	"context"

	"tessera/internal/models"
	"tessera/internal/repository"
)

// UserService provides account and follow-graph business logic.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// UpdateProfileInput carries the partial profile update. Only non-nil
// fields are applied; Password arrives already hashed.
type UpdateProfileInput struct {
	Password   *string
	ProfileURL *string
	ProfileBio *string
}

// List returns all users with follow sets and chats expanded.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

// Get returns one user by username with full expansion.
func (s *UserService) Get(ctx context.Context, username string) (*models.User, error) {
	return s.userRepo.GetByUsername(ctx, username)
}

// Register creates an account. The username must be free; the caller
// has already validated the fields and hashed the password.
func (s *UserService) Register(ctx context.Context, username, hashedPassword, profileBio string) (*models.User, error) {
	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Username is already taken")
	}

	user := &models.User{
		Username:   username,
		Password:   hashedPassword,
		ProfileBio: profileBio,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.userRepo.GetByUsername(ctx, username)
}

// UpdateProfile applies a partial profile update. An update with no
// fields present is rejected before any store access.
func (s *UserService) UpdateProfile(ctx context.Context, username string, in UpdateProfileInput) (*models.User, error) {
	if in.Password == nil && in.ProfileURL == nil && in.ProfileBio == nil {
		return nil, models.NewValidationError("No valid profile update inputs provided")
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}

	if in.Password != nil {
		user.Password = *in.Password
	}
	if in.ProfileURL != nil {
		user.ProfileURL = *in.ProfileURL
	}
	if in.ProfileBio != nil {
		user.ProfileBio = *in.ProfileBio
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return s.userRepo.GetByUsername(ctx, username)
}

// ToggleFollow connects or disconnects (follower, followee) on the
// follow relation. Self-follow and unknown followees fail before any
// mutation. Unfollowing a user who was never followed is a no-op, so
// the operation is safe to repeat.
func (s *UserService) ToggleFollow(ctx context.Context, followerUsername, usernameToFollow string, isFollow bool) (*models.User, error) {
	if usernameToFollow == followerUsername {
		return nil, models.NewValidationError("Cannot follow or unfollow yourself")
	}

	followee, err := s.userRepo.FindByUsername(ctx, usernameToFollow)
	if err != nil {
		return nil, err
	}
	if followee == nil {
		return nil, models.NewValidationError("User to follow does not exist")
	}

	follower, err := s.userRepo.FindByUsername(ctx, followerUsername)
	if err != nil {
		return nil, err
	}
	if follower == nil {
		return nil, models.NewNotFoundError("User", followerUsername)
	}

	if isFollow {
		err = s.userRepo.Follow(ctx, followee, follower)
	} else {
		err = s.userRepo.Unfollow(ctx, followee, follower)
	}
	if err != nil {
		return nil, err
	}

	return s.userRepo.GetByUsername(ctx, usernameToFollow)
}

// Delete removes the account and its memberships.
func (s *UserService) Delete(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	if err := s.userRepo.Delete(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
