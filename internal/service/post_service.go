package service

import (
	"context"
	"fmt"

	"tessera/internal/models"
	"tessera/internal/repository"
)

// PostService provides post business logic.
type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

// NewPostService returns a new PostService.
func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{postRepo: postRepo, userRepo: userRepo}
}

// UpdatePostInput carries a partial post update. Likers are addressed
// by username.
type UpdatePostInput struct {
	Content        *string
	LikersToAdd    []string
	LikersToRemove []string
}

// List returns posts, optionally restricted to the given authors.
func (s *PostService) List(ctx context.Context, authorUsernames []string) ([]models.Post, error) {
	return s.postRepo.List(ctx, authorUsernames)
}

// Get returns one post with likers and ordered comments.
func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// Create persists a new post. The author must exist.
func (s *PostService) Create(ctx context.Context, content string, authorID uint) (*models.Post, error) {
	author, err := s.userRepo.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, models.NewValidationError("Author does not exist")
	}

	post := &models.Post{Content: content, AuthorID: authorID}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// Update applies a partial update: new content and/or liker changes.
// Every referenced liker must exist or the whole update is rejected.
func (s *PostService) Update(ctx context.Context, id uint, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFoundError("Post", id)
	}

	toAdd, err := s.resolveUsers(ctx, in.LikersToAdd)
	if err != nil {
		return nil, err
	}
	toRemove, err := s.resolveUsers(ctx, in.LikersToRemove)
	if err != nil {
		return nil, err
	}

	if in.Content != nil {
		post.Content = *in.Content
		if err := s.postRepo.Save(ctx, post); err != nil {
			return nil, err
		}
	}
	for _, user := range toAdd {
		if err := s.postRepo.AddLiker(ctx, post, user); err != nil {
			return nil, err
		}
	}
	for _, user := range toRemove {
		if err := s.postRepo.RemoveLiker(ctx, post, user); err != nil {
			return nil, err
		}
	}

	return s.postRepo.GetByID(ctx, id)
}

// Delete removes the post and its like rows.
func (s *PostService) Delete(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFoundError("Post", id)
	}
	if err := s.postRepo.Delete(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) resolveUsers(ctx context.Context, usernames []string) ([]*models.User, error) {
	users := make([]*models.User, 0, len(usernames))
	for _, username := range usernames {
		user, err := s.userRepo.FindByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, models.NewValidationError(fmt.Sprintf("User %q does not exist", username))
		}
		users = append(users, user)
	}
	return users, nil
}
