package service

import (
	"context"
	"fmt"

	"tessera/internal/models"
	"tessera/internal/repository"
)

// CommentService provides comment business logic. Comments are never
// removed physically; deletion flips a flag so reply threads survive.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
}

// NewCommentService returns a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository, userRepo repository.UserRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo, userRepo: userRepo}
}

// Get returns one comment with likers and replies.
func (s *CommentService) Get(ctx context.Context, id uint) (*models.Comment, error) {
	return s.commentRepo.GetByID(ctx, id)
}

// Create persists a new comment. Author, post, and the parent comment
// (when replying) must all exist.
func (s *CommentService) Create(ctx context.Context, content string, authorID, postID uint, parentCommentID *uint) (*models.Comment, error) {
	author, err := s.userRepo.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, models.NewValidationError("Author does not exist")
	}

	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewValidationError("Post does not exist")
	}

	if parentCommentID != nil {
		parent, err := s.commentRepo.FindByID(ctx, *parentCommentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, models.NewValidationError("Parent comment does not exist")
		}
	}

	comment := &models.Comment{
		Content:         content,
		AuthorID:        authorID,
		PostID:          postID,
		ParentCommentID: parentCommentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// UpdateCommentInput carries a partial comment update.
type UpdateCommentInput struct {
	Content        *string
	LikersToAdd    []string
	LikersToRemove []string
}

// Update applies a partial update: new content and/or liker changes.
func (s *CommentService) Update(ctx context.Context, id uint, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, models.NewNotFoundError("Comment", id)
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
		comment.Content = *in.Content
		if err := s.commentRepo.Save(ctx, comment); err != nil {
			return nil, err
		}
	}
	for _, user := range toAdd {
		if err := s.commentRepo.AddLiker(ctx, comment, user); err != nil {
			return nil, err
		}
	}
	for _, user := range toRemove {
		if err := s.commentRepo.RemoveLiker(ctx, comment, user); err != nil {
			return nil, err
		}
	}

	return s.commentRepo.GetByID(ctx, id)
}

// SoftDelete marks the comment deleted. The row and its replies stay.
func (s *CommentService) SoftDelete(ctx context.Context, id uint) (*models.Comment, error) {
	if err := s.commentRepo.SoftDelete(ctx, id); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, id)
}

func (s *CommentService) resolveUsers(ctx context.Context, usernames []string) ([]*models.User, error) {
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
