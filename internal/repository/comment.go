package repository

import (
	"context"
	"errors"

	"tessera/internal/models"
	"tessera/internal/observability"

	"gorm.io/gorm"
)

// CommentRepository defines persistence operations for comments.
// There is no physical delete: SoftDelete flips IsDeleted and the row
// stays so reply threads keep their parents.
type CommentRepository interface {
	// GetByID returns one comment with likers and replies expanded.
	// Soft-deleted comments are still returned. NOT_FOUND when absent.
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	// FindByID returns the bare row, or (nil, nil) when absent.
	FindByID(ctx context.Context, id uint) (*models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
	Save(ctx context.Context, comment *models.Comment) error
	SoftDelete(ctx context.Context, id uint) error
	AddLiker(ctx context.Context, comment *models.Comment, user *models.User) error
	RemoveLiker(ctx context.Context, comment *models.Comment, user *models.User) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository returns a new CommentRepository implementation.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	defer observability.TrackQuery("get", "comments")()

	var comment models.Comment
	err := r.db.WithContext(ctx).
		Preload("UsersThatLiked").
		Preload("Replies").
		First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *commentRepository) FindByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	defer observability.TrackQuery("create", "comments")()

	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	observability.EntityWrites.WithLabelValues("comment", "create").Inc()
	return nil
}

func (r *commentRepository) Save(ctx context.Context, comment *models.Comment) error {
	defer observability.TrackQuery("update", "comments")()

	if err := r.db.WithContext(ctx).Save(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	observability.EntityWrites.WithLabelValues("comment", "update").Inc()
	return nil
}

func (r *commentRepository) SoftDelete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("soft_delete", "comments")()

	result := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ?", id).
		Update("is_deleted", true)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", id)
	}
	observability.EntityWrites.WithLabelValues("comment", "soft_delete").Inc()
	return nil
}

func (r *commentRepository) AddLiker(ctx context.Context, comment *models.Comment, user *models.User) error {
	if err := r.db.WithContext(ctx).Model(comment).Association("UsersThatLiked").Append(user); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) RemoveLiker(ctx context.Context, comment *models.Comment, user *models.User) error {
	if err := r.db.WithContext(ctx).Model(comment).Association("UsersThatLiked").Delete(user); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
