// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"tessera/internal/models"
	"tessera/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// List returns all users with their follow sets and chats expanded.
	List(ctx context.Context) ([]models.User, error)
	// GetByUsername returns one user with full expansion, or NOT_FOUND.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// FindByUsername returns the bare row, or (nil, nil) when absent.
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	// FindByID returns the bare row, or (nil, nil) when absent.
	FindByID(ctx context.Context, id uint) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, user *models.User) error
	// Follow records follower -> followee. Appending an existing pair is a no-op.
	Follow(ctx context.Context, followee, follower *models.User) error
	// Unfollow removes the pair; removing an absent pair is a no-op.
	Unfollow(ctx context.Context, followee, follower *models.User) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// withUserExpansion preloads the relations every user read returns:
// follow sets plus chats with their members and messages.
func withUserExpansion(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Following").
		Preload("FollowedBy").
		Preload("Chats.Users").
		Preload("Chats.Messages")
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	defer observability.TrackQuery("list", "users")()

	var users []models.User
	if err := withUserExpansion(r.db.WithContext(ctx)).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	defer observability.TrackQuery("get", "users")()

	var user models.User
	err := withUserExpansion(r.db.WithContext(ctx)).
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", username)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("create", "users")()

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Username is already taken")
		}
		return models.NewInternalError(err)
	}
	observability.EntityWrites.WithLabelValues("user", "create").Inc()
	return nil
}

func (r *userRepository) Save(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("update", "users")()

	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return models.NewInternalError(err)
	}
	observability.EntityWrites.WithLabelValues("user", "update").Inc()
	return nil
}

func (r *userRepository) Delete(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("delete", "users")()

	// Join rows do not cascade on every backend, so clear them first.
	if err := r.db.WithContext(ctx).
		Where("follower_id = ? OR followee_id = ?", user.ID, user.ID).
		Delete(&models.UserFollow{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", user.ID).
		Delete(&models.ChatUser{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).Delete(user).Error; err != nil {
		return models.NewInternalError(err)
	}
	observability.EntityWrites.WithLabelValues("user", "delete").Inc()
	return nil
}

func (r *userRepository) Follow(ctx context.Context, followee, follower *models.User) error {
	err := r.db.WithContext(ctx).
		Model(followee).
		Association("FollowedBy").
		Append(follower)
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Unfollow(ctx context.Context, followee, follower *models.User) error {
	err := r.db.WithContext(ctx).
		Model(followee).
		Association("FollowedBy").
		Delete(follower)
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505; sqlite reports
	// "UNIQUE constraint failed".
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
