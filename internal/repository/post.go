package repository

import (
	"context"
	"errors"

	"tessera/internal/models"
	"tessera/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	// List returns posts with likers and comments expanded, optionally
	// restricted to the given author usernames.
	List(ctx context.Context, authorUsernames []string) ([]models.Post, error)
	// GetByID returns one post with likers and comments ordered by
	// like count, then recency. NOT_FOUND when absent.
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	// FindByID returns the bare row, or (nil, nil) when absent.
	FindByID(ctx context.Context, id uint) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Save(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, post *models.Post) error
	AddLiker(ctx context.Context, post *models.Post, user *models.User) error
	RemoveLiker(ctx context.Context, post *models.Post, user *models.User) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// orderCommentsByPopularity sorts a post's comments by like count
// descending, breaking ties by recency.
func orderCommentsByPopularity(db *gorm.DB) *gorm.DB {
	return db.Order("(SELECT COUNT(*) FROM comment_likes WHERE comment_likes.comment_id = comments.id) DESC").
		Order("comments.created_at DESC")
}

func (r *postRepository) List(ctx context.Context, authorUsernames []string) ([]models.Post, error) {
	defer observability.TrackQuery("list", "posts")()

	query := r.db.WithContext(ctx).
		Preload("UsersThatLiked").
		Preload("Comments", orderCommentsByPopularity)
	if len(authorUsernames) > 0 {
		query = query.
			Joins("JOIN users ON users.id = posts.author_id").
			Where("users.username IN ?", authorUsernames)
	}

	var posts []models.Post
	if err := query.Order("posts.created_at DESC").Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	defer observability.TrackQuery("get", "posts")()

	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("UsersThatLiked").
		Preload("Comments", orderCommentsByPopularity).
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) FindByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("create", "posts")()

	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	observability.EntityWrites.WithLabelValues("post", "create").Inc()
	return nil
}

func (r *postRepository) Save(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("update", "posts")()

	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	observability.EntityWrites.WithLabelValues("post", "update").Inc()
	return nil
}

func (r *postRepository) Delete(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("delete", "posts")()

	if err := r.db.WithContext(ctx).Select("UsersThatLiked").Delete(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	observability.EntityWrites.WithLabelValues("post", "delete").Inc()
	return nil
}

func (r *postRepository) AddLiker(ctx context.Context, post *models.Post, user *models.User) error {
	if err := r.db.WithContext(ctx).Model(post).Association("UsersThatLiked").Append(user); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) RemoveLiker(ctx context.Context, post *models.Post, user *models.User) error {
	if err := r.db.WithContext(ctx).Model(post).Association("UsersThatLiked").Delete(user); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
