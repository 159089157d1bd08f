package repository

import (
	"context"
	"errors"

	"tessera/internal/models"
	"tessera/internal/observability"

	"gorm.io/gorm"
)

// MessageRepository defines persistence operations for messages.
type MessageRepository interface {
	List(ctx context.Context) ([]models.Message, error)
	// GetByID returns one message, or NOT_FOUND when absent.
	GetByID(ctx context.Context, id uint) (*models.Message, error)
	Create(ctx context.Context, msg *models.Message) error
	Delete(ctx context.Context, msg *models.Message) error
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository returns a new MessageRepository implementation.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) List(ctx context.Context) ([]models.Message, error) {
	defer observability.TrackQuery("list", "messages")()

	var messages []models.Message
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

func (r *messageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	defer observability.TrackQuery("get", "messages")()

	var msg models.Message
	if err := r.db.WithContext(ctx).First(&msg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Message", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &msg, nil
}

func (r *messageRepository) Create(ctx context.Context, msg *models.Message) error {
	defer observability.TrackQuery("create", "messages")()

	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return models.NewInternalError(err)
	}
	observability.EntityWrites.WithLabelValues("message", "create").Inc()
	return nil
}

func (r *messageRepository) Delete(ctx context.Context, msg *models.Message) error {
	defer observability.TrackQuery("delete", "messages")()

	if err := r.db.WithContext(ctx).Delete(msg).Error; err != nil {
		return models.NewInternalError(err)
	}
	observability.EntityWrites.WithLabelValues("message", "delete").Inc()
	return nil
}
