package repository

import (
	"context"
	"errors"

	"tessera/internal/models"
	"tessera/internal/observability"

	"gorm.io/gorm"
)

// ChatRepository defines persistence operations for chats.
type ChatRepository interface {
	// List returns all chats with members and messages expanded.
	List(ctx context.Context) ([]models.Chat, error)
	// GetByID returns one chat with members and messages (each with
	// its author) expanded. NOT_FOUND when absent.
	GetByID(ctx context.Context, id uint) (*models.Chat, error)
	// FindByID returns the chat with members preloaded, or (nil, nil)
	// when absent.
	FindByID(ctx context.Context, id uint) (*models.Chat, error)
	// FindSubsetChats returns every chat whose member set is a subset
	// of the given usernames, members preloaded. Callers filter for
	// exact equality.
	FindSubsetChats(ctx context.Context, usernames []string) ([]models.Chat, error)
	// Create persists the chat and connects the given members.
	Create(ctx context.Context, chat *models.Chat, members []*models.User) error
	Save(ctx context.Context, chat *models.Chat) error
	Delete(ctx context.Context, chat *models.Chat) error
	AddUser(ctx context.Context, chat *models.Chat, user *models.User) error
	RemoveUser(ctx context.Context, chat *models.Chat, user *models.User) error
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository returns a new ChatRepository implementation.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) List(ctx context.Context) ([]models.Chat, error) {
	defer observability.TrackQuery("list", "chats")()

	var chats []models.Chat
	err := r.db.WithContext(ctx).
		Preload("Users").
		Preload("Messages").
		Find(&chats).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return chats, nil
}

func (r *chatRepository) GetByID(ctx context.Context, id uint) (*models.Chat, error) {
	defer observability.TrackQuery("get", "chats")()

	var chat models.Chat
	err := r.db.WithContext(ctx).
		Preload("Users").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Messages.Author").
		First(&chat, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Chat", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &chat, nil
}

func (r *chatRepository) FindByID(ctx context.Context, id uint) (*models.Chat, error) {
	var chat models.Chat
	err := r.db.WithContext(ctx).Preload("Users").First(&chat, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &chat, nil
}

func (r *chatRepository) FindSubsetChats(ctx context.Context, usernames []string) ([]models.Chat, error) {
	defer observability.TrackQuery("subset_scan", "chats")()

	// A chat qualifies when no member falls outside the requested
	// username set.
	var chats []models.Chat
	err := r.db.WithContext(ctx).
		Where(`NOT EXISTS (
			SELECT 1 FROM chat_users
			JOIN users ON users.id = chat_users.user_id
			WHERE chat_users.chat_id = chats.id
			  AND users.username NOT IN ?)`, usernames).
		Preload("Users").
		Find(&chats).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return chats, nil
}

func (r *chatRepository) Create(ctx context.Context, chat *models.Chat, members []*models.User) error {
	defer observability.TrackQuery("create", "chats")()

	chat.Users = members
	if err := r.db.WithContext(ctx).Create(chat).Error; err != nil {
		return models.NewInternalError(err)
	}
	observability.EntityWrites.WithLabelValues("chat", "create").Inc()
	return nil
}

func (r *chatRepository) Save(ctx context.Context, chat *models.Chat) error {
	defer observability.TrackQuery("update", "chats")()

	if err := r.db.WithContext(ctx).Save(chat).Error; err != nil {
		return models.NewInternalError(err)
	}
	observability.EntityWrites.WithLabelValues("chat", "update").Inc()
	return nil
}

func (r *chatRepository) Delete(ctx context.Context, chat *models.Chat) error {
	defer observability.TrackQuery("delete", "chats")()

	if err := r.db.WithContext(ctx).
		Where("chat_id = ?", chat.ID).
		Delete(&models.ChatUser{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).Delete(chat).Error; err != nil {
		return models.NewInternalError(err)
	}
	observability.EntityWrites.WithLabelValues("chat", "delete").Inc()
	return nil
}

func (r *chatRepository) AddUser(ctx context.Context, chat *models.Chat, user *models.User) error {
	if err := r.db.WithContext(ctx).Model(chat).Association("Users").Append(user); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *chatRepository) RemoveUser(ctx context.Context, chat *models.Chat, user *models.User) error {
	if err := r.db.WithContext(ctx).Model(chat).Association("Users").Delete(user); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
