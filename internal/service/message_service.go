package service

import (
	"context"

	"tessera/internal/models"
	"tessera/internal/repository"
)

// MessageService provides message business logic.
type MessageService struct {
	messageRepo repository.MessageRepository
	chatRepo    repository.ChatRepository
}

// NewMessageService returns a new MessageService.
func NewMessageService(messageRepo repository.MessageRepository, chatRepo repository.ChatRepository) *MessageService {
	return &MessageService{messageRepo: messageRepo, chatRepo: chatRepo}
}

// List returns all messages, oldest first.
func (s *MessageService) List(ctx context.Context) ([]models.Message, error) {
	return s.messageRepo.List(ctx)
}

// Get returns one message by id.
func (s *MessageService) Get(ctx context.Context, id uint) (*models.Message, error) {
	return s.messageRepo.GetByID(ctx, id)
}

// Create persists a message. The chat must exist and the author must
// be one of its members; both checks run before anything is written.
func (s *MessageService) Create(ctx context.Context, content string, authorID, chatID uint) (*models.Message, error) {
	chat, err := s.chatRepo.FindByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, models.NewValidationError("Chat does not exist")
	}

	member := false
	for _, user := range chat.Users {
		if user.ID == authorID {
			member = true
			break
		}
	}
	if !member {
		return nil, models.NewValidationError("Author is not a member of this chat")
	}

	msg := &models.Message{Content: content, AuthorID: authorID, ChatID: chatID}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Delete removes the message.
func (s *MessageService) Delete(ctx context.Context, id uint) (*models.Message, error) {
	msg, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.messageRepo.Delete(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}
