package service

import (
	"context"
	"fmt"

	"tessera/internal/models"
	"tessera/internal/repository"
)

// ChatService provides chat business logic, including the duplicate
// member-set check on creation.
type ChatService struct {
	chatRepo repository.ChatRepository
	userRepo repository.UserRepository
}

// NewChatService returns a new ChatService.
func NewChatService(chatRepo repository.ChatRepository, userRepo repository.UserRepository) *ChatService {
	return &ChatService{chatRepo: chatRepo, userRepo: userRepo}
}

// UpdateChatInput carries a partial chat update. Members are addressed
// by username.
type UpdateChatInput struct {
	Name          *string
	UsersToAdd    []string
	UsersToRemove []string
}

// List returns all chats with members and messages.
func (s *ChatService) List(ctx context.Context) ([]models.Chat, error) {
	return s.chatRepo.List(ctx)
}

// Get returns one chat with members and ordered messages.
func (s *ChatService) Get(ctx context.Context, id uint) (*models.Chat, error) {
	return s.chatRepo.GetByID(ctx, id)
}

// Create opens a chat for the given member ids. Every id must resolve
// to a user, and no other chat may already hold exactly this member
// set. The scan fetches chats whose members are a subset of the
// requested set and then filters for exact size, which keeps supersets
// and subsets of existing chats creatable.
func (s *ChatService) Create(ctx context.Context, name string, memberIDs []uint) (*models.Chat, error) {
	members := make([]*models.User, 0, len(memberIDs))
	usernames := make([]string, 0, len(memberIDs))
	for _, id := range memberIDs {
		user, err := s.userRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, models.NewValidationError(fmt.Sprintf("User %d does not exist", id))
		}
		members = append(members, user)
		usernames = append(usernames, user.Username)
	}

	candidates, err := s.chatRepo.FindSubsetChats(ctx, usernames)
	if err != nil {
		return nil, err
	}
	for _, candidate := range candidates {
		if len(candidate.Users) == len(members) {
			return nil, models.NewConflictError("Chat with these users already exists")
		}
	}

	chat := &models.Chat{Name: name}
	if err := s.chatRepo.Create(ctx, chat, members); err != nil {
		return nil, err
	}
	return s.chatRepo.GetByID(ctx, chat.ID)
}

// Update applies a partial update: rename and/or membership changes.
// Every referenced username must exist or the update is rejected.
func (s *ChatService) Update(ctx context.Context, id uint, in UpdateChatInput) (*models.Chat, error) {
	chat, err := s.chatRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, models.NewNotFoundError("Chat", id)
	}

	toAdd, err := s.resolveUsers(ctx, in.UsersToAdd)
	if err != nil {
		return nil, err
	}
	toRemove, err := s.resolveUsers(ctx, in.UsersToRemove)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		chat.Name = *in.Name
		if err := s.chatRepo.Save(ctx, chat); err != nil {
			return nil, err
		}
	}
	for _, user := range toAdd {
		if err := s.chatRepo.AddUser(ctx, chat, user); err != nil {
			return nil, err
		}
	}
	for _, user := range toRemove {
		if err := s.chatRepo.RemoveUser(ctx, chat, user); err != nil {
			return nil, err
		}
	}

	return s.chatRepo.GetByID(ctx, id)
}

// Delete removes the chat and its membership rows.
func (s *ChatService) Delete(ctx context.Context, id uint) (*models.Chat, error) {
	chat, err := s.chatRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, models.NewNotFoundError("Chat", id)
	}
	if err := s.chatRepo.Delete(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

func (s *ChatService) resolveUsers(ctx context.Context, usernames []string) ([]*models.User, error) {
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
