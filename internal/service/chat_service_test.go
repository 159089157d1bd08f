package service

import (
	"context"
	"testing"

	"tessera/internal/models"
	"tessera/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatService(t *testing.T) (*ChatService, []*models.User, func() int64) {
	db := setupTestDB(t)
	svc := NewChatService(repository.NewChatRepository(db), repository.NewUserRepository(db))

	users := []*models.User{
		createTestUser(t, db, "chatteralpha"),
		createTestUser(t, db, "chatterbravo"),
		createTestUser(t, db, "chattercharlie"),
	}

	countChats := func() int64 {
		var n int64
		db.Model(&models.Chat{}).Count(&n)
		return n
	}
	return svc, users, countChats
}

func TestChatServiceCreate(t *testing.T) {
	svc, users, countChats := newChatService(t)
	ctx := context.Background()
	a, b, c := users[0], users[1], users[2]

	t.Run("CreatesChatWithMembers", func(t *testing.T) {
		chat, err := svc.Create(ctx, "the pair", []uint{a.ID, b.ID})
		require.NoError(t, err)
		assert.Equal(t, "the pair", chat.Name)
		assert.Len(t, chat.Users, 2)
	})

	t.Run("ExactMemberSetConflicts", func(t *testing.T) {
		before := countChats()
		_, err := svc.Create(ctx, "", []uint{b.ID, a.ID})
		assertAppErrorCode(t, err, models.CodeConflict)
		assert.Equal(t, before, countChats())
	})

	t.Run("SupersetIsAllowed", func(t *testing.T) {
		chat, err := svc.Create(ctx, "", []uint{a.ID, b.ID, c.ID})
		require.NoError(t, err)
		assert.Len(t, chat.Users, 3)
	})

	t.Run("SubsetOfExistingIsAllowed", func(t *testing.T) {
		chat, err := svc.Create(ctx, "", []uint{a.ID, c.ID})
		require.NoError(t, err)
		assert.Len(t, chat.Users, 2)
	})

	t.Run("UnknownMemberRejectedBeforeWrite", func(t *testing.T) {
		before := countChats()
		_, err := svc.Create(ctx, "", []uint{a.ID, 9999})
		assertAppErrorCode(t, err, models.CodeValidation)
		assert.Equal(t, before, countChats())
	})
}

func TestChatServiceUpdate(t *testing.T) {
	svc, users, _ := newChatService(t)
	ctx := context.Background()
	a, b, c := users[0], users[1], users[2]

	chat, err := svc.Create(ctx, "before", []uint{a.ID, b.ID})
	require.NoError(t, err)

	t.Run("RenameAndChangeMembers", func(t *testing.T) {
		name := "after"
		updated, err := svc.Update(ctx, chat.ID, UpdateChatInput{
			Name:       &name,
			UsersToAdd: []string{c.Username},
		})
		require.NoError(t, err)
		assert.Equal(t, "after", updated.Name)
		assert.Len(t, updated.Users, 3)

		updated, err = svc.Update(ctx, chat.ID, UpdateChatInput{
			UsersToRemove: []string{b.Username},
		})
		require.NoError(t, err)
		assert.Len(t, updated.Users, 2)
	})

	t.Run("UnknownUsernameRejected", func(t *testing.T) {
		_, err := svc.Update(ctx, chat.ID, UpdateChatInput{UsersToAdd: []string{"whoisthis"}})
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("MissingChatIsNotFound", func(t *testing.T) {
		name := "x"
		_, err := svc.Update(ctx, 9999, UpdateChatInput{Name: &name})
		assertAppErrorCode(t, err, models.CodeNotFound)
	})
}

func TestChatServiceDelete(t *testing.T) {
	svc, users, countChats := newChatService(t)
	ctx := context.Background()

	chat, err := svc.Create(ctx, "", []uint{users[0].ID, users[1].ID})
	require.NoError(t, err)

	_, err = svc.Delete(ctx, chat.ID)
	require.NoError(t, err)
	assert.Zero(t, countChats())

	_, err = svc.Delete(ctx, chat.ID)
	assertAppErrorCode(t, err, models.CodeNotFound)
}
