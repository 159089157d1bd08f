package service

import (
	"context"
	"testing"

	"tessera/internal/models"
	"tessera/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommentService(
		repository.NewCommentRepository(db),
		repository.NewPostRepository(db),
		repository.NewUserRepository(db),
	)
	ctx := context.Background()

	author := createTestUser(t, db, "commentingcleo")
	post := &models.Post{Content: "discuss", AuthorID: author.ID}
	require.NoError(t, db.Create(post).Error)

	t.Run("CreateChecksReferences", func(t *testing.T) {
		_, err := svc.Create(ctx, "orphan", 9999, post.ID, nil)
		assertAppErrorCode(t, err, models.CodeValidation)

		_, err = svc.Create(ctx, "no post", author.ID, 9999, nil)
		assertAppErrorCode(t, err, models.CodeValidation)

		missingParent := uint(9999)
		_, err = svc.Create(ctx, "no parent", author.ID, post.ID, &missingParent)
		assertAppErrorCode(t, err, models.CodeValidation)

		comment, err := svc.Create(ctx, "top level", author.ID, post.ID, nil)
		require.NoError(t, err)
		assert.Nil(t, comment.ParentCommentID)

		reply, err := svc.Create(ctx, "a reply", author.ID, post.ID, &comment.ID)
		require.NoError(t, err)
		require.NotNil(t, reply.ParentCommentID)
		assert.Equal(t, comment.ID, *reply.ParentCommentID)
	})

	t.Run("SoftDeleteStillRetrievable", func(t *testing.T) {
		comment, err := svc.Create(ctx, "deletable", author.ID, post.ID, nil)
		require.NoError(t, err)

		deleted, err := svc.SoftDelete(ctx, comment.ID)
		require.NoError(t, err)
		assert.True(t, deleted.IsDeleted)

		fetched, err := svc.Get(ctx, comment.ID)
		require.NoError(t, err)
		assert.True(t, fetched.IsDeleted)
		assert.Equal(t, "deletable", fetched.Content)
	})

	t.Run("UpdateContent", func(t *testing.T) {
		comment, err := svc.Create(ctx, "before edit", author.ID, post.ID, nil)
		require.NoError(t, err)

		content := "after edit"
		updated, err := svc.Update(ctx, comment.ID, UpdateCommentInput{Content: &content})
		require.NoError(t, err)
		assert.Equal(t, "after edit", updated.Content)
	})
}
