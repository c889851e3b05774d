package service

import (
	"context"
	"strings"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_AddToPost_Validation(t *testing.T) {
	t.Parallel()

	svc := NewCommentService(noopCommentRepo(), noopPostRepo())
	ctx := context.Background()

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()
		_, err := svc.AddToPost(ctx, AddCommentInput{UserID: 1, PostID: 1})
		assertValidationError(t, err)
	})

	t.Run("body too long", func(t *testing.T) {
		t.Parallel()
		_, err := svc.AddToPost(ctx, AddCommentInput{
			UserID: 1,
			PostID: 1,
			Body:   strings.Repeat("x", 10001),
		})
		assertValidationError(t, err)
	})

	t.Run("missing post propagates not-found", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		}
		svc2 := NewCommentService(noopCommentRepo(), postRepo)
		_, err := svc2.AddToPost(ctx, AddCommentInput{UserID: 1, PostID: 99, Body: "hi"})
		require.Error(t, err)
		assert.True(t, models.HasCode(err, models.CodeNotFound))
	})
}

func TestCommentService_AddToPost_Success(t *testing.T) {
	t.Parallel()

	commentRepo := noopCommentRepo()
	commentRepo.createFn = func(_ context.Context, c *models.Comment) error {
		c.ID = 42
		return nil
	}

	svc := NewCommentService(commentRepo, noopPostRepo())
	comment, err := svc.AddToPost(context.Background(), AddCommentInput{
		UserID: 3,
		PostID: 5,
		Body:   "Lovely piece.",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(42), comment.ID)
	assert.Equal(t, uint(3), comment.UserID)
	assert.Equal(t, uint(5), comment.PostID)
}
