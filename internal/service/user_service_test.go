package service

import (
	"context"
	"testing"

	"inkwell/internal/auth"
	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_Register_Validation(t *testing.T) {
	t.Parallel()

	svc := NewUserService(noopUserRepo(), bcrypt.MinCost)
	ctx := context.Background()

	t.Run("missing name", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Register(ctx, RegisterInput{Email: "a@x.com", Password: "password1"})
		assertValidationError(t, err)
	})

	t.Run("malformed email", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Register(ctx, RegisterInput{Name: "Alice", Email: "not-an-email", Password: "password1"})
		assertValidationError(t, err)
	})

	t.Run("short password", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Register(ctx, RegisterInput{Name: "Alice", Email: "a@x.com", Password: "pw"})
		assertValidationError(t, err)
	})
}

func TestUserService_Register_HashesPassword(t *testing.T) {
	t.Parallel()

	var created *models.User
	repo := noopUserRepo()
	repo.createFn = func(_ context.Context, u *models.User) error {
		u.ID = 1
		created = u
		return nil
	}

	svc := NewUserService(repo, bcrypt.MinCost)
	user, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    "a@x.com",
		Password: "password1",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.NotEqual(t, "password1", user.Password, "plaintext must never be stored")
	assert.True(t, auth.CheckPassword(user.Password, "password1"))
}

func TestUserService_Register_DuplicateEmailPropagates(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.createFn = func(_ context.Context, _ *models.User) error {
		return models.NewConflictError("email already registered")
	}

	svc := NewUserService(repo, bcrypt.MinCost)
	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Eve",
		Email:    "a@x.com",
		Password: "password2",
	})
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeConflict))
}

func TestUserService_Authenticate(t *testing.T) {
	t.Parallel()

	hash, err := auth.HashPassword("password1", bcrypt.MinCost)
	require.NoError(t, err)
	stored := &models.User{ID: 3, Email: "a@x.com", Password: hash, Name: "Alice"}

	repo := noopUserRepo()
	repo.getByEmailFn = func(_ context.Context, email string) (*models.User, error) {
		if email == stored.Email {
			return stored, nil
		}
		return nil, nil
	}
	svc := NewUserService(repo, bcrypt.MinCost)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		user, err := svc.Authenticate(ctx, AuthenticateInput{Email: "a@x.com", Password: "password1"})
		require.NoError(t, err)
		assert.Equal(t, uint(3), user.ID)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, AuthenticateInput{Email: "nobody@x.com", Password: "password1"})
		require.Error(t, err)
		assert.True(t, models.HasCode(err, models.CodeUnauthorized))
		assert.Contains(t, err.Error(), "not registered")
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, AuthenticateInput{Email: "a@x.com", Password: "wrong"})
		require.Error(t, err)
		assert.True(t, models.HasCode(err, models.CodeUnauthorized))
		assert.Contains(t, err.Error(), "Incorrect password")
	})
}
