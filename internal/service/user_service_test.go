package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "bazaar/internal/errors"
	"bazaar/internal/repository"
	"bazaar/internal/store"
)

func newUserFixture(t *testing.T) (UserService, repository.UserRepository) {
	t.Helper()
	st, err := store.New(t.TempDir())
	require.NoError(t, err)
	repo := repository.NewUserRepository(st)
	return NewUserService(repo), repo
}

func TestUserService_CreateAndList(t *testing.T) {
	ctx := context.Background()
	svc, repo := newUserFixture(t)

	require.NoError(t, svc.CreateUser(ctx, "carol", "hunter2"))

	// secret is stored hashed, never verbatim
	stored, err := repo.FindByID(ctx, "carol")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", stored.Secret)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Secret), []byte("hunter2")))

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "carol", users[0].ID)
}

func TestUserService_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserFixture(t)

	require.NoError(t, svc.CreateUser(ctx, "carol", "hunter2"))
	err := svc.CreateUser(ctx, "carol", "other")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestUserService_CreateMissingFields(t *testing.T) {
	svc, _ := newUserFixture(t)
	assert.ErrorIs(t, svc.CreateUser(context.Background(), "", "x"), apperrors.ErrInvalidInput)
	assert.ErrorIs(t, svc.CreateUser(context.Background(), "x", ""), apperrors.ErrInvalidInput)
}

func TestUserService_UpdateSecret(t *testing.T) {
	ctx := context.Background()
	svc, repo := newUserFixture(t)
	require.NoError(t, svc.CreateUser(ctx, "carol", "hunter2"))

	require.NoError(t, svc.UpdateSecret(ctx, "carol", "hunter3"))
	stored, err := repo.FindByID(ctx, "carol")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Secret), []byte("hunter3")))

	// empty secret keeps the current one but still requires the user to exist
	require.NoError(t, svc.UpdateSecret(ctx, "carol", ""))
	assert.ErrorIs(t, svc.UpdateSecret(ctx, "ghost", ""), apperrors.ErrNotFound)
	assert.ErrorIs(t, svc.UpdateSecret(ctx, "ghost", "x"), apperrors.ErrNotFound)
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserFixture(t)
	require.NoError(t, svc.CreateUser(ctx, "carol", "hunter2"))

	require.NoError(t, svc.DeleteUser(ctx, "carol"))
	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	// deleting an absent user is a no-op
	assert.NoError(t, svc.DeleteUser(ctx, "carol"))
}
