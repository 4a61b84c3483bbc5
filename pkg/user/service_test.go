package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceImpl_CreateUser(t *testing.T) {
	t.Run("should generate a uid when none is given", func(t *testing.T) {
		// given
		service := NewService(NewRepositoryStub())

		// when
		created, err := service.CreateUser(context.Background(), User{Username: " anna ", DisplayName: "Anna"})

		// then
		require.NoError(t, err)
		assert.Equal(t, "anna", created.Username)
		assert.NotZero(t, created.Id)
		_, err = uuid.Parse(created.Uid)
		assert.NoError(t, err)
	})

	t.Run("should keep a given uid", func(t *testing.T) {
		service := NewService(NewRepositoryStub())

		created, err := service.CreateUser(context.Background(), User{Uid: "anna-1", Username: "anna", DisplayName: "Anna"})

		require.NoError(t, err)
		found, err := service.GetUserByUid(context.Background(), "anna-1")
		require.NoError(t, err)
		assert.Equal(t, created, found)
	})

	t.Run("should reject missing names", func(t *testing.T) {
		service := NewService(NewRepositoryStub())

		_, err := service.CreateUser(context.Background(), User{Username: "anna"})

		assert.ErrorIs(t, err, ErrUserDataInvalid)
	})

	t.Run("should reject a duplicate username", func(t *testing.T) {
		service := NewService(NewRepositoryStub())
		_, err := service.CreateUser(context.Background(), User{Username: "anna", DisplayName: "Anna"})
		require.NoError(t, err)

		_, err = service.CreateUser(context.Background(), User{Username: "anna", DisplayName: "Other Anna"})

		assert.ErrorIs(t, err, ErrUsernameTaken)
	})
}

func TestServiceImpl_GetCurrentUser(t *testing.T) {
	service := NewService(NewRepositoryStub())
	created, err := service.CreateUser(context.Background(), User{Username: "anna", DisplayName: "Anna"})
	require.NoError(t, err)

	current, err := service.GetCurrentUser(WithUser(context.Background(), created))
	require.NoError(t, err)
	assert.Equal(t, created, current)

	_, err = service.GetCurrentUser(context.Background())
	assert.ErrorIs(t, err, ErrNoUser)
	assert.Contains(t, err.Error(), "failed to get current user")

	_, err = service.GetCurrentUser(WithUser(context.Background(), User{Id: 99}))
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCurrentId(t *testing.T) {
	id, err := CurrentId(WithUser(context.Background(), User{Id: 5}))
	require.NoError(t, err)
	assert.Equal(t, 5, id)

	_, err = CurrentId(context.Background())
	assert.ErrorIs(t, err, ErrNoUser)
}
