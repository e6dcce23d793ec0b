package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipientRepository_FindActive_NoneRegistered(t *testing.T) {
	repo := NewRecipientRepository(openTestDB(t))

	recipient, err := repo.FindActive(context.Background())
	require.NoError(t, err)
	assert.Nil(t, recipient)
}

func TestRecipientRepository_Create(t *testing.T) {
	repo := NewRecipientRepository(openTestDB(t))

	recipient, err := repo.Create(context.Background(), "ops@example.com")
	require.NoError(t, err)
	assert.NotZero(t, recipient.ID)
	assert.Equal(t, "ops@example.com", recipient.Email)
	assert.True(t, recipient.IsActive)
	assert.False(t, recipient.UpdatedAt.IsZero())
}

func TestRecipientRepository_LatestRegistrationWins(t *testing.T) {
	ctx := context.Background()
	repo := NewRecipientRepository(openTestDB(t))

	first, err := repo.Create(ctx, "first@example.com")
	require.NoError(t, err)
	second, err := repo.Create(ctx, "second@example.com")
	require.NoError(t, err)

	active, err := repo.FindActive(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, second.ID, active.ID)
	assert.Equal(t, "second@example.com", active.Email)

	history, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, first.ID, history[1].ID)
	assert.True(t, history[1].IsActive, "older registrations are kept untouched")
}

func TestRecipientRepository_StorageUnavailable(t *testing.T) {
	db := openTestDB(t)
	repo := NewRecipientRepository(db)
	closeDB(t, db)

	_, err := repo.FindActive(context.Background())
	assert.True(t, errors.Is(err, ErrStorageUnavailable))

	_, err = repo.Create(context.Background(), "ops@example.com")
	assert.True(t, errors.Is(err, ErrStorageUnavailable))
}
