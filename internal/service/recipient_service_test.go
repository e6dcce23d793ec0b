package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_TrimsAndStores(t *testing.T) {
	store := &fakeRecipients{}
	svc := NewRecipientService(store)

	r, err := svc.Register(context.Background(), "  owner@example.com ")

	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", r.Email)
	assert.True(t, r.IsActive)
}

func TestRegister_RejectsInvalidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"no at sign", "owner.example.com"},
		{"no domain", "owner@"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeRecipients{}
			svc := NewRecipientService(store)

			_, err := svc.Register(context.Background(), tt.email)

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, "email", vErr.Field)
			assert.Empty(t, store.all)
		})
	}
}

func TestActive_ReturnsLatestRegistration(t *testing.T) {
	svc := NewRecipientService(&fakeRecipients{})

	none, err := svc.Active(context.Background())
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = svc.Register(context.Background(), "first@example.com")
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), "second@example.com")
	require.NoError(t, err)

	active, err := svc.Active(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second@example.com", active.Email)

	history, err := svc.History(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "first@example.com", history[1].Email)
}
