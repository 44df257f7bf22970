package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_CreateUpdateDelete(t *testing.T) {
	m := NewManager(NewMemoryStore())
	ctx := context.Background()

	s, err := m.Create(ctx)
	require.NoError(t, err)

	updated, err := m.Update(ctx, s.ID, func(s *Session) error {
		s.AddItem(rose)
		return nil
	})
	require.NoError(t, err)
	assert.False(t, updated.UpdatedAt.Before(s.UpdatedAt))

	got, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Cart.ItemCount())

	require.NoError(t, m.Delete(ctx, s.ID))
	_, err = m.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_UpdateErrorDoesNotSave(t *testing.T) {
	m := NewManager(NewMemoryStore())
	ctx := context.Background()
	s, err := m.Create(ctx)
	require.NoError(t, err)

	_, err = m.Update(ctx, s.ID, func(s *Session) error {
		s.AddItem(rose)
		return errors.New("rejected")
	})
	require.Error(t, err)

	got, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, got.Cart.IsEmpty())
}

func TestManager_UpdateMissingSession(t *testing.T) {
	m := NewManager(NewMemoryStore())

	_, err := m.Update(context.Background(), "nope", func(*Session) error { return nil })

	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_SaveStoresReset(t *testing.T) {
	m := NewManager(NewMemoryStore())
	ctx := context.Background()
	s, err := m.Create(ctx)
	require.NoError(t, err)
	s.AddItem(rose)
	require.NoError(t, m.Save(ctx, s))

	s.Reset()
	require.NoError(t, m.Save(ctx, s))

	got, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, got.Cart.IsEmpty())
}
