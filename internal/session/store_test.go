package session

import (
	"context"
	"testing"
	"time"

	d "github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStores(t *testing.T) map[string]Store {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  NewRedisStore(client, time.Hour),
	}
}

func TestStores_RoundTrip(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := New(time.Now().UTC())
			s.AddItem(rose)
			require.NoError(t, s.Payments.Toggle(d.PaymentCash, true))

			require.NoError(t, store.Save(ctx, s))

			got, err := store.Get(ctx, s.ID)
			require.NoError(t, err)
			assert.Equal(t, s.ID, got.ID)
			require.Len(t, got.Cart.Lines, 1)
			assert.True(t, got.Cart.Subtotal().Equal(rose.Price))
			assert.True(t, got.Payments.TotalInformed().Equal(rose.Price))
			assert.Equal(t, s.View(), got.View())
		})
	}
}

func TestStores_NotFound(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrSessionNotFound)

			assert.ErrorIs(t, store.Delete(ctx, "missing"), ErrSessionNotFound)
		})
	}
}

func TestStores_Delete(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := New(time.Now().UTC())
			require.NoError(t, store.Save(ctx, s))

			require.NoError(t, store.Delete(ctx, s.ID))

			_, err := store.Get(ctx, s.ID)
			assert.ErrorIs(t, err, ErrSessionNotFound)
		})
	}
}

func TestRedisStore_TTLWithJitter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := NewRedisStore(client, time.Hour)
	s := New(time.Now().UTC())

	require.NoError(t, store.Save(context.Background(), s))

	ttl := mr.TTL(sessionKey(s.ID))
	assert.GreaterOrEqual(t, ttl, time.Hour)
	assert.Less(t, ttl, time.Hour+5*time.Minute)

	mr.FastForward(2 * time.Hour)
	_, err := store.Get(context.Background(), s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStore_ReturnsIndependentCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	s := New(time.Now().UTC())
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	got.AddItem(rose)

	again, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, again.Cart.IsEmpty())
}
