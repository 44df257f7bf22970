package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runContract exercises the behaviour every Store backend must share.
func runContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("InsertAssignsIDs", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		rows, err := s.Insert(ctx, EntityProducts,
			product("P-1", "Rose", "10.00", 5),
			product("P-2", "Fern", "4.50", 2),
		)
		require.NoError(t, err)
		require.Len(t, rows, 2)

		first, ok := toInt64(rows[0]["id"])
		require.True(t, ok)
		second, ok := toInt64(rows[1]["id"])
		require.True(t, ok)
		assert.Greater(t, second, first)
	})

	t.Run("SelectFiltersAndOrders", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		seed(t, s, product("P-1", "Rose", "10.00", 5), product("P-2", "Fern", "4.50", 2), product("P-3", "Moss", "1.00", 9))

		rows, err := s.Select(ctx, EntityProducts, nil, Desc("code"))
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "P-3", rows[0]["code"])
		assert.Equal(t, "P-1", rows[2]["code"])

		rows, err = s.Select(ctx, EntityProducts, Filter{"code": "P-2"})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Fern", rows[0]["name"])
		assert.EqualValues(t, 2, rows[0]["stock"])
	})

	t.Run("OutMovementDecrementsStock", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		id := seed(t, s, product("P-1", "Rose", "10.00", 5))[0]

		_, err := s.Insert(ctx, EntityStockMovements, movement(id, "out", 3))
		require.NoError(t, err)

		assert.EqualValues(t, 2, stockOf(t, s, id))
	})

	t.Run("InMovementIncrementsStock", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		id := seed(t, s, product("P-1", "Rose", "10.00", 5))[0]

		_, err := s.Insert(ctx, EntityStockMovements, movement(id, "in", 4))
		require.NoError(t, err)

		assert.EqualValues(t, 9, stockOf(t, s, id))
	})

	t.Run("InsufficientStockRejectsWholeBatch", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		ids := seed(t, s, product("P-1", "Rose", "10.00", 5), product("P-2", "Fern", "4.50", 1))

		_, err := s.Insert(ctx, EntityStockMovements,
			movement(ids[0], "out", 2),
			movement(ids[1], "out", 3),
		)
		require.ErrorIs(t, err, ErrConstraint)
		assert.Contains(t, err.Error(), "insufficient stock")

		assert.EqualValues(t, 5, stockOf(t, s, ids[0]))
		assert.EqualValues(t, 1, stockOf(t, s, ids[1]))

		moves, err := s.Select(ctx, EntityStockMovements, nil)
		require.NoError(t, err)
		assert.Empty(t, moves)
	})

	t.Run("UpdateAndDelete", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		ids := seed(t, s, product("P-1", "Rose", "10.00", 5), product("P-2", "Fern", "4.50", 1))

		n, err := s.Update(ctx, EntityProducts, Filter{"id": ids[1]}, Row{"name": "Boston Fern"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		rows, err := s.Select(ctx, EntityProducts, Filter{"id": ids[1]})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Boston Fern", rows[0]["name"])

		n, err = s.Delete(ctx, EntityProducts, Filter{"id": ids[0]})
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		n, err = s.Delete(ctx, EntityProducts, Filter{"id": ids[0]})
		require.NoError(t, err)
		assert.EqualValues(t, 0, n)
	})

	t.Run("RejectsUnknownEntityAndBadColumns", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.Select(ctx, "users", nil)
		assert.ErrorIs(t, err, ErrUnknownEntity)

		_, err = s.Select(ctx, EntityProducts, Filter{"name; DROP TABLE products": 1})
		assert.ErrorIs(t, err, ErrInvalidColumn)

		_, err = s.Select(ctx, EntityProducts, nil, Asc("1=1"))
		assert.ErrorIs(t, err, ErrInvalidColumn)

		_, err = s.Insert(ctx, EntityProducts)
		assert.ErrorIs(t, err, ErrEmptyInsert)
	})
}

func product(code, name, price string, stock int) Row {
	return Row{
		"code":     code,
		"name":     name,
		"category": "plants",
		"price":    price,
		"stock":    stock,
		"unit":     "un",
	}
}

func movement(productID int64, direction string, qty int) Row {
	return Row{
		"product_id": productID,
		"direction":  direction,
		"quantity":   qty,
		"reason":     "test",
		"created_at": time.Now().UTC(),
	}
}

func seed(t *testing.T, s Store, rows ...Row) []int64 {
	t.Helper()
	created, err := s.Insert(context.Background(), EntityProducts, rows...)
	require.NoError(t, err)

	ids := make([]int64, len(created))
	for i, r := range created {
		id, ok := toInt64(r["id"])
		require.True(t, ok)
		ids[i] = id
	}
	return ids
}

func stockOf(t *testing.T, s Store, id int64) int64 {
	t.Helper()
	rows, err := s.Select(context.Background(), EntityProducts, Filter{"id": id})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	stock, ok := toInt64(rows[0]["stock"])
	require.True(t, ok)
	return stock
}
