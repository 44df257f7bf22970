package records

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/domain"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) (*Repository, store.Store) {
	t.Helper()
	s := store.NewMemoryStore()
	return NewRepository(s), s
}

func seedProducts(t *testing.T, repo *Repository) []domain.Product {
	t.Helper()
	products, err := repo.CreateProducts(context.Background(),
		domain.Product{Code: "ROSE", Name: "Rose", Category: "flowers", Price: decimal.RequireFromString("15.90"), Stock: 10, Unit: "un"},
		domain.Product{Code: "FERN", Name: "Fern", Category: "foliage", Price: decimal.RequireFromString("7.25"), Stock: 3, Unit: "un"},
	)
	require.NoError(t, err)
	return products
}

func TestProducts_ListOrderedByName(t *testing.T) {
	repo, _ := setupRepo(t)
	seedProducts(t, repo)

	products, err := repo.ListProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Fern", products[0].Name)
	assert.True(t, products[1].Price.Equal(decimal.RequireFromString("15.90")))
	assert.Equal(t, 10, products[1].Stock)
}

func TestGetProduct_NotFound(t *testing.T) {
	repo, _ := setupRepo(t)

	_, err := repo.GetProduct(context.Background(), 99)

	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestSale_RoundTrip(t *testing.T) {
	repo, _ := setupRepo(t)
	products := seedProducts(t, repo)
	ctx := context.Background()

	saleID, err := repo.CreateSale(ctx, domain.Sale{
		Total:          decimal.RequireFromString("31.80"),
		PaymentMethods: "Cash",
		Note:           "counter",
	})
	require.NoError(t, err)
	assert.Positive(t, saleID)

	require.NoError(t, repo.CreateSaleItems(ctx, []domain.SaleItem{{
		SaleID:    saleID,
		ProductID: products[0].ID,
		Quantity:  2,
		UnitPrice: products[0].Price,
		Subtotal:  decimal.RequireFromString("31.80"),
	}}))
	require.NoError(t, repo.CreateCashFlowEntries(ctx, []domain.CashFlowEntry{{
		Direction:     domain.DirectionIn,
		Value:         decimal.RequireFromString("31.80"),
		Description:   "entry",
		PaymentMethod: domain.PaymentCash,
		Origin:        domain.CashFlowOriginSale,
		SaleID:        saleID,
	}}))

	rec, err := repo.GetSale(ctx, saleID)
	require.NoError(t, err)
	assert.Equal(t, "counter", rec.Sale.Note)
	assert.True(t, rec.Sale.Total.Equal(decimal.RequireFromString("31.80")))
	assert.False(t, rec.Sale.CreatedAt.IsZero())
	require.Len(t, rec.Items, 1)
	assert.Equal(t, 2, rec.Items[0].Quantity)
	require.Len(t, rec.CashFlow, 1)
	assert.Equal(t, domain.PaymentCash, rec.CashFlow[0].PaymentMethod)
	assert.Equal(t, domain.DirectionIn, rec.CashFlow[0].Direction)
}

func TestGetSale_NotFound(t *testing.T) {
	repo, _ := setupRepo(t)

	_, err := repo.GetSale(context.Background(), 7)

	assert.ErrorIs(t, err, ErrSaleNotFound)
}

func TestStockMovements_UpdateProductStock(t *testing.T) {
	repo, _ := setupRepo(t)
	products := seedProducts(t, repo)
	ctx := context.Background()

	err := repo.CreateStockMovements(ctx, []domain.StockMovement{{
		ProductID: products[1].ID, Direction: domain.DirectionOut, Quantity: 2, Reason: "Sale - ID 1",
	}})
	require.NoError(t, err)

	p, err := repo.GetProduct(ctx, products[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Stock)

	err = repo.CreateStockMovements(ctx, []domain.StockMovement{{
		ProductID: products[1].ID, Direction: domain.DirectionOut, Quantity: 2, Reason: "Sale - ID 2",
	}})
	assert.ErrorIs(t, err, store.ErrConstraint)
}

func TestDeleteSale_RemovesRows(t *testing.T) {
	repo, s := setupRepo(t)
	products := seedProducts(t, repo)
	ctx := context.Background()

	saleID, err := repo.CreateSale(ctx, domain.Sale{Total: decimal.NewFromInt(1)})
	require.NoError(t, err)
	require.NoError(t, repo.CreateSaleItems(ctx, []domain.SaleItem{{SaleID: saleID, ProductID: products[0].ID, Quantity: 1}}))

	require.NoError(t, repo.DeleteSaleItems(ctx, saleID))
	require.NoError(t, repo.DeleteCashFlowBySale(ctx, saleID))
	require.NoError(t, repo.DeleteSale(ctx, saleID))

	rows, err := s.Select(ctx, store.EntitySaleItems, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
	_, err = repo.GetSale(ctx, saleID)
	assert.ErrorIs(t, err, ErrSaleNotFound)
}

func TestOutbox_AppendListMark(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)

	for i, agg := range []string{"1", "2", "3"} {
		payload, err := json.Marshal(domain.SaleCompletedPayload{SaleID: int64(i + 1)})
		require.NoError(t, err)
		require.NoError(t, repo.AppendOutboxEvent(ctx, domain.OutboxEvent{
			AggregateID: agg,
			EventType:   domain.EventSaleCompleted,
			Payload:     payload,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}))
	}

	events, err := repo.UnprocessedEvents(ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "1", events[0].AggregateID)
	assert.JSONEq(t, `{"sale_id":1,"total":"","product_ids":null,"completed_at":"0001-01-01T00:00:00Z"}`, string(events[0].Payload))

	require.NoError(t, repo.MarkEventProcessed(ctx, events[0].ID))

	events, err = repo.UnprocessedEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "2", events[0].AggregateID)

	assert.Error(t, repo.MarkEventProcessed(ctx, 999))
}

func TestCodec_Conversions(t *testing.T) {
	d, err := decimalOf([]byte("12.50"))
	require.NoError(t, err)
	assert.Equal(t, "12.50", money(d))

	n, err := int64Of("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	ts, err := timeOf("2026-03-04 05:06:07")
	require.NoError(t, err)
	assert.Equal(t, 2026, ts.Year())

	_, err = timeOf("yesterday")
	assert.Error(t, err)

	assert.True(t, boolOf(int64(1)))
	assert.False(t, boolOf("false"))
}
