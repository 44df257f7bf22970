package checkout

import (
	"context"

	d "github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/domain"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/records"
)

// MockRepository wraps a real repository and fails selected calls.
type MockRepository struct {
	*records.Repository

	SaleErr      error
	ItemsErr     error
	CashFlowErr  error
	StockErr     error
	OutboxErr    error
	DeleteErr    error
	DeletedSales []int64
	Calls        []string
}

func (m *MockRepository) CreateSale(ctx context.Context, sale d.Sale) (int64, error) {
	m.Calls = append(m.Calls, "CreateSale")
	if m.SaleErr != nil {
		return 0, m.SaleErr
	}
	return m.Repository.CreateSale(ctx, sale)
}

func (m *MockRepository) CreateSaleItems(ctx context.Context, items []d.SaleItem) error {
	m.Calls = append(m.Calls, "CreateSaleItems")
	if m.ItemsErr != nil {
		return m.ItemsErr
	}
	return m.Repository.CreateSaleItems(ctx, items)
}

func (m *MockRepository) CreateCashFlowEntries(ctx context.Context, entries []d.CashFlowEntry) error {
	m.Calls = append(m.Calls, "CreateCashFlowEntries")
	if m.CashFlowErr != nil {
		return m.CashFlowErr
	}
	return m.Repository.CreateCashFlowEntries(ctx, entries)
}

func (m *MockRepository) CreateStockMovements(ctx context.Context, movements []d.StockMovement) error {
	m.Calls = append(m.Calls, "CreateStockMovements")
	if m.StockErr != nil {
		return m.StockErr
	}
	return m.Repository.CreateStockMovements(ctx, movements)
}

func (m *MockRepository) DeleteSale(ctx context.Context, saleID int64) error {
	m.Calls = append(m.Calls, "DeleteSale")
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.DeletedSales = append(m.DeletedSales, saleID)
	return m.Repository.DeleteSale(ctx, saleID)
}

func (m *MockRepository) AppendOutboxEvent(ctx context.Context, ev d.OutboxEvent) error {
	m.Calls = append(m.Calls, "AppendOutboxEvent")
	if m.OutboxErr != nil {
		return m.OutboxErr
	}
	return m.Repository.AppendOutboxEvent(ctx, ev)
}
