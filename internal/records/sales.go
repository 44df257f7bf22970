package records

import (
	"context"
	"fmt"

	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/domain"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/store"
)

// SaleRecord is a stored sale with everything written for it.
type SaleRecord struct {
	Sale     domain.Sale
	Items    []domain.SaleItem
	CashFlow []domain.CashFlowEntry
}

// CreateSale writes the sale header and returns its generated id.
func (r *Repository) CreateSale(ctx context.Context, sale domain.Sale) (int64, error) {
	createdAt := sale.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.now()
	}

	rows, err := r.store.Insert(ctx, store.EntitySales, store.Row{
		"total":           money(sale.Total),
		"payment_methods": sale.PaymentMethods,
		"note":            sale.Note,
		"created_at":      createdAt,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create sale: %w", err)
	}

	var d decoder
	id := d.int64(rows[0], "id")
	return id, d.err
}

func (r *Repository) CreateSaleItems(ctx context.Context, items []domain.SaleItem) error {
	rows := make([]store.Row, len(items))
	for i, it := range items {
		rows[i] = store.Row{
			"sale_id":    it.SaleID,
			"product_id": it.ProductID,
			"quantity":   it.Quantity,
			"unit_price": money(it.UnitPrice),
			"subtotal":   money(it.Subtotal),
		}
	}

	if _, err := r.store.Insert(ctx, store.EntitySaleItems, rows...); err != nil {
		return fmt.Errorf("failed to create sale items: %w", err)
	}
	return nil
}

func (r *Repository) CreateCashFlowEntries(ctx context.Context, entries []domain.CashFlowEntry) error {
	now := r.now()
	rows := make([]store.Row, len(entries))
	for i, e := range entries {
		createdAt := e.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		rows[i] = store.Row{
			"direction":      string(e.Direction),
			"value":          money(e.Value),
			"description":    e.Description,
			"payment_method": string(e.PaymentMethod),
			"origin":         e.Origin,
			"sale_id":        e.SaleID,
			"created_at":     createdAt,
		}
	}

	if _, err := r.store.Insert(ctx, store.EntityCashFlow, rows...); err != nil {
		return fmt.Errorf("failed to create cash flow entries: %w", err)
	}
	return nil
}

func (r *Repository) CreateStockMovements(ctx context.Context, movements []domain.StockMovement) error {
	now := r.now()
	rows := make([]store.Row, len(movements))
	for i, m := range movements {
		createdAt := m.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		rows[i] = store.Row{
			"product_id": m.ProductID,
			"direction":  string(m.Direction),
			"quantity":   m.Quantity,
			"reason":     m.Reason,
			"created_at": createdAt,
		}
	}

	if _, err := r.store.Insert(ctx, store.EntityStockMovements, rows...); err != nil {
		return fmt.Errorf("failed to create stock movements: %w", err)
	}
	return nil
}

func (r *Repository) DeleteSale(ctx context.Context, saleID int64) error {
	if _, err := r.store.Delete(ctx, store.EntitySales, store.Filter{"id": saleID}); err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}
	return nil
}

func (r *Repository) DeleteSaleItems(ctx context.Context, saleID int64) error {
	if _, err := r.store.Delete(ctx, store.EntitySaleItems, store.Filter{"sale_id": saleID}); err != nil {
		return fmt.Errorf("failed to delete sale items: %w", err)
	}
	return nil
}

func (r *Repository) DeleteCashFlowBySale(ctx context.Context, saleID int64) error {
	if _, err := r.store.Delete(ctx, store.EntityCashFlow, store.Filter{"sale_id": saleID}); err != nil {
		return fmt.Errorf("failed to delete cash flow entries: %w", err)
	}
	return nil
}

// GetSale loads a sale with its items and cash-flow rows.
func (r *Repository) GetSale(ctx context.Context, saleID int64) (*SaleRecord, error) {
	rows, err := r.store.Select(ctx, store.EntitySales, store.Filter{"id": saleID})
	if err != nil {
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrSaleNotFound, saleID)
	}

	var d decoder
	rec := &SaleRecord{
		Sale: domain.Sale{
			ID:             d.int64(rows[0], "id"),
			Total:          d.decimal(rows[0], "total"),
			PaymentMethods: stringOf(rows[0]["payment_methods"]),
			Note:           stringOf(rows[0]["note"]),
			CreatedAt:      d.time(rows[0], "created_at"),
		},
	}

	itemRows, err := r.store.Select(ctx, store.EntitySaleItems, store.Filter{"sale_id": saleID}, store.Asc("id"))
	if err != nil {
		return nil, fmt.Errorf("failed to get sale items: %w", err)
	}
	for _, row := range itemRows {
		rec.Items = append(rec.Items, domain.SaleItem{
			ID:        d.int64(row, "id"),
			SaleID:    d.int64(row, "sale_id"),
			ProductID: d.int64(row, "product_id"),
			Quantity:  int(d.int64(row, "quantity")),
			UnitPrice: d.decimal(row, "unit_price"),
			Subtotal:  d.decimal(row, "subtotal"),
		})
	}

	flowRows, err := r.store.Select(ctx, store.EntityCashFlow, store.Filter{"sale_id": saleID}, store.Asc("id"))
	if err != nil {
		return nil, fmt.Errorf("failed to get cash flow entries: %w", err)
	}
	for _, row := range flowRows {
		rec.CashFlow = append(rec.CashFlow, domain.CashFlowEntry{
			ID:            d.int64(row, "id"),
			Direction:     domain.Direction(stringOf(row["direction"])),
			Value:         d.decimal(row, "value"),
			Description:   stringOf(row["description"]),
			PaymentMethod: domain.PaymentMethod(stringOf(row["payment_method"])),
			Origin:        stringOf(row["origin"]),
			SaleID:        d.int64(row, "sale_id"),
			CreatedAt:     d.time(row, "created_at"),
		})
	}

	if d.err != nil {
		return nil, d.err
	}
	return rec, nil
}
