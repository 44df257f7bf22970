package records

import (
	"context"
	"fmt"

	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/domain"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/store"
)

func productRow(p domain.Product) store.Row {
	return store.Row{
		"code":     p.Code,
		"name":     p.Name,
		"category": p.Category,
		"price":    money(p.Price),
		"stock":    p.Stock,
		"unit":     p.Unit,
	}
}

func productFrom(row store.Row) (domain.Product, error) {
	var d decoder
	p := domain.Product{
		ID:       d.int64(row, "id"),
		Code:     stringOf(row["code"]),
		Name:     stringOf(row["name"]),
		Category: stringOf(row["category"]),
		Price:    d.decimal(row, "price"),
		Stock:    int(d.int64(row, "stock")),
		Unit:     stringOf(row["unit"]),
	}
	return p, d.err
}

// CreateProducts registers catalog entries and returns them with their ids.
func (r *Repository) CreateProducts(ctx context.Context, products ...domain.Product) ([]domain.Product, error) {
	rows := make([]store.Row, len(products))
	for i, p := range products {
		rows[i] = productRow(p)
	}

	created, err := r.store.Insert(ctx, store.EntityProducts, rows...)
	if err != nil {
		return nil, fmt.Errorf("failed to create products: %w", err)
	}
	return productsFrom(created)
}

func (r *Repository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.store.Select(ctx, store.EntityProducts, nil, store.Asc("name"), store.Asc("id"))
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return productsFrom(rows)
}

func (r *Repository) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	rows, err := r.store.Select(ctx, store.EntityProducts, store.Filter{"id": id})
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to get product: %w", err)
	}
	if len(rows) == 0 {
		return domain.Product{}, fmt.Errorf("%w: %d", ErrProductNotFound, id)
	}
	return productFrom(rows[0])
}

func productsFrom(rows []store.Row) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		p, err := productFrom(row)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}
