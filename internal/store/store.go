package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// Entities known to every store implementation.
const (
	EntityProducts       = "products"
	EntitySales          = "sales"
	EntitySaleItems      = "sale_items"
	EntityCashFlow       = "cash_flow"
	EntityStockMovements = "stock_movements"
	EntityOutboxEvents   = "outbox_events"
)

var knownEntities = map[string]bool{
	EntityProducts:       true,
	EntitySales:          true,
	EntitySaleItems:      true,
	EntityCashFlow:       true,
	EntityStockMovements: true,
	EntityOutboxEvents:   true,
}

// Common errors returned by the store
var (
	ErrUnknownEntity = errors.New("unknown entity")
	ErrInvalidColumn = errors.New("invalid column name")
	ErrEmptyInsert   = errors.New("nothing to insert")
	ErrConstraint    = errors.New("constraint violation")
	ErrConflict      = errors.New("conflicting row")
	ErrUnavailable   = errors.New("store unavailable")
)

// Row is one record keyed by column name. Inserted rows come back with the
// generated "id".
type Row map[string]any

// Filter matches rows whose columns equal every given value.
type Filter map[string]any

type Order struct {
	Column string
	Desc   bool
}

func Asc(column string) Order  { return Order{Column: column} }
func Desc(column string) Order { return Order{Column: column, Desc: true} }

// Store is the remote data store: request/response calls keyed by entity name.
// Implementations enforce the stock rule: an "out" stock movement that would
// drive a product's stock negative is rejected with ErrConstraint.
type Store interface {
	// Insert creates rows atomically and returns them with generated ids.
	Insert(ctx context.Context, entity string, rows ...Row) ([]Row, error)

	// Select returns rows matching filter, ordered by orders.
	Select(ctx context.Context, entity string, filter Filter, orders ...Order) ([]Row, error)

	// Update applies patch to every row matching filter.
	Update(ctx context.Context, entity string, filter Filter, patch Row) (int64, error)

	// Delete removes every row matching filter.
	Delete(ctx context.Context, entity string, filter Filter) (int64, error)

	Close() error
}

var columnPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func checkEntity(entity string) error {
	if !knownEntities[entity] {
		return fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
	}
	return nil
}

func checkColumns[V any](m map[string]V) error {
	for col := range m {
		if !columnPattern.MatchString(col) {
			return fmt.Errorf("%w: %q", ErrInvalidColumn, col)
		}
	}
	return nil
}

func checkOrders(orders []Order) error {
	for _, o := range orders {
		if !columnPattern.MatchString(o.Column) {
			return fmt.Errorf("%w: %q", ErrInvalidColumn, o.Column)
		}
	}
	return nil
}

func insufficientStock(productID any) error {
	return fmt.Errorf("%w: insufficient stock for product %v", ErrConstraint, productID)
}
