package domain

import "github.com/shopspring/decimal"

// Product is a catalog entry as read from the store. The checkout core never
// writes products directly; stock changes happen through stock movements.
type Product struct {
	ID       int64           `json:"id"`
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Unit     string          `json:"unit"`
}
