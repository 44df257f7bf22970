package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionIn, DirectionOut:
		return Direction(s), nil
	default:
		return "", fmt.Errorf("unknown direction %q", s)
	}
}

type StockMovement struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	Direction Direction `json:"direction"`
	Quantity  int       `json:"quantity"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// CashFlowOriginSale tags cash-flow rows created by the checkout.
const CashFlowOriginSale = "sale"

type CashFlowEntry struct {
	ID            int64           `json:"id"`
	Direction     Direction       `json:"direction"`
	Value         decimal.Decimal `json:"value"`
	Description   string          `json:"description"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Origin        string          `json:"origin"`
	SaleID        int64           `json:"sale_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
