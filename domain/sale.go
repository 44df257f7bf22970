package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Sale struct {
	ID             int64           `json:"id"`
	Total          decimal.Decimal `json:"total"`
	PaymentMethods string          `json:"payment_methods"`
	Note           string          `json:"note"`
	CreatedAt      time.Time       `json:"created_at"`
}

// SaleItem is a persisted line item. UnitPrice is the price captured when the
// product was added to the cart, not the current catalog price.
type SaleItem struct {
	ID        int64           `json:"id"`
	SaleID    int64           `json:"sale_id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleLine is the receipt view of one cart line at commit time.
type SaleLine struct {
	ProductID   int64           `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Unit        string          `json:"unit"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// FinalizedSale is the immutable snapshot handed to the receipt presenter after
// a successful commit.
type FinalizedSale struct {
	SaleID    int64           `json:"sale_id"`
	Lines     []SaleLine      `json:"lines"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Payments  []Payment       `json:"payments"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// TotalPaid sums the resolved payments.
func (f FinalizedSale) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range f.Payments {
		total = total.Add(p.Value)
	}
	return total
}

// Change is the overpayment returned to the customer, never negative.
func (f FinalizedSale) Change() decimal.Decimal {
	change := f.TotalPaid().Sub(f.Subtotal)
	if change.IsNegative() {
		return decimal.Zero
	}
	return change
}
