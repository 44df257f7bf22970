package checkout

import (
	"context"
	"fmt"

	d "github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/domain"
)

// cashFlowEntries books one "in" entry per payment and an "out" entry for
// the change when the customer paid more than the subtotal.
func cashFlowEntries(c *commit) []d.CashFlowEntry {
	entries := make([]d.CashFlowEntry, 0, len(c.payments)+1)
	for _, p := range c.payments {
		if !p.Value.IsPositive() {
			continue
		}
		entries = append(entries, d.CashFlowEntry{
			Direction:     d.DirectionIn,
			Value:         p.Value,
			Description:   fmt.Sprintf("entry in %s from sale #%d", p.Method.Name(), c.saleID),
			PaymentMethod: p.Method,
			Origin:        d.CashFlowOriginSale,
			SaleID:        c.saleID,
			CreatedAt:     c.createdAt,
		})
	}

	if change := c.totalInformed().Sub(c.subtotal).Round(2); change.IsPositive() {
		entries = append(entries, d.CashFlowEntry{
			Direction:     d.DirectionOut,
			Value:         change,
			Description:   fmt.Sprintf("change in cash from sale #%d", c.saleID),
			PaymentMethod: d.PaymentCash,
			Origin:        d.CashFlowOriginSale,
			SaleID:        c.saleID,
			CreatedAt:     c.createdAt,
		})
	}
	return entries
}

func (s *Service) recordCashFlow(ctx context.Context, c *commit) error {
	entries := cashFlowEntries(c)
	if len(entries) == 0 {
		return nil
	}
	return s.repo.CreateCashFlowEntries(ctx, entries)
}

func (s *Service) deleteCashFlow(ctx context.Context, c *commit) error {
	return s.repo.DeleteCashFlowBySale(ctx, c.saleID)
}
