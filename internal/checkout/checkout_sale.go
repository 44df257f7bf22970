package checkout

import (
	"context"
	"strings"

	d "github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/domain"
)

func paymentSummary(payments []d.Payment) string {
	names := make([]string, len(payments))
	for i, p := range payments {
		names[i] = p.Method.Name()
	}
	return strings.Join(names, ", ")
}

func (s *Service) createSale(ctx context.Context, c *commit) error {
	id, err := s.repo.CreateSale(ctx, d.Sale{
		Total:          c.subtotal,
		PaymentMethods: paymentSummary(c.payments),
		Note:           c.note,
		CreatedAt:      c.createdAt,
	})
	if err != nil {
		return err
	}
	c.saleID = id
	return nil
}

func (s *Service) deleteSale(ctx context.Context, c *commit) error {
	return s.repo.DeleteSale(ctx, c.saleID)
}
