package checkout

import (
	"context"

	d "github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/domain"
)

func (s *Service) createItems(ctx context.Context, c *commit) error {
	items := make([]d.SaleItem, len(c.lines))
	for i, l := range c.lines {
		items[i] = d.SaleItem{
			SaleID:    c.saleID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Total,
		}
	}
	return s.repo.CreateSaleItems(ctx, items)
}

func (s *Service) deleteItems(ctx context.Context, c *commit) error {
	return s.repo.DeleteSaleItems(ctx, c.saleID)
}
