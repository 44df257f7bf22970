package checkout

import (
	"context"
	"fmt"

	d "github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/domain"
)

func (s *Service) moveStock(ctx context.Context, c *commit) error {
	movements := make([]d.StockMovement, len(c.lines))
	for i, l := range c.lines {
		movements[i] = d.StockMovement{
			ProductID: l.ProductID,
			Direction: d.DirectionOut,
			Quantity:  l.Quantity,
			Reason:    fmt.Sprintf("Sale - ID %d", c.saleID),
			CreatedAt: c.createdAt,
		}
	}
	return s.repo.CreateStockMovements(ctx, movements)
}

// precheckStock fails when any line asks for more than the product has.
// Nothing has been written when it runs.
func (s *Service) precheckStock(ctx context.Context, lines []d.SaleLine) error {
	for _, l := range lines {
		p, err := s.repo.GetProduct(ctx, l.ProductID)
		if err != nil {
			return fmt.Errorf("failed to check stock: %w", err)
		}
		if p.Stock < l.Quantity {
			return fmt.Errorf("%w for product %d: %d available, %d requested",
				ErrInsufficientStock, l.ProductID, p.Stock, l.Quantity)
		}
	}
	return nil
}
