package checkout

import (
	"context"
	"errors"
	"fmt"

	d "github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/domain"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/records"
)

// LoadSale rebuilds the finalized snapshot of a stored sale for reprinting.
// Payments come from the sale's incoming cash-flow rows.
func (s *Service) LoadSale(ctx context.Context, saleID int64) (*d.FinalizedSale, error) {
	rec, err := s.repo.GetSale(ctx, saleID)
	if err != nil {
		return nil, err
	}

	sale := &d.FinalizedSale{
		SaleID:    rec.Sale.ID,
		Subtotal:  rec.Sale.Total,
		Note:      rec.Sale.Note,
		CreatedAt: rec.Sale.CreatedAt,
	}

	for _, it := range rec.Items {
		line := d.SaleLine{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Total:     it.Subtotal,
		}
		p, err := s.repo.GetProduct(ctx, it.ProductID)
		switch {
		case err == nil:
			line.ProductCode = p.Code
			line.ProductName = p.Name
			line.Unit = p.Unit
		case errors.Is(err, records.ErrProductNotFound):
			line.ProductName = fmt.Sprintf("product #%d", it.ProductID)
		default:
			return nil, err
		}
		sale.Lines = append(sale.Lines, line)
	}

	for _, e := range rec.CashFlow {
		if e.Direction != d.DirectionIn || e.Origin != d.CashFlowOriginSale {
			continue
		}
		sale.Payments = append(sale.Payments, d.Payment{Method: e.PaymentMethod, Value: e.Value})
	}
	return sale, nil
}
