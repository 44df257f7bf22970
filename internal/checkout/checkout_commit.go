package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	d "github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/domain"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/cart"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/payment"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/pkg/logger"
	"go.uber.org/zap"
)

// Commit persists the cart as a sale. Each step is a separate write; on
// failure the returned *StepError says how far the commit got and the cart
// is left untouched. On success the cart is cleared.
//
// Commit is not idempotent: calling it again after a failure writes a new sale.
func (s *Service) Commit(ctx context.Context, c *cart.Cart, alloc *payment.Allocator, opts ...CommitOption) (*d.FinalizedSale, error) {
	if c == nil || c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	cfg := commitConfig{note: s.opts.DefaultNote}
	for _, opt := range opts {
		opt(&cfg)
	}

	var payments []d.Payment
	if alloc != nil {
		payments = alloc.Confirm()
	}

	state := &commit{
		lines:     c.Snapshot(),
		payments:  payments,
		subtotal:  c.Subtotal(),
		note:      cfg.note,
		createdAt: s.now(),
		status:    d.CommitStatusInitiated,
	}

	log := logger.WithTrace(ctx, s.log)

	if s.opts.StockPrecheck {
		if err := s.precheckStock(ctx, state.lines); err != nil {
			log.Warn("checkout rejected by stock pre-check", zap.Error(err))
			return nil, err
		}
	}

	if err := s.run(ctx, state); err != nil {
		var stepErr *StepError
		if errors.As(err, &stepErr) {
			fields := []zap.Field{
				zap.String("step", stepErr.Step),
				zap.Int64("sale_id", stepErr.SaleID),
				zap.Strings("completed", stepErr.Completed),
				zap.Bool("compensated", stepErr.Compensated),
				zap.Error(stepErr.Err),
			}
			if stepErr.Partial() {
				log.Warn("checkout left a partial sale", fields...)
			} else {
				log.Error("checkout failed", fields...)
			}
		} else {
			log.Error("checkout failed", zap.Error(err))
		}
		return nil, err
	}

	c.Clear()

	sale := &d.FinalizedSale{
		SaleID:    state.saleID,
		Lines:     state.lines,
		Subtotal:  state.subtotal,
		Payments:  state.payments,
		Note:      state.note,
		CreatedAt: state.createdAt,
	}

	if err := s.appendSaleCompleted(ctx, sale); err != nil {
		log.Warn("failed to record sale completed event", zap.Int64("sale_id", sale.SaleID), zap.Error(err))
	}

	log.Info("sale committed",
		zap.Int64("sale_id", sale.SaleID),
		zap.String("total", sale.Subtotal.StringFixed(2)),
		zap.Int("lines", len(sale.Lines)))
	return sale, nil
}

func (s *Service) appendSaleCompleted(ctx context.Context, sale *d.FinalizedSale) error {
	productIDs := make([]int64, len(sale.Lines))
	for i, l := range sale.Lines {
		productIDs[i] = l.ProductID
	}

	payload, err := json.Marshal(d.SaleCompletedPayload{
		SaleID:      sale.SaleID,
		Total:       sale.Subtotal.StringFixed(2),
		ProductIDs:  productIDs,
		CompletedAt: sale.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal sale completed payload: %w", err)
	}

	return s.repo.AppendOutboxEvent(ctx, d.OutboxEvent{
		AggregateID: strconv.FormatInt(sale.SaleID, 10),
		EventType:   d.EventSaleCompleted,
		Payload:     payload,
		CreatedAt:   sale.CreatedAt,
	})
}
