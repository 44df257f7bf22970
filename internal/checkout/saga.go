package checkout

import (
	"context"
	"time"

	d "github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/domain"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// commit is the state one checkout carries through the saga.
type commit struct {
	lines     []d.SaleLine
	payments  []d.Payment
	subtotal  decimal.Decimal
	note      string
	createdAt time.Time

	saleID    int64
	status    d.CommitStatus
	completed []string
}

func (c *commit) totalInformed() decimal.Decimal {
	total := decimal.Zero
	for _, p := range c.payments {
		total = total.Add(p.Value)
	}
	return total
}

type step struct {
	name       string
	reaches    d.CommitStatus
	action     func(ctx context.Context, c *commit) error
	compensate func(ctx context.Context, c *commit) error
}

// steps lists the commit writes in order. Each depends on the previous one.
func (s *Service) steps() []step {
	return []step{
		{name: "create_sale", reaches: d.CommitStatusSaleCreated, action: s.createSale, compensate: s.deleteSale},
		{name: "create_items", reaches: d.CommitStatusItemsCreated, action: s.createItems, compensate: s.deleteItems},
		{name: "record_cash_flow", reaches: d.CommitStatusCashFlowRecorded, action: s.recordCashFlow, compensate: s.deleteCashFlow},
		{name: "move_stock", reaches: d.CommitStatusStockMoved, action: s.moveStock},
	}
}

func (s *Service) run(ctx context.Context, c *commit) error {
	steps := s.steps()
	for i, st := range steps {
		if !d.CanTransitionTo(c.status, st.reaches) {
			return ErrIllegalTransition
		}

		if err := st.action(ctx, c); err != nil {
			stepErr := &StepError{
				Step:      st.name,
				Status:    c.status,
				SaleID:    c.saleID,
				Completed: append([]string(nil), c.completed...),
				Err:       err,
			}
			c.status = d.CommitStatusFailed
			if s.opts.Compensate && i > 0 {
				stepErr.Compensated = s.compensate(ctx, c, steps[:i])
			}
			return stepErr
		}

		c.status = st.reaches
		c.completed = append(c.completed, st.name)
	}

	if !d.CanTransitionTo(c.status, d.CommitStatusCompleted) {
		return ErrIllegalTransition
	}
	c.status = d.CommitStatusCompleted
	return nil
}

// compensate undoes done steps newest first and reports whether all succeeded.
func (s *Service) compensate(ctx context.Context, c *commit, done []step) bool {
	log := logger.WithTrace(ctx, s.log)
	ok := true
	for i := len(done) - 1; i >= 0; i-- {
		st := done[i]
		if st.compensate == nil {
			continue
		}
		if err := st.compensate(ctx, c); err != nil {
			ok = false
			log.Error("compensation failed",
				zap.String("step", st.name),
				zap.Int64("sale_id", c.saleID),
				zap.Error(err))
		}
	}
	return ok
}
