package checkout

import (
	"context"
	"time"

	d "github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/domain"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/records"
	"go.uber.org/zap"
)

// Repository is what the orchestrator needs from the records layer.
type Repository interface {
	CreateSale(ctx context.Context, sale d.Sale) (int64, error)
	CreateSaleItems(ctx context.Context, items []d.SaleItem) error
	CreateCashFlowEntries(ctx context.Context, entries []d.CashFlowEntry) error
	CreateStockMovements(ctx context.Context, movements []d.StockMovement) error

	DeleteSale(ctx context.Context, saleID int64) error
	DeleteSaleItems(ctx context.Context, saleID int64) error
	DeleteCashFlowBySale(ctx context.Context, saleID int64) error

	GetProduct(ctx context.Context, id int64) (d.Product, error)
	GetSale(ctx context.Context, saleID int64) (*records.SaleRecord, error)
	AppendOutboxEvent(ctx context.Context, ev d.OutboxEvent) error
}

type Options struct {
	// StockPrecheck re-reads product stock before the first write.
	StockPrecheck bool
	// Compensate undoes completed steps, newest first, when a later step fails.
	Compensate bool
	// DefaultNote is stored on sales committed without a note.
	DefaultNote string
}

type Service struct {
	repo Repository
	opts Options
	log  *zap.Logger
	now  func() time.Time
}

func NewService(repo Repository, log *zap.Logger, opts Options) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo: repo,
		opts: opts,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

type commitConfig struct {
	note string
}

type CommitOption func(*commitConfig)

// WithNote sets the free-text note stored on the sale.
func WithNote(note string) CommitOption {
	return func(c *commitConfig) {
		c.note = note
	}
}
