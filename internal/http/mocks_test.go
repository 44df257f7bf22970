package http

import (
	"context"
	"errors"

	d "github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/domain"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/cart"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/checkout"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/payment"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/session"
)

type CommitterMock struct {
	sale *d.FinalizedSale
	err  error

	// ctx error seen by Commit
	commitCtxErr error
}

func (c *CommitterMock) Commit(ctx context.Context, _ *cart.Cart, _ *payment.Allocator, _ ...checkout.CommitOption) (*d.FinalizedSale, error) {
	c.commitCtxErr = ctx.Err()
	if c.err != nil {
		return nil, c.err
	}
	return c.sale, nil
}

func (c *CommitterMock) LoadSale(ctx context.Context, _ int64) (*d.FinalizedSale, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.sale, nil
}

type ProductsMock struct {
	products []d.Product
	err      error
}

func (p ProductsMock) List(ctx context.Context) ([]d.Product, error) {
	return p.products, p.err
}

var errSessionSave = errors.New("session store write failed")

// SessionStoreMock wraps a memory store and fails every Save while failSave is set.
type SessionStoreMock struct {
	*session.MemoryStore
	failSave bool
}

func (s *SessionStoreMock) Save(ctx context.Context, sess *session.Session) error {
	if s.failSave {
		return errSessionSave
	}
	return s.MemoryStore.Save(ctx, sess)
}
