package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/pkg/circuitbreaker"
	"go.uber.org/zap"
)

// BreakerStore guards a remote Store with a circuit breaker. Rejections by the
// store itself (constraints, conflicts, bad requests) do not trip it.
type BreakerStore struct {
	next Store
	cb   *circuitbreaker.Breaker[any]
}

func WithBreaker(next Store, s circuitbreaker.Settings, log *zap.Logger) *BreakerStore {
	if s.Name == "" {
		s.Name = "store"
	}
	s.IsSuccessful = isBusinessError
	return &BreakerStore{next: next, cb: circuitbreaker.New[any](s, log)}
}

func isBusinessError(err error) bool {
	return err == nil ||
		errors.Is(err, ErrConstraint) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrUnknownEntity) ||
		errors.Is(err, ErrInvalidColumn) ||
		errors.Is(err, ErrEmptyInsert) ||
		errors.Is(err, context.Canceled)
}

func (b *BreakerStore) execute(fn func() (any, error)) (any, error) {
	v, err := b.cb.Execute(fn)
	if circuitbreaker.IsOpen(err) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return v, err
}

func (b *BreakerStore) Insert(ctx context.Context, entity string, rows ...Row) ([]Row, error) {
	v, err := b.execute(func() (any, error) {
		return b.next.Insert(ctx, entity, rows...)
	})
	if err != nil {
		return nil, err
	}
	return v.([]Row), nil
}

func (b *BreakerStore) Select(ctx context.Context, entity string, filter Filter, orders ...Order) ([]Row, error) {
	v, err := b.execute(func() (any, error) {
		return b.next.Select(ctx, entity, filter, orders...)
	})
	if err != nil {
		return nil, err
	}
	return v.([]Row), nil
}

func (b *BreakerStore) Update(ctx context.Context, entity string, filter Filter, patch Row) (int64, error) {
	v, err := b.execute(func() (any, error) {
		return b.next.Update(ctx, entity, filter, patch)
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

func (b *BreakerStore) Delete(ctx context.Context, entity string, filter Filter) (int64, error) {
	v, err := b.execute(func() (any, error) {
		return b.next.Delete(ctx, entity, filter)
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

func (b *BreakerStore) State() string {
	return b.cb.State()
}

func (b *BreakerStore) Close() error {
	return b.next.Close()
}
