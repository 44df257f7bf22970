package catalog

import (
	"context"
	"errors"

	d "github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/domain"
)

type Cache interface {
	Get(ctx context.Context) ([]d.Product, error)
	Set(ctx context.Context, products []d.Product) error
	Delete(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")
