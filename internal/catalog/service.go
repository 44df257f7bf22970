package catalog

import (
	"context"
	"errors"
	"time"

	d "github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type ProductReader interface {
	ListProducts(ctx context.Context) ([]d.Product, error)
	GetProduct(ctx context.Context, id int64) (d.Product, error)
}

// Service reads the product catalog. The list is a point-in-time view; the
// cart never subscribes to it.
type Service struct {
	repo  ProductReader
	cache Cache
	log   *zap.Logger
	sfg   singleflight.Group
}

// NewService builds a catalog reader. cache may be nil.
func NewService(repo ProductReader, cache Cache, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, cache: cache, log: log}
}

func (s *Service) List(ctx context.Context) ([]d.Product, error) {
	v, err, _ := s.sfg.Do("products", func() (interface{}, error) {
		if s.cache != nil {
			products, err := s.cache.Get(ctx)
			if err == nil {
				return products, nil
			}
			if !errors.Is(err, ErrCacheMiss) {
				s.log.Warn("catalog cache get failed", zap.Error(err))
			}
		}

		products, err := s.repo.ListProducts(ctx)
		if err != nil {
			return nil, err
		}

		if s.cache != nil {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				if err := s.cache.Set(ctx, products); err != nil {
					s.log.Warn("catalog cache set failed", zap.Error(err))
				}
			}()
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]d.Product), nil
}

// Get reads one product straight from the store so its price and stock are
// current when it goes into a cart.
func (s *Service) Get(ctx context.Context, id int64) (d.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx)
}
