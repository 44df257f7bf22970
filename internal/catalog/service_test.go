package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	d "github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var testProducts = []d.Product{
	{ID: 1, Code: "ROSE", Name: "Rose", Stock: 3},
	{ID: 2, Code: "FERN", Name: "Fern", Stock: 8},
}

func TestList_CacheMissLoadsAndFills(t *testing.T) {
	repo := &mockRepository{products: testProducts}
	cache := &mockCache{}
	svc := NewService(repo, cache, zaptest.NewLogger(t))

	products, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, int32(1), repo.calls.Load())
	assert.Eventually(t, func() bool { return cache.setCount() == 1 }, time.Second, 10*time.Millisecond)
}

func TestList_CacheHitSkipsRepository(t *testing.T) {
	repo := &mockRepository{products: testProducts}
	cache := &mockCache{products: testProducts[:1]}
	svc := NewService(repo, cache, nil)

	products, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, int32(0), repo.calls.Load())
}

func TestList_CacheErrorFallsBackToRepository(t *testing.T) {
	repo := &mockRepository{products: testProducts}
	cache := &mockCache{getErr: errors.New("redis down")}
	svc := NewService(repo, cache, zaptest.NewLogger(t))

	products, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestList_RepositoryError(t *testing.T) {
	repo := &mockRepository{err: errors.New("store unavailable")}
	svc := NewService(repo, nil, nil)

	_, err := svc.List(context.Background())

	assert.EqualError(t, err, "store unavailable")
}

func TestList_ConcurrentMissesShareOneLoad(t *testing.T) {
	repo := &mockRepository{products: testProducts, delay: 50 * time.Millisecond}
	svc := NewService(repo, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.List(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Less(t, repo.calls.Load(), int32(10))
}

func TestInvalidate(t *testing.T) {
	cache := &mockCache{products: testProducts}
	svc := NewService(&mockRepository{}, cache, nil)

	require.NoError(t, svc.Invalidate(context.Background()))

	assert.Equal(t, 1, cache.deletes)
	assert.NoError(t, NewService(&mockRepository{}, nil, nil).Invalidate(context.Background()))
}

func TestGet_ReadsRepository(t *testing.T) {
	svc := NewService(&mockRepository{products: testProducts}, &mockCache{}, nil)

	p, err := svc.Get(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, "Fern", p.Name)
}
