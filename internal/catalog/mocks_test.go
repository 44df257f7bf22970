package catalog

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	d "github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/domain"
)

type mockRepository struct {
	products []d.Product
	err      error
	delay    time.Duration
	calls    atomic.Int32
}

func (m *mockRepository) ListProducts(context.Context) ([]d.Product, error) {
	m.calls.Add(1)
	time.Sleep(m.delay)
	if m.err != nil {
		return nil, m.err
	}
	return m.products, nil
}

func (m *mockRepository) GetProduct(_ context.Context, id int64) (d.Product, error) {
	for _, p := range m.products {
		if p.ID == id {
			return p, nil
		}
	}
	return d.Product{}, m.err
}

type mockCache struct {
	mu       sync.Mutex
	products []d.Product
	getErr   error
	sets     int
	deletes  int
}

func (m *mockCache) Get(context.Context) ([]d.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.products == nil {
		return nil, ErrCacheMiss
	}
	return m.products, nil
}

func (m *mockCache) Set(_ context.Context, products []d.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = products
	m.sets++
	return nil
}

func (m *mockCache) Delete(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = nil
	m.deletes++
	return nil
}

func (m *mockCache) setCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}
