package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStore implements Store in process. It backs tests and single-terminal
// demo setups; data is lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string][]Row
	nextID map[string]int64
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables: make(map[string][]Row),
		nextID: make(map[string]int64),
		now:    time.Now,
	}
}

func (s *MemoryStore) Insert(_ context.Context, entity string, rows ...Row) ([]Row, error) {
	if err := checkEntity(entity); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyInsert
	}
	for _, r := range rows {
		if err := checkColumns(r); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// First pass: validate the whole batch so a rejected row leaves nothing behind
	if entity == EntityStockMovements {
		if err := s.checkStock(rows); err != nil {
			return nil, err
		}
	}

	// Second pass: write
	created := make([]Row, 0, len(rows))
	for _, r := range rows {
		row := cloneRow(r)
		s.nextID[entity]++
		row["id"] = s.nextID[entity]
		if _, ok := row["created_at"]; !ok {
			row["created_at"] = s.now()
		}
		s.tables[entity] = append(s.tables[entity], row)
		created = append(created, cloneRow(row))
	}

	if entity == EntityStockMovements {
		s.applyStock(rows)
	}
	return created, nil
}

func (s *MemoryStore) productRow(id any) Row {
	for _, p := range s.tables[EntityProducts] {
		if equalValues(p["id"], id) {
			return p
		}
	}
	return nil
}

func (s *MemoryStore) checkStock(rows []Row) error {
	pending := make(map[int64]int64)
	for _, r := range rows {
		product := s.productRow(r["product_id"])
		if product == nil {
			return fmt.Errorf("%w: product %v not found", ErrConstraint, r["product_id"])
		}
		if !isOut(r) {
			continue
		}
		pid, _ := toInt64(product["id"])
		qty, _ := toInt64(r["quantity"])
		stock, _ := toInt64(product["stock"])
		pending[pid] += qty
		if stock-pending[pid] < 0 {
			return insufficientStock(pid)
		}
	}
	return nil
}

func (s *MemoryStore) applyStock(rows []Row) {
	for _, r := range rows {
		product := s.productRow(r["product_id"])
		qty, _ := toInt64(r["quantity"])
		stock, _ := toInt64(product["stock"])
		if isOut(r) {
			product["stock"] = stock - qty
		} else {
			product["stock"] = stock + qty
		}
	}
}

func isOut(r Row) bool {
	return fmt.Sprint(r["direction"]) == "out"
}

func matches(r Row, filter Filter) bool {
	for col, want := range filter {
		if !equalValues(r[col], want) {
			return false
		}
	}
	return true
}

func (s *MemoryStore) Select(_ context.Context, entity string, filter Filter, orders ...Order) ([]Row, error) {
	if err := checkEntity(entity); err != nil {
		return nil, err
	}
	if err := checkColumns(filter); err != nil {
		return nil, err
	}
	if err := checkOrders(orders); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Row
	for _, r := range s.tables[entity] {
		if matches(r, filter) {
			result = append(result, cloneRow(r))
		}
	}

	if len(orders) > 0 {
		sort.SliceStable(result, func(i, j int) bool {
			for _, o := range orders {
				c := compareValues(result[i][o.Column], result[j][o.Column])
				if c == 0 {
					continue
				}
				if o.Desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}
	return result, nil
}

func (s *MemoryStore) Update(_ context.Context, entity string, filter Filter, patch Row) (int64, error) {
	if err := checkEntity(entity); err != nil {
		return 0, err
	}
	if err := checkColumns(filter); err != nil {
		return 0, err
	}
	if err := checkColumns(patch); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var affected int64
	for _, r := range s.tables[entity] {
		if !matches(r, filter) {
			continue
		}
		for k, v := range patch {
			if k == "id" {
				continue
			}
			r[k] = v
		}
		affected++
	}
	return affected, nil
}

func (s *MemoryStore) Delete(_ context.Context, entity string, filter Filter) (int64, error) {
	if err := checkEntity(entity); err != nil {
		return 0, err
	}
	if err := checkColumns(filter); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.tables[entity][:0]
	var affected int64
	for _, r := range s.tables[entity] {
		if matches(r, filter) {
			affected++
			continue
		}
		kept = append(kept, r)
	}
	s.tables[entity] = kept
	return affected, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
