package publisher

import (
	"context"
	"sync"

	d "github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/domain"
	"github.com/segmentio/kafka-go"
)

type MockRepository struct {
	mu        sync.Mutex
	Events    []d.OutboxEvent
	FetchErr  error
	MarkErr   error
	Processed []int64
}

func (m *MockRepository) UnprocessedEvents(_ context.Context, limit int) ([]d.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	var pending []d.OutboxEvent
	for _, ev := range m.Events {
		if !ev.Processed {
			pending = append(pending, ev)
		}
	}
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (m *MockRepository) MarkEventProcessed(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MarkErr != nil {
		return m.MarkErr
	}
	for i := range m.Events {
		if m.Events[i].ID == id {
			m.Events[i].Processed = true
		}
	}
	m.Processed = append(m.Processed, id)
	return nil
}

type MockWriter struct {
	mu       sync.Mutex
	Messages []kafka.Message
	FailKeys map[string]bool
	Closed   bool
}

func (w *MockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, m := range msgs {
		if w.FailKeys[string(m.Key)] {
			return kafka.LeaderNotAvailable
		}
	}
	w.Messages = append(w.Messages, msgs...)
	return nil
}

func (w *MockWriter) Close() error {
	w.Closed = true
	return nil
}
