package records

import (
	"context"
	"fmt"

	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/domain"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/store"
)

func (r *Repository) AppendOutboxEvent(ctx context.Context, ev domain.OutboxEvent) error {
	createdAt := ev.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.now()
	}

	_, err := r.store.Insert(ctx, store.EntityOutboxEvents, store.Row{
		"aggregate_id": ev.AggregateID,
		"event_type":   ev.EventType,
		"payload":      string(ev.Payload),
		"processed":    false,
		"created_at":   createdAt,
	})
	if err != nil {
		return fmt.Errorf("failed to append outbox event: %w", err)
	}
	return nil
}

// UnprocessedEvents returns up to limit pending events, oldest first.
func (r *Repository) UnprocessedEvents(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	rows, err := r.store.Select(ctx, store.EntityOutboxEvents,
		store.Filter{"processed": false}, store.Asc("created_at"), store.Asc("id"))
	if err != nil {
		return nil, fmt.Errorf("failed to get unprocessed events: %w", err)
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	events := make([]domain.OutboxEvent, 0, len(rows))
	for _, row := range rows {
		var d decoder
		ev := domain.OutboxEvent{
			ID:          d.int64(row, "id"),
			AggregateID: stringOf(row["aggregate_id"]),
			EventType:   stringOf(row["event_type"]),
			Payload:     []byte(stringOf(row["payload"])),
			Processed:   boolOf(row["processed"]),
			CreatedAt:   d.time(row, "created_at"),
		}
		if d.err != nil {
			return nil, d.err
		}
		events = append(events, ev)
	}
	return events, nil
}

func (r *Repository) MarkEventProcessed(ctx context.Context, id int64) error {
	n, err := r.store.Update(ctx, store.EntityOutboxEvents, store.Filter{"id": id}, store.Row{"processed": true})
	if err != nil {
		return fmt.Errorf("failed to mark event processed: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("outbox event %d not found", id)
	}
	return nil
}
