package domain

import (
	"encoding/json"
	"time"
)

const EventSaleCompleted = "SaleCompleted"

type OutboxEvent struct {
	ID          int64           `json:"id"`
	AggregateID string          `json:"aggregate_id"`
	EventType   string          `json:"event_type"`
	Payload     json.RawMessage `json:"payload"`
	Processed   bool            `json:"processed"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SaleCompletedPayload is the body of a SaleCompleted event.
type SaleCompletedPayload struct {
	SaleID     int64   `json:"sale_id"`
	Total      string  `json:"total"`
	ProductIDs []int64 `json:"product_ids"`
	// CompletedAt is set from the sale timestamp.
	CompletedAt time.Time `json:"completed_at"`
}
