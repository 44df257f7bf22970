package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	d "github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/domain"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const DefaultGroupID = "pos-catalog-invalidator"

var ErrUnexpectedEvent = errors.New("unexpected event type")

// CacheInvalidator drops the cached product list.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer reads SaleCompleted events and invalidates the product cache,
// since every sale moved stock.
type Consumer struct {
	reader  messageReader
	catalog CacheInvalidator
	log     *zap.Logger
}

func NewConsumer(catalog CacheInvalidator, log *zap.Logger, topic, groupID string, brokers ...string) *Consumer {
	if groupID == "" {
		groupID = DefaultGroupID
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MaxBytes: 10e6, // 10MB
	})
	return newConsumer(reader, catalog, log)
}

func newConsumer(reader messageReader, catalog CacheInvalidator, log *zap.Logger) *Consumer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Consumer{reader: reader, catalog: catalog, log: log}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() == nil {
				c.log.Warn("error reading message", zap.Error(err))
			}
			continue
		}

		if err := c.handle(ctx, m); err != nil {
			c.log.Warn("failed to handle message",
				zap.String("key", string(m.Key)),
				zap.Int64("offset", m.Offset),
				zap.Error(err))
		}
	}
}

func (c *Consumer) handle(ctx context.Context, m kafka.Message) error {
	for _, h := range m.Headers {
		if h.Key == "event_type" && string(h.Value) != d.EventSaleCompleted {
			return fmt.Errorf("%w: %s", ErrUnexpectedEvent, h.Value)
		}
	}

	var payload d.SaleCompletedPayload
	if err := json.Unmarshal(m.Value, &payload); err != nil {
		return fmt.Errorf("error parsing message: %w", err)
	}

	if err := c.catalog.Invalidate(ctx); err != nil {
		return fmt.Errorf("failed to invalidate catalog cache: %w", err)
	}

	c.log.Debug("catalog cache invalidated", zap.Int64("sale_id", payload.SaleID))
	return nil
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.log.Warn("error closing reader", zap.Error(err))
	}
}
