package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"storesync/internal/logger"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const Topic = "sync-events"

// Event types published after each sync run.
const (
	TypeProductSync   = "product-sync"
	TypeInventorySync = "inventory-sync"
	TypeOrderMirror   = "order-mirror"
)

// SyncEvent is the audit record emitted after a sync run. It is consumed
// by the worker and persisted; nothing in the sync path reads it back.
type SyncEvent struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
}

// Publisher writes sync events to Kafka. Publishing is best effort: a
// failed publish is logged and never fails the sync that produced it.
type Publisher struct {
	writer *kafka.Writer
	logger *logger.Logger
}

func NewPublisher(brokers string, logger *logger.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 100 * time.Millisecond,
	}
	return &Publisher{
		writer: writer,
		logger: logger,
	}
}

// Publish emits one sync event.
func (p *Publisher) Publish(ctx context.Context, eventType string, data map[string]interface{}) {
	event := SyncEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to marshal sync event: %v", err)
		return
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Type),
		Value: value,
	}); err != nil {
		p.logger.Error("failed to publish sync event type=%s: %v", event.Type, err)
		return
	}
	p.logger.Debug("published sync event type=%s id=%s", event.Type, event.ID)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
