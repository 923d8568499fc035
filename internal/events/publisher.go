// Package events publishes order lifecycle events.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
)

// EventOrderPlaced is the type of the event sent after an order is stored
const EventOrderPlaced = "order.placed"

// Publisher sends order events
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, order *domain.Order) error
	Close() error
}

// OrderPlaced is the payload of an order.placed event
type OrderPlaced struct {
	Type       string             `json:"type"`
	OrderID    string             `json:"orderId"`
	UserID     string             `json:"userid"`
	Email      string             `json:"email"`
	ItemCount  int                `json:"itemCount"`
	Total      string             `json:"total"`
	Items      []domain.CartItem  `json:"cartItems"`
	Address    domain.AddressInfo `json:"addressInfo"`
	OccurredAt string             `json:"occurredAt"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes order events to a kafka topic keyed by user id
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	logger *zap.Logger
}

// NewKafkaPublisher creates a publisher for the given brokers and topic
func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}
	return newKafkaPublisher(writer, topic, logger)
}

func newKafkaPublisher(writer messageWriter, topic string, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: writer,
		topic:  topic,
		logger: logger,
	}
}

func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, order *domain.Order) error {
	event := OrderPlaced{
		Type:       EventOrderPlaced,
		OrderID:    order.ID,
		UserID:     order.UserID,
		Email:      order.Email,
		ItemCount:  order.Totals.ItemCount,
		Total:      order.Totals.Total,
		Items:      order.CartItems,
		Address:    order.AddressInfo,
		OccurredAt: order.Time,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.UserID),
		Value: data,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(EventOrderPlaced)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	p.logger.Debug("Published order event",
		zap.String("topic", p.topic),
		zap.String("order_id", order.ID),
	)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

type nopPublisher struct{}

// NewNopPublisher returns a publisher that drops every event
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) PublishOrderPlaced(context.Context, *domain.Order) error { return nil }
func (nopPublisher) Close() error                                            { return nil }
