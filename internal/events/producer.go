package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer publishes order events. A nil *Producer is valid and drops
// every event, so callers never need to guard the publish calls.
type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewProducer returns nil when no brokers are configured.
func NewProducer(brokers []string, topic string, logger *zap.Logger) *Producer {
	if len(brokers) == 0 {
		return nil
	}
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{writer: writer, logger: logger}
}

func (p *Producer) PublishOrderCreated(orderID int, orderNumber string, userID int, total float64, status string) error {
	return p.publish(EventOrderCreated, orderID, orderNumber, userID, total, status)
}

func (p *Producer) PublishOrderCancelled(orderID int, orderNumber string, userID int, total float64) error {
	return p.publish(EventOrderCancelled, orderID, orderNumber, userID, total, "CANCELLED")
}

func (p *Producer) publish(eventType string, orderID int, orderNumber string, userID int, total float64, status string) error {
	if p == nil {
		return nil
	}
	event := OrderEvent{
		EventID:     uuid.New().String(),
		EventType:   eventType,
		OrderID:     orderID,
		OrderNumber: orderNumber,
		UserID:      userID,
		Total:       total,
		Status:      status,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal order event", zap.Error(err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(orderNumber),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish order event",
			zap.String("event_type", eventType),
			zap.String("order_number", orderNumber),
			zap.Error(err))
		return err
	}
	return nil
}

func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
