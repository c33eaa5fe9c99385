// Package notify publishes advisory cart event messages to external sinks.
package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// CartEventPublisher forwards cart event messages to a kafka topic. Events
// are advisory; publish failures are logged and dropped, never surfaced to
// the cart operation that caused them.
type CartEventPublisher struct {
	writer  messageWriter
	timeout time.Duration
}

func NewCartEventPublisher(brokers ...string) *CartEventPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "cart-events",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &CartEventPublisher{writer: w, timeout: 5 * time.Second}
}

type cartEvent struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Message   string    `json:"message"`
	At        time.Time `json:"at"`
}

// Observer returns a cart observer bound to one session. Publishing happens
// off the caller's goroutine so cart operations never block on the broker.
func (p *CartEventPublisher) Observer(sessionID string) func(message string) {
	return func(message string) {
		go p.publish(sessionID, message)
	}
}

func (p *CartEventPublisher) publish(sessionID, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	event := cartEvent{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Message:   message,
		At:        time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal cart event: %v", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(sessionID), // session id for per-session ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("cart-notification")},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Printf("failed to publish cart event: %v", err)
	}
}

func (p *CartEventPublisher) Close() error {
	return p.writer.Close()
}
