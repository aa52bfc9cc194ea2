// Package events listens for checkout completions published by the commerce
// platform and drops the affected users' cached carts.
package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

const retryDelay = time.Second

// CheckoutCompleted is the payload of a checkout completion message.
type CheckoutCompleted struct {
	UserID  string `json:"user_id"`
	OrderID string `json:"order_id,omitempty"`
}

type Reader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// CartInvalidator forgets a user's cached cart.
type CartInvalidator interface {
	Invalidate(userID string)
}

type Listener struct {
	reader Reader
	carts  CartInvalidator
}

func NewListener(reader Reader, carts CartInvalidator) *Listener {
	return &Listener{reader: reader, carts: carts}
}

func NewKafkaListener(brokers []string, topic, groupID string, carts CartInvalidator) *Listener {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MaxBytes: 10e6, // 10MB
	})
	return NewListener(reader, carts)
}

// Run consumes messages until ctx is done.
func (l *Listener) Run(ctx context.Context) {
	for {
		m, err := l.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("checkout events read error: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(retryDelay):
			}
			continue
		}
		l.handle(m)
	}
}

func (l *Listener) handle(m kafka.Message) {
	var event CheckoutCompleted
	if err := json.Unmarshal(m.Value, &event); err != nil {
		log.Printf("checkout event at offset %d: %v", m.Offset, err)
		return
	}
	if event.UserID == "" {
		log.Printf("checkout event at offset %d: missing user_id", m.Offset)
		return
	}
	l.carts.Invalidate(event.UserID)
}

func (l *Listener) Close() {
	if err := l.reader.Close(); err != nil {
		log.Printf("error closing checkout events reader: %v", err)
	}
}
