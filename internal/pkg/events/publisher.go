package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher emits domain events keyed by a routing key.
type Publisher interface {
	Publish(ctx context.Context, key string, v any) error
	Close() error
}

// AMQPPublisher publishes JSON events to a topic exchange.
type AMQPPublisher struct {
	mu       sync.Mutex // amqp channels are not safe for concurrent publishing
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// NewAMQPPublisher dials the broker and declares a durable topic exchange.
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", key, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         b,
	})
}

func (p *AMQPPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close() error                               { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	Events []Recorded
}

// Recorded is one event captured by Recorder.
type Recorded struct {
	Key     string
	Payload any
}

func (r *Recorder) Publish(_ context.Context, key string, v any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, Recorded{Key: key, Payload: v})
	return nil
}

func (r *Recorder) Close() error { return nil }

// Keys returns the routing keys seen so far, in order.
func (r *Recorder) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, len(r.Events))
	for i, e := range r.Events {
		keys[i] = e.Key
	}
	return keys
}
