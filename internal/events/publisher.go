package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// SearchEvent is the record published for every logged search attempt, for
// downstream analytics pipelines.
type SearchEvent struct {
	Query     string    `json:"query"`
	CacheHit  bool      `json:"cache_hit"`
	Resolved  bool      `json:"resolved"`
	Timestamp time.Time `json:"timestamp"`
}

// MessageWriter is the slice of kafka.Writer the publisher needs.
// This allows for easy mocking in unit tests.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher emits search events to a Kafka topic. A nil Publisher is valid
// and does nothing, so callers never branch on whether eventing is enabled.
type Publisher struct {
	writer MessageWriter
}

// NewPublisher returns nil when no broker is configured.
func NewPublisher(broker, topic string) *Publisher {
	if broker == "" {
		return nil
	}

	w := &kafka.Writer{
		Addr:     kafka.TCP(broker),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
		// Fire-and-forget: search latency never waits on the broker.
		Async:        true,
		BatchTimeout: 50 * time.Millisecond,
	}
	log.Printf("[events] publishing search events to topic %s on %s", topic, broker)
	return &Publisher{writer: w}
}

// Publish is best-effort; failures are logged and swallowed.
func (p *Publisher) Publish(ctx context.Context, e SearchEvent) {
	if p == nil {
		return
	}

	payload, err := json.Marshal(e)
	if err != nil {
		log.Printf("[events] failed to marshal event: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.Query),
		Value: payload,
	})
	if err != nil {
		log.Printf("[events] publish failed: %v", err)
	}
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if err := p.writer.Close(); err != nil {
		log.Printf("[events] close failed: %v", err)
	}
}
