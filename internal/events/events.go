// Package events publishes workout log changes to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	KindCreated = "created"
	KindReset   = "reset"
)

// Event is the message sent to websocket clients and to Kafka.
type Event struct {
	Kind    string      `json:"event"`
	Key     string      `json:"-"`
	At      time.Time   `json:"at"`
	Workout interface{} `json:"workout,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Nop drops every event. It is used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const (
	kafkaBatchTimeout  = 10 * time.Millisecond
	kafkaWriteTimeout  = 5 * time.Second
	kafkaPublishBudget = 2 * time.Second
)

// KafkaPublisher writes events as JSON to a single topic, keyed by workout id.
// Writes are asynchronous; delivery failures are logged by the writer's
// completion callback, never returned to the request that caused them.
type KafkaPublisher struct {
	writer  messageWriter
	timeout time.Duration
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			RequiredAcks:           kafka.RequireAll,
			Compression:            kafka.Snappy,
			AllowAutoTopicCreation: true,
			Async:                  true,
			BatchTimeout:           kafkaBatchTimeout,
			WriteTimeout:           kafkaWriteTimeout,
			Completion:             logDeliveryFailure,
		},
		timeout: kafkaPublishBudget,
	}
}

func logDeliveryFailure(msgs []kafka.Message, err error) {
	if err != nil {
		log.Printf("kafka delivery of %d event(s) failed: %v", len(msgs), err)
	}
}

// Publish hands the event to the writer. The call never outlasts the
// publisher timeout, even when ctx has no deadline.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Key),
		Value: value,
		Time:  event.At,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
