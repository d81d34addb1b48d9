package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TopicUsers    = "user_events"
	TopicStores   = "store_events"
	TopicProducts = "product_events"
	TopicCart     = "cart_events"
)

var Topics = []string{TopicUsers, TopicStores, TopicProducts, TopicCart}

type Event struct {
	Type     string    `json:"type"`
	EntityID uint      `json:"entity_id"`
	Data     any       `json:"data,omitempty"`
	At       time.Time `json:"at"`
}

func NewEvent(typ string, id uint, data any) Event {
	return Event{Type: typ, EntityID: id, Data: data, At: time.Now().UTC()}
}

func (e Event) Key() string {
	return strconv.FormatUint(uint64(e.EntityID), 10)
}

type Publisher interface {
	Publish(ctx context.Context, topic string, event Event) error
	Close() error
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		WriteTimeout:           5 * time.Second,
	}
	return &Producer{writer: w}, nil
}

func (p *Producer) Publish(ctx context.Context, topic string, event Event) error {
	msg, err := Message(topic, event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write to %s failed: %w", topic, err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// Message encodes event as a kafka message keyed by the entity id so that all
// events of one entity land on one partition.
func Message(topic string, event Event) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}
	return kafka.Message{
		Topic: topic,
		Key:   []byte(event.Key()),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}, nil
}

// Nop drops every event. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, Event) error { return nil }
func (Nop) Close() error                                 { return nil }
