package outbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(context.Context, string, ...kafka.Message) error
}

type schemaRegistrar interface {
	EnsureSchema(context.Context, string, string) (int, error)
}

// Header keys attached to every published record.
const (
	HeaderEventType     = "event_type"
	HeaderSchemaSubject = "schema_subject"
)

// Publisher frames outbox messages and writes them to Kafka, grouped per topic.
type Publisher struct {
	producer      messageWriter
	registry      schemaRegistrar
	schemaIDCache sync.Map
}

// NewPublisher constructs a Publisher.
func NewPublisher(producer messageWriter, registry schemaRegistrar) *Publisher {
	return &Publisher{producer: producer, registry: registry}
}

// Publish writes messages in a single batch per topic. Any error aborts the remaining topics.
func (p *Publisher) Publish(ctx context.Context, messages []Message) error {
	batches := make(map[string][]kafka.Message)
	order := make([]string, 0)

	for _, msg := range messages {
		schemaID, err := p.schemaID(ctx, msg)
		if err != nil {
			return err
		}

		record := kafka.Message{
			Key:   []byte(msg.PartitionKey),
			Value: EncodeWireFormat(schemaID, msg.Payload),
			Time:  time.Now().UTC(),
			Headers: []kafka.Header{
				{Key: HeaderEventType, Value: []byte(msg.EventType)},
				{Key: HeaderSchemaSubject, Value: []byte(msg.SchemaSubject)},
			},
		}

		if _, exists := batches[msg.Topic]; !exists {
			order = append(order, msg.Topic)
		}
		batches[msg.Topic] = append(batches[msg.Topic], record)
	}

	for _, topic := range order {
		if err := p.producer.WriteMessages(ctx, topic, batches[topic]...); err != nil {
			return fmt.Errorf("write topic %s: %w", topic, err)
		}
	}
	return nil
}

func (p *Publisher) schemaID(ctx context.Context, msg Message) (int, error) {
	schema, ok := schemaCatalog[msg.EventType]
	if !ok {
		return 0, fmt.Errorf("no schema metadata for event_type=%s", msg.EventType)
	}

	cacheKey := msg.SchemaSubject + "::" + msg.EventType
	if cached, found := p.schemaIDCache.Load(cacheKey); found {
		return cached.(int), nil
	}

	id, err := p.registry.EnsureSchema(ctx, msg.SchemaSubject, schema)
	if err != nil {
		return 0, err
	}
	p.schemaIDCache.Store(cacheKey, id)
	return id, nil
}
