package outbox

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"example.com/salesvault/internal/domain"
	"example.com/salesvault/internal/events"
)

// Message represents a row of the crm_outbox table.
type Message struct {
	EventID       int64
	AggregateID   string
	EventType     string
	Topic         string
	SchemaSubject string
	PartitionKey  string
	Payload       json.RawMessage
	// Attempts counts earlier deliveries of this event that ended in the DLQ.
	Attempts int
}

// Execer is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ActivityLoggedMessage builds the outbox message announcing an accepted entry.
func ActivityLoggedMessage(topic string, entry domain.ActivityEntry) (Message, error) {
	body, err := json.Marshal(events.FromEntry(entry))
	if err != nil {
		return Message{}, err
	}
	return Message{
		AggregateID:   entry.ID,
		EventType:     events.ActivityLoggedType,
		Topic:         topic,
		SchemaSubject: topic + "-value",
		PartitionKey:  entry.ID,
		Payload:       body,
	}, nil
}

// Enqueue records msg in the outbox. Re-enqueueing the same aggregate and event type is a no-op.
func Enqueue(ctx context.Context, db Execer, msg Message) error {
	const stmt = `INSERT INTO crm_outbox (aggregate_id, event_type, topic, schema_subject, partition_key, payload, dedupe_key)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        ON CONFLICT (dedupe_key) DO NOTHING`

	_, err := db.Exec(ctx, stmt,
		msg.AggregateID,
		msg.EventType,
		msg.Topic,
		msg.SchemaSubject,
		msg.PartitionKey,
		[]byte(msg.Payload),
		fmt.Sprintf("%s:%s", msg.AggregateID, msg.EventType),
	)
	return err
}

// EncodeWireFormat applies Confluent framing for Schema Registry aware payloads.
func EncodeWireFormat(schemaID int, payload []byte) []byte {
	frame := make([]byte, 5+len(payload))
	frame[0] = 0
	binary.BigEndian.PutUint32(frame[1:5], uint32(schemaID))
	copy(frame[5:], payload)
	return frame
}

// DecodeWireFormat splits a Confluent frame into schema id and payload.
func DecodeWireFormat(frame []byte) (int, []byte, error) {
	if len(frame) < 5 {
		return 0, nil, fmt.Errorf("invalid payload length: %d", len(frame))
	}
	if frame[0] != 0 {
		return 0, nil, fmt.Errorf("unexpected magic byte %d", frame[0])
	}
	schemaID := int(binary.BigEndian.Uint32(frame[1:5]))
	return schemaID, append([]byte(nil), frame[5:]...), nil
}
