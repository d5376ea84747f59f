package outbox

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const maxBackoff = time.Hour

// DLQWriter persists undeliverable events for replay or investigation.
type DLQWriter struct {
	pool      *pgxpool.Pool
	baseDelay time.Duration
}

// NewDLQWriter initialises a writer backed by the provided connection pool. baseDelay is the
// wait before the first retry of an event that already failed once.
func NewDLQWriter(pool *pgxpool.Pool, baseDelay time.Duration) *DLQWriter {
	if baseDelay <= 0 {
		baseDelay = time.Minute
	}
	return &DLQWriter{pool: pool, baseDelay: baseDelay}
}

// Write records a failed outbox message in the DLQ alongside the supplied reason. The entry
// carries msg.Attempts as its retry count; a first failure is due for retry immediately and
// later ones back off exponentially.
func (w *DLQWriter) Write(ctx context.Context, msg Message, reason string) error {
	var delay time.Duration
	if msg.Attempts > 0 {
		delay = backoffDelay(w.baseDelay, msg.Attempts)
	}
	_, err := w.pool.Exec(ctx,
		`INSERT INTO crm_outbox_dlq (event_id, aggregate_id, event_type, topic, schema_subject, partition_key, payload, reason, retry_count, last_attempt_at, next_retry_at)
         VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9, NOW(), NOW() + $10::interval)`,
		msg.EventID, msg.AggregateID, msg.EventType, msg.Topic, msg.SchemaSubject, msg.PartitionKey, []byte(msg.Payload), reason,
		msg.Attempts, delay,
	)
	return err
}

// backoffDelay doubles base for every attempt after the first, capped at one hour.
func backoffDelay(base time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := base
	for i := 1; i < attempt && delay < maxBackoff; i++ {
		delay *= 2
	}
	if delay > maxBackoff {
		delay = maxBackoff
	}
	return delay
}
