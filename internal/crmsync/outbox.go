package crmsync

import (
	"context"

	"example.com/salesvault/internal/domain"
	"example.com/salesvault/internal/outbox"
)

// OutboxNotifier records activity.logged in the Postgres crm_outbox table for the relay.
type OutboxNotifier struct {
	db    outbox.Execer
	topic string
}

// NewOutboxNotifier constructs an OutboxNotifier. db is usually a *pgxpool.Pool.
func NewOutboxNotifier(db outbox.Execer, topic string) *OutboxNotifier {
	return &OutboxNotifier{db: db, topic: topic}
}

// Notify inserts the event row.
func (o *OutboxNotifier) Notify(ctx context.Context, evt domain.SyncRequested) error {
	msg, err := outbox.ActivityLoggedMessage(o.topic, evt.Entry)
	if err == nil {
		err = outbox.Enqueue(ctx, o.db, msg)
	}
	return report(BackendOutbox, evt, err)
}
