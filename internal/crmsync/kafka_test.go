package crmsync

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"example.com/salesvault/internal/events"
	"example.com/salesvault/internal/outbox"
)

type stubPublisher struct {
	err      error
	messages []outbox.Message
}

func (s *stubPublisher) Publish(_ context.Context, messages []outbox.Message) error {
	s.messages = append(s.messages, messages...)
	return s.err
}

func TestKafkaNotifierPublishesActivityLogged(t *testing.T) {
	publisher := &stubPublisher{}
	notifier := NewKafkaNotifier(publisher, "sales_activity_events")

	require.NoError(t, notifier.Notify(context.Background(), sampleEvent()))

	require.Len(t, publisher.messages, 1)
	msg := publisher.messages[0]
	require.Equal(t, "sales_activity_events", msg.Topic)
	require.Equal(t, events.ActivityLoggedType, msg.EventType)
	require.Equal(t, "entry-1", msg.PartitionKey)
}

func TestKafkaNotifierWrapsFailure(t *testing.T) {
	notifier := NewKafkaNotifier(&stubPublisher{err: errors.New("broker down")}, "t")

	err := notifier.Notify(context.Background(), sampleEvent())
	var delivery *DeliveryError
	require.ErrorAs(t, err, &delivery)
	require.Equal(t, BackendKafka, delivery.Backend)
}

type stubExecer struct {
	sql  string
	args []any
	err  error
}

func (s *stubExecer) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	s.sql = sql
	s.args = args
	return pgconn.NewCommandTag("INSERT 0 1"), s.err
}

func TestOutboxNotifierInsertsRow(t *testing.T) {
	db := &stubExecer{}
	notifier := NewOutboxNotifier(db, "sales_activity_events")

	require.NoError(t, notifier.Notify(context.Background(), sampleEvent()))
	require.Contains(t, db.sql, "INSERT INTO crm_outbox")
	require.Equal(t, "entry-1", db.args[0])
	require.Equal(t, events.ActivityLoggedType, db.args[1])
	require.Equal(t, "entry-1:activity.logged", db.args[6])
}

func TestOutboxNotifierWrapsFailure(t *testing.T) {
	notifier := NewOutboxNotifier(&stubExecer{err: errors.New("connection refused")}, "t")

	err := notifier.Notify(context.Background(), sampleEvent())
	var delivery *DeliveryError
	require.ErrorAs(t, err, &delivery)
	require.Equal(t, BackendOutbox, delivery.Backend)
}
