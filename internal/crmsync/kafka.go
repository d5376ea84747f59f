package crmsync

import (
	"context"

	"example.com/salesvault/internal/domain"
	"example.com/salesvault/internal/outbox"
)

type messagePublisher interface {
	Publish(ctx context.Context, messages []outbox.Message) error
}

// KafkaNotifier publishes activity.logged straight to Kafka, bypassing the outbox table.
type KafkaNotifier struct {
	publisher messagePublisher
	topic     string
}

// NewKafkaNotifier constructs a KafkaNotifier.
func NewKafkaNotifier(publisher messagePublisher, topic string) *KafkaNotifier {
	return &KafkaNotifier{publisher: publisher, topic: topic}
}

// Notify publishes one record keyed by entry id.
func (k *KafkaNotifier) Notify(ctx context.Context, evt domain.SyncRequested) error {
	msg, err := outbox.ActivityLoggedMessage(k.topic, evt.Entry)
	if err == nil {
		err = k.publisher.Publish(ctx, []outbox.Message{msg})
	}
	return report(BackendKafka, evt, err)
}
