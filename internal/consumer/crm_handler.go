package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"example.com/salesvault/internal/domain"
	"example.com/salesvault/internal/events"
)

// CRMHandler forwards activity.logged records to the CRM.
type CRMHandler struct {
	notifier domain.Notifiable
	logger   *zap.Logger
}

// NewCRMHandler constructs a handler delivering through notifier, typically a crmsync.HTTPNotifier.
func NewCRMHandler(notifier domain.Notifiable, logger *zap.Logger) *CRMHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CRMHandler{notifier: notifier, logger: logger}
}

// Handle decodes the payload and notifies the CRM. Unknown event types are acknowledged and skipped;
// undecodable payloads return ErrMalformed.
func (h *CRMHandler) Handle(ctx context.Context, msg Message) error {
	if msg.EventType != events.ActivityLoggedType {
		h.logger.Debug("skipping event", zap.String("event_type", msg.EventType), zap.Int64("offset", msg.Offset))
		return nil
	}

	var evt events.ActivityLogged
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		return fmt.Errorf("decode %s payload: %w: %w", msg.EventType, ErrMalformed, err)
	}
	if evt.EntryID == "" {
		return fmt.Errorf("decode %s payload: %w: missing entry_id", msg.EventType, ErrMalformed)
	}
	return h.notifier.Notify(ctx, domain.SyncRequested{Entry: evt.Entry()})
}
