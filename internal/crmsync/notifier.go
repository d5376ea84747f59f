// Package crmsync delivers SyncRequested notifications to the CRM backends.
package crmsync

import (
	"context"
	"errors"
	"fmt"

	"example.com/salesvault/internal/domain"
	"example.com/salesvault/internal/observability"
)

// ErrQueueFull is returned when the async queue cannot accept another notification.
var ErrQueueFull = errors.New("crm sync queue full")

// Backend names used in metrics, logs and configuration.
const (
	BackendNone   = "none"
	BackendHTTP   = "http"
	BackendKafka  = "kafka"
	BackendOutbox = "outbox"
	BackendAsync  = "async"
)

// DeliveryError reports a failed hand-off to a CRM backend.
type DeliveryError struct {
	Backend string
	EntryID string
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("crm sync via %s failed for entry %s: %v", e.Backend, e.EntryID, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Noop accepts every notification and does nothing.
type Noop struct{}

// Notify performs no action.
func (Noop) Notify(context.Context, domain.SyncRequested) error { return nil }

// report records the delivery outcome and wraps failures in a DeliveryError.
func report(backend string, evt domain.SyncRequested, err error) error {
	if err != nil {
		observability.RecordSyncFailure(backend)
		return &DeliveryError{Backend: backend, EntryID: evt.Entry.ID, Err: err}
	}
	observability.RecordSyncDelivered(backend)
	return nil
}
