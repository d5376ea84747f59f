package domain

import "context"

// SyncRequested is emitted after every accepted submission for the CRM sync collaborator.
type SyncRequested struct {
	Entry ActivityEntry
}

// Notifiable receives sync notifications. Delivery is fire-and-forget: a returned error is
// reported but never undoes the append that triggered it.
type Notifiable interface {
	Notify(ctx context.Context, evt SyncRequested) error
}

// NotifierFunc adapts a function to Notifiable.
type NotifierFunc func(ctx context.Context, evt SyncRequested) error

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, evt SyncRequested) error {
	return f(ctx, evt)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, SyncRequested) error { return nil }
