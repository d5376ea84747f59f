package crmsync

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"example.com/salesvault/internal/domain"
)

// ErrClosed is returned by Notify after Close.
var ErrClosed = errors.New("crm sync notifier closed")

// AsyncNotifier hands notifications to a single worker goroutine through a bounded queue,
// so submitters never wait on the backend.
type AsyncNotifier struct {
	inner   domain.Notifiable
	queue   chan domain.SyncRequested
	timeout time.Duration
	logger  *zap.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewAsyncNotifier starts the worker. Close must be called to stop it.
func NewAsyncNotifier(inner domain.Notifiable, size int, timeout time.Duration, logger *zap.Logger) *AsyncNotifier {
	if size <= 0 {
		size = 64
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &AsyncNotifier{
		inner:   inner,
		queue:   make(chan domain.SyncRequested, size),
		timeout: timeout,
		logger:  logger,
		done:    make(chan struct{}),
	}
	go a.run()
	return a
}

// Notify enqueues evt without blocking. A full queue drops the event.
func (a *AsyncNotifier) Notify(_ context.Context, evt domain.SyncRequested) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		return report(BackendAsync, evt, ErrClosed)
	}
	select {
	case a.queue <- evt:
		return nil
	default:
		return report(BackendAsync, evt, ErrQueueFull)
	}
}

// Close stops accepting events, drains the queue and waits for the worker to exit.
func (a *AsyncNotifier) Close() {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()
	<-a.done
}

func (a *AsyncNotifier) run() {
	defer close(a.done)
	for evt := range a.queue {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		err := a.inner.Notify(ctx, evt)
		cancel()
		if err != nil {
			a.logger.Warn("crm sync delivery failed",
				zap.String("entry_id", evt.Entry.ID),
				zap.Error(err))
		}
	}
}
