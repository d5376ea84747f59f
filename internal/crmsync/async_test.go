package crmsync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"example.com/salesvault/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// Keep-alive connections from the HTTP notifier tests close asynchronously.
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

type recordingNotifier struct {
	mu      sync.Mutex
	gate    chan struct{}
	err     error
	entries []string
}

func (r *recordingNotifier) Notify(ctx context.Context, evt domain.SyncRequested) error {
	if r.gate != nil {
		<-r.gate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, evt.Entry.ID)
	return r.err
}

func (r *recordingNotifier) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.entries...)
}

func event(id string) domain.SyncRequested {
	return domain.SyncRequested{Entry: domain.ActivityEntry{ID: id}}
}

func TestAsyncNotifierDeliversInOrderAndDrainsOnClose(t *testing.T) {
	inner := &recordingNotifier{}
	async := NewAsyncNotifier(inner, 8, time.Second, zap.NewNop())

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, async.Notify(context.Background(), event(id)))
	}
	async.Close()

	require.Equal(t, []string{"a", "b", "c"}, inner.seen())
}

func TestAsyncNotifierDropsWhenFull(t *testing.T) {
	inner := &recordingNotifier{gate: make(chan struct{})}
	async := NewAsyncNotifier(inner, 1, time.Second, zap.NewNop())

	// The worker takes "a" and blocks on the gate; "b" fills the queue.
	require.NoError(t, async.Notify(context.Background(), event("a")))
	require.Eventually(t, func() bool { return len(async.queue) == 0 }, time.Second, time.Millisecond)
	require.NoError(t, async.Notify(context.Background(), event("b")))

	err := async.Notify(context.Background(), event("c"))
	require.ErrorIs(t, err, ErrQueueFull)

	close(inner.gate)
	async.Close()
	require.Equal(t, []string{"a", "b"}, inner.seen())
}

func TestAsyncNotifierRejectsAfterClose(t *testing.T) {
	async := NewAsyncNotifier(Noop{}, 1, time.Second, nil)
	async.Close()
	async.Close()

	err := async.Notify(context.Background(), event("late"))
	require.ErrorIs(t, err, ErrClosed)
}

func TestAsyncNotifierSwallowsBackendErrors(t *testing.T) {
	inner := &recordingNotifier{err: errors.New("crm down")}
	async := NewAsyncNotifier(inner, 2, time.Second, zap.NewNop())

	require.NoError(t, async.Notify(context.Background(), event("a")))
	async.Close()
	require.Equal(t, []string{"a"}, inner.seen())
}
