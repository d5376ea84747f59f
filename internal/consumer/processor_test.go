package consumer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"example.com/salesvault/internal/domain"
	"example.com/salesvault/internal/outbox"
)

func TestProcessorCommitsOnSuccess(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	payload := []byte(`{"entry_id":"abc"}`)
	msg := kafka.Message{
		Topic:     "sales_activity_events",
		Partition: 0,
		Offset:    10,
		Key:       []byte("abc"),
		Time:      time.Now().UTC(),
		Value:     outbox.EncodeWireFormat(42, payload),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("activity.logged")},
			{Key: "schema_subject", Value: []byte("sales_activity_events-value")},
		},
	}

	reader := &stubReader{messages: []kafka.Message{msg}, after: contextCanceled}
	handler := &stubHandler{}

	processor := NewProcessor(reader, handler, WithLogger(zaptest.NewLogger(t)))

	err := processor.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	require.Equal(t, 1, handler.calls)
	require.Equal(t, 1, reader.commitCalls)
	require.Equal(t, "activity.logged", handler.last.EventType)
	require.Equal(t, "sales_activity_events-value", handler.last.SchemaSubject)
	require.Equal(t, "abc", handler.last.Key)
	require.Equal(t, 42, handler.last.SchemaID)
	require.JSONEq(t, string(payload), string(handler.last.Payload))
}

func loggedMessage(offset int64, entryID string) kafka.Message {
	return kafka.Message{
		Topic:   "sales_activity_events",
		Offset:  offset,
		Key:     []byte(entryID),
		Value:   outbox.EncodeWireFormat(99, []byte(`{"entry_id":"`+entryID+`"}`)),
		Headers: []kafka.Header{{Key: "event_type", Value: []byte("activity.logged")}},
	}
}

func TestProcessorSkipsCommitOnHandlerError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &stubReader{messages: []kafka.Message{loggedMessage(10, "def"), loggedMessage(11, "ghi")}, after: contextCanceled}
	handler := &stubHandler{err: errors.New("boom")}
	handler.onCall = func(calls int) {
		if calls == 3 {
			cancel()
		}
	}

	processor := NewProcessor(reader, handler,
		WithLogger(zaptest.NewLogger(t)),
		WithRetryBackoff(time.Millisecond, 2*time.Millisecond))

	err := processor.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	require.Equal(t, 3, handler.calls)
	require.Equal(t, []int64{10, 10, 10}, handler.offsets)
	require.Zero(t, reader.commitCalls)
	require.Equal(t, 1, reader.index, "the next offset must not be fetched while the failing one is unresolved")
}

func TestProcessorRetriesFailedMessageBeforeLaterOffsets(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &stubReader{messages: []kafka.Message{loggedMessage(10, "def"), loggedMessage(11, "ghi")}, after: contextCanceled}
	handler := &stubHandler{errs: []error{errors.New("crm down"), errors.New("crm down")}}

	processor := NewProcessor(reader, handler,
		WithLogger(zaptest.NewLogger(t)),
		WithRetryBackoff(time.Millisecond, 2*time.Millisecond))

	err := processor.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	require.Equal(t, []int64{10, 10, 10, 11}, handler.offsets)
	require.Equal(t, []int64{10, 11}, reader.committed)
}

func TestProcessorCommitsMessagesRejectedAsMalformed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notified := 0
	handler := NewCRMHandler(domain.NotifierFunc(func(context.Context, domain.SyncRequested) error {
		notified++
		return nil
	}), zaptest.NewLogger(t))

	badPayload := kafka.Message{
		Topic:   "sales_activity_events",
		Offset:  20,
		Value:   outbox.EncodeWireFormat(99, []byte(`{"calls":1}`)),
		Headers: []kafka.Header{{Key: "event_type", Value: []byte("activity.logged")}},
	}
	reader := &stubReader{messages: []kafka.Message{badPayload, loggedMessage(21, "ok")}, after: contextCanceled}

	err := NewProcessor(reader, handler, WithLogger(zaptest.NewLogger(t))).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	require.Equal(t, 1, notified)
	require.Equal(t, []int64{20, 21}, reader.committed)
}

func TestProcessorCommitsMalformedMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	missingHeader := kafka.Message{Topic: "sales_activity_events", Value: outbox.EncodeWireFormat(1, []byte(`{}`))}
	shortFrame := kafka.Message{
		Topic:   "sales_activity_events",
		Value:   []byte{0, 1},
		Headers: []kafka.Header{{Key: "event_type", Value: []byte("activity.logged")}},
	}

	reader := &stubReader{messages: []kafka.Message{missingHeader, shortFrame}, after: contextCanceled}
	handler := &stubHandler{}

	err := NewProcessor(reader, handler).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	require.Zero(t, handler.calls)
	require.Equal(t, 2, reader.commitCalls)
}

func TestCRMHandlerForwardsActivityLogged(t *testing.T) {
	var got []domain.SyncRequested
	notifier := domain.NotifierFunc(func(_ context.Context, evt domain.SyncRequested) error {
		got = append(got, evt)
		return nil
	})
	handler := NewCRMHandler(notifier, zaptest.NewLogger(t))

	err := handler.Handle(context.Background(), Message{
		EventType: "activity.logged",
		Payload:   []byte(`{"entry_id":"abc","calls":5,"in_person_meetings":2,"proposals_sent":1,"notes":"ok","submitted_at":"2024-05-03T09:00:00Z"}`),
	})
	require.NoError(t, err)

	require.Len(t, got, 1)
	require.Equal(t, "abc", got[0].Entry.ID)
	require.Equal(t, 5, got[0].Entry.Calls)
	require.Equal(t, 2, got[0].Entry.InPersonMeetings)
	require.Equal(t, time.Date(2024, time.May, 3, 9, 0, 0, 0, time.UTC), got[0].Entry.SubmittedAt)
}

func TestCRMHandlerSkipsUnknownEvents(t *testing.T) {
	called := false
	notifier := domain.NotifierFunc(func(context.Context, domain.SyncRequested) error {
		called = true
		return nil
	})

	err := NewCRMHandler(notifier, nil).Handle(context.Background(), Message{EventType: "activity.deleted"})
	require.NoError(t, err)
	require.False(t, called)
}

func TestCRMHandlerRejectsBadPayload(t *testing.T) {
	notifier := domain.NotifierFunc(func(context.Context, domain.SyncRequested) error { return nil })
	handler := NewCRMHandler(notifier, nil)

	require.ErrorIs(t, handler.Handle(context.Background(), Message{EventType: "activity.logged", Payload: []byte(`{`)}), ErrMalformed)
	require.ErrorIs(t, handler.Handle(context.Background(), Message{EventType: "activity.logged", Payload: []byte(`{}`)}), ErrMalformed)
}

type stubReader struct {
	messages    []kafka.Message
	index       int
	commitCalls int
	committed   []int64
	after       func() error
}

func (r *stubReader) FetchMessage(context.Context) (kafka.Message, error) {
	if r.index >= len(r.messages) {
		if r.after != nil {
			return kafka.Message{}, r.after()
		}
		return kafka.Message{}, context.Canceled
	}
	msg := r.messages[r.index]
	r.index++
	return msg, nil
}

func (r *stubReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.commitCalls++
	for _, msg := range msgs {
		r.committed = append(r.committed, msg.Offset)
	}
	return nil
}

func (r *stubReader) Close() error { return nil }

func contextCanceled() error { return context.Canceled }

// stubHandler returns errs in order, then err for every later call.
type stubHandler struct {
	calls   int
	err     error
	errs    []error
	last    Message
	offsets []int64
	onCall  func(calls int)
}

func (h *stubHandler) Handle(_ context.Context, msg Message) error {
	h.calls++
	h.last = msg
	h.offsets = append(h.offsets, msg.Offset)
	if h.onCall != nil {
		h.onCall(h.calls)
	}
	if len(h.errs) > 0 {
		err := h.errs[0]
		h.errs = h.errs[1:]
		return err
	}
	return h.err
}
