package domain_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"example.com/salesvault/internal/domain"
	"example.com/salesvault/internal/observability"
	"example.com/salesvault/internal/store/memory"
)

func TestSubmitThenLatest(t *testing.T) {
	ctx := context.Background()
	submittedAt := time.Date(2024, time.May, 3, 15, 0, 0, 0, time.UTC)
	service := domain.NewService(memory.NewActivityLog(), domain.WithClock(func() time.Time { return submittedAt }))

	require.True(t, service.Latest(ctx).IsEmpty())

	entry, err := service.Submit(ctx, domain.ActivityInput{
		Calls:            "5",
		InPersonMeetings: "2",
		ProposalsSent:    "1",
		Notes:            "ok",
	})
	require.NoError(t, err)
	require.NotEmpty(t, entry.ID)
	require.Equal(t, submittedAt, entry.SubmittedAt)

	latest := service.Latest(ctx)
	require.Equal(t, entry, latest)
	require.Equal(t, 2, latest.InPersonMeetings)
	require.Equal(t, 1, service.Count(ctx))

	_, err = service.Submit(ctx, domain.ActivityInput{Calls: "-1", InPersonMeetings: "7"})
	require.ErrorIs(t, err, domain.ErrValidation)
	require.Equal(t, 2, service.Latest(ctx).InPersonMeetings)
	require.Equal(t, 1, service.Count(ctx))
}

func TestSubmitRejectsInvalidCounts(t *testing.T) {
	cases := []struct {
		name   string
		input  domain.ActivityInput
		fields []string
	}{
		{name: "negative calls", input: domain.ActivityInput{Calls: "-1"}, fields: []string{"calls"}},
		{name: "non numeric meetings", input: domain.ActivityInput{InPersonMeetings: "two"}, fields: []string{"in_person_meetings"}},
		{name: "fractional proposals", input: domain.ActivityInput{ProposalsSent: "1.5"}, fields: []string{"proposals_sent"}},
		{
			name:   "all bad",
			input:  domain.ActivityInput{Calls: "x", InPersonMeetings: "-3", ProposalsSent: "NaN"},
			fields: []string{"calls", "in_person_meetings", "proposals_sent"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			notified := 0
			service := domain.NewService(memory.NewActivityLog(), domain.WithNotifier(domain.NotifierFunc(func(context.Context, domain.SyncRequested) error {
				notified++
				return nil
			})))

			_, err := service.Submit(ctx, tc.input)
			require.ErrorIs(t, err, domain.ErrValidation)

			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			got := make([]string, 0, len(verr.Fields))
			for _, f := range verr.Fields {
				got = append(got, f.Field)
			}
			require.Equal(t, tc.fields, got)

			require.Zero(t, service.Count(ctx))
			require.Zero(t, notified)
		})
	}
}

func TestSubmitTreatsBlankCountsAsZero(t *testing.T) {
	service := domain.NewService(memory.NewActivityLog())

	entry, err := service.Submit(context.Background(), domain.ActivityInput{Calls: " 3 ", Notes: ""})
	require.NoError(t, err)
	require.Equal(t, 3, entry.Calls)
	require.Zero(t, entry.InPersonMeetings)
	require.Zero(t, entry.ProposalsSent)
	require.Empty(t, entry.Notes)
}

func TestSubmitNotifiesAndSurvivesSyncFailure(t *testing.T) {
	ctx := context.Background()
	var received []domain.SyncRequested
	notifier := domain.NotifierFunc(func(_ context.Context, evt domain.SyncRequested) error {
		received = append(received, evt)
		return errors.New("crm unavailable")
	})
	service := domain.NewService(memory.NewActivityLog(), domain.WithNotifier(notifier))

	entry, err := service.Submit(ctx, domain.ActivityInput{Calls: "1", InPersonMeetings: "1", ProposalsSent: "0", Notes: "call notes"})
	require.NoError(t, err)

	require.Len(t, received, 1)
	require.Equal(t, entry, received[0].Entry)
	require.Equal(t, 1, service.Count(ctx))
	require.Equal(t, entry.ID, service.Latest(ctx).ID)
}

func TestSubmitRecordsMetrics(t *testing.T) {
	service := domain.NewService(memory.NewActivityLog())
	accepted := testutil.ToFloat64(observability.SubmissionCount("accepted"))
	rejected := testutil.ToFloat64(observability.SubmissionCount("rejected"))

	_, err := service.Submit(context.Background(), domain.ActivityInput{Calls: "1"})
	require.NoError(t, err)
	_, err = service.Submit(context.Background(), domain.ActivityInput{Calls: "-1"})
	require.Error(t, err)

	require.InDelta(t, accepted+1, testutil.ToFloat64(observability.SubmissionCount("accepted")), 0.0001)
	require.InDelta(t, rejected+1, testutil.ToFloat64(observability.SubmissionCount("rejected")), 0.0001)
}

type failingLog struct {
	*memory.ActivityLog
	err error
}

func (f failingLog) Append(context.Context, domain.ActivityEntry) error { return f.err }

func TestSubmitCountsStorageFailure(t *testing.T) {
	notified := false
	service := domain.NewService(
		failingLog{ActivityLog: memory.NewActivityLog(), err: errors.New("disk full")},
		domain.WithNotifier(domain.NotifierFunc(func(context.Context, domain.SyncRequested) error {
			notified = true
			return nil
		})),
	)
	failed := testutil.ToFloat64(observability.SubmissionCount("failed"))
	accepted := testutil.ToFloat64(observability.SubmissionCount("accepted"))

	_, err := service.Submit(context.Background(), domain.ActivityInput{Calls: "1"})
	require.EqualError(t, err, "disk full")
	require.False(t, notified)

	require.InDelta(t, failed+1, testutil.ToFloat64(observability.SubmissionCount("failed")), 0.0001)
	require.InDelta(t, accepted, testutil.ToFloat64(observability.SubmissionCount("accepted")), 0.0001)
}

func TestEntriesNewestFirst(t *testing.T) {
	ctx := context.Background()
	service := domain.NewService(memory.NewActivityLog())

	first, err := service.Submit(ctx, domain.ActivityInput{Calls: "1"})
	require.NoError(t, err)
	second, err := service.Submit(ctx, domain.ActivityInput{Calls: "2"})
	require.NoError(t, err)

	entries := service.Entries(ctx)
	require.Len(t, entries, 2)
	require.Equal(t, second.ID, entries[0].ID)
	require.Equal(t, first.ID, entries[1].ID)
}
