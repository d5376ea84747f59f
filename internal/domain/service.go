// Package domain defines the activity log model and the submission workflow for the dashboard.
package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"example.com/salesvault/internal/observability"
)

// ActivityLog captures the append-only storage of manual submissions.
type ActivityLog interface {
	Append(ctx context.Context, entry ActivityEntry) error
	Latest(ctx context.Context) (ActivityEntry, bool)
	List(ctx context.Context) []ActivityEntry
	Len(ctx context.Context) int
}

// Option configures optional behaviour for the Service.
type Option func(*Service)

// WithNotifier registers the CRM sync collaborator.
func WithNotifier(n Notifiable) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithLogger overrides the logger used to report sync failures.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for SubmittedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service orchestrates activity submissions.
type Service struct {
	log      ActivityLog
	notifier Notifiable
	logger   *zap.Logger
	now      func() time.Time
}

// NewService constructs a Service.
func NewService(log ActivityLog, opts ...Option) *Service {
	s := &Service{
		log:      log,
		notifier: noopNotifier{},
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates the input, appends a new entry and emits SyncRequested.
// A rejected submission leaves the log unchanged.
func (s *Service) Submit(ctx context.Context, input ActivityInput) (ActivityEntry, error) {
	counts, err := input.parse()
	if err != nil {
		observability.RecordSubmission(false)
		return ActivityEntry{}, err
	}

	entry := ActivityEntry{
		ID:               uuid.NewString(),
		Calls:            counts.calls,
		InPersonMeetings: counts.inPersonMeetings,
		ProposalsSent:    counts.proposalsSent,
		Notes:            input.Notes,
		SubmittedAt:      s.now().UTC(),
	}

	if err := s.log.Append(ctx, entry); err != nil {
		observability.RecordSubmissionFailed()
		return ActivityEntry{}, err
	}
	observability.RecordSubmission(true)
	observability.RecordActivitySubmitted(entry.SubmittedAt)

	if err := s.notifier.Notify(ctx, SyncRequested{Entry: entry}); err != nil {
		s.logger.Warn("crm sync notification failed",
			zap.String("entry_id", entry.ID),
			zap.Error(err))
	}

	return entry, nil
}

// Latest returns the most recent entry, or the empty sentinel when nothing was submitted.
func (s *Service) Latest(ctx context.Context) ActivityEntry {
	entry, ok := s.log.Latest(ctx)
	if !ok {
		return ActivityEntry{}
	}
	return entry
}

// Entries returns all submissions, newest first.
func (s *Service) Entries(ctx context.Context) []ActivityEntry {
	entries := s.log.List(ctx)
	out := make([]ActivityEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		out = append(out, entries[i])
	}
	return out
}

// Count returns the number of accepted submissions.
func (s *Service) Count(ctx context.Context) int {
	return s.log.Len(ctx)
}
