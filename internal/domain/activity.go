package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrValidation is matched by every ValidationError via errors.Is.
var ErrValidation = errors.New("activity validation failed")

// ActivityEntry is one manual activity submission. Entries are immutable once created.
type ActivityEntry struct {
	ID               string
	Calls            int
	InPersonMeetings int
	ProposalsSent    int
	Notes            string
	SubmittedAt      time.Time
}

// IsEmpty reports whether the entry is the zero sentinel returned when nothing has been submitted.
func (e ActivityEntry) IsEmpty() bool {
	return e.ID == ""
}

// ActivityInput carries the raw form values for a submission.
type ActivityInput struct {
	Calls            string
	InPersonMeetings string
	ProposalsSent    string
	Notes            string
}

// FieldError describes a single rejected field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError lists every field that failed validation for a submission.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s %s", f.Field, f.Reason))
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

// Is lets callers match with errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

type parsedCounts struct {
	calls            int
	inPersonMeetings int
	proposalsSent    int
}

// parse validates the numeric fields. Empty values count as zero.
func (in ActivityInput) parse() (parsedCounts, error) {
	var (
		out    parsedCounts
		fields []FieldError
	)

	parseField := func(name, raw string, dst *int) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*dst = 0
			return
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			fields = append(fields, FieldError{Field: name, Reason: "must be a whole number"})
			return
		}
		if value < 0 {
			fields = append(fields, FieldError{Field: name, Reason: "must be >= 0"})
			return
		}
		*dst = value
	}

	parseField("calls", in.Calls, &out.calls)
	parseField("in_person_meetings", in.InPersonMeetings, &out.inPersonMeetings)
	parseField("proposals_sent", in.ProposalsSent, &out.proposalsSent)

	if len(fields) > 0 {
		return parsedCounts{}, &ValidationError{Fields: fields}
	}
	return out, nil
}
