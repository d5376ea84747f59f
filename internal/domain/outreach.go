package domain

import (
	"errors"
	"time"
)

// ErrEmptyDataset is reported as a warning when a projection has nothing to average over.
var ErrEmptyDataset = errors.New("empty dataset")

// Source is the outreach channel.
type Source string

const (
	SourceEmail Source = "Email"
	SourceCall  Source = "Call"
)

// Sources lists channels in canonical display order.
var Sources = []Source{SourceEmail, SourceCall}

// Outcome is the result of an outreach attempt.
type Outcome string

const (
	OutcomeMeeting    Outcome = "Meeting"
	OutcomeNoResponse Outcome = "No Response"
	OutcomeFollowUp   Outcome = "Follow-up"
)

// OutreachRecord is one historical outreach event from the reference feed.
// WordCount is only meaningful for email records; calls carry 0.
type OutreachRecord struct {
	Source    Source
	Agency    string
	WordCount int
	Outcome   Outcome
	Date      time.Time
}

// FunnelStage is a named pipeline stage and its count.
type FunnelStage struct {
	Stage string `json:"stage" yaml:"stage"`
	Count int    `json:"count" yaml:"count"`
}

// Canonical funnel stage names, top of pipe first.
const (
	StageEmailsSent     = "Emails Sent"
	StageCallsMade      = "Calls Made"
	StageMeetingsBooked = "Meetings Booked"
	StageDealsClosed    = "Deals Closed"
)

// WordCountBucket counts meetings booked by emails whose length falls in Range.
type WordCountBucket struct {
	Range          string `json:"range"`
	MeetingsBooked int    `json:"meetings_booked"`
}

// Dataset is the read-only reference data loaded once at startup.
type Dataset struct {
	Records []OutreachRecord
	// Funnel is the independently tracked campaign funnel. Nil means not configured.
	Funnel []FunnelStage
}
