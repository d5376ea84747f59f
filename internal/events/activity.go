// Package events defines the payloads published to the CRM sync pipeline.
package events

import (
	"time"

	"example.com/salesvault/internal/domain"
)

// ActivityLoggedType is the event_type header value for ActivityLogged.
const ActivityLoggedType = "activity.logged"

// ActivityLogged is emitted when a manual activity entry is accepted.
type ActivityLogged struct {
	EntryID          string    `json:"entry_id"`
	Calls            int       `json:"calls"`
	InPersonMeetings int       `json:"in_person_meetings"`
	ProposalsSent    int       `json:"proposals_sent"`
	Notes            string    `json:"notes"`
	SubmittedAt      time.Time `json:"submitted_at"`
}

// FromEntry builds the event payload for an entry.
func FromEntry(entry domain.ActivityEntry) ActivityLogged {
	return ActivityLogged{
		EntryID:          entry.ID,
		Calls:            entry.Calls,
		InPersonMeetings: entry.InPersonMeetings,
		ProposalsSent:    entry.ProposalsSent,
		Notes:            entry.Notes,
		SubmittedAt:      entry.SubmittedAt,
	}
}

// Entry converts the payload back into a domain entry.
func (e ActivityLogged) Entry() domain.ActivityEntry {
	return domain.ActivityEntry{
		ID:               e.EntryID,
		Calls:            e.Calls,
		InPersonMeetings: e.InPersonMeetings,
		ProposalsSent:    e.ProposalsSent,
		Notes:            e.Notes,
		SubmittedAt:      e.SubmittedAt,
	}
}
