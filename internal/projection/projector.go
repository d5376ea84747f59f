// Package projection derives the dashboard views from the activity log and the reference dataset.
// Every projection is a pure function of its inputs.
package projection

import (
	"fmt"
	"math"
	"slices"
	"time"

	"example.com/salesvault/internal/domain"
	"example.com/salesvault/internal/observability"
)

// Summary holds the scalar metrics shown in the top row of the dashboard.
type Summary struct {
	TotalOutreach     int      `json:"total_outreach"`
	VirtualMeetings   int      `json:"virtual_meetings"`
	InPersonMeetings  int      `json:"in_person_meetings"`
	AvgEmailWordCount float64  `json:"avg_email_word_count"`
	TopChannel        string   `json:"top_channel,omitempty"`
	Warnings          []string `json:"warnings,omitempty"`
}

// FeedItem is the projection of an outreach record shown in the scanner feed.
type FeedItem struct {
	Date      time.Time      `json:"date"`
	Agency    string         `json:"agency"`
	WordCount int            `json:"word_count"`
	Outcome   domain.Outcome `json:"outcome"`
}

// Dashboard bundles every projection handed to the rendering collaborator.
type Dashboard struct {
	Summary                Summary                  `json:"summary"`
	Funnel                 []domain.FunnelStage     `json:"funnel"`
	WordCountEffectiveness []domain.WordCountBucket `json:"word_count_effectiveness"`
	SourceMix              map[domain.Source]int    `json:"source_mix"`
	Feed                   []FeedItem               `json:"feed"`
}

type wordCountRange struct {
	label string
	min   int
	max   int
}

// wordCountRanges is the fixed partition; the last range is open-ended.
var wordCountRanges = []wordCountRange{
	{label: "0-50", min: 0, max: 50},
	{label: "51-100", min: 51, max: 100},
	{label: "101-150", min: 101, max: 150},
	{label: "151-200", min: 151, max: 200},
	{label: "201+", min: 201, max: math.MaxInt},
}

// Projector computes views over an injected, immutable dataset.
type Projector struct {
	records []domain.OutreachRecord
	funnel  []domain.FunnelStage
}

// NewProjector copies the dataset so later mutation by the caller cannot leak in.
func NewProjector(dataset domain.Dataset) *Projector {
	p := &Projector{records: slices.Clone(dataset.Records)}
	if dataset.Funnel != nil {
		p.funnel = slices.Clone(dataset.Funnel)
	}
	return p
}

// Records returns a copy of the reference records.
func (p *Projector) Records() []domain.OutreachRecord {
	return slices.Clone(p.records)
}

// Snapshot computes all five projections for one render cycle.
func (p *Projector) Snapshot(latest domain.ActivityEntry) Dashboard {
	start := time.Now()
	defer func() { observability.ObserveProjection(time.Since(start)) }()

	return Dashboard{
		Summary:                SummaryMetrics(p.records, latest),
		Funnel:                 p.FunnelDistribution(),
		WordCountEffectiveness: WordCountEffectiveness(p.records),
		SourceMix:              SourceMix(p.records),
		Feed:                   ChronologicalFeed(p.records),
	}
}

// FunnelDistribution returns the configured funnel table, or one derived from the records
// when no table is configured.
func (p *Projector) FunnelDistribution() []domain.FunnelStage {
	if p.funnel != nil {
		return slices.Clone(p.funnel)
	}
	return DeriveFunnel(p.records)
}

// SummaryMetrics computes the scalar metrics. latest may be the empty sentinel.
func SummaryMetrics(records []domain.OutreachRecord, latest domain.ActivityEntry) Summary {
	summary := Summary{TotalOutreach: len(records)}

	var emails, words int
	for _, r := range records {
		if r.Outcome == domain.OutcomeMeeting {
			summary.VirtualMeetings++
		}
		if r.Source == domain.SourceEmail {
			emails++
			words += r.WordCount
		}
	}

	if emails > 0 {
		summary.AvgEmailWordCount = float64(words) / float64(emails)
	} else {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("%s: no email records, average word count defaults to 0", domain.ErrEmptyDataset))
	}

	if !latest.IsEmpty() {
		summary.InPersonMeetings = latest.InPersonMeetings
	}

	summary.TopChannel = topChannel(SourceMix(records))
	return summary
}

// DeriveFunnel builds a funnel from per-record counts.
func DeriveFunnel(records []domain.OutreachRecord) []domain.FunnelStage {
	var emails, calls, meetings int
	for _, r := range records {
		switch r.Source {
		case domain.SourceEmail:
			emails++
		case domain.SourceCall:
			calls++
		}
		if r.Outcome == domain.OutcomeMeeting {
			meetings++
		}
	}
	return []domain.FunnelStage{
		{Stage: domain.StageEmailsSent, Count: emails},
		{Stage: domain.StageCallsMade, Count: calls},
		{Stage: domain.StageMeetingsBooked, Count: meetings},
		{Stage: domain.StageDealsClosed, Count: 0},
	}
}

// WordCountEffectiveness counts meetings booked by email length. The result always has
// exactly one bucket per range, in ascending order.
func WordCountEffectiveness(records []domain.OutreachRecord) []domain.WordCountBucket {
	buckets := make([]domain.WordCountBucket, len(wordCountRanges))
	for i, rng := range wordCountRanges {
		buckets[i].Range = rng.label
	}

	for _, r := range records {
		if r.Source != domain.SourceEmail || r.Outcome != domain.OutcomeMeeting {
			continue
		}
		for i, rng := range wordCountRanges {
			if r.WordCount >= rng.min && r.WordCount <= rng.max {
				buckets[i].MeetingsBooked++
				break
			}
		}
	}
	return buckets
}

// SourceMix counts records per source. Sources absent from records are omitted.
func SourceMix(records []domain.OutreachRecord) map[domain.Source]int {
	mix := make(map[domain.Source]int)
	for _, r := range records {
		mix[r.Source]++
	}
	return mix
}

// ChronologicalFeed projects records newest first. Records sharing a date keep input order.
func ChronologicalFeed(records []domain.OutreachRecord) []FeedItem {
	feed := make([]FeedItem, 0, len(records))
	for _, r := range records {
		feed = append(feed, FeedItem{
			Date:      r.Date,
			Agency:    r.Agency,
			WordCount: r.WordCount,
			Outcome:   r.Outcome,
		})
	}
	slices.SortStableFunc(feed, func(a, b FeedItem) int {
		return b.Date.Compare(a.Date)
	})
	return feed
}

// topChannel picks the largest group; ties go to the earlier canonical source.
func topChannel(mix map[domain.Source]int) string {
	best, bestCount := "", 0
	for _, source := range domain.Sources {
		if count := mix[source]; count > bestCount {
			best, bestCount = string(source), count
		}
	}
	return best
}
