package dataset

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/salesvault/internal/domain"
)

func TestDefaultDataset(t *testing.T) {
	ds, err := Default()
	require.NoError(t, err)

	require.Len(t, ds.Records, 6)
	require.Equal(t, "Ogilvy", ds.Records[0].Agency)
	require.Equal(t, domain.OutcomeNoResponse, ds.Records[1].Outcome)
	require.Equal(t, domain.OutcomeFollowUp, ds.Records[3].Outcome)
	require.Equal(t, time.Date(2024, time.May, 3, 0, 0, 0, 0, time.UTC), ds.Records[5].Date)

	require.Equal(t, []domain.FunnelStage{
		{Stage: domain.StageEmailsSent, Count: 120},
		{Stage: domain.StageCallsMade, Count: 45},
		{Stage: domain.StageMeetingsBooked, Count: 18},
		{Stage: domain.StageDealsClosed, Count: 5},
	}, ds.Funnel)
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	ds, err := Load("")
	require.NoError(t, err)
	require.Len(t, ds.Records, 6)
}

func TestLoadWithoutFunnel(t *testing.T) {
	ds, err := Load("testdata/no_funnel.yaml")
	require.NoError(t, err)

	require.Nil(t, ds.Funnel)
	require.Len(t, ds.Records, 2)
	require.Equal(t, domain.SourceEmail, ds.Records[0].Source)
	require.Equal(t, domain.OutcomeMeeting, ds.Records[0].Outcome)
	require.Equal(t, domain.OutcomeFollowUp, ds.Records[1].Outcome)
	require.Zero(t, ds.Records[1].WordCount)
}

func TestLoadRejectsUnknownSource(t *testing.T) {
	_, err := Load("testdata/bad_source.yaml")
	require.ErrorIs(t, err, ErrUnknownSource)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/does_not_exist.yaml")
	require.Error(t, err)
}

func TestCallWordCountIsZeroed(t *testing.T) {
	ds, err := Load("testdata/call_with_words.yaml")
	require.NoError(t, err)
	require.Zero(t, ds.Records[0].WordCount)
}

func TestDecodeEmptyDocument(t *testing.T) {
	ds, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, ds.Records)
	require.Nil(t, ds.Funnel)
}

func TestDecodeRejectsBadRecords(t *testing.T) {
	cases := map[string]string{
		"bad outcome":   "records:\n  - {source: Email, agency: A, outcome: Maybe, date: 2024-05-01}\n",
		"bad date":      "records:\n  - {source: Email, agency: A, outcome: Meeting, date: yesterday}\n",
		"no agency":     "records:\n  - {source: Email, outcome: Meeting, date: 2024-05-01}\n",
		"negative wc":   "records:\n  - {source: Email, agency: A, word_count: -4, outcome: Meeting, date: 2024-05-01}\n",
		"negative step": "funnel:\n  - {stage: Emails Sent, count: -1}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(doc))
			require.Error(t, err)
		})
	}
}

func TestParseOutcomeVariants(t *testing.T) {
	for _, label := range []string{"No Response", "NoResponse", "no_response", "no-response"} {
		outcome, err := ParseOutcome(label)
		require.NoError(t, err)
		require.Equal(t, domain.OutcomeNoResponse, outcome)
	}
}
