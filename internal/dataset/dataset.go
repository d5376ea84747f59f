// Package dataset loads the reference outreach records and funnel table consumed by the projector.
package dataset

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"example.com/salesvault/internal/domain"
)

var (
	// ErrUnknownSource is returned for a record whose source is not Email or Call.
	ErrUnknownSource = errors.New("unknown outreach source")
	// ErrUnknownOutcome is returned for a record whose outcome is not recognised.
	ErrUnknownOutcome = errors.New("unknown outreach outcome")
)

//go:embed default.yaml
var defaultDataset []byte

var dateLayouts = []string{"2006-01-02", time.RFC3339}

type fileFormat struct {
	Records []recordFormat       `yaml:"records"`
	Funnel  []domain.FunnelStage `yaml:"funnel"`
}

type recordFormat struct {
	Source    string `yaml:"source"`
	Agency    string `yaml:"agency"`
	WordCount int    `yaml:"word_count"`
	Outcome   string `yaml:"outcome"`
	Date      string `yaml:"date"`
}

// Default returns the built-in dataset.
func Default() (domain.Dataset, error) {
	return Decode(bytes.NewReader(defaultDataset))
}

// Load reads a dataset file. An empty path selects the built-in dataset.
func Load(path string) (domain.Dataset, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	ds, err := Decode(f)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("dataset %s: %w", path, err)
	}
	return ds, nil
}

// Decode parses a YAML dataset document.
func Decode(r io.Reader) (domain.Dataset, error) {
	var raw fileFormat
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return domain.Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}

	ds := domain.Dataset{Records: make([]domain.OutreachRecord, 0, len(raw.Records))}
	for i, rec := range raw.Records {
		record, err := rec.toDomain()
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("record %d: %w", i, err)
		}
		ds.Records = append(ds.Records, record)
	}

	if len(raw.Funnel) > 0 {
		for i, stage := range raw.Funnel {
			if strings.TrimSpace(stage.Stage) == "" {
				return domain.Dataset{}, fmt.Errorf("funnel stage %d: name is required", i)
			}
			if stage.Count < 0 {
				return domain.Dataset{}, fmt.Errorf("funnel stage %q: count must be >= 0", stage.Stage)
			}
		}
		ds.Funnel = raw.Funnel
	}
	return ds, nil
}

func (r recordFormat) toDomain() (domain.OutreachRecord, error) {
	source, err := ParseSource(r.Source)
	if err != nil {
		return domain.OutreachRecord{}, err
	}
	outcome, err := ParseOutcome(r.Outcome)
	if err != nil {
		return domain.OutreachRecord{}, err
	}
	if strings.TrimSpace(r.Agency) == "" {
		return domain.OutreachRecord{}, errors.New("agency is required")
	}
	if r.WordCount < 0 {
		return domain.OutreachRecord{}, errors.New("word_count must be >= 0")
	}
	date, err := parseDate(r.Date)
	if err != nil {
		return domain.OutreachRecord{}, err
	}

	wordCount := r.WordCount
	if source != domain.SourceEmail {
		wordCount = 0
	}

	return domain.OutreachRecord{
		Source:    source,
		Agency:    strings.TrimSpace(r.Agency),
		WordCount: wordCount,
		Outcome:   outcome,
		Date:      date,
	}, nil
}

// ParseSource accepts source labels case-insensitively.
func ParseSource(value string) (domain.Source, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "email":
		return domain.SourceEmail, nil
	case "call":
		return domain.SourceCall, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSource, value)
}

// ParseOutcome accepts the display labels and their compact forms.
func ParseOutcome(value string) (domain.Outcome, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(normalized)
	switch normalized {
	case "meeting":
		return domain.OutcomeMeeting, nil
	case "noresponse":
		return domain.OutcomeNoResponse, nil
	case "followup":
		return domain.OutcomeFollowUp, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOutcome, value)
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}
