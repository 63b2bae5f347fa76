package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"SkillTracker/internal/domain"
	"SkillTracker/internal/ports"
)

// TargetDateLayout accepts single or double digit day and month, e.g. 5-3-2025 or 05-03-2025.
const TargetDateLayout = "2-1-2006"

// TrackerDeps wires all driven adapters into the tracker.
type TrackerDeps struct {
	Source    ports.ProfileSource
	Estimator ports.Estimator
	Fallbacks ports.FallbackRecorder
	Scrapes   ports.ScrapeObserver
	Location  *time.Location
	Logger    *slog.Logger
}

// Tracker implements the points and deadline-tracking workflows.
type Tracker struct {
	source    ports.ProfileSource
	estimator ports.Estimator
	fallbacks ports.FallbackRecorder
	scrapes   ports.ScrapeObserver
	location  *time.Location
	logger    *slog.Logger
}

// NewTracker constructs the orchestration component.
func NewTracker(deps TrackerDeps) *Tracker {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Tracker{
		source:    deps.Source,
		estimator: deps.Estimator,
		fallbacks: deps.Fallbacks,
		scrapes:   deps.Scrapes,
		location:  loc,
		logger:    deps.Logger,
	}
}

// Points scrapes rawURL and returns the record with computed points.
func (t *Tracker) Points(ctx context.Context, rawURL string) (domain.Summary, error) {
	profileURL, err := NormalizeURL(rawURL)
	if err != nil {
		return domain.Summary{}, err
	}
	return t.summarize(ctx, profileURL, nil)
}

// TrackWithBuddy scrapes rawURL and projects completion against lastDate (dd-mm-yyyy).
func (t *Tracker) TrackWithBuddy(ctx context.Context, rawURL, lastDate string) (domain.Summary, error) {
	profileURL, err := NormalizeURL(rawURL)
	if err != nil {
		return domain.Summary{}, err
	}
	target, err := ParseTargetDate(lastDate, t.location)
	if err != nil {
		return domain.Summary{}, err
	}
	return t.summarize(ctx, profileURL, &target)
}

func (t *Tracker) summarize(ctx context.Context, profileURL string, target *time.Time) (domain.Summary, error) {
	if t.source == nil || t.estimator == nil {
		return domain.Summary{}, fmt.Errorf("tracker is not configured")
	}

	start := time.Now()
	record, err := t.source.FetchProfile(ctx, profileURL)
	t.observe(err, time.Since(start))
	if err != nil {
		return domain.Summary{}, fmt.Errorf("fetch profile: %w", err)
	}

	for _, fb := range record.CoercionFallbacks() {
		t.warn("statistic kept as raw text", "id", record.ID, "label", fb.Label, "value", fb.Value)
		if t.fallbacks != nil {
			t.fallbacks.RecordFallback(fb.Label)
		}
	}

	assessment, err := t.estimator.Assess(record, target)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("assess profile %s: %w", record.ID, err)
	}
	if assessment.CompletionRatio == nil {
		t.warn("completion ratio omitted", "id", record.ID, "required_points", record.RequiredPoints.String())
	}

	return domain.Summary{ProfileRecord: record, ProgressAssessment: assessment}, nil
}

func (t *Tracker) observe(err error, elapsed time.Duration) {
	if t.scrapes == nil {
		return
	}
	t.scrapes.ObserveScrape(Outcome(err), elapsed.Seconds())
}

// Outcome classifies an error for metrics labels.
func Outcome(err error) string {
	var (
		inputErr *domain.InputError
		fetchErr *domain.FetchError
		shapeErr *domain.ShapeError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &inputErr):
		return "input"
	case errors.As(err, &fetchErr):
		return "fetch"
	case errors.As(err, &shapeErr):
		return "shape"
	case errors.Is(err, domain.ErrInvalidRequiredPoints):
		return "required_points"
	default:
		return "internal"
	}
}

// NormalizeURL percent-decodes raw and rejects anything not starting with "http".
// Input with a malformed escape is used as given.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &domain.InputError{Field: "url", Msg: "No URL provided"}
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		decoded = raw
	}
	if !strings.HasPrefix(decoded, "http") {
		return "", &domain.InputError{Field: "url", Msg: "Invalid URL provided"}
	}
	return decoded, nil
}

// ParseTargetDate parses a dd-mm-yyyy date at midnight in loc.
func ParseTargetDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, &domain.InputError{Field: "lastdate", Msg: "lastdate is required"}
	}
	if loc == nil {
		loc = time.UTC
	}
	target, err := time.ParseInLocation(TargetDateLayout, value, loc)
	if err != nil {
		return time.Time{}, &domain.InputError{Field: "lastdate", Msg: "Invalid lastdate format. Please use dd-mm-yyyy."}
	}
	return target, nil
}

func (t *Tracker) warn(msg string, args ...interface{}) {
	if t.logger != nil {
		t.logger.Warn(msg, args...)
	}
}
