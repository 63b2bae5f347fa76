package ports

import (
	"context"
	"time"

	"SkillTracker/internal/domain"
)

// PageFetcher downloads the raw HTML of a profile page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Extractor maps profile HTML onto a ProfileRecord without network access.
type Extractor interface {
	Extract(html, sourceURL string) (domain.ProfileRecord, error)
}

// ProfileSource fetches and extracts a single profile.
type ProfileSource interface {
	FetchProfile(ctx context.Context, url string) (domain.ProfileRecord, error)
}

// Estimator derives points, completion ratio and the deadline projection.
type Estimator interface {
	Assess(record domain.ProfileRecord, target *time.Time) (domain.ProgressAssessment, error)
}

// FallbackRecorder observes statistics kept as raw text.
type FallbackRecorder interface {
	RecordFallback(label string)
}

// ScrapeObserver records the latency of a fetch+extract round.
type ScrapeObserver interface {
	ObserveScrape(outcome string, seconds float64)
}
