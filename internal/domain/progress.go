package domain

// DateLayout formats target and projected completion dates (dd-mm-yyyy).
const DateLayout = "02-01-2006"

// TrackStatus is the outcome of the deadline projection.
type TrackStatus string

const (
	StatusOnTrack  TrackStatus = "ON_TRACK"
	StatusOffTrack TrackStatus = "OFF_TRACK"
)

// ProgressAssessment carries the values derived from a ProfileRecord.
// CompletionRatio is nil when required points is not a positive integer.
// Status and ProjectedCompletionDate are only set when a target date is known.
type ProgressAssessment struct {
	ComputedPoints          int         `json:"computedPoints"`
	CompletionRatio         *float64    `json:"completionRatio,omitempty"`
	Status                  TrackStatus `json:"status,omitempty"`
	ProjectedCompletionDate string      `json:"projectedCompletionDate,omitempty"`
}

// Summary is the flat payload returned to API and CLI callers.
type Summary struct {
	ProfileRecord
	ProgressAssessment
}
