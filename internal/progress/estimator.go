// Package progress scores a profile and projects whether its owner can reach
// the required points by a target date.
//
// The projection is a linear heuristic: it assumes a fixed number of points
// can be earned every day (one CODE TRACK and one DC by default) and nothing
// more. It is not a scheduling guarantee.
package progress

import (
	"time"

	"SkillTracker/internal/domain"
	"SkillTracker/internal/ports"
)

// Points awarded per completed item.
const (
	TestPoints  = 30
	DCPoints    = 2
	DTPoints    = 20
	TrackPoints = 2
)

// DefaultPointsPerDay is one CODE TRACK plus one DC per day.
const DefaultPointsPerDay = TrackPoints + DCPoints

// Estimator implements ports.Estimator.
type Estimator struct {
	pointsPerDay int
	location     *time.Location
	now          func() time.Time
}

var _ ports.Estimator = (*Estimator)(nil)

// Option customizes an Estimator.
type Option func(*Estimator)

// WithPointsPerDay overrides the assumed daily throughput.
func WithPointsPerDay(points int) Option {
	return func(e *Estimator) {
		if points > 0 {
			e.pointsPerDay = points
		}
	}
}

// WithLocation sets the calendar used to decide what "today" is.
func WithLocation(loc *time.Location) Option {
	return func(e *Estimator) {
		if loc != nil {
			e.location = loc
		}
	}
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(e *Estimator) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEstimator returns an estimator using UTC and DefaultPointsPerDay unless overridden.
func NewEstimator(opts ...Option) *Estimator {
	e := &Estimator{
		pointsPerDay: DefaultPointsPerDay,
		location:     time.UTC,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ComputedPoints recalculates points from the activity counts. Counts that
// hold raw text contribute nothing.
func ComputedPoints(r domain.ProfileRecord) int {
	return r.TestCount.IntOr(0)*TestPoints +
		r.DCCount.IntOr(0)*DCPoints +
		r.DTCount.IntOr(0)*DTPoints +
		r.TrackCount.IntOr(0)*TrackPoints
}

// Assess scores the record. Status and ProjectedCompletionDate are filled only
// when target is non-nil.
//
// Without a target, unusable required points only leave CompletionRatio nil.
// With a target the projection cannot run and ErrInvalidRequiredPoints is returned.
func (e *Estimator) Assess(record domain.ProfileRecord, target *time.Time) (domain.ProgressAssessment, error) {
	computed := ComputedPoints(record)
	assessment := domain.ProgressAssessment{ComputedPoints: computed}

	required, ok := record.RequiredPoints.Int()
	if !ok || required <= 0 {
		if target != nil {
			return domain.ProgressAssessment{}, domain.ErrInvalidRequiredPoints
		}
		return assessment, nil
	}

	ratio := float64(computed) / float64(required) * 100
	assessment.CompletionRatio = &ratio

	if target == nil {
		return assessment, nil
	}

	today := dateOf(e.now(), e.location)
	daysLeft := daysBetween(today, dateOf(*target, e.location))
	remaining := required - computed

	if daysLeft*e.pointsPerDay >= remaining {
		assessment.Status = domain.StatusOnTrack
		assessment.ProjectedCompletionDate = target.Format(domain.DateLayout)
	} else {
		assessment.Status = domain.StatusOffTrack
		assessment.ProjectedCompletionDate = today.Format(domain.DateLayout)
	}
	return assessment, nil
}

func dateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts calendar days; both inputs are UTC midnights so DST
// never shifts the result.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
