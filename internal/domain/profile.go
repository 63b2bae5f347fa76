package domain

import (
	"encoding/json"
	"strconv"
)

// FetchedAtLayout is the timestamp format of ProfileRecord.FetchedAt.
const FetchedAtLayout = "2006-01-02 15:04:05"

// StatValue holds a statistic that is normally an integer. When the page
// publishes something that does not parse, the trimmed text is kept instead.
type StatValue struct {
	num int
	raw string
	bad bool
}

// IntStat wraps a parsed integer.
func IntStat(n int) StatValue {
	return StatValue{num: n}
}

// RawStat wraps text that failed integer parsing.
func RawStat(s string) StatValue {
	return StatValue{raw: s, bad: true}
}

// Int returns the integer value and whether the statistic parsed.
func (v StatValue) Int() (int, bool) {
	if v.bad {
		return 0, false
	}
	return v.num, true
}

// IntOr returns the integer value or def when the statistic holds raw text.
func (v StatValue) IntOr(def int) int {
	if n, ok := v.Int(); ok {
		return n
	}
	return def
}

// Raw returns the unparsed text; ok is false for integers.
func (v StatValue) Raw() (string, bool) {
	return v.raw, v.bad
}

func (v StatValue) String() string {
	if v.bad {
		return v.raw
	}
	return strconv.Itoa(v.num)
}

// MarshalJSON encodes integers as numbers and fallbacks as strings.
func (v StatValue) MarshalJSON() ([]byte, error) {
	if v.bad {
		return json.Marshal(v.raw)
	}
	return json.Marshal(v.num)
}

// UnmarshalJSON accepts either a number or a string.
func (v *StatValue) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*v = IntStat(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*v = RawStat(s)
	return nil
}

// ProfileRecord is the typed view of a single learner profile page.
type ProfileRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Department  string `json:"department"`
	CohortYear  string `json:"cohortYear"`
	Institution string `json:"institution"`

	TutorCount StatValue `json:"tutorCount"`
	TrackCount StatValue `json:"trackCount"`
	TestCount  StatValue `json:"testCount"`
	DTCount    StatValue `json:"dtCount"`
	DCCount    StatValue `json:"dcCount"`

	RawPoints      StatValue `json:"rawPoints"`
	RequiredPoints StatValue `json:"requiredPoints"`

	DeadlineText        *string `json:"deadlineText"`
	PercentagePublished int     `json:"percentagePublished"`

	FetchedAt string `json:"fetchedAt"`
	SourceURL string `json:"sourceUrl"`
}

// NewProfileRecord returns a record with every field at its documented default.
func NewProfileRecord(sourceURL string, requiredPoints int) ProfileRecord {
	return ProfileRecord{
		RequiredPoints:      IntStat(requiredPoints),
		PercentagePublished: 100,
		SourceURL:           sourceURL,
	}
}

// Fallback names a statistic whose value was kept as raw text.
type Fallback struct {
	Label string
	Value string
}

// CoercionFallbacks lists the statistics that did not parse as integers.
func (r ProfileRecord) CoercionFallbacks() []Fallback {
	fields := []struct {
		label string
		value StatValue
	}{
		{LabelCodeTutor, r.TutorCount},
		{LabelCodeTest, r.TestCount},
		{LabelCodeTrack, r.TrackCount},
		{LabelDC, r.DCCount},
		{LabelDT, r.DTCount},
		{LabelPoints, r.RawPoints},
		{LabelRequiredPoints, r.RequiredPoints},
	}

	var out []Fallback
	for _, f := range fields {
		if raw, ok := f.value.Raw(); ok {
			out = append(out, Fallback{Label: f.label, Value: raw})
		}
	}
	return out
}

// Statistic labels as published on the profile page.
const (
	LabelCodeTutor      = "CODE TUTOR"
	LabelCodeTest       = "CODE TEST"
	LabelCodeTrack      = "CODE TRACK"
	LabelDC             = "DC"
	LabelDT             = "DT"
	LabelPoints         = "Points"
	LabelRequiredPoints = "Required Points"
	LabelDeadline       = "Deadline"
	LabelPercentage     = "Percentage"
)
