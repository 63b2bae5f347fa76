package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidRequiredPoints is returned when a completion ratio cannot be
// computed because required points is zero, negative or not a number.
var ErrInvalidRequiredPoints = errors.New("required points must be a positive integer")

// InputError reports a malformed request field. It is never retried.
type InputError struct {
	Field string
	Msg   string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// FetchError reports a failure to retrieve the profile page.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: upstream returned status %d", e.URL, e.Status)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ShapeError reports a source URL too short to carry a profile id.
type ShapeError struct {
	URL      string
	Segments int
	Want     int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("url %s has %d segments, need at least %d to derive a profile id", e.URL, e.Segments, e.Want)
}
