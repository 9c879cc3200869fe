package models

import (
	"errors"
)

var (
	// ErrInvalidMode is returned when a timeframe mode name is not recognised
	ErrInvalidMode = errors.New("invalid timeframe mode")
)

// Series is the ordered, read-only set of readings loaded for one location.
// It is built once and never mutated afterwards.
type Series struct {
	readings []Reading
}

// NewSeries copies readings into a new series in the given order
func NewSeries(readings []Reading) *Series {
	out := make([]Reading, len(readings))
	copy(out, readings)
	return &Series{readings: out}
}

// Len returns the number of readings
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.readings)
}

// Empty reports whether the series holds no readings
func (s *Series) Empty() bool {
	return s.Len() == 0
}

// At returns the reading at index i. The caller must pass a valid index.
func (s *Series) At(i int) Reading {
	return s.readings[i]
}

// Slice returns a copy of readings in [from, to)
func (s *Series) Slice(from, to int) []Reading {
	out := make([]Reading, to-from)
	copy(out, s.readings[from:to])
	return out
}

// First returns the oldest reading
func (s *Series) First() (Reading, bool) {
	if s.Empty() {
		return Reading{}, false
	}
	return s.readings[0], true
}

// Last returns the newest reading
func (s *Series) Last() (Reading, bool) {
	if s.Empty() {
		return Reading{}, false
	}
	return s.readings[len(s.readings)-1], true
}

// Ordered reports whether timestamps are non-decreasing. It returns the first
// offending index when they are not.
func (s *Series) Ordered() (bool, int) {
	for i := 1; i < s.Len(); i++ {
		if s.readings[i].Timestamp.Before(s.readings[i-1].Timestamp) {
			return false, i
		}
	}
	return true, -1
}
