package fetchers

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceNotFound marks a missing file, object or an HTTP 404
	ErrSourceNotFound = errors.New("source not found")

	// ErrMissingFields marks a data row with fewer than four columns
	ErrMissingFields = errors.New("row has fewer than 4 fields")
)

// LoadError wraps any failure to produce a series from a source. Loading is
// all-or-nothing: no partial series accompanies a LoadError.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ParseError locates the first malformed row. Row is the 1-based line number
// in the file, so the header is row 1.
type ParseError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("row %d: invalid %s %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
