package fetchers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/relvacode/iso8601"

	"roomclimate/internal/models"
)

// Column names in file order
const (
	ColumnTimestamp   = "timestamp"
	ColumnTemperature = "temperature"
	ColumnHumidity    = "humidity"
	ColumnLight       = "light"
)

var valueColumns = [3]string{ColumnTemperature, ColumnHumidity, ColumnLight}

// ParseReadings decodes a readings table: a header row followed by
// timestamp,temperature,humidity,light rows. Extra columns are ignored.
// Naive timestamps are interpreted as wall-clock time in loc. The first
// malformed row aborts the parse with a *ParseError.
func ParseReadings(r io.Reader, loc *time.Location) ([]models.Reading, error) {
	if loc == nil {
		loc = time.Local
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, csvError(err, 1)
	}

	var readings []models.Reading
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(err, 0)
		}

		row, _ := reader.FieldPos(0)
		reading, err := parseRow(record, row, loc)
		if err != nil {
			return nil, err
		}
		readings = append(readings, reading)
	}
	return readings, nil
}

func parseRow(record []string, row int, loc *time.Location) (models.Reading, error) {
	if len(record) < 4 {
		return models.Reading{}, &ParseError{
			Row: row,
			Err: fmt.Errorf("%w: got %d", ErrMissingFields, len(record)),
		}
	}

	raw := strings.TrimSpace(record[0])
	ts, err := ParseTimestamp(raw, loc)
	if err != nil {
		return models.Reading{}, &ParseError{Row: row, Column: ColumnTimestamp, Value: raw, Err: err}
	}

	var values [3]float64
	for i, column := range valueColumns {
		raw := strings.TrimSpace(record[i+1])
		v, err := strconv.ParseFloat(raw, 64)
		if err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
			err = errors.New("not a finite number")
		}
		if err != nil {
			return models.Reading{}, &ParseError{Row: row, Column: column, Value: raw, Err: err}
		}
		values[i] = v
	}

	return models.Reading{
		Timestamp:   ts,
		Temperature: values[0],
		Humidity:    values[1],
		Light:       values[2],
	}, nil
}

// ParseTimestamp parses an ISO-8601 timestamp. Values without a zone
// designator keep their wall clock and are placed in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	t, err := iso8601.ParseString(s)
	if err != nil {
		return time.Time{}, err
	}
	if hasZone(s) {
		return t, nil
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc), nil
}

func hasZone(s string) bool {
	if strings.HasSuffix(s, "Z") || strings.HasSuffix(s, "z") {
		return true
	}
	i := strings.IndexAny(s, "Tt ")
	if i < 0 {
		return false
	}
	return strings.ContainsAny(s[i:], "+-")
}

func csvError(err error, row int) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		row = pe.StartLine
	}
	return &ParseError{Row: row, Err: err}
}
