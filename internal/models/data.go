package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Reading represents a single sensor sample for a monitored location
type Reading struct {
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"` // °C
	Humidity    float64   `json:"humidity"`    // %RH
	Light       float64   `json:"light"`       // lux
}

// Mode selects which projection of a series is active
type Mode int

const (
	Hourly Mode = iota
	Daily
	Monthly
)

// Modes lists every timeframe mode in display order
var Modes = []Mode{Hourly, Daily, Monthly}

// String returns the lowercase name used in URLs and config
func (m Mode) String() string {
	switch m {
	case Hourly:
		return "hourly"
	case Daily:
		return "daily"
	case Monthly:
		return "monthly"
	default:
		return "unknown"
	}
}

// Title returns a display name for the mode
func (m Mode) Title() string {
	switch m {
	case Hourly:
		return "Hourly"
	case Daily:
		return "Daily"
	case Monthly:
		return "Monthly"
	default:
		return "Unknown"
	}
}

// Valid reports whether m is one of the known modes
func (m Mode) Valid() bool {
	return m >= Hourly && m <= Monthly
}

// ParseMode parses a mode name (case-insensitive)
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hourly", "hour", "h":
		return Hourly, nil
	case "daily", "day", "d":
		return Daily, nil
	case "monthly", "month", "m":
		return Monthly, nil
	default:
		return Hourly, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// MarshalJSON encodes the mode as its name
func (m Mode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON decodes a mode from its name
func (m *Mode) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Projection is a derived, fixed-size view of a series for one mode.
// Points[0] is the most recent point in time; larger indices move backward.
// Each point carries the representative (possibly averaged) values and the
// representative timestamp.
type Projection struct {
	Mode   Mode      `json:"mode"`
	Points []Reading `json:"points"`
}

// Len returns the number of points in the projection
func (p Projection) Len() int {
	return len(p.Points)
}

// MaxIndex returns the inclusive upper bound for slider positions, or -1 when empty
func (p Projection) MaxIndex() int {
	return len(p.Points) - 1
}

// Empty reports whether the projection has no points
func (p Projection) Empty() bool {
	return len(p.Points) == 0
}

// Clamp maps any index into the valid range [0, Len()-1]. It returns 0 for an empty projection.
func (p Projection) Clamp(index int) int {
	if index < 0 || len(p.Points) == 0 {
		return 0
	}
	if index >= len(p.Points) {
		return len(p.Points) - 1
	}
	return index
}

// At returns the point at the clamped index. ok is false only when the projection is empty.
func (p Projection) At(index int) (Reading, bool) {
	if len(p.Points) == 0 {
		return Reading{}, false
	}
	return p.Points[p.Clamp(index)], true
}
