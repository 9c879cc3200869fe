// Package timeline maps UI slider positions onto projection indices and
// formats the timestamp labels shown next to them.
package timeline

import (
	"math"

	"roomclimate/internal/models"
)

const (
	hourlyLayout  = "15:04"
	dailyLayout   = "Mon Jan 2"
	monthlyLayout = "January 2006"

	// NoDataLabel is shown for an empty projection
	NoDataLabel = "No data"
)

// IndexFromSliderPosition linearly maps a normalized slider position onto
// [0, maxIndex]. Position 0 is the slider's "now" end and yields index 0;
// position 1 yields maxIndex (oldest). Out-of-range positions are clamped.
func IndexFromSliderPosition(pos float64, maxIndex int) int {
	if maxIndex <= 0 || math.IsNaN(pos) {
		return 0
	}
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	idx := int(math.Round(pos * float64(maxIndex)))
	if idx > maxIndex {
		idx = maxIndex
	}
	return idx
}

// SliderPosition is the inverse of IndexFromSliderPosition
func SliderPosition(index, maxIndex int) float64 {
	if maxIndex <= 0 || index <= 0 {
		return 0
	}
	if index >= maxIndex {
		return 1
	}
	return float64(index) / float64(maxIndex)
}

// Label returns the human-readable timestamp label for a projection index.
// The index is clamped; the most recent point gets a mode-specific prefix.
func Label(p models.Projection, index int) string {
	point, ok := p.At(index)
	if !ok {
		return NoDataLabel
	}
	text := point.Timestamp.Format(layout(p.Mode))
	if p.Clamp(index) == 0 {
		return prefix(p.Mode) + " " + text
	}
	return text
}

// Labels returns labels for every index of the projection
func Labels(p models.Projection) []string {
	out := make([]string, p.Len())
	for i := range out {
		out[i] = Label(p, i)
	}
	return out
}

func layout(mode models.Mode) string {
	switch mode {
	case models.Daily:
		return dailyLayout
	case models.Monthly:
		return monthlyLayout
	default:
		return hourlyLayout
	}
}

func prefix(mode models.Mode) string {
	switch mode {
	case models.Daily:
		return "Today"
	case models.Monthly:
		return "Current"
	default:
		return "Now"
	}
}
