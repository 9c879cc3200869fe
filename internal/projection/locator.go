package projection

import (
	"time"

	"roomclimate/internal/models"
)

// NoData is returned by Locate for an empty series
const NoData = -1

// Locate returns the index of the newest reading at or before now, scanning
// from the end of the series. When every reading lies in the future it
// returns the last index, so pre-generated data still anchors somewhere.
func Locate(series *models.Series, now time.Time) int {
	n := series.Len()
	if n == 0 {
		return NoData
	}
	for i := n - 1; i >= 0; i-- {
		if !series.At(i).Timestamp.After(now) {
			return i
		}
	}
	return n - 1
}

// ProjectAt anchors the Hourly projection at now and computes the projection for mode
func ProjectAt(series *models.Series, mode models.Mode, now time.Time) models.Projection {
	anchor := Locate(series, now)
	if anchor == NoData {
		return models.Projection{Mode: mode}
	}
	return Project(series, mode, anchor)
}
