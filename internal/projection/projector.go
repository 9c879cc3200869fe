// Package projection computes the fixed-size views of a reading series that
// dashboards page through: a raw hourly window anchored at "now", a daily
// rollup and a monthly rollup. Every projection is ordered newest first.
package projection

import (
	"math"
	"time"

	"roomclimate/internal/models"
)

const (
	// PointsPerDay assumes a 30-minute sampling cadence
	PointsPerDay = 48
	// HourlyWindow is the maximum length of the Hourly projection
	HourlyWindow = 48
	// MaxDays is the maximum length of the Daily projection
	MaxDays = 30
	// MaxMonths is the maximum length of the Monthly projection
	MaxMonths = 12
	// DaysPerMonth is the nominal bucket length used to size months
	DaysPerMonth = 30
	// NoonOffset is the block offset of local noon inside a day block
	NoonOffset = 24
)

// Project computes the projection for mode. anchor is only used by Hourly and
// is clamped into the series bounds. Short or empty series shrink the output;
// nothing is ever padded.
func Project(series *models.Series, mode models.Mode, anchor int) models.Projection {
	switch mode {
	case models.Daily:
		return Daily(series)
	case models.Monthly:
		return Monthly(series)
	default:
		return Hourly(series, anchor)
	}
}

// Hourly returns up to HourlyWindow consecutive readings ending at anchor,
// with index k holding series[anchor-k].
func Hourly(series *models.Series, anchor int) models.Projection {
	p := models.Projection{Mode: models.Hourly}
	n := series.Len()
	if n == 0 {
		return p
	}
	if anchor < 0 {
		anchor = 0
	}
	if anchor >= n {
		anchor = n - 1
	}

	start := anchor - HourlyWindow + 1
	if start < 0 {
		start = 0
	}

	p.Points = make([]models.Reading, 0, anchor-start+1)
	for i := anchor; i >= start; i-- {
		p.Points = append(p.Points, series.At(i))
	}
	return p
}

// Daily averages consecutive blocks of PointsPerDay readings, walking backward
// from the end of the series. A trailing partial block at the old end is dropped.
func Daily(series *models.Series) models.Projection {
	p := models.Projection{Mode: models.Daily}
	n := series.Len()

	for d := 0; d < MaxDays; d++ {
		end := n - d*PointsPerDay
		start := end - PointsPerDay
		if start < 0 {
			break
		}
		rep := start
		if start+NoonOffset < end {
			rep = start + NoonOffset
		}
		p.Points = append(p.Points, Rollup(series, start, end, series.At(rep).Timestamp))
	}
	return p
}

// MonthPlan describes how the Monthly projection buckets a series
type MonthPlan struct {
	TotalDays        int
	NumMonths        int
	ReadingsPerMonth int
}

// PlanMonths sizes the monthly buckets for a series of n readings
func PlanMonths(n int) MonthPlan {
	totalDays := n / PointsPerDay
	numMonths := totalDays / DaysPerMonth
	if numMonths < 1 {
		numMonths = 1
	}
	if numMonths > MaxMonths {
		numMonths = MaxMonths
	}
	perMonth := int(math.Round(float64(totalDays) / float64(numMonths) * PointsPerDay))
	return MonthPlan{
		TotalDays:        totalDays,
		NumMonths:        numMonths,
		ReadingsPerMonth: perMonth,
	}
}

// Monthly averages fixed-size chunks walking backward from the end of the
// series. Buckets are sized by PlanMonths and are not calendar aware.
func Monthly(series *models.Series) models.Projection {
	p := models.Projection{Mode: models.Monthly}
	n := series.Len()
	plan := PlanMonths(n)
	if plan.TotalDays == 0 || plan.ReadingsPerMonth <= 0 {
		return p
	}

	for m := 0; m < plan.NumMonths; m++ {
		end := n - m*plan.ReadingsPerMonth
		if end <= 0 {
			break
		}
		// rounding can push the oldest chunk a few readings past the start
		start := end - plan.ReadingsPerMonth
		if start < 0 {
			start = 0
		}
		mid := start + (end-start)/2
		p.Points = append(p.Points, Rollup(series, start, end, series.At(mid).Timestamp))
	}
	return p
}

// Rollup returns the arithmetic mean of readings in [start, end) stamped with ts
func Rollup(series *models.Series, start, end int, ts time.Time) models.Reading {
	var temp, hum, light float64
	for i := start; i < end; i++ {
		r := series.At(i)
		temp += r.Temperature
		hum += r.Humidity
		light += r.Light
	}
	count := float64(end - start)
	if count == 0 {
		return models.Reading{Timestamp: ts}
	}
	return models.Reading{
		Timestamp:   ts,
		Temperature: temp / count,
		Humidity:    hum / count,
		Light:       light / count,
	}
}
