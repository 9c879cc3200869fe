package charts

import (
	"errors"
	"math"
	"time"

	"roomclimate/internal/models"
	"roomclimate/internal/timeline"
)

// ErrNotEnoughPoints is returned when a projection cannot form a line
var ErrNotEnoughPoints = errors.New("projection needs at least two points to chart")

// Metric palette shared by the static and interactive charts
const (
	temperatureColor = "#ff6b35"
	humidityColor    = "#4ecdc4"
	lightColor       = "#f7b801"
)

// chronological holds a projection flipped oldest-first for plotting
type chronological struct {
	times       []time.Time
	labels      []string
	temperature []float64
	humidity    []float64
	light       []float64
}

func flip(p models.Projection) chronological {
	n := p.Len()
	c := chronological{
		times:       make([]time.Time, n),
		labels:      make([]string, n),
		temperature: make([]float64, n),
		humidity:    make([]float64, n),
		light:       make([]float64, n),
	}
	for i := 0; i < n; i++ {
		src := n - 1 - i
		pt := p.Points[src]
		c.times[i] = pt.Timestamp
		c.labels[i] = timeline.Label(p, src)
		c.temperature[i] = round1(pt.Temperature)
		c.humidity[i] = round1(pt.Humidity)
		c.light[i] = math.Round(pt.Light)
	}
	return c
}

// bounds returns a padded [min, max] covering all values, never zero-width
func bounds(values ...[]float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, vs := range values {
		for _, v := range vs {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 0) {
		return 0, 1
	}
	pad := (hi - lo) * 0.1
	if pad == 0 {
		pad = 1
	}
	return math.Floor(lo - pad), math.Ceil(hi + pad)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func title(region string, mode models.Mode) string {
	return region + " - " + mode.Title()
}
