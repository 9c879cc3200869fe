// Package simulator generates plausible room sensor histories in the
// loader's CSV format, for demos and local development.
package simulator

import (
	"math"
	"math/rand"
	"time"

	"roomclimate/internal/models"
)

// Interval is the sampling cadence of generated readings
const Interval = 30 * time.Minute

const (
	tempMin     = 15.0
	tempMax     = 35.0
	humidityMin = 20.0
	humidityMax = 95.0

	spikeChance = 0.05
	sunrise     = 7.0
	sunset      = 19.0
)

// Generator produces readings for one profile. It is not safe for
// concurrent use.
type Generator struct {
	profile Profile
	origin  time.Time
	rng     *rand.Rand
}

// NewGenerator creates a generator. origin is day zero of the seasonal term.
func NewGenerator(p Profile, seed int64, origin time.Time) *Generator {
	return &Generator{
		profile: p,
		origin:  origin,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Range returns readings every Interval from `from` through `to`, inclusive
func (g *Generator) Range(from, to time.Time) []models.Reading {
	var out []models.Reading
	for t := from; !t.After(to); t = t.Add(Interval) {
		out = append(out, g.Reading(t))
	}
	return out
}

// Reading synthesizes one reading for time t
func (g *Generator) Reading(t time.Time) models.Reading {
	day := int(t.Sub(g.origin).Hours() / 24)
	return models.Reading{
		Timestamp:   t,
		Temperature: g.temperature(t.Hour(), day),
		Humidity:    g.humidity(t.Hour()),
		Light:       g.light(t.Hour(), t.Minute()),
	}
}

// temperature follows a daily cycle peaking mid-afternoon plus a winter dip
func (g *Generator) temperature(hour, day int) float64 {
	p := g.profile
	cycle := math.Sin(float64(hour-6)*math.Pi/12) * (p.TempVariation / 2)
	noise := g.rng.NormFloat64() * (p.TempVariation / 4)
	seasonal := -math.Sin(float64(day) * math.Pi / 180)

	return round(clamp(p.TempBase+cycle+noise+seasonal, tempMin, tempMax), 2)
}

// humidity runs opposite to temperature, with occasional shower or cooking spikes
func (g *Generator) humidity(hour int) float64 {
	p := g.profile
	cycle := -math.Sin(float64(hour-6)*math.Pi/12) * (p.HumidityVariation / 3)
	noise := g.rng.NormFloat64() * (p.HumidityVariation / 3)

	spike := 0.0
	if g.rng.Float64() < spikeChance {
		spike = g.uniform(5, 15)
	}
	return round(clamp(p.HumidityBase+cycle+noise+spike, humidityMin, humidityMax), 2)
}

func (g *Generator) light(hour, minute int) float64 {
	p := g.profile
	t := float64(hour) + float64(minute)/60

	var v float64
	switch {
	case t < sunrise || t > sunset:
		v = p.LightNightMin + g.uniform(-5, 10)
	case t < sunrise+1:
		v = p.LightNightMin + (p.LightDayMax-p.LightNightMin)*(t-sunrise) + g.uniform(-50, 50)
	case t > sunset-1:
		v = p.LightNightMin + (p.LightDayMax-p.LightNightMin)*(sunset-t) + g.uniform(-50, 50)
	default:
		v = p.LightDayMax*g.uniform(0.7, 1.0) + g.uniform(-100, 100)
	}
	return math.Max(0, math.Round(v))
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
