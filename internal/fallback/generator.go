// Package fallback produces a synthetic Hourly projection for locations whose
// series could not be loaded. It is never mixed with real readings.
package fallback

import (
	"math"
	"math/rand"
	"time"

	"roomclimate/internal/models"
)

const (
	// Points is the exact length of a generated projection
	Points = 48

	HumidityMin    = 30.0
	HumidityMax    = 90.0
	TemperatureMin = 15.0
	TemperatureMax = 32.0
	LightMax       = 1000.0

	// NightLightFactor dims light outside daylight hours
	NightLightFactor = 0.2
	DaylightStart    = 6
	DaylightEnd      = 20

	dayNightAmplitude = 3.0
	noiseStep         = 0.12
	latticeSize       = 256
)

// Generate returns exactly Points hourly readings ending at now: index k is
// stamped now - k hours. Output is deterministic for a given seed and now.
func Generate(seed int64, now time.Time) models.Projection {
	rng := rand.New(rand.NewSource(seed))
	humidity := newValueNoise(rng)
	temperature := newValueNoise(rng)
	light := newValueNoise(rng)

	p := models.Projection{Mode: models.Hourly, Points: make([]models.Reading, Points)}
	for k := 0; k < Points; k++ {
		ts := now.Add(-time.Duration(k) * time.Hour)
		x := float64(Points-1-k) * noiseStep
		hour := ts.Hour()

		dayNight := dayNightAmplitude * math.Sin(float64(hour-6)*math.Pi/12)
		temp := TemperatureMin + (TemperatureMax-TemperatureMin)*temperature.at(x) + dayNight

		lux := LightMax * light.at(x)
		if hour < DaylightStart || hour >= DaylightEnd {
			lux *= NightLightFactor
		}

		p.Points[k] = models.Reading{
			Timestamp:   ts,
			Temperature: clamp(temp, TemperatureMin, TemperatureMax),
			Humidity:    HumidityMin + (HumidityMax-HumidityMin)*humidity.at(x),
			Light:       lux,
		}
	}
	return p
}

// valueNoise is 1D smoothed lattice noise in [0,1]
type valueNoise struct {
	lattice [latticeSize]float64
}

func newValueNoise(rng *rand.Rand) *valueNoise {
	n := &valueNoise{}
	for i := range n.lattice {
		n.lattice[i] = rng.Float64()
	}
	return n
}

func (n *valueNoise) at(x float64) float64 {
	fl := math.Floor(x)
	i := int(fl)
	f := x - fl
	t := f * f * (3 - 2*f)
	a := n.lattice[i&(latticeSize-1)]
	b := n.lattice[(i+1)&(latticeSize-1)]
	return a + (b-a)*t
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
