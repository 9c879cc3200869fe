// Package region is the public surface for one monitored location: it owns
// the loaded series, the active timeframe mode and its projection.
package region

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"roomclimate/internal/config"
	"roomclimate/internal/fallback"
	"roomclimate/internal/logger"
	"roomclimate/internal/metrics"
	"roomclimate/internal/models"
	"roomclimate/internal/projection"
	"roomclimate/internal/timeline"
)

// ErrEmptySeries is recorded as the fallback cause when a source loads but holds no rows
var ErrEmptySeries = errors.New("series has no readings")

// Loader produces a series from a source reference
type Loader interface {
	LoadSeries(ctx context.Context, source string) (*models.Series, error)
}

// LoadResult describes how a region obtained its data
type LoadResult struct {
	Source   string    `json:"source"`
	Readings int       `json:"readings"`
	Fallback bool      `json:"fallback"`
	Err      error     `json:"-"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Options tune region construction. Zero values are usable.
type Options struct {
	Seed    int64
	Now     func() time.Time
	Metrics *metrics.Metrics
	Logger  *logger.Logger
}

// Region serves projections of one location's series. It is safe for
// concurrent use.
type Region struct {
	name      string
	category  string
	series    *models.Series
	synthetic models.Projection
	result    LoadResult
	now       func() time.Time
	metrics   *metrics.Metrics

	mu     sync.RWMutex
	mode   models.Mode
	active models.Projection
	anchor int
}

// New builds a region over an already loaded series. A nil or empty series
// switches the region to synthetic fallback data.
func New(name, category string, series *models.Series, opts Options) *Region {
	return newRegion(name, category, series, LoadResult{Readings: series.Len()}, opts)
}

// Load fetches the region's source through loader. It never fails: any load
// error switches the region to fallback data and is kept in LoadResult.
func Load(ctx context.Context, loader Loader, spec config.RegionSpec, opts Options) *Region {
	log := opts.Logger
	if log == nil {
		log = logger.WithComponent("region")
	}

	series, err := loader.LoadSeries(ctx, spec.Source)
	result := LoadResult{Source: spec.Source, Readings: series.Len(), Err: err}
	if err != nil {
		log.Warn("Using fallback data", map[string]interface{}{
			"region": spec.Name,
			"source": spec.Source,
			"cause":  err.Error(),
		})
		series = nil
	}
	return newRegion(spec.Name, spec.Category, series, result, opts)
}

func newRegion(name, category string, series *models.Series, result LoadResult, opts Options) *Region {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	r := &Region{
		name:     name,
		category: category,
		series:   series,
		now:      now,
		metrics:  opts.Metrics,
		mode:     models.Hourly,
	}

	result.LoadedAt = now()
	if series.Empty() {
		result.Fallback = true
		result.Readings = 0
		if result.Err == nil {
			result.Err = ErrEmptySeries
		}
		r.synthetic = fallback.Generate(regionSeed(opts.Seed, name), result.LoadedAt)
	}
	r.result = result

	r.anchor = r.locate()
	r.active = r.build(models.Hourly, r.anchor)
	r.metrics.ProjectionComputed(models.Hourly.String())
	r.metrics.RegionLoaded(name, result.Readings, result.Fallback)
	return r
}

// regionSeed mixes the region name into the seed so fallback regions differ
func regionSeed(seed int64, name string) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return seed ^ int64(h.Sum64()>>1)
}

func (r *Region) Name() string     { return r.name }
func (r *Region) Category() string { return r.category }

// Series returns the loaded series, nil when the region uses fallback data
func (r *Region) Series() *models.Series { return r.series }

// LoadResult reports whether real data was loaded and, if not, why
func (r *Region) LoadResult() LoadResult { return r.result }

// UsingFallback reports whether the region serves synthetic data
func (r *Region) UsingFallback() bool { return r.result.Fallback }

// Mode returns the active timeframe mode
func (r *Region) Mode() models.Mode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mode
}

// SetMode switches the active mode and recomputes its projection. Setting
// the current mode again re-anchors the Hourly window at the current time.
func (r *Region) SetMode(mode models.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %d", models.ErrInvalidMode, int(mode))
	}
	anchor := r.locate()
	p := r.build(mode, anchor)

	r.mu.Lock()
	r.mode = mode
	r.active = p
	r.anchor = anchor
	r.mu.Unlock()
	r.metrics.ProjectionComputed(mode.String())
	return nil
}

// Projection returns the projection for mode. The active mode's projection
// is served from the cache until the clock moves the Hourly anchor; other
// modes are computed on demand. The returned points must not be modified.
func (r *Region) Projection(mode models.Mode) models.Projection {
	anchor := r.locate()

	r.mu.RLock()
	active := mode == r.mode
	if active && (mode != models.Hourly || anchor == r.anchor) {
		p := r.active
		r.mu.RUnlock()
		return p
	}
	r.mu.RUnlock()

	p := r.build(mode, anchor)
	if active {
		r.mu.Lock()
		if r.mode == mode {
			r.active = p
			r.anchor = anchor
		}
		r.mu.Unlock()
		r.metrics.ProjectionComputed(mode.String())
	}
	return p
}

// ProjectionLength returns the number of points for mode
func (r *Region) ProjectionLength(mode models.Mode) int {
	return r.Projection(mode).Len()
}

// ReadingAt returns the point at the clamped index. ok is false only for an
// empty projection.
func (r *Region) ReadingAt(mode models.Mode, index int) (models.Reading, bool) {
	return r.Projection(mode).At(index)
}

// TimestampLabel returns the display label for the clamped index
func (r *Region) TimestampLabel(mode models.Mode, index int) string {
	return timeline.Label(r.Projection(mode), index)
}

// IndexFromSlider maps a normalized slider position onto mode's projection
func (r *Region) IndexFromSlider(mode models.Mode, pos float64) int {
	return timeline.IndexFromSliderPosition(pos, r.Projection(mode).MaxIndex())
}

// Current returns the most recent point of the active projection
func (r *Region) Current() (models.Reading, bool) {
	return r.ReadingAt(r.Mode(), 0)
}

// locate returns the Hourly anchor for the current time, NoData for fallback regions
func (r *Region) locate() int {
	if r.result.Fallback {
		return projection.NoData
	}
	return projection.Locate(r.series, r.now())
}

func (r *Region) build(mode models.Mode, anchor int) models.Projection {
	if r.result.Fallback {
		if mode == models.Hourly {
			return r.synthetic
		}
		return models.Projection{Mode: mode}
	}
	if anchor == projection.NoData {
		return models.Projection{Mode: mode}
	}
	return projection.Project(r.series, mode, anchor)
}
