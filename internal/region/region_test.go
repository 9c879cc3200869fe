package region

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"roomclimate/internal/config"
	"roomclimate/internal/fallback"
	"roomclimate/internal/fetchers"
	"roomclimate/internal/metrics"
	"roomclimate/internal/models"
)

var start = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func buildSeries(n int) *models.Series {
	readings := make([]models.Reading, n)
	for i := range readings {
		readings[i] = models.Reading{
			Timestamp:   start.Add(time.Duration(i) * 30 * time.Minute),
			Temperature: float64(i),
			Humidity:    float64(2 * i),
			Light:       float64(3 * i),
		}
	}
	return models.NewSeries(readings)
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

type fakeLoader struct {
	mu      sync.Mutex
	series  map[string]*models.Series
	err     map[string]error
	sources []string
}

func (f *fakeLoader) LoadSeries(ctx context.Context, source string) (*models.Series, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sources = append(f.sources, source)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.err[source]; ok {
		return nil, err
	}
	if s, ok := f.series[source]; ok {
		return s, nil
	}
	return nil, &fetchers.LoadError{Source: source, Err: fetchers.ErrSourceNotFound}
}

func TestMissingSourceFallsBack(t *testing.T) {
	now := time.Date(2026, 2, 6, 14, 0, 0, 0, time.UTC)
	loader := fetchers.NewDataFetcher()

	r := Load(context.Background(), loader, config.RegionSpec{Name: "Attic", Source: "/does/not/exist.csv"}, Options{Now: fixedNow(now)})

	res := r.LoadResult()
	require.True(t, res.Fallback)
	require.True(t, r.UsingFallback())
	require.ErrorIs(t, res.Err, fetchers.ErrSourceNotFound)
	require.Nil(t, r.Series())

	require.Equal(t, fallback.Points, r.ProjectionLength(models.Hourly))
	for i := 0; i < fallback.Points; i++ {
		p, ok := r.ReadingAt(models.Hourly, i)
		require.True(t, ok)
		require.GreaterOrEqual(t, p.Humidity, 30.0)
		require.LessOrEqual(t, p.Humidity, 90.0)
		require.GreaterOrEqual(t, p.Temperature, 15.0)
		require.LessOrEqual(t, p.Temperature, 32.0)
		require.GreaterOrEqual(t, p.Light, 0.0)
		require.LessOrEqual(t, p.Light, 1000.0)
	}

	require.Zero(t, r.ProjectionLength(models.Daily))
	require.Zero(t, r.ProjectionLength(models.Monthly))
	_, ok := r.ReadingAt(models.Daily, 0)
	require.False(t, ok)
	require.Equal(t, "No data", r.TimestampLabel(models.Monthly, 3))
}

func TestEmptySeriesFallsBack(t *testing.T) {
	r := New("Hall", "default", models.NewSeries(nil), Options{Now: fixedNow(start)})

	require.True(t, r.UsingFallback())
	require.ErrorIs(t, r.LoadResult().Err, ErrEmptySeries)
	require.Equal(t, fallback.Points, r.ProjectionLength(models.Hourly))
}

func TestFallbackSeedDiffersPerRegion(t *testing.T) {
	opts := Options{Seed: 42, Now: fixedNow(start)}
	a := New("Kitchen", "", nil, opts)
	b := New("Bedroom", "", nil, opts)
	again := New("Kitchen", "", nil, opts)

	require.NotEqual(t, a.Projection(models.Hourly).Points, b.Projection(models.Hourly).Points)
	require.Equal(t, a.Projection(models.Hourly).Points, again.Projection(models.Hourly).Points)
}

func TestReadingAtClampsIndex(t *testing.T) {
	series := buildSeries(96)
	last, _ := series.Last()
	r := New("Kitchen", "herb", series, Options{Now: fixedNow(last.Timestamp)})

	n := r.ProjectionLength(models.Hourly)
	require.Equal(t, 48, n)

	newest, ok := r.ReadingAt(models.Hourly, -1)
	require.True(t, ok)
	require.Equal(t, last, newest)

	oldest, ok := r.ReadingAt(models.Hourly, n)
	require.True(t, ok)
	want, _ := r.ReadingAt(models.Hourly, n-1)
	require.Equal(t, want, oldest)
	require.Equal(t, series.At(48), oldest)

	require.Equal(t, 2, r.ProjectionLength(models.Daily))
	day, ok := r.ReadingAt(models.Daily, 99)
	require.True(t, ok)
	require.Equal(t, 23.5, day.Temperature)
}

func TestHourlyAnchorsAtNow(t *testing.T) {
	series := buildSeries(200)
	now := series.At(100).Timestamp.Add(10 * time.Minute)
	r := New("Kitchen", "", series, Options{Now: fixedNow(now)})

	p, ok := r.ReadingAt(models.Hourly, 0)
	require.True(t, ok)
	require.Equal(t, series.At(100), p)
	require.Equal(t, "Now 02:00", r.TimestampLabel(models.Hourly, 0))
}

func TestHourlyFollowsClockInEveryMode(t *testing.T) {
	series := buildSeries(400)
	now := series.At(100).Timestamp
	r := New("Kitchen", "", series, Options{Now: func() time.Time { return now }})

	now = series.At(300).Timestamp
	hourlyActive, ok := r.ReadingAt(models.Hourly, 0)
	require.True(t, ok)
	labelActive := r.TimestampLabel(models.Hourly, 0)

	require.NoError(t, r.SetMode(models.Daily))
	dailyActive, ok := r.ReadingAt(models.Hourly, 0)
	require.True(t, ok)

	require.Equal(t, series.At(300), hourlyActive)
	require.Equal(t, hourlyActive, dailyActive)
	require.Equal(t, labelActive, r.TimestampLabel(models.Hourly, 0))
	require.Equal(t, "Now 06:00", labelActive)
}

func TestProjectionMetricCountsActiveRecomputes(t *testing.T) {
	m := metrics.NewMetrics()
	series := buildSeries(48 * 40)
	now := series.At(1000).Timestamp
	r := New("Kitchen", "", series, Options{Now: func() time.Time { return now }, Metrics: m})

	for i := 0; i < 5; i++ {
		r.ProjectionLength(models.Daily)
		r.ProjectionLength(models.Monthly)
		r.ReadingAt(models.Hourly, 0)
	}
	now = series.At(1001).Timestamp
	r.ReadingAt(models.Hourly, 0)
	require.NoError(t, r.SetMode(models.Daily))

	body := scrape(t, m)
	require.Contains(t, body, `projections_computed_total{mode="hourly"} 2`)
	require.Contains(t, body, `projections_computed_total{mode="daily"} 1`)
	require.NotContains(t, body, `projections_computed_total{mode="monthly"}`)
}

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestSetMode(t *testing.T) {
	series := buildSeries(48 * 40)
	last, _ := series.Last()
	r := New("Living Room", "tropical", series, Options{Now: fixedNow(last.Timestamp)})

	require.Equal(t, models.Hourly, r.Mode())
	require.NoError(t, r.SetMode(models.Daily))
	require.Equal(t, models.Daily, r.Mode())
	require.Equal(t, 30, r.ProjectionLength(models.Daily))

	cur, ok := r.Current()
	require.True(t, ok)
	require.Equal(t, series.At(series.Len()-48+24).Timestamp, cur.Timestamp)

	require.ErrorIs(t, r.SetMode(models.Mode(9)), models.ErrInvalidMode)
	require.Equal(t, models.Daily, r.Mode())

	require.NoError(t, r.SetMode(models.Monthly))
	require.Equal(t, 1, r.ProjectionLength(models.Monthly))
}

func TestIndexFromSlider(t *testing.T) {
	series := buildSeries(48 * 31)
	last, _ := series.Last()
	r := New("Living Room", "", series, Options{Now: fixedNow(last.Timestamp)})

	require.Equal(t, 0, r.IndexFromSlider(models.Daily, 0))
	require.Equal(t, 29, r.IndexFromSlider(models.Daily, 1))
	require.Equal(t, 15, r.IndexFromSlider(models.Daily, 0.5))
	require.Equal(t, 47, r.IndexFromSlider(models.Hourly, 2))
}

func TestConcurrentAccess(t *testing.T) {
	series := buildSeries(48 * 60)
	last, _ := series.Last()
	r := New("Kitchen", "", series, Options{Now: fixedNow(last.Timestamp)})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				mode := models.Modes[(i+j)%len(models.Modes)]
				_ = r.SetMode(mode)
				_, _ = r.ReadingAt(r.Mode(), j)
				_ = r.TimestampLabel(mode, j)
			}
		}(i)
	}
	wg.Wait()
}

func TestLoadAll(t *testing.T) {
	loader := &fakeLoader{
		series: map[string]*models.Series{
			"kitchen.csv": buildSeries(96),
			"bedroom.csv": buildSeries(10),
		},
		err: map[string]error{
			"broken.csv": &fetchers.LoadError{Source: "broken.csv", Err: &fetchers.ParseError{Row: 3, Err: errors.New("bad")}},
		},
	}
	specs := []config.RegionSpec{
		{Name: "Kitchen", Source: "kitchen.csv", Category: "herb"},
		{Name: "Bedroom", Source: "bedroom.csv"},
		{Name: "Bathroom", Source: "broken.csv"},
		{Name: "Living Room", Source: "missing.csv"},
	}

	reg, err := LoadAll(context.Background(), loader, specs, Options{Now: fixedNow(start.Add(48 * time.Hour))})
	require.NoError(t, err)
	require.Equal(t, 4, reg.Len())

	names := make([]string, 0, reg.Len())
	for _, r := range reg.List() {
		names = append(names, r.Name())
	}
	require.Equal(t, []string{"Kitchen", "Bedroom", "Bathroom", "Living Room"}, names)

	k, err := reg.Get("kitchen")
	require.NoError(t, err)
	require.False(t, k.UsingFallback())
	require.Equal(t, 96, k.LoadResult().Readings)

	b, err := reg.Get("Bathroom")
	require.NoError(t, err)
	require.True(t, b.UsingFallback())
	var pe *fetchers.ParseError
	require.ErrorAs(t, b.LoadResult().Err, &pe)
	require.Equal(t, 3, pe.Row)

	l, err := reg.Get("living-room")
	require.NoError(t, err)
	require.ErrorIs(t, l.LoadResult().Err, fetchers.ErrSourceNotFound)

	_, err = reg.Get("garage")
	require.ErrorIs(t, err, ErrUnknownRegion)
}

func TestLoadAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadAll(ctx, &fakeLoader{}, []config.RegionSpec{{Name: "A", Source: "a.csv"}}, Options{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewRegistryRejectsDuplicateKeys(t *testing.T) {
	_, err := NewRegistry(New("Living Room", "", nil, Options{}), New("living  room", "", nil, Options{}))
	require.Error(t, err)
}

func TestKey(t *testing.T) {
	cases := map[string]string{
		"Living Room":         "living-room",
		"  Kid's Bedroom #2 ": "kid-s-bedroom-2",
		"kitchen":             "kitchen",
		"Büro":                "büro",
	}
	for in, want := range cases {
		require.Equal(t, want, Key(in), fmt.Sprintf("Key(%q)", in))
	}
}
