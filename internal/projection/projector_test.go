package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"roomclimate/internal/models"
)

var testStart = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// buildSeries returns n readings at 30-minute cadence where reading i has
// temperature i, humidity 2i and light 3i.
func buildSeries(n int) *models.Series {
	readings := make([]models.Reading, n)
	for i := range readings {
		readings[i] = models.Reading{
			Timestamp:   testStart.Add(time.Duration(i) * 30 * time.Minute),
			Temperature: float64(i),
			Humidity:    float64(2 * i),
			Light:       float64(3 * i),
		}
	}
	return models.NewSeries(readings)
}

func meanRange(from, to int) float64 {
	sum := 0.0
	for i := from; i <= to; i++ {
		sum += float64(i)
	}
	return sum / float64(to-from+1)
}

func requireNewestFirst(t *testing.T, p models.Projection) {
	t.Helper()
	for i := 1; i < p.Len(); i++ {
		require.False(t, p.Points[i].Timestamp.After(p.Points[i-1].Timestamp),
			"%s point %d (%s) is newer than point %d (%s)",
			p.Mode, i, p.Points[i].Timestamp, i-1, p.Points[i-1].Timestamp)
	}
}

func TestHourlyShortSeries(t *testing.T) {
	series := buildSeries(10)

	p := Hourly(series, 9)

	require.Equal(t, models.Hourly, p.Mode)
	require.Equal(t, 10, p.Len())
	require.Equal(t, series.At(9), p.Points[0])
	require.Equal(t, series.At(0), p.Points[9])
	requireNewestFirst(t, p)
}

func TestHourlyWindowCappedAt48(t *testing.T) {
	series := buildSeries(200)

	p := Hourly(series, 150)

	require.Equal(t, HourlyWindow, p.Len())
	for k := 0; k < p.Len(); k++ {
		require.Equal(t, series.At(150-k), p.Points[k])
	}
}

func TestHourlyClampsAnchor(t *testing.T) {
	series := buildSeries(5)

	high := Hourly(series, 99)
	require.Equal(t, 5, high.Len())
	require.Equal(t, series.At(4), high.Points[0])

	low := Hourly(series, -3)
	require.Equal(t, 1, low.Len())
	require.Equal(t, series.At(0), low.Points[0])
}

func TestDailyTwoDays(t *testing.T) {
	series := buildSeries(96)

	p := Daily(series)

	require.Equal(t, 2, p.Len())

	require.InDelta(t, meanRange(48, 95), p.Points[0].Temperature, 1e-9)
	require.InDelta(t, 2*meanRange(48, 95), p.Points[0].Humidity, 1e-9)
	require.InDelta(t, 3*meanRange(48, 95), p.Points[0].Light, 1e-9)
	require.Equal(t, series.At(48+NoonOffset).Timestamp, p.Points[0].Timestamp)

	require.InDelta(t, meanRange(0, 47), p.Points[1].Temperature, 1e-9)
	require.Equal(t, series.At(NoonOffset).Timestamp, p.Points[1].Timestamp)
	requireNewestFirst(t, p)
}

func TestDailyDropsPartialBlock(t *testing.T) {
	series := buildSeries(48*3 + 20)

	p := Daily(series)

	require.Equal(t, 3, p.Len())
	// blocks are aligned to the end of the series, so the 20 oldest readings are skipped
	require.InDelta(t, meanRange(20, 67), p.Points[2].Temperature, 1e-9)
}

func TestDailyCappedAt30(t *testing.T) {
	series := buildSeries(48 * 45)

	p := Daily(series)

	require.Equal(t, MaxDays, p.Len())
	requireNewestFirst(t, p)
}

func TestMonthlyBucketSizing(t *testing.T) {
	n := 360 * PointsPerDay
	plan := PlanMonths(n)
	require.Equal(t, 360, plan.TotalDays)
	require.Equal(t, 12, plan.NumMonths)
	require.Equal(t, 30*48, plan.ReadingsPerMonth)

	series := buildSeries(n)
	p := Monthly(series)

	require.Equal(t, 12, p.Len())
	for m := 0; m < 12; m++ {
		end := n - m*1440
		start := end - 1440
		require.InDelta(t, meanRange(start, end-1), p.Points[m].Temperature, 1e-6, "month %d", m)
		require.Equal(t, series.At(start+720).Timestamp, p.Points[m].Timestamp)
	}
	requireNewestFirst(t, p)
}

func TestMonthlyShortHistoryIsOneBucket(t *testing.T) {
	series := buildSeries(10 * PointsPerDay)

	plan := PlanMonths(series.Len())
	require.Equal(t, 1, plan.NumMonths)
	require.Equal(t, 480, plan.ReadingsPerMonth)

	p := Monthly(series)
	require.Equal(t, 1, p.Len())
	require.InDelta(t, meanRange(0, 479), p.Points[0].Temperature, 1e-9)
}

func TestMonthlyClipsOldestChunk(t *testing.T) {
	// 151 days over 5 months rounds up to 1450 readings per month
	series := buildSeries(151 * PointsPerDay)

	plan := PlanMonths(series.Len())
	require.Equal(t, 5, plan.NumMonths)
	require.Equal(t, 1450, plan.ReadingsPerMonth)

	p := Monthly(series)
	require.Equal(t, 5, p.Len())
	requireNewestFirst(t, p)
}

func TestMonthlyCappedAt12(t *testing.T) {
	series := buildSeries(400 * PointsPerDay)

	require.Equal(t, 12, Monthly(series).Len())
}

func TestMonthlyLessThanADay(t *testing.T) {
	require.True(t, Monthly(buildSeries(47)).Empty())
}

func TestEmptySeries(t *testing.T) {
	empty := models.NewSeries(nil)

	for _, mode := range models.Modes {
		p := Project(empty, mode, 0)
		require.True(t, p.Empty(), mode.String())
		require.Equal(t, mode, p.Mode)
	}
	require.True(t, Project(nil, models.Daily, 0).Empty())
}

func TestOrderingInvariantAllModes(t *testing.T) {
	for _, n := range []int{1, 10, 47, 48, 96, 1000, 48 * 61, 48 * 400} {
		series := buildSeries(n)
		for _, mode := range models.Modes {
			p := Project(series, mode, n-1)
			requireNewestFirst(t, p)
		}
	}
}
