package charts

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"roomclimate/internal/models"
)

// RenderProjectionPage writes a standalone go-echarts HTML page for one
// region projection.
func RenderProjectionPage(w io.Writer, region string, p models.Projection) error {
	if p.Empty() {
		return ErrNotEnoughPoints
	}
	c := flip(p)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title(region, p.Mode),
			Theme:     types.ThemeWesteros,
			Width:     "900px",
			Height:    "420px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title(region, p.Mode),
			Subtitle: fmt.Sprintf("%d points", p.Len()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Time",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:  "°C / %RH",
			Scale: true,
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: true,
			Top:  "30",
		}),
	)
	line.ExtendYAxis(opts.YAxis{
		Name: "lux",
		Type: "value",
	})

	line.SetXAxis(c.labels).
		AddSeries("Temperature (°C)", lineData(c.temperature),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: temperatureColor}),
			charts.WithLineChartOpts(opts.LineChart{Smooth: true})).
		AddSeries("Humidity (%RH)", lineData(c.humidity),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: humidityColor}),
			charts.WithLineChartOpts(opts.LineChart{Smooth: true})).
		AddSeries("Light (lux)", lineData(c.light),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: lightColor}),
			charts.WithLineChartOpts(opts.LineChart{Smooth: true, YAxisIndex: 1}))

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render interactive chart: %w", err)
	}
	return nil
}

func lineData(values []float64) []opts.LineData {
	out := make([]opts.LineData, len(values))
	for i, v := range values {
		out[i] = opts.LineData{Value: v}
	}
	return out
}
