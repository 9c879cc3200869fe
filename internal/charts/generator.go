package charts

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"roomclimate/internal/models"
)

// ChartGenerator handles creation of static chart images
type ChartGenerator struct {
	outputDir string
}

// NewChartGenerator creates a new chart generator
func NewChartGenerator(outputDir string) *ChartGenerator {
	return &ChartGenerator{
		outputDir: outputDir,
	}
}

// GenerateProjectionChart writes a PNG for one region projection into the
// output directory and returns the file name.
func (cg *ChartGenerator) GenerateProjectionChart(region string, p models.Projection) (string, error) {
	var buf bytes.Buffer
	if err := cg.RenderProjectionPNG(&buf, region, p); err != nil {
		return "", err
	}

	if err := os.MkdirAll(cg.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create chart directory: %w", err)
	}
	filename := FileName(region, p.Mode, "png")
	if err := os.WriteFile(filepath.Join(cg.outputDir, filename), buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write chart %s: %w", filename, err)
	}
	return filename, nil
}

// RenderProjectionPNG draws temperature and humidity on the left axis and
// light on the right axis, oldest point on the left.
func (cg *ChartGenerator) RenderProjectionPNG(w io.Writer, region string, p models.Projection) error {
	if p.Len() < 2 {
		return ErrNotEnoughPoints
	}
	c := flip(p)
	if !c.times[len(c.times)-1].After(c.times[0]) {
		return ErrNotEnoughPoints
	}

	leftMin, leftMax := bounds(c.temperature, c.humidity)
	rightMin, rightMax := bounds(c.light)
	if rightMin < 0 {
		rightMin = 0
	}

	graph := chart.Chart{
		Title: title(region, p.Mode),
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: drawing.ColorBlack,
		},
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
		},
		Height: 360,
		Width:  760,
		XAxis: chart.XAxis{
			Name:           "Time",
			ValueFormatter: chart.TimeValueFormatterWithFormat(axisLayout(p.Mode)),
			Style: chart.Style{
				FontSize: 9,
			},
		},
		YAxis: chart.YAxis{
			Name:  "°C / %RH",
			Range: &chart.ContinuousRange{Min: leftMin, Max: leftMax},
			Style: chart.Style{
				FontSize: 9,
			},
		},
		YAxisSecondary: chart.YAxis{
			Name:  "lux",
			Range: &chart.ContinuousRange{Min: rightMin, Max: rightMax},
			Style: chart.Style{
				FontSize: 9,
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Temperature (°C)",
				Style:   lineStyle(temperatureColor),
				XValues: c.times,
				YValues: c.temperature,
			},
			chart.TimeSeries{
				Name:    "Humidity (%RH)",
				Style:   lineStyle(humidityColor),
				XValues: c.times,
				YValues: c.humidity,
			},
			chart.TimeSeries{
				Name:    "Light (lux)",
				Style:   lineStyle(lightColor),
				YAxis:   chart.YAxisSecondary,
				XValues: c.times,
				YValues: c.light,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.LegendThin(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func lineStyle(hex string) chart.Style {
	return chart.Style{
		StrokeColor: drawing.ColorFromHex(hex[1:]),
		StrokeWidth: 2,
	}
}

func axisLayout(mode models.Mode) string {
	switch mode {
	case models.Daily:
		return "Jan 2"
	case models.Monthly:
		return "Jan 2006"
	default:
		return "15:04"
	}
}

// FileName builds a stable file name like "living-room-daily.png"
func FileName(region string, mode models.Mode, ext string) string {
	return fmt.Sprintf("%s-%s.%s", slug(region), mode.String(), ext)
}

func slug(s string) string {
	out := make([]rune, 0, len(s))
	dash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
			dash = false
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
			dash = false
		case !dash && len(out) > 0:
			out = append(out, '-')
			dash = true
		}
	}
	for len(out) > 0 && out[len(out)-1] == '-' {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return "region"
	}
	return string(out)
}
