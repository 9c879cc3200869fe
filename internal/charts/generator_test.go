package charts

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"roomclimate/internal/models"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// newestFirst builds an hourly projection of n points ending at end
func newestFirst(n int, end time.Time) models.Projection {
	points := make([]models.Reading, n)
	for i := 0; i < n; i++ {
		points[i] = models.Reading{
			Timestamp:   end.Add(-time.Duration(i) * 30 * time.Minute),
			Temperature: 21 + float64(i%5)*0.4,
			Humidity:    50 - float64(i%7),
			Light:       float64((n - i) * 10),
		}
	}
	return models.Projection{Mode: models.Hourly, Points: points}
}

func TestNewChartGenerator(t *testing.T) {
	outputDir := "/test/output"
	generator := NewChartGenerator(outputDir)

	if generator == nil {
		t.Fatal("NewChartGenerator returned nil")
	}
	if generator.outputDir != outputDir {
		t.Errorf("Expected outputDir %s, got %s", outputDir, generator.outputDir)
	}
}

func TestRenderProjectionPNG(t *testing.T) {
	generator := NewChartGenerator("")
	p := newestFirst(48, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	var buf bytes.Buffer
	if err := generator.RenderProjectionPNG(&buf, "Living Room", p); err != nil {
		t.Fatalf("RenderProjectionPNG failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngSignature) {
		t.Error("Expected output to start with the PNG signature")
	}
}

func TestRenderProjectionPNGFlatValues(t *testing.T) {
	generator := NewChartGenerator("")
	end := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	p := models.Projection{Mode: models.Daily, Points: []models.Reading{
		{Timestamp: end, Temperature: 20, Humidity: 40, Light: 0},
		{Timestamp: end.Add(-24 * time.Hour), Temperature: 20, Humidity: 40, Light: 0},
	}}

	var buf bytes.Buffer
	if err := generator.RenderProjectionPNG(&buf, "Bedroom", p); err != nil {
		t.Fatalf("Expected flat series to render, got %v", err)
	}
}

func TestRenderProjectionPNGTooShort(t *testing.T) {
	generator := NewChartGenerator("")
	end := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	cases := map[string]models.Projection{
		"empty":      {Mode: models.Hourly},
		"one point":  newestFirst(1, end),
		"same times": {Mode: models.Monthly, Points: []models.Reading{{Timestamp: end}, {Timestamp: end}}},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			err := generator.RenderProjectionPNG(&buf, "Kitchen", p)
			if !errors.Is(err, ErrNotEnoughPoints) {
				t.Errorf("Expected ErrNotEnoughPoints, got %v", err)
			}
		})
	}
}

func TestGenerateProjectionChart(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	generator := NewChartGenerator(dir)
	p := newestFirst(10, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	name, err := generator.GenerateProjectionChart("Living Room", p)
	if err != nil {
		t.Fatalf("GenerateProjectionChart failed: %v", err)
	}
	if name != "living-room-hourly.png" {
		t.Errorf("Expected living-room-hourly.png, got %s", name)
	}
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("Chart file missing: %v", err)
	}
	if !bytes.HasPrefix(data, pngSignature) {
		t.Error("Chart file is not a PNG")
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		region string
		mode   models.Mode
		want   string
	}{
		{"Living Room", models.Daily, "living-room-daily.png"},
		{"  Kids' Room #2 ", models.Monthly, "kids-room-2-monthly.png"},
		{"!!!", models.Hourly, "region-hourly.png"},
	}
	for _, tt := range tests {
		if got := FileName(tt.region, tt.mode, "png"); got != tt.want {
			t.Errorf("FileName(%q) = %s, want %s", tt.region, got, tt.want)
		}
	}
}

func TestRenderProjectionPage(t *testing.T) {
	p := newestFirst(48, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	var buf bytes.Buffer
	if err := RenderProjectionPage(&buf, "Kitchen", p); err != nil {
		t.Fatalf("RenderProjectionPage failed: %v", err)
	}
	html := buf.String()
	for _, want := range []string{"Kitchen - Hourly", "Temperature (°C)", "Light (lux)", "Now 12:00"} {
		if !strings.Contains(html, want) {
			t.Errorf("Expected page to contain %q", want)
		}
	}

	if err := RenderProjectionPage(&buf, "Kitchen", models.Projection{}); !errors.Is(err, ErrNotEnoughPoints) {
		t.Errorf("Expected ErrNotEnoughPoints for empty projection, got %v", err)
	}
}
