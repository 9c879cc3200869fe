package charts

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"roomclimate/internal/models"
)

func TestProjectionSnippet(t *testing.T) {
	p := newestFirst(5, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	snippet, err := ProjectionSnippet("chart-kitchen-hourly", "Kitchen", p)
	if err != nil {
		t.Fatalf("ProjectionSnippet failed: %v", err)
	}
	if snippet.ID != "chart-kitchen-hourly" {
		t.Errorf("Expected ID chart-kitchen-hourly, got %s", snippet.ID)
	}
	if snippet.Title != "Kitchen - Hourly" {
		t.Errorf("Expected title 'Kitchen - Hourly', got %s", snippet.Title)
	}
	if !strings.Contains(snippet.Div, `id="chart-kitchen-hourly"`) {
		t.Errorf("Div does not reference the chart id: %s", snippet.Div)
	}
	if !strings.Contains(snippet.Script, "getElementById('chart-kitchen-hourly')") {
		t.Errorf("Script does not target the chart div: %s", snippet.Script)
	}
	if !strings.Contains(snippet.HTML, snippet.Div) || !strings.Contains(snippet.HTML, snippet.Script) {
		t.Error("HTML should combine Div and Script")
	}
}

func TestProjectionSnippetOrder(t *testing.T) {
	end := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	p := newestFirst(3, end)

	snippet, err := ProjectionSnippet("c", "Bedroom", p)
	if err != nil {
		t.Fatalf("ProjectionSnippet failed: %v", err)
	}

	start := strings.Index(snippet.Script, "var option=") + len("var option=")
	stop := strings.Index(snippet.Script, ";c.setOption")
	var option struct {
		XAxis struct {
			Data []string `json:"data"`
		} `json:"xAxis"`
		Series []struct {
			Name       string    `json:"name"`
			YAxisIndex int       `json:"yAxisIndex"`
			Data       []float64 `json:"data"`
		} `json:"series"`
	}
	if err := json.Unmarshal([]byte(snippet.Script[start:stop]), &option); err != nil {
		t.Fatalf("Option is not valid JSON: %v", err)
	}

	labels := option.XAxis.Data
	if len(labels) != 3 {
		t.Fatalf("Expected 3 labels, got %d", len(labels))
	}
	if labels[2] != "Now 12:00" {
		t.Errorf("Expected newest label last, got %v", labels)
	}
	if len(option.Series) != 3 || option.Series[2].YAxisIndex != 1 {
		t.Errorf("Expected light on the secondary axis, got %+v", option.Series)
	}
	// light grows toward the newest point in newestFirst
	light := option.Series[2].Data
	if light[0] >= light[2] {
		t.Errorf("Expected oldest light value first, got %v", light)
	}
}

func TestProjectionSnippetEmpty(t *testing.T) {
	_, err := ProjectionSnippet("c", "Bedroom", models.Projection{Mode: models.Daily})
	if !errors.Is(err, ErrNotEnoughPoints) {
		t.Errorf("Expected ErrNotEnoughPoints, got %v", err)
	}
}
