package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"roomclimate/internal/models"
	"roomclimate/internal/ranges"
)

func sampleRooms() []RegionSummary {
	r := ranges.Ranges{
		Category:    "fern",
		Label:       "Ferns",
		Temperature: ranges.Band{Min: 16, Max: 24},
		Humidity:    ranges.Band{Min: 50, Max: 80},
		Light:       ranges.Band{Min: 100, Max: 800},
	}
	current := models.Reading{
		Timestamp:   time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
		Temperature: 26.42,
		Humidity:    45,
		Light:       300,
	}
	return []RegionSummary{{
		Name:     "Bathroom",
		Category: "fern",
		Label:    "Now 12:00",
		Current:  current,
		Ranges:   r,
		Check:    r.Check(current),
	}}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(sampleRooms())

	for _, want := range []string{
		"Room: Bathroom (Now 12:00, plants: Ferns)",
		"temperature: 26.4 °C (optimal 16-24, high)",
		"humidity: 45.0 %RH (optimal 50-80, low)",
		"light: 300 lux (optimal 100-800, ok)",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected prompt to contain %q\n%s", want, prompt)
		}
	}
	if strings.Contains(prompt, "simulated") {
		t.Error("Real data should not be flagged as simulated")
	}

	rooms := sampleRooms()
	rooms[0].Fallback = true
	if !strings.Contains(BuildPrompt(rooms), "values are simulated") {
		t.Error("Expected fallback rooms to be flagged")
	}
}

func TestNarrate(t *testing.T) {
	var gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Model string `json:"model"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		gotModel = req.Model

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  ### Bathroom\n- Mist the ferns  "},"finish_reason":"stop"}],"usage":{"total_tokens":42}}`))
	}))
	defer server.Close()

	client := NewOpenAIClient("test-key", "", WithBaseURL(server.URL+"/v1"))
	notes, err := client.Narrate(context.Background(), sampleRooms())
	if err != nil {
		t.Fatalf("Narrate failed: %v", err)
	}
	if notes != "### Bathroom\n- Mist the ferns" {
		t.Errorf("Unexpected notes %q", notes)
	}
	if gotModel != defaultModel {
		t.Errorf("Expected default model %s, got %s", defaultModel, gotModel)
	}
}

func TestNarrateNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","choices":[]}`))
	}))
	defer server.Close()

	client := NewOpenAIClient("test-key", "gpt-4o-mini", WithBaseURL(server.URL))
	if _, err := client.Narrate(context.Background(), sampleRooms()); !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("Expected ErrEmptyResponse, got %v", err)
	}
}

func TestNarrateNoRooms(t *testing.T) {
	client := NewOpenAIClient("test-key", "gpt-4o-mini", WithBaseURL("http://127.0.0.1:0"))
	notes, err := client.Narrate(context.Background(), nil)
	if err != nil || notes != "" {
		t.Errorf("Expected empty notes without a request, got %q, %v", notes, err)
	}
}
