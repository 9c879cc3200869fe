package reports

import (
	"html/template"
	"time"

	"roomclimate/internal/models"
	"roomclimate/internal/ranges"
)

// ModeView is one timeframe of a region as shown on the dashboard
type ModeView struct {
	Name      string            `json:"mode"`
	Title     string            `json:"-"`
	Length    int               `json:"length"`
	Label     string            `json:"label"`
	Chart     template.HTML     `json:"-"`
	ChartFile string            `json:"chart_file,omitempty"`
	Points    models.Projection `json:"-"`
}

// RegionView is everything the dashboard shows for one region
type RegionView struct {
	Name          string         `json:"name"`
	Key           string         `json:"key"`
	Category      string         `json:"category"`
	CategoryLabel string         `json:"category_label"`
	Source        string         `json:"source,omitempty"`
	Fallback      bool           `json:"fallback"`
	FallbackCause string         `json:"fallback_cause,omitempty"`
	HasData       bool           `json:"has_data"`
	Current       models.Reading `json:"current"`
	CurrentLabel  string         `json:"current_label"`
	Ranges        ranges.Ranges  `json:"ranges"`
	Check         ranges.Check   `json:"check"`
	Modes         []ModeView     `json:"modes"`
}

// Dashboard is a rendered view over all regions at one instant
type Dashboard struct {
	ID          string        `json:"id,omitempty"`
	GeneratedAt time.Time     `json:"generated_at"`
	Version     string        `json:"version"`
	Regions     []RegionView  `json:"regions"`
	Markdown    string        `json:"summary_markdown"`
	NotesText   string        `json:"notes,omitempty"`
	Summary     template.HTML `json:"-"`
	Notes       template.HTML `json:"-"`
}

// Date returns the generation day
func (d *Dashboard) Date() string {
	return d.GeneratedAt.Format("2006-01-02")
}

// GeneratedAtText returns the generation time for display
func (d *Dashboard) GeneratedAtText() string {
	return d.GeneratedAt.Format("2006-01-02 15:04:05 MST")
}
