package reports

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"roomclimate/internal/charts"
	"roomclimate/internal/config"
	"roomclimate/internal/llm"
	"roomclimate/internal/logger"
	"roomclimate/internal/models"
	"roomclimate/internal/ranges"
	"roomclimate/internal/region"
	"roomclimate/internal/timeline"
)

// Narrator writes free-form care notes for a set of rooms
type Narrator interface {
	Narrate(ctx context.Context, rooms []llm.RegionSummary) (string, error)
}

// Builder assembles dashboard views from live regions
type Builder struct {
	ranges   *ranges.Table
	narrator Narrator
	html     *HTMLBuilder
	now      func() time.Time
	log      *logger.Logger
}

// NewBuilder creates a dashboard builder. narrator may be nil; a nil table
// uses the built-in ranges.
func NewBuilder(table *ranges.Table, narrator Narrator, html *HTMLBuilder) (*Builder, error) {
	if table == nil {
		builtin, err := ranges.Builtin()
		if err != nil {
			return nil, err
		}
		table = builtin
	}
	if html == nil {
		html = NewHTMLBuilder(nil)
	}
	return &Builder{
		ranges:   table,
		narrator: narrator,
		html:     html,
		now:      time.Now,
		log:      logger.WithComponent("reports"),
	}, nil
}

// Build captures every region's current state. Narration failures are
// logged and leave the notes empty.
func (b *Builder) Build(ctx context.Context, regions []*region.Region) (*Dashboard, error) {
	d := &Dashboard{
		GeneratedAt: b.now(),
		Version:     config.GetVersion(),
		Regions:     make([]RegionView, 0, len(regions)),
	}

	for _, r := range regions {
		view, err := b.regionView(r)
		if err != nil {
			return nil, err
		}
		d.Regions = append(d.Regions, view)
	}

	d.Markdown = SummaryMarkdown(d.Regions)
	summary, err := b.html.ConvertMarkdownToHTML(d.Markdown)
	if err != nil {
		return nil, err
	}
	d.Summary = template.HTML(summary)

	if b.narrator != nil && len(d.Regions) > 0 {
		notes, err := b.narrator.Narrate(ctx, summaries(d.Regions))
		if err != nil {
			b.log.Warn("Care notes unavailable", map[string]interface{}{"cause": err.Error()})
		} else if notes != "" {
			notesHTML, err := b.html.ConvertMarkdownToHTML(notes)
			if err != nil {
				return nil, err
			}
			d.NotesText = notes
			d.Notes = template.HTML(notesHTML)
		}
	}

	return d, nil
}

func (b *Builder) regionView(r *region.Region) (RegionView, error) {
	key := region.Key(r.Name())
	table, _ := b.ranges.Lookup(r.Category())
	result := r.LoadResult()

	view := RegionView{
		Name:          r.Name(),
		Key:           key,
		Category:      r.Category(),
		CategoryLabel: table.Label,
		Source:        result.Source,
		Fallback:      result.Fallback,
		Ranges:        table,
	}
	if view.CategoryLabel == "" {
		view.CategoryLabel = ToTitleCase(r.Category())
	}
	if result.Fallback && result.Err != nil {
		view.FallbackCause = result.Err.Error()
	}

	view.Current, view.HasData = r.ReadingAt(models.Hourly, 0)
	view.CurrentLabel = r.TimestampLabel(models.Hourly, 0)
	if view.HasData {
		view.Check = table.Check(view.Current)
	}

	for _, mode := range models.Modes {
		p := r.Projection(mode)
		mv := ModeView{
			Name:   mode.String(),
			Title:  mode.Title(),
			Length: p.Len(),
			Label:  timeline.Label(p, 0),
			Points: p,
		}
		if !p.Empty() {
			id := fmt.Sprintf("chart-%s-%s", key, mode)
			snippet, err := charts.ProjectionSnippet(id, r.Name(), p)
			if err != nil {
				return RegionView{}, fmt.Errorf("chart for %s %s: %w", r.Name(), mode, err)
			}
			mv.Chart = template.HTML(snippet.HTML)
		}
		view.Modes = append(view.Modes, mv)
	}
	return view, nil
}

// SummaryMarkdown renders the overview table shown above the region sections
func SummaryMarkdown(views []RegionView) string {
	var sb strings.Builder
	sb.WriteString("## Overview\n\n")
	if len(views) == 0 {
		sb.WriteString("No regions configured.\n")
		return sb.String()
	}
	sb.WriteString("| Room | Plants | Time | Temperature | Humidity | Light | Status |\n")
	sb.WriteString("|---|---|---|---|---|---|---|\n")
	for _, v := range views {
		name := v.Name
		if v.Fallback {
			name += " (simulated)"
		}
		if !v.HasData {
			fmt.Fprintf(&sb, "| %s | %s | %s | - | - | - | no data |\n", name, v.CategoryLabel, v.CurrentLabel)
			continue
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %.1f °C | %.1f %%RH | %.0f lux | %s |\n",
			name, v.CategoryLabel, v.CurrentLabel,
			v.Current.Temperature, v.Current.Humidity, v.Current.Light,
			statusText(v.Check))
	}
	return sb.String()
}

func statusText(c ranges.Check) string {
	var out []string
	if c.Temperature != ranges.Ok {
		out = append(out, "temperature "+string(c.Temperature))
	}
	if c.Humidity != ranges.Ok {
		out = append(out, "humidity "+string(c.Humidity))
	}
	if c.Light != ranges.Ok {
		out = append(out, "light "+string(c.Light))
	}
	if len(out) == 0 {
		return "ok"
	}
	return strings.Join(out, ", ")
}

func summaries(views []RegionView) []llm.RegionSummary {
	out := make([]llm.RegionSummary, 0, len(views))
	for _, v := range views {
		if !v.HasData {
			continue
		}
		out = append(out, llm.RegionSummary{
			Name:     v.Name,
			Category: v.Category,
			Label:    v.CurrentLabel,
			Current:  v.Current,
			Ranges:   v.Ranges,
			Check:    v.Check,
			Fallback: v.Fallback,
		})
	}
	return out
}
