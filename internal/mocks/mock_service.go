package mocks

import (
	"context"
	"fmt"
	"hash/fnv"
	"path"
	"strings"
	"time"

	"roomclimate/internal/llm"
	"roomclimate/internal/models"
	"roomclimate/internal/ranges"
	"roomclimate/internal/simulator"
)

// DefaultDays is how much simulated history each mock source returns
const DefaultDays = 60

// MockService stands in for real sensor sources and the LLM in mockup mode.
// Sources are matched to a simulated room profile by file name.
type MockService struct {
	seed int64
	days int
	now  func() time.Time
}

// NewMockService creates a new mock service
func NewMockService(seed int64, days int) *MockService {
	if days <= 0 {
		days = DefaultDays
	}
	return &MockService{seed: seed, days: days, now: time.Now}
}

// LoadSeries returns simulated readings ending at the current half hour
func (m *MockService) LoadSeries(ctx context.Context, source string) (*models.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	profile := ProfileFor(source)
	end := m.now().Truncate(simulator.Interval)
	from := end.Add(-time.Duration(m.days) * 24 * time.Hour)

	g := simulator.NewGenerator(profile, m.seed^int64(hash(source)), from)
	return models.NewSeries(g.Range(from, end)), nil
}

// Narrate returns canned care notes built from the range checks
func (m *MockService) Narrate(ctx context.Context, rooms []llm.RegionSummary) (string, error) {
	var sb strings.Builder
	for _, r := range rooms {
		fmt.Fprintf(&sb, "### %s\n", r.Name)
		advice := adviceFor(r.Check)
		if len(advice) == 0 {
			sb.WriteString("- Conditions are within range for " + strings.ToLower(r.Ranges.Label) + ".\n")
		}
		for _, a := range advice {
			sb.WriteString("- " + a + "\n")
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String()), nil
}

func adviceFor(c ranges.Check) []string {
	var out []string
	switch c.Temperature {
	case ranges.Low:
		out = append(out, "Move plants away from cold windows.")
	case ranges.High:
		out = append(out, "Shade plants or improve airflow.")
	}
	switch c.Humidity {
	case ranges.Low:
		out = append(out, "Mist leaves or group plants together.")
	case ranges.High:
		out = append(out, "Ventilate to avoid mould.")
	}
	switch c.Light {
	case ranges.Low:
		out = append(out, "Move closer to a window or add a grow light.")
	case ranges.High:
		out = append(out, "Filter direct sun with a sheer curtain.")
	}
	return out
}

// ProfileFor picks the built-in profile whose file name matches the source,
// or a stable profile derived from the source otherwise
func ProfileFor(source string) simulator.Profile {
	base := path.Base(strings.ReplaceAll(source, "\\", "/"))
	for _, p := range simulator.Profiles {
		if strings.EqualFold(p.File, base) {
			return p
		}
	}
	return simulator.Profiles[hash(source)%uint64(len(simulator.Profiles))]
}

func hash(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
