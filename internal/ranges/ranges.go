// Package ranges maps plant categories to their optimal climate ranges.
package ranges

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"roomclimate/internal/models"
)

// DefaultCategory is used for unknown or empty category keys
const DefaultCategory = "default"

//go:embed ranges.yaml
var builtin []byte

// Band is an inclusive [Min, Max] interval
type Band struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Status classifies a value against a band
type Status string

const (
	Low  Status = "low"
	Ok   Status = "ok"
	High Status = "high"
)

// Classify reports where v falls relative to the band
func (b Band) Classify(v float64) Status {
	switch {
	case v < b.Min:
		return Low
	case v > b.Max:
		return High
	default:
		return Ok
	}
}

// Ranges holds the optimal bands for one category
type Ranges struct {
	Category    string `yaml:"-" json:"category"`
	Label       string `yaml:"label" json:"label"`
	Temperature Band   `yaml:"temperature" json:"temperature"`
	Humidity    Band   `yaml:"humidity" json:"humidity"`
	Light       Band   `yaml:"light" json:"light"`
}

// Check is the per-metric classification of one reading
type Check struct {
	Temperature Status `json:"temperature"`
	Humidity    Status `json:"humidity"`
	Light       Status `json:"light"`
}

// AllOk reports whether every metric is within range
func (c Check) AllOk() bool {
	return c.Temperature == Ok && c.Humidity == Ok && c.Light == Ok
}

// Check classifies a reading against these ranges
func (r Ranges) Check(reading models.Reading) Check {
	return Check{
		Temperature: r.Temperature.Classify(reading.Temperature),
		Humidity:    r.Humidity.Classify(reading.Humidity),
		Light:       r.Light.Classify(reading.Light),
	}
}

// Table is an immutable category lookup loaded once at startup
type Table struct {
	entries map[string]Ranges
}

// Builtin returns the table compiled into the binary
func Builtin() (*Table, error) {
	table, err := Parse(builtin)
	if err != nil {
		return nil, err
	}
	if _, ok := table.entries[DefaultCategory]; !ok {
		return nil, fmt.Errorf("built-in ranges lack a %q entry", DefaultCategory)
	}
	return table, nil
}

// Load reads the built-in table and, when path is non-empty, overlays the
// categories defined in that file.
func Load(path string) (*Table, error) {
	table, err := Builtin()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return table, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ranges file %s: %w", path, err)
	}
	override, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid ranges file %s: %w", path, err)
	}
	for k, v := range override.entries {
		table.entries[k] = v
	}
	return table, nil
}

// Parse decodes a category table from YAML
func Parse(data []byte) (*Table, error) {
	raw := map[string]Ranges{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	entries := make(map[string]Ranges, len(raw))
	for key, r := range raw {
		k := normalize(key)
		if k == "" {
			return nil, fmt.Errorf("empty category key")
		}
		for name, b := range map[string]Band{"temperature": r.Temperature, "humidity": r.Humidity, "light": r.Light} {
			if b.Min > b.Max {
				return nil, fmt.Errorf("category %s: %s min %.1f exceeds max %.1f", k, name, b.Min, b.Max)
			}
		}
		r.Category = k
		entries[k] = r
	}
	return &Table{entries: entries}, nil
}

// Lookup returns the ranges for a category, falling back to the default
// entry. The second result is false when the fallback was used.
func (t *Table) Lookup(category string) (Ranges, bool) {
	if r, ok := t.entries[normalize(category)]; ok {
		return r, true
	}
	return t.entries[DefaultCategory], false
}

// Categories returns the known category keys in sorted order
func (t *Table) Categories() []string {
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
