package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// RegionSpec describes one monitored location in the regions manifest
type RegionSpec struct {
	Name     string `yaml:"name"`
	Source   string `yaml:"source"`
	Category string `yaml:"category"`
}

// Manifest lists the monitored locations
type Manifest struct {
	Regions []RegionSpec `yaml:"regions"`
}

// LoadManifest reads a YAML regions manifest. Relative file sources are
// resolved against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read regions manifest %s: %w", path, err)
	}

	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("invalid regions manifest %s: %w", path, err)
	}

	base := filepath.Dir(path)
	for i := range m.Regions {
		src := m.Regions[i].Source
		if src == "" || IsRemoteSource(src) || filepath.IsAbs(src) {
			continue
		}
		m.Regions[i].Source = filepath.Join(base, src)
	}
	return m, nil
}

// ParseManifest decodes and validates manifest YAML
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	seen := make(map[string]bool, len(m.Regions))
	for i, r := range m.Regions {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return nil, fmt.Errorf("region %d has no name", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate region name %q", name)
		}
		seen[name] = true
		m.Regions[i].Name = name
	}
	return &m, nil
}

// IsRemoteSource reports whether a source is fetched over the network
func IsRemoteSource(source string) bool {
	return strings.HasPrefix(source, "http://") ||
		strings.HasPrefix(source, "https://") ||
		strings.HasPrefix(source, "gs://")
}
