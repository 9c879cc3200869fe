package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		expectError bool
		validate    func(*testing.T, *Config)
	}{
		{
			name:        "defaults",
			envVars:     map[string]string{},
			expectError: false,
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Port != "8982" {
					t.Errorf("Expected default Port to be '8982', got '%s'", cfg.Port)
				}
				if cfg.RegionsFile != "./regions.yaml" {
					t.Errorf("Expected default RegionsFile './regions.yaml', got '%s'", cfg.RegionsFile)
				}
				if cfg.Timezone != "Local" {
					t.Errorf("Expected default Timezone 'Local', got '%s'", cfg.Timezone)
				}
				if cfg.FallbackSeed != 42 {
					t.Errorf("Expected default FallbackSeed 42, got %d", cfg.FallbackSeed)
				}
				if cfg.FetchTimeout != 30*time.Second {
					t.Errorf("Expected default FetchTimeout 30s, got %v", cfg.FetchTimeout)
				}
				if cfg.FetchRetries != 3 {
					t.Errorf("Expected default FetchRetries 3, got %d", cfg.FetchRetries)
				}
				if cfg.DeploymentMode != "local" {
					t.Errorf("Expected default DeploymentMode 'local', got '%s'", cfg.DeploymentMode)
				}
				if cfg.ReportsDir != "./dashboards" {
					t.Errorf("Expected default ReportsDir './dashboards', got '%s'", cfg.ReportsDir)
				}
				if cfg.OpenAIModel != "gpt-4o-mini" {
					t.Errorf("Expected default OpenAIModel 'gpt-4o-mini', got '%s'", cfg.OpenAIModel)
				}
				if cfg.NarrationEnabled() {
					t.Error("Expected narration to be disabled without an API key")
				}
				if cfg.MockupMode {
					t.Error("Expected mockup mode to be off by default")
				}
				if cfg.LogFormat != "auto" {
					t.Errorf("Expected default LogFormat 'auto', got '%s'", cfg.LogFormat)
				}
			},
		},
		{
			name: "custom configuration values",
			envVars: map[string]string{
				"PORT":            "9000",
				"REGIONS_FILE":    "/etc/roomclimate/regions.yaml",
				"RANGES_FILE":     "/etc/roomclimate/ranges.yaml",
				"TIMEZONE":        "UTC",
				"FALLBACK_SEED":   "7",
				"FETCH_TIMEOUT":   "5s",
				"FETCH_RETRIES":   "1",
				"DEPLOYMENT_MODE": "gcs",
				"GCS_BUCKET":      "room-dashboards",
				"OPENAI_API_KEY":  "test-key",
				"LOG_LEVEL":       "debug",
				"LOG_FORMAT":      "json",
				"MOCKUP_MODE":     "true",
			},
			expectError: false,
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Port != "9000" {
					t.Errorf("Expected Port '9000', got '%s'", cfg.Port)
				}
				if cfg.RangesFile != "/etc/roomclimate/ranges.yaml" {
					t.Errorf("Unexpected RangesFile '%s'", cfg.RangesFile)
				}
				if cfg.FallbackSeed != 7 {
					t.Errorf("Expected FallbackSeed 7, got %d", cfg.FallbackSeed)
				}
				if cfg.FetchTimeout != 5*time.Second {
					t.Errorf("Expected FetchTimeout 5s, got %v", cfg.FetchTimeout)
				}
				if cfg.DeploymentMode != "gcs" || cfg.GCSBucket != "room-dashboards" {
					t.Errorf("Unexpected storage config: %s %s", cfg.DeploymentMode, cfg.GCSBucket)
				}
				if !cfg.MockupMode {
					t.Error("Expected mockup mode to be enabled")
				}
				if !cfg.NarrationEnabled() {
					t.Error("Expected narration to be enabled with an API key")
				}
				loc, err := cfg.Location()
				if err != nil || loc != time.UTC {
					t.Errorf("Expected UTC location, got %v (%v)", loc, err)
				}
			},
		},
		{
			name: "invalid timezone",
			envVars: map[string]string{
				"TIMEZONE": "Mars/Olympus_Mons",
			},
			expectError: true,
		},
		{
			name: "invalid seed",
			envVars: map[string]string{
				"FALLBACK_SEED": "not-a-number",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			cfg, err := Load(context.Background())

			if tt.expectError && err == nil {
				t.Errorf("Expected error but got none")
				return
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error but got: %v", err)
				return
			}
			if !tt.expectError && tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestLocationLocal(t *testing.T) {
	cfg := &Config{Timezone: "Local"}
	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if loc != time.Local {
		t.Errorf("Expected time.Local, got %v", loc)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "regions.yaml")
	content := `regions:
  - name: Living Room
    source: data/living_room.csv
    category: monstera
  - name: Kitchen
    source: https://example.com/kitchen.csv
    category: basil
  - name: Bedroom
    source: /abs/bedroom.csv
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write manifest: %v", err)
	}

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if len(m.Regions) != 3 {
		t.Fatalf("Expected 3 regions, got %d", len(m.Regions))
	}
	if want := filepath.Join(dir, "data", "living_room.csv"); m.Regions[0].Source != want {
		t.Errorf("Expected relative source resolved to %s, got %s", want, m.Regions[0].Source)
	}
	if m.Regions[1].Source != "https://example.com/kitchen.csv" {
		t.Errorf("Remote source should be untouched, got %s", m.Regions[1].Source)
	}
	if m.Regions[2].Source != "/abs/bedroom.csv" {
		t.Errorf("Absolute source should be untouched, got %s", m.Regions[2].Source)
	}
	if m.Regions[0].Category != "monstera" {
		t.Errorf("Expected category monstera, got %s", m.Regions[0].Category)
	}
}

func TestParseManifestValidation(t *testing.T) {
	cases := map[string]string{
		"missing name":   "regions:\n  - source: a.csv\n",
		"duplicate name": "regions:\n  - name: A\n  - name: A\n",
		"bad yaml":       "regions: [",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseManifest([]byte(content)); err == nil {
				t.Errorf("Expected error for %s", name)
			}
		})
	}
}

func TestLoadManifestMissingFile(t *testing.T) {
	if _, err := LoadManifest(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing manifest")
	}
}

func TestIsRemoteSource(t *testing.T) {
	remote := []string{"http://x/a.csv", "https://x/a.csv", "gs://bucket/a.csv"}
	local := []string{"a.csv", "/data/a.csv", "./gs/a.csv"}
	for _, s := range remote {
		if !IsRemoteSource(s) {
			t.Errorf("Expected %s to be remote", s)
		}
	}
	for _, s := range local {
		if IsRemoteSource(s) {
			t.Errorf("Expected %s to be local", s)
		}
	}
}

// clearEnv unsets every variable Config reads; t.Setenv restores them afterwards
func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"PORT", "REGIONS_FILE", "RANGES_FILE", "TIMEZONE", "FALLBACK_SEED", "MOCKUP_MODE",
		"FETCH_TIMEOUT", "FETCH_RETRIES", "DEPLOYMENT_MODE", "REPORTS_DIR",
		"GCP_PROJECT_ID", "GCS_BUCKET", "OPENAI_API_KEY", "OPENAI_MODEL",
		"ENVIRONMENT", "LOG_LEVEL", "LOG_FORMAT",
	}
	for _, env := range envVars {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
}
