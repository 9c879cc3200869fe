package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the room climate dashboard service
type Config struct {
	// Server configuration
	Port string `env:"PORT,default=8982"`

	// Data configuration
	RegionsFile  string `env:"REGIONS_FILE,default=./regions.yaml"`
	RangesFile   string `env:"RANGES_FILE"`
	Timezone     string `env:"TIMEZONE,default=Local"`
	FallbackSeed int64  `env:"FALLBACK_SEED,default=42"`
	MockupMode   bool   `env:"MOCKUP_MODE,default=false"`

	// Remote sources
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT,default=30s"`
	FetchRetries int           `env:"FETCH_RETRIES,default=3"`

	// Dashboard storage
	DeploymentMode string `env:"DEPLOYMENT_MODE,default=local"`
	ReportsDir     string `env:"REPORTS_DIR,default=./dashboards"`

	// GCP configuration (only needed for gcs mode or gs:// sources)
	GCPProjectID string `env:"GCP_PROJECT_ID"`
	GCSBucket    string `env:"GCS_BUCKET"`

	// Optional care notes in dashboards
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	OpenAIModel  string `env:"OPENAI_MODEL,default=gpt-4o-mini"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=auto"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Location resolves the timezone used to interpret naive sensor timestamps
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// NarrationEnabled reports whether dashboards should request care notes
func (c *Config) NarrationEnabled() bool {
	return c.OpenAIAPIKey != ""
}
