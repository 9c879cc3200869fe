package server

import (
	"context"
	"errors"

	"roomclimate/internal/config"
	"roomclimate/internal/fetchers"
	"roomclimate/internal/llm"
	"roomclimate/internal/logger"
	"roomclimate/internal/metrics"
	"roomclimate/internal/mocks"
	"roomclimate/internal/ranges"
	"roomclimate/internal/region"
	"roomclimate/internal/reports"
	"roomclimate/internal/storage"
)

// Bootstrap loads every region named in the manifest and wires the
// dashboard, storage and metrics around them. Regions whose sources fail
// are served from fallback data, so only configuration problems fail here.
func Bootstrap(ctx context.Context, cfg *config.Config) (*Server, error) {
	log := logger.WithComponent("server")

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	table, err := ranges.Load(cfg.RangesFile)
	if err != nil {
		return nil, err
	}

	manifest, err := config.LoadManifest(cfg.RegionsFile)
	if err != nil {
		return nil, err
	}

	m := metrics.NewMetrics()
	fetcher := fetchers.NewDataFetcher(
		fetchers.WithTimeout(cfg.FetchTimeout),
		fetchers.WithRetries(cfg.FetchRetries),
		fetchers.WithLocation(loc),
	)

	var loader region.Loader = fetcher
	var mock *mocks.MockService
	if cfg.MockupMode {
		mock = mocks.NewMockService(cfg.FallbackSeed, mocks.DefaultDays)
		loader = mock
		log.Warn("Mockup mode enabled, serving simulated sensor data")
	}

	regions, err := region.LoadAll(ctx, loader, manifest.Regions, region.Options{
		Seed:    cfg.FallbackSeed,
		Metrics: m,
	})
	if err != nil {
		fetcher.Close()
		return nil, err
	}

	store, err := storage.NewStorageClient(ctx, storage.DeploymentMode(cfg.DeploymentMode), cfg)
	if err != nil {
		fetcher.Close()
		return nil, err
	}

	var narrator reports.Narrator
	switch {
	case mock != nil:
		narrator = mock
	case cfg.NarrationEnabled():
		narrator = llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}
	builder, err := reports.NewBuilder(table, narrator, nil)
	if err != nil {
		fetcher.Close()
		store.Close()
		return nil, err
	}
	rs := reports.NewReportService(builder, reports.NewStorageOrchestrator(store), m)

	s := NewServer(cfg, regions, table, rs, m)
	s.closers = []func() error{fetcher.Close, store.Close}

	log.Info("Regions loaded", map[string]interface{}{
		"regions":    regions.Len(),
		"deployment": cfg.DeploymentMode,
		"narration":  narrator != nil,
		"mockup":     cfg.MockupMode,
	})
	return s, nil
}

// Close releases fetcher and storage resources
func (s *Server) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
