// Command local-runner renders one dashboard snapshot to disk without
// starting the HTTP server.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"roomclimate/internal/charts"
	"roomclimate/internal/config"
	"roomclimate/internal/logger"
	"roomclimate/internal/models"
	"roomclimate/internal/server"
)

func main() {
	var (
		out        = flag.String("out", "dashboards", "output directory")
		regions    = flag.String("regions", "", "regions manifest (default: REGIONS_FILE)")
		withCharts = flag.Bool("charts", true, "also write per-region PNG and interactive chart pages under <out>/latest")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	log := logger.WithComponent("local-runner")
	if *verbose {
		logger.GetGlobalLogger().SetLevel(logger.DEBUG)
		log.SetLevel(logger.DEBUG)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal("Failed to load configuration", err)
	}
	cfg.DeploymentMode = "local"
	cfg.ReportsDir = *out
	if *regions != "" {
		cfg.RegionsFile = *regions
	}

	start := time.Now()
	srv, err := server.Bootstrap(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to load regions", err)
	}
	defer srv.Close()

	snap, err := srv.Reports.Snapshot(ctx, srv.Regions.List())
	if err != nil {
		log.Fatal("Snapshot failed", err)
	}
	log.Info("Dashboard written", map[string]interface{}{
		"path":    filepath.Join(*out, filepath.FromSlash(snap.FolderPath), "index.html"),
		"files":   len(snap.Files),
		"elapsed": time.Since(start).Round(time.Millisecond).String(),
	})

	if !*withCharts {
		return
	}

	latest := filepath.Join(*out, "latest")
	chartGen := charts.NewChartGenerator(latest)
	for _, reg := range srv.Regions.List() {
		for _, mode := range models.Modes {
			p := reg.Projection(mode)
			if p.Len() < 2 {
				log.Debug("Skipping chart", map[string]interface{}{"region": reg.Name(), "mode": mode.String(), "points": p.Len()})
				continue
			}
			name, err := chartGen.GenerateProjectionChart(reg.Name(), p)
			if err != nil {
				log.Error("Chart failed", err, map[string]interface{}{"region": reg.Name(), "mode": mode.String()})
				continue
			}
			if err := writePage(latest, reg.Name(), p); err != nil {
				log.Error("Chart page failed", err, map[string]interface{}{"region": reg.Name(), "mode": mode.String()})
				continue
			}
			log.Debugf("Wrote %s", filepath.Join(latest, name))
		}
	}
	log.Infof("Charts written to %s", latest)
}

func writePage(dir, region string, p models.Projection) error {
	f, err := os.Create(filepath.Join(dir, charts.FileName(region, p.Mode, "html")))
	if err != nil {
		return err
	}
	defer f.Close()
	return charts.RenderProjectionPage(f, region, p)
}
