// Command generate-data creates or extends simulated room sensor CSV files.
package main

import (
	"flag"
	"os"
	"path/filepath"
	"time"

	"roomclimate/internal/fetchers"
	"roomclimate/internal/logger"
	"roomclimate/internal/simulator"
)

func main() {
	var (
		dir     = flag.String("dir", "sensor_data", "output directory for CSV files")
		from    = flag.String("from", "2026-01-01T00:00:00", "first timestamp for new files")
		to      = flag.String("to", "", "last timestamp to generate (default: now)")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "random seed")
		room    = flag.String("room", "", "only generate this room profile")
		tz      = flag.String("timezone", "Local", "timezone for naive timestamps")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	log := logger.WithComponent("generate-data")
	if *verbose {
		log.SetLevel(logger.DEBUG)
	}

	loc := time.Local
	if *tz != "Local" {
		l, err := time.LoadLocation(*tz)
		if err != nil {
			log.Fatal("Invalid timezone", err, map[string]interface{}{"timezone": *tz})
		}
		loc = l
	}

	origin, err := fetchers.ParseTimestamp(*from, loc)
	if err != nil {
		log.Fatal("Invalid -from timestamp", err)
	}
	end := time.Now().In(loc).Truncate(simulator.Interval)
	if *to != "" {
		if end, err = fetchers.ParseTimestamp(*to, loc); err != nil {
			log.Fatal("Invalid -to timestamp", err)
		}
	}

	if err := os.MkdirAll(*dir, 0755); err != nil {
		log.Fatal("Failed to create output directory", err, map[string]interface{}{"dir": *dir})
	}

	log.Info("Generating sensor data", map[string]interface{}{
		"from": origin.Format(simulator.TimestampLayout),
		"to":   end.Format(simulator.TimestampLayout),
		"dir":  *dir,
	})

	for i, p := range simulator.Profiles {
		if *room != "" && *room != p.Name {
			continue
		}
		path := filepath.Join(*dir, p.File)
		g := simulator.NewGenerator(p, *seed+int64(i), origin)

		n, err := simulator.ExtendFile(path, g, origin, end)
		if err != nil {
			log.Error("Failed to extend file", err, map[string]interface{}{"room": p.Name, "path": path})
			continue
		}
		log.Info("Room data extended", map[string]interface{}{
			"room": p.Name,
			"path": path,
			"rows": n,
		})
	}
}
