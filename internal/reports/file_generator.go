package reports

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"time"

	"roomclimate/internal/charts"
	"roomclimate/internal/logger"
)

const (
	indexFile   = "index.html"
	summaryFile = "summary.json"
	chartsDir   = "charts"
)

// FileGenerator turns a dashboard into the files of a stored snapshot
type FileGenerator struct {
	html     *HTMLBuilder
	chartGen *charts.ChartGenerator
	log      *logger.Logger
}

// GeneratedFiles contains all files generated for a snapshot, keyed by
// path relative to FolderPath
type GeneratedFiles struct {
	SnapshotID  string
	FolderPath  string
	GeneratedAt time.Time
	Files       map[string][]byte
}

// Names returns the generated file paths in a stable order
func (g *GeneratedFiles) Names() []string {
	names := make([]string, 0, len(g.Files))
	for _, name := range []string{indexFile, cssName, summaryFile} {
		if _, ok := g.Files[name]; ok {
			names = append(names, name)
		}
	}
	head := len(names)
	for name := range g.Files {
		if path.Dir(name) == chartsDir {
			names = append(names, name)
		}
	}
	sort.Strings(names[head:])
	return names
}

// NewFileGenerator creates a new file generator
func NewFileGenerator(html *HTMLBuilder) *FileGenerator {
	return &FileGenerator{
		html:     html,
		chartGen: charts.NewChartGenerator(chartsDir),
		log:      logger.WithComponent("reports"),
	}
}

// GenerateAllFiles renders static PNG charts, the HTML page, the stylesheet
// and a JSON summary for d. Chart file links are recorded on d.
func (fg *FileGenerator) GenerateAllFiles(d *Dashboard, folderPath string) (*GeneratedFiles, error) {
	files := &GeneratedFiles{
		SnapshotID:  d.ID,
		FolderPath:  folderPath,
		GeneratedAt: d.GeneratedAt,
		Files:       make(map[string][]byte),
	}

	for i := range d.Regions {
		rv := &d.Regions[i]
		for j := range rv.Modes {
			mv := &rv.Modes[j]
			var buf bytes.Buffer
			err := fg.chartGen.RenderProjectionPNG(&buf, rv.Name, mv.Points)
			if errors.Is(err, charts.ErrNotEnoughPoints) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("chart for %s %s: %w", rv.Name, mv.Name, err)
			}
			name := path.Join(chartsDir, charts.FileName(rv.Key, mv.Points.Mode, "png"))
			files.Files[name] = buf.Bytes()
			mv.ChartFile = name
		}
	}

	css, err := fg.html.LoadStaticCSS()
	if err != nil {
		return nil, err
	}
	files.Files[cssName] = []byte(css)

	page, err := fg.html.BuildDashboardHTML(d, cssName, false)
	if err != nil {
		return nil, err
	}
	files.Files[indexFile] = []byte(page)

	summary, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode summary: %w", err)
	}
	files.Files[summaryFile] = summary

	fg.log.Debug("Generated snapshot files", map[string]interface{}{
		"snapshot": d.ID,
		"files":    len(files.Files),
	})
	return files, nil
}
