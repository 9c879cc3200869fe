package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"roomclimate/internal/logger"
	"roomclimate/internal/metrics"
	"roomclimate/internal/region"
	"roomclimate/internal/storage"
)

// Snapshot describes a stored dashboard
type Snapshot struct {
	ID          string    `json:"id"`
	FolderPath  string    `json:"folder"`
	GeneratedAt time.Time `json:"generated_at"`
	Files       []string  `json:"files"`
}

// ReportService orchestrates live and stored dashboard rendering
type ReportService struct {
	builder     *Builder
	htmlBuilder *HTMLBuilder
	files       *FileGenerator
	store       *StorageOrchestrator
	metrics     *metrics.Metrics
	log         *logger.Logger
}

// NewReportService creates a new report service. store may be nil when
// snapshots are not needed.
func NewReportService(builder *Builder, store *StorageOrchestrator, m *metrics.Metrics) *ReportService {
	return &ReportService{
		builder:     builder,
		htmlBuilder: builder.html,
		files:       NewFileGenerator(builder.html),
		store:       store,
		metrics:     m,
		log:         logger.WithComponent("reports"),
	}
}

// RenderLive renders the interactive dashboard page served at the root
func (rs *ReportService) RenderLive(ctx context.Context, regions []*region.Region, cssPath string) (string, error) {
	d, err := rs.builder.Build(ctx, regions)
	if err != nil {
		return "", fmt.Errorf("failed to build dashboard: %w", err)
	}
	return rs.htmlBuilder.BuildDashboardHTML(d, cssPath, true)
}

// GenerateFiles builds a dashboard and renders every snapshot file without
// storing anything
func (rs *ReportService) GenerateFiles(ctx context.Context, regions []*region.Region) (*GeneratedFiles, error) {
	d, err := rs.builder.Build(ctx, regions)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}
	d.ID = uuid.NewString()
	return rs.files.GenerateAllFiles(d, storage.GenerateDashboardFolderPath(d.GeneratedAt))
}

// Snapshot renders and stores a dashboard
func (rs *ReportService) Snapshot(ctx context.Context, regions []*region.Region) (*Snapshot, error) {
	snap, err := rs.snapshot(ctx, regions)
	rs.metrics.SnapshotRendered(err)
	if err != nil {
		rs.log.Error("Snapshot failed", err)
		return nil, err
	}
	return snap, nil
}

func (rs *ReportService) snapshot(ctx context.Context, regions []*region.Region) (*Snapshot, error) {
	if rs.store == nil {
		return nil, fmt.Errorf("snapshot storage is not configured")
	}

	start := time.Now()
	files, err := rs.GenerateFiles(ctx, regions)
	if err != nil {
		return nil, err
	}
	stored, err := rs.store.StoreAllFiles(ctx, files)
	if err != nil {
		return nil, err
	}

	rs.log.Info("Dashboard snapshot completed", map[string]interface{}{
		"snapshot": files.SnapshotID,
		"regions":  len(regions),
		"elapsed":  time.Since(start).String(),
	})
	return &Snapshot{
		ID:          files.SnapshotID,
		FolderPath:  files.FolderPath,
		GeneratedAt: files.GeneratedAt,
		Files:       stored,
	}, nil
}

// ListSnapshots returns stored snapshot folders, newest first
func (rs *ReportService) ListSnapshots(ctx context.Context) ([]string, error) {
	if rs.store == nil {
		return nil, nil
	}
	return rs.store.ListSnapshots(ctx)
}

// SnapshotFile returns one stored snapshot file
func (rs *ReportService) SnapshotFile(ctx context.Context, filePath string) ([]byte, error) {
	if rs.store == nil {
		return nil, storage.ErrNotFound
	}
	return rs.store.GetFile(ctx, filePath)
}

// StaticCSS returns the dashboard stylesheet
func (rs *ReportService) StaticCSS() (string, error) {
	return rs.htmlBuilder.LoadStaticCSS()
}
