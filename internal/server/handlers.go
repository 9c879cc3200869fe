package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"roomclimate/internal/charts"
	"roomclimate/internal/config"
	"roomclimate/internal/models"
	"roomclimate/internal/region"
	"roomclimate/internal/storage"
	"roomclimate/internal/timeline"
)

// RegionInfo is the list view of one region
type RegionInfo struct {
	Name          string         `json:"name"`
	Key           string         `json:"key"`
	Category      string         `json:"category"`
	Mode          models.Mode    `json:"mode"`
	Fallback      bool           `json:"fallback"`
	FallbackCause string         `json:"fallback_cause,omitempty"`
	Source        string         `json:"source,omitempty"`
	Readings      int            `json:"readings"`
	LoadedAt      time.Time      `json:"loaded_at"`
	Lengths       map[string]int `json:"lengths"`
}

// PointView is one projection entry with its display label
type PointView struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	models.Reading
}

// ReadingView answers a single slider lookup
type ReadingView struct {
	Region   string          `json:"region"`
	Mode     models.Mode     `json:"mode"`
	Index    int             `json:"index"`
	MaxIndex int             `json:"max_index"`
	Position float64         `json:"position"`
	Label    string          `json:"label"`
	HasData  bool            `json:"has_data"`
	Reading  *models.Reading `json:"reading"`
}

func regionInfo(r *region.Region) RegionInfo {
	result := r.LoadResult()
	info := RegionInfo{
		Name:     r.Name(),
		Key:      region.Key(r.Name()),
		Category: r.Category(),
		Mode:     r.Mode(),
		Fallback: result.Fallback,
		Source:   result.Source,
		Readings: result.Readings,
		LoadedAt: result.LoadedAt,
		Lengths:  make(map[string]int, len(models.Modes)),
	}
	if result.Fallback && result.Err != nil {
		info.FallbackCause = result.Err.Error()
	}
	for _, mode := range models.Modes {
		info.Lengths[mode.String()] = r.ProjectionLength(mode)
	}
	return info
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	fallbacks := 0
	for _, reg := range s.Regions.List() {
		if reg.UsingFallback() {
			fallbacks++
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"version":   config.GetVersion(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"regions":   s.Regions.Len(),
		"fallback":  fallbacks,
	})
}

// HandleListRegions lists every region with its load outcome
func (s *Server) HandleListRegions(w http.ResponseWriter, r *http.Request) {
	list := s.Regions.List()
	out := make([]RegionInfo, 0, len(list))
	for _, reg := range list {
		out = append(out, regionInfo(reg))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"regions": out,
		"count":   len(out),
	})
}

// HandleGetRegion returns one region
func (s *Server) HandleGetRegion(w http.ResponseWriter, r *http.Request) {
	reg, err := s.regionFromPath(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, regionInfo(reg))
}

// HandleProjection returns every point of a projection, newest first
func (s *Server) HandleProjection(w http.ResponseWriter, r *http.Request) {
	reg, err := s.regionFromPath(r)
	if err != nil {
		writeError(w, err)
		return
	}
	mode, err := modeParam(r, reg)
	if err != nil {
		writeError(w, err)
		return
	}

	p := reg.Projection(mode)
	points := make([]PointView, p.Len())
	for i, pt := range p.Points {
		points[i] = PointView{Index: i, Label: timeline.Label(p, i), Reading: pt}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"region":    reg.Name(),
		"mode":      mode,
		"length":    p.Len(),
		"max_index": p.MaxIndex(),
		"points":    points,
	})
}

// HandleReading resolves a slider index or position to one clamped reading
func (s *Server) HandleReading(w http.ResponseWriter, r *http.Request) {
	reg, err := s.regionFromPath(r)
	if err != nil {
		writeError(w, err)
		return
	}
	mode, err := modeParam(r, reg)
	if err != nil {
		writeError(w, err)
		return
	}
	requested, err := indexParam(r, reg, mode)
	if err != nil {
		writeError(w, err)
		return
	}

	p := reg.Projection(mode)
	idx := p.Clamp(requested)
	view := ReadingView{
		Region:   reg.Name(),
		Mode:     mode,
		Index:    idx,
		MaxIndex: p.MaxIndex(),
		Position: timeline.SliderPosition(idx, p.MaxIndex()),
		Label:    timeline.Label(p, idx),
	}
	if reading, ok := p.At(idx); ok {
		view.HasData = true
		view.Reading = &reading
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleSetMode switches a region's active mode
func (s *Server) HandleSetMode(w http.ResponseWriter, r *http.Request) {
	reg, err := s.regionFromPath(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body struct {
		Mode *models.Mode `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if !errors.Is(err, models.ErrInvalidMode) {
			err = fmt.Errorf("%w: %v", errBadRequest, err)
		}
		writeError(w, err)
		return
	}
	if body.Mode == nil {
		writeError(w, fmt.Errorf("%w: mode is required", errBadRequest))
		return
	}
	if err := reg.SetMode(*body.Mode); err != nil {
		writeError(w, err)
		return
	}

	s.log.Info("Mode changed", map[string]interface{}{
		"region": reg.Name(),
		"mode":   body.Mode.String(),
	})
	writeJSON(w, http.StatusOK, regionInfo(reg))
}

// HandleChartPNG renders a static chart of one projection
func (s *Server) HandleChartPNG(w http.ResponseWriter, r *http.Request) {
	reg, err := s.regionFromPath(r)
	if err != nil {
		writeError(w, err)
		return
	}
	mode, err := modeParam(r, reg)
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := s.chartGen.RenderProjectionPNG(&buf, reg.Name(), reg.Projection(mode)); err != nil {
		if errors.Is(err, charts.ErrNotEnoughPoints) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

// HandleChartPage renders an interactive chart page of one projection
func (s *Server) HandleChartPage(w http.ResponseWriter, r *http.Request) {
	reg, err := s.regionFromPath(r)
	if err != nil {
		writeError(w, err)
		return
	}
	mode, err := modeParam(r, reg)
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := charts.RenderProjectionPage(&buf, reg.Name(), reg.Projection(mode)); err != nil {
		if errors.Is(err, charts.ErrNotEnoughPoints) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// HandleListRanges lists the known plant categories
func (s *Server) HandleListRanges(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"categories": s.Ranges.Categories(),
	})
}

// HandleGetRanges looks up optimal ranges. Unknown categories get the
// default entry with "matched": false.
func (s *Server) HandleGetRanges(w http.ResponseWriter, r *http.Request) {
	rng, matched := s.Ranges.Lookup(mux.Vars(r)["category"])
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"matched": matched,
		"ranges":  rng,
	})
}

// HandleSnapshot renders and stores a dashboard snapshot
func (s *Server) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	if !s.snapshotMutex.TryLock() {
		s.log.Warn("Snapshot already in progress, rejecting new request")
		writeJSON(w, http.StatusConflict, map[string]string{
			"error":  "Snapshot already in progress",
			"status": "conflict",
		})
		return
	}
	defer s.snapshotMutex.Unlock()

	snap, err := s.Reports.Snapshot(r.Context(), s.Regions.List())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

// HandleListSnapshots lists stored snapshot folders, newest first
func (s *Server) HandleListSnapshots(w http.ResponseWriter, r *http.Request) {
	folders, err := s.Reports.ListSnapshots(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"snapshots": folders,
		"count":     len(folders),
	})
}

// HandleSnapshotFile serves a stored snapshot file
func (s *Server) HandleSnapshotFile(w http.ResponseWriter, r *http.Request) {
	filePath := mux.Vars(r)["path"]
	data, err := s.Reports.SnapshotFile(r.Context(), filePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		s.log.Error("Failed to read snapshot file", err, map[string]interface{}{"path": filePath})
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", storage.GetContentType(filePath))
	w.Write(data)
}

// HandleStyles serves the dashboard stylesheet
func (s *Server) HandleStyles(w http.ResponseWriter, r *http.Request) {
	css, err := s.Reports.StaticCSS()
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/css")
	w.Write([]byte(css))
}

// HandleRoot serves the live dashboard
func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	page, err := s.Reports.RenderLive(r.Context(), s.Regions.List(), "/static/styles.css")
	if err != nil {
		s.log.Error("Failed to render dashboard", err)
		http.Error(w, "Failed to render dashboard", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(page))
}
