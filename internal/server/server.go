package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"roomclimate/internal/charts"
	"roomclimate/internal/config"
	"roomclimate/internal/logger"
	"roomclimate/internal/metrics"
	"roomclimate/internal/ranges"
	"roomclimate/internal/region"
	"roomclimate/internal/reports"
)

// Server represents the main application server
type Server struct {
	Config  *config.Config
	Regions *region.Registry
	Ranges  *ranges.Table
	Reports *reports.ReportService
	Metrics *metrics.Metrics

	chartGen      *charts.ChartGenerator
	snapshotMutex sync.Mutex
	closers       []func() error
	log           *logger.Logger
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, regions *region.Registry, table *ranges.Table, rs *reports.ReportService, m *metrics.Metrics) *Server {
	return &Server{
		Config:   cfg,
		Regions:  regions,
		Ranges:   table,
		Reports:  rs,
		Metrics:  m,
		chartGen: charts.NewChartGenerator(""),
		log:      logger.WithComponent("server"),
	}
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() http.Handler {
	router := mux.NewRouter()
	router.StrictSlash(true)

	s.handle(router, "/health", s.HandleHealth, http.MethodGet)
	router.Handle("/metrics", s.Metrics.Handler()).Methods(http.MethodGet)

	s.handle(router, "/api/regions", s.HandleListRegions, http.MethodGet)
	s.handle(router, "/api/regions/{region}", s.HandleGetRegion, http.MethodGet)
	s.handle(router, "/api/regions/{region}/projection", s.HandleProjection, http.MethodGet)
	s.handle(router, "/api/regions/{region}/reading", s.HandleReading, http.MethodGet)
	s.handle(router, "/api/regions/{region}/mode", s.HandleSetMode, http.MethodPut)
	s.handle(router, "/api/regions/{region}/chart.png", s.HandleChartPNG, http.MethodGet)
	s.handle(router, "/api/regions/{region}/chart.html", s.HandleChartPage, http.MethodGet)
	s.handle(router, "/api/ranges", s.HandleListRanges, http.MethodGet)
	s.handle(router, "/api/ranges/{category}", s.HandleGetRanges, http.MethodGet)

	s.handle(router, "/dashboards", s.HandleSnapshot, http.MethodPost)
	s.handle(router, "/dashboards", s.HandleListSnapshots, http.MethodGet)
	s.handle(router, "/dashboards/{path:.+}", s.HandleSnapshotFile, http.MethodGet)
	s.handle(router, "/static/styles.css", s.HandleStyles, http.MethodGet)
	s.handle(router, "/", s.HandleRoot, http.MethodGet)

	router.Use(requestID)

	var h http.Handler = router
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{s.log}),
		handlers.PrintRecoveryStack(true),
	)(h)
	h = handlers.LoggingHandler(accessLog{s.log}, h)
	return handlers.ProxyHeaders(h)
}

// handle registers fn with request metrics labelled by the route template
func (s *Server) handle(r *mux.Router, path string, fn http.HandlerFunc, methods ...string) {
	r.Handle(path, s.Metrics.WrapHandler(path, fn)).Methods(methods...)
}
