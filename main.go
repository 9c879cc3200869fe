package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"roomclimate/internal/config"
	"roomclimate/internal/logger"
	"roomclimate/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}
	logger.Configure(cfg.LogLevel, cfg.LogFormat)

	if err := run(ctx, cfg, nil); err != nil {
		stop()
		logger.Fatal("Server failed", err)
	}
}

// run serves until ctx is cancelled, then shuts down gracefully. ready, when
// set, receives the listening address once the server accepts connections.
func run(ctx context.Context, cfg *config.Config, ready func(addr net.Addr)) error {
	log := logger.WithComponent("main")

	log.Info("Starting Room Climate Dashboard", map[string]interface{}{
		"version":     config.GetVersion(),
		"port":        cfg.Port,
		"environment": cfg.Environment,
		"deployment":  cfg.DeploymentMode,
		"regions":     cfg.RegionsFile,
	})

	loadCtx, cancelLoad := context.WithTimeout(ctx, 2*time.Minute)
	srv, err := server.Bootstrap(loadCtx, cfg)
	cancelLoad()
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	defer func() {
		if err := srv.Close(); err != nil {
			log.Error("Failed to release server resources", err)
		}
	}()

	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return fmt.Errorf("failed to listen on :%s: %w", cfg.Port, err)
	}

	httpServer := &http.Server{
		Handler:      srv.SetupRoutes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // snapshots may call the LLM
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Serve(ln)
	}()
	log.Infof("Server listening on %s", ln.Addr())
	if ready != nil {
		ready(ln.Addr())
	}

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
