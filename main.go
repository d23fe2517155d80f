package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mranlett/ViLM/internal/handlers"
	"github.com/mranlett/ViLM/internal/library"
	"github.com/mranlett/ViLM/internal/logging"
	"github.com/mranlett/ViLM/internal/middleware"
	"github.com/mranlett/ViLM/internal/startup"
)

func main() {
	startTime := time.Now()

	config, err := startup.LoadConfig()
	if err != nil {
		logging.Fatal("Configuration error: %v", err)
	}

	startup.LogFFmpegCheck()

	catalogStart := time.Now()
	lib, err := library.Open(context.Background(), library.Config{
		Root:      config.LibraryDir,
		Thumbnail: config.Thumbnail,
		Sheet:     config.Sheet,
	})
	if err != nil {
		logging.Fatal("Failed to open library: %v", err)
	}
	defer lib.Close()
	startup.LogCatalogInit(time.Since(catalogStart))

	// Initial scan and artifact backfill run in the background so the
	// API is available immediately.
	if config.ScanOnStart {
		go func() {
			if _, err := lib.Scan(context.Background()); err != nil {
				logging.Error("Initial scan failed: %v", err)
				return
			}
			if _, err := lib.GenerateArtifacts(context.Background()); err != nil {
				logging.Error("Initial artifact run failed: %v", err)
			}
		}()
	}

	h := handlers.New(lib)
	router := handlers.NewRouter(h)

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler := middleware.Logger(loggingConfig)(router)
	handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)

	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:        ":" + config.MetricsPort,
			Handler:     metricsMux,
			ReadTimeout: 15 * time.Second,
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != http.ErrServerClosed {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	go handleShutdown(srv, metricsSrv, lib)

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logging.Fatal("Server error: %v", err)
	}
}

func handleShutdown(srv, metricsSrv *http.Server, lib *library.Library) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		}
	}
	if err := lib.Close(); err != nil {
		logging.Warn("Catalog close error: %v", err)
	}

	startup.LogShutdownComplete()
}
