package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/brubcam/GEOG-464-Lab-8/assets"
	"github.com/brubcam/GEOG-464-Lab-8/catalog"
	"github.com/brubcam/GEOG-464-Lab-8/display"
	"github.com/brubcam/GEOG-464-Lab-8/logger"
	"github.com/brubcam/GEOG-464-Lab-8/metrics"
	"github.com/brubcam/GEOG-464-Lab-8/server"
	"github.com/brubcam/GEOG-464-Lab-8/store"
	"github.com/brubcam/GEOG-464-Lab-8/ui"
	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"
)

const statsInterval = time.Second

func newServeCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *cfg)
		},
	}
	cmd.Flags().StringVar(&cfg.Port, "port", cfg.Port, "HTTP port (PORT)")
	return cmd
}

func validateConfig(cfg Config) error {
	switch {
	case cfg.CatalogURL == "":
		return errors.New("a catalog source is required")
	case cfg.Year < 0:
		return fmt.Errorf("invalid year %d", cfg.Year)
	case cfg.Limit < 1 || cfg.Limit > maxLookupLimit:
		return fmt.Errorf("limit must be between 1 and %d", maxLookupLimit)
	case cfg.LookupTimeout <= 0:
		return errors.New("timeout must be positive")
	}
	return nil
}

// watchCatalog hot-reloads a local catalog file in dev mode.
func watchCatalog(ctx context.Context, catalogs *store.Store, source string) {
	go func() {
		err := catalog.Watch(ctx, source, func(c *catalog.Catalog) {
			catalogs.Replace(c, source)
			logger.CatalogSummary{Source: source, Stations: c.Len(), Skipped: c.Skipped}.Print()
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("Catalog watcher stopped: %v", err)
		}
	}()
}

// reportStats feeds the HUD until ctx ends.
func reportStats(ctx context.Context, catalogs *store.Store, surfaces *display.Registry, requests, errs *int64) {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	var lastRequests int64
	lastCheck := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			current := atomic.LoadInt64(requests)
			elapsed := time.Since(lastCheck).Seconds()
			reqPerSec := 0.0
			if elapsed > 0 {
				reqPerSec = float64(current-lastRequests) / elapsed
			}
			lastRequests = current
			lastCheck = time.Now()

			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			metrics.RecordMemoryUsage()

			stats := ui.Stats{
				Surfaces:        surfaces.Len(),
				Lookups:         display.CurrentOutcomes(),
				CatalogLoadedAt: catalogs.LoadedAt(),
				RequestsTotal:   int(current),
				RequestsPerSec:  reqPerSec,
				Errors:          int(atomic.LoadInt64(errs)),
				MemoryUsageMB:   float64(m.Alloc) / 1024 / 1024,
				GoroutineCount:  runtime.NumGoroutine(),
			}
			if c := catalogs.Catalog(); c != nil {
				stats.Stations = c.Len()
				stats.Skipped = c.Skipped
			}
			ui.UpdateStats(stats)
		}
	}
}

func runServe(ctx context.Context, cfg Config) error {
	sentryEnabled := initSentry(cfg.DevMode)

	if err := server.InitErrorLogger(cfg.ErrorLogDir); err != nil {
		logger.Warn("Error log disabled: %v", err)
	}
	defer server.CloseErrorLogger()

	staticFS, err := assets.Load(cfg.DevMode, "static")
	if err != nil {
		logger.Fatal(err, "failed to load static files: %v", err)
	}
	tmplFS, err := assets.Load(cfg.DevMode, "templates")
	if err != nil {
		logger.Fatal(err, "failed to load templates: %v", err)
	}

	catalogs := store.New()
	c, took, err := catalogs.Load(ctx, catalog.NewLoader(nil), cfg.CatalogURL)
	if err != nil {
		logger.Fatal(err, "failed to load station catalog from %s: %v", cfg.CatalogURL, err)
	}

	// Initialize TUI with HUD (before any other logging)
	hasUI := ui.Initialize(server.Version, cfg.Port, cfg.ClimateAPI, c.Len())
	if hasUI {
		logger.SetUIMode(true)
		logger.Log = ui.AddLog
		logger.SetHTTPOutput(ui.LogWriter{})
	} else {
		logger.PrintBanner(server.Version, server.BuildTime, cfg.ClimateAPI)
		logger.ServerInfo{
			Port:          cfg.Port,
			CatalogSource: cfg.CatalogURL,
			ClimateAPI:    cfg.ClimateAPI,
			Year:          cfg.Year,
			LookupTimeout: cfg.LookupTimeout,
		}.Print()
	}

	logger.CatalogSummary{Source: cfg.CatalogURL, Duration: took, Stations: c.Len(), Skipped: c.Skipped}.Print()

	if cfg.DevMode {
		logger.Info("🔥 DEV MODE: templates and static files served from disk")
		if !hasUI {
			assets.Print(os.Stdout, "templates", tmplFS)
			assets.Print(os.Stdout, "static", staticFS)
		}
		if !catalog.IsRemote(cfg.CatalogURL) {
			watchCatalog(ctx, catalogs, cfg.CatalogURL)
			logger.Info("Watching %s for changes", cfg.CatalogURL)
		}
	}

	surfaces := display.NewRegistry()
	defer surfaces.Close()

	var requestCount, errorCount int64
	server.RequestCounter = &requestCount
	server.ErrorCounter = &errorCount

	app, err := server.Start(server.ServerConfig{
		Store:         catalogs,
		Lookup:        cfg.newClimateClient(),
		LookupOptions: cfg.LookupOptions(),
		Surfaces:      surfaces,
		BaseContext:   ctx,
		StaticFS:      staticFS,
		TemplateFS:    tmplFS,
		DevMode:       cfg.DevMode,
		SentryEnabled: sentryEnabled,
	})
	if err != nil {
		logger.Fatal(err)
	}

	if hasUI {
		go reportStats(ctx, catalogs, surfaces, &requestCount, &errorCount)
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := app.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	logger.Success("Server listening on http://localhost:%s", cfg.Port)
	if hasUI {
		logger.Info("Press Ctrl+C to stop, 'q' closes the HUD")
		ui.SetReady()
	} else {
		logger.Info("Press Ctrl+C to stop")
	}

	var runErr error
	select {
	case <-ctx.Done():
	case err, ok := <-serveErr:
		if ok {
			logger.Error(err, "Server error: %v", err)
			runErr = err
		}
	}

	if !hasUI {
		logger.Shutdown()
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
	defer shutdownCancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		logger.Error(err, "error during shutdown: %v", err)
	}
	ui.Shutdown()
	logger.SetUIMode(false)

	// Flush Sentry before exiting
	if sentryEnabled {
		sentry.Flush(2 * time.Second)
	}

	logger.Success("Goodbye!")
	return runErr
}
