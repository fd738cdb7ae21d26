// Package main is the entry point for the climate station lookup service
package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/brubcam/GEOG-464-Lab-8/catalog"
	"github.com/brubcam/GEOG-464-Lab-8/climate"
	"github.com/brubcam/GEOG-464-Lab-8/logger"
	"github.com/brubcam/GEOG-464-Lab-8/server"
	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"
)

const (
	defaultPort          = "3000"
	defaultCatalogURL    = "https://raw.githubusercontent.com/brubcam/GEOG-464_Lab-8/refs/heads/main/DATA/climate-stations.geojson"
	defaultLookupTimeout = 10 * time.Second
	maxLookupLimit       = 500
)

type Config struct {
	Port          string
	CatalogURL    string
	ClimateAPI    string
	Year          int
	Limit         int
	LookupTimeout time.Duration
	DevMode       bool
	ErrorLogDir   string
}

// LookupOptions are the defaults every lookup starts from.
func (c Config) LookupOptions() climate.Options {
	return climate.Options{Year: c.Year, Limit: c.Limit}
}

func (c Config) newClimateClient() *climate.Client {
	return climate.NewClient(c.ClimateAPI, climate.WithTimeout(c.LookupTimeout))
}

func loadConfig() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	catalogURL := os.Getenv("CATALOG_URL")
	if catalogURL == "" {
		catalogURL = defaultCatalogURL
	}

	climateAPI := os.Getenv("CLIMATE_API_URL")
	if climateAPI == "" {
		climateAPI = climate.DefaultBaseURL
	}

	// Unset or invalid means no year filter
	year := 0
	if y, err := strconv.Atoi(os.Getenv("CLIMATE_YEAR")); err == nil && y > 0 {
		year = y
	}

	limit := climate.DefaultLimit
	if n, err := strconv.Atoi(os.Getenv("LOOKUP_LIMIT")); err == nil && n >= 1 && n <= maxLookupLimit {
		limit = n
	}

	lookupTimeout := defaultLookupTimeout
	if timeoutStr := os.Getenv("LOOKUP_TIMEOUT"); timeoutStr != "" {
		if d, err := time.ParseDuration(timeoutStr); err == nil && d > 0 {
			lookupTimeout = d
		}
	}

	// Enable dev mode for hot reloading
	devMode := os.Getenv("DEV_MODE") == "1" || os.Getenv("DEV_MODE") == "true"

	return Config{
		Port:          port,
		CatalogURL:    catalogURL,
		ClimateAPI:    climateAPI,
		Year:          year,
		Limit:         limit,
		LookupTimeout: lookupTimeout,
		DevMode:       devMode,
		ErrorLogDir:   os.Getenv("ERROR_LOG_DIR"),
	}
}

// initSentry initializes Sentry if DSN is provided and not in dev mode
// Returns true if Sentry was initialized
func initSentry(devMode bool) bool {
	dsn := os.Getenv("SENTRY_DSN")
	if dsn == "" || devMode {
		return false
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      "production",
		Release:          server.Version,
		EnableTracing:    true,
		TracesSampleRate: 1.0,
		AttachStacktrace: true,
	})
	if err != nil {
		logger.Fatal(err, "sentry.Init: %v", err)
	}

	// Configure logger to send errors to Sentry
	logger.SetSentryCaptureException(func(err error) interface{} {
		return sentry.CaptureException(err)
	})
	logger.SetFlush(func() { sentry.Flush(2 * time.Second) })

	return true
}

// openCatalog loads the configured catalog once for the one-shot commands.
func openCatalog(ctx context.Context, cfg Config) (*catalog.Catalog, error) {
	return catalog.NewLoader(nil).Open(ctx, cfg.CatalogURL)
}

func newRootCmd() *cobra.Command {
	cfg := loadConfig()

	root := &cobra.Command{
		Use:   "climate-stations",
		Short: "Climate station catalog and latest-observation lookup",
		Long: `climate-stations loads a GeoJSON catalog of weather stations and looks up
the most recent daily climate observation for a station from the
MSC GeoMet climate-daily collection.

With no subcommand it starts the web server.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.CatalogURL, "catalog", cfg.CatalogURL, "station catalog URL or local GeoJSON path (CATALOG_URL)")
	flags.StringVar(&cfg.ClimateAPI, "climate-api", cfg.ClimateAPI, "climate API base URL (CLIMATE_API_URL)")
	flags.IntVar(&cfg.Year, "year", cfg.Year, "only consider observations from this year, 0 for any (CLIMATE_YEAR)")
	flags.IntVar(&cfg.Limit, "limit", cfg.Limit, "records fetched per lookup (LOOKUP_LIMIT)")
	flags.DurationVar(&cfg.LookupTimeout, "timeout", cfg.LookupTimeout, "per-lookup deadline (LOOKUP_TIMEOUT)")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return validateConfig(cfg)
	}

	root.AddCommand(
		newServeCmd(&cfg),
		newBrowseCmd(&cfg),
		newStationsCmd(&cfg),
		newLookupCmd(&cfg),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
