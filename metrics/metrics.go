package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// === Catalog Metrics ===

	// CatalogLoadsTotal counts catalog loads by origin and outcome
	CatalogLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "climate_catalog_loads_total",
			Help: "Total number of station catalog loads",
		},
		[]string{"origin", "outcome"}, // origin host or "file", outcome (success/fetch_error/parse_error)
	)

	// CatalogSkippedFeatures tracks features dropped from the last loaded catalog
	CatalogSkippedFeatures = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "climate_catalog_skipped_features",
			Help: "Number of features skipped in the current catalog",
		},
	)

	// StationsTotal tracks number of stations in the current catalog
	StationsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "climate_stations_total",
			Help: "Total number of stations in the catalog",
		},
	)

	// CatalogReady indicates if a catalog has been loaded (0 or 1)
	CatalogReady = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "climate_catalog_ready",
			Help: "Whether a station catalog is loaded (0=false, 1=true)",
		},
	)

	// === Lookup Metrics ===

	// LookupsTotal counts climate lookups by outcome
	LookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "climate_lookups_total",
			Help: "Total number of climate lookups",
		},
		[]string{"outcome"}, // found, not_found, network_error, schema_error, timeout_error, invalid_request, canceled
	)

	// LookupDuration measures climate API latency
	LookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "climate_lookup_duration_seconds",
			Help:    "Time spent resolving a station to its latest observation",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	// StaleCommitsDropped counts lookup results discarded because a newer selection was made
	StaleCommitsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "climate_stale_commits_dropped_total",
			Help: "Lookup results dropped because a newer lookup was issued on the same surface",
		},
	)

	// SurfacesActive tracks display surfaces currently registered
	SurfacesActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "climate_surfaces_active",
			Help: "Number of display surfaces",
		},
	)

	// SurfaceSubscribers tracks websocket clients watching a surface
	SurfaceSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "climate_surface_subscribers",
			Help: "Number of live surface subscribers",
		},
	)

	// === HTTP Metrics ===

	// HTTPRequestDuration measures HTTP request latency by path
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "climate_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestsTotal counts HTTP requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "climate_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestsInFlight tracks active HTTP requests
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "climate_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// CacheHits tracks HTTP cache hits by path
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "climate_http_cache_hits_total",
			Help: "Total number of HTTP cache hits (304 Not Modified responses)",
		},
		[]string{"path"},
	)

	// ErrorsByType tracks application errors by type
	ErrorsByType = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "climate_errors_total",
			Help: "Total number of application errors by type",
		},
		[]string{"error_type"},
	)

	// MemoryUsageBytes tracks application memory usage
	MemoryUsageBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "climate_memory_usage_bytes",
			Help: "Application memory usage in bytes",
		},
	)
)
