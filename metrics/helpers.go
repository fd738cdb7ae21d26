// Package metrics provides helper functions for Prometheus metrics
package metrics

import (
	"net/url"
	"runtime"
)

// ExtractOrigin extracts the domain from a URL for origin tracking.
// Local paths report "file".
func ExtractOrigin(urlStr string) string {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return "unknown"
	}
	if parsed.Host == "" {
		return "file"
	}
	return parsed.Host
}

// RecordMemoryUsage updates memory usage metrics
func RecordMemoryUsage() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	MemoryUsageBytes.Set(float64(m.Alloc))
}

// RecordCatalog publishes the size of a freshly installed catalog.
func RecordCatalog(stations, skipped int) {
	StationsTotal.Set(float64(stations))
	CatalogSkippedFeatures.Set(float64(skipped))
	CatalogReady.Set(1)
}
