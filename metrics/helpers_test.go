package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestExtractOrigin(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://api.weather.gc.ca/collections/climate-daily/items", "api.weather.gc.ca"},
		{"http://localhost:8080/stations.geojson", "localhost:8080"},
		{"data/climate-stations.geojson", "file"},
		{"file:///tmp/stations.geojson", "file"},
		{"://bad", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractOrigin(tt.in))
		})
	}
}

func TestRecordCatalog(t *testing.T) {
	RecordCatalog(42, 3)

	assert.Equal(t, 42.0, testutil.ToFloat64(StationsTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(CatalogSkippedFeatures))
	assert.Equal(t, 1.0, testutil.ToFloat64(CatalogReady))
}

func TestRecordMemoryUsage(t *testing.T) {
	RecordMemoryUsage()
	assert.Greater(t, testutil.ToFloat64(MemoryUsageBytes), 0.0)
}
