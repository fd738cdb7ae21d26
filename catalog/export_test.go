package catalog

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_GeoJSONRoundTrip(t *testing.T) {
	source, err := Parse(collection(
		pointFeature(`"CLIMATE_IDENTIFIER":"1018620","STATION_NAME":"OTTAWA CDA","PROVINCE_CODE":"ON","ENG_PROV_NAME":"ONTARIO","STN_ID":"4333","ELEVATION":"79.2"`, -75.72, 45.38),
		pointFeature(`"CLIMATE_IDENTIFIER":"3031093","STATION_NAME":"CALGARY INTL A","PROVINCE_CODE":"AB","ELEVATION":1084.1`, -114.02, 51.11),
		pointFeature(`"CLIMATE_IDENTIFIER":"X1","STATION_NAME":"NO ELEVATION"`, -60, 47),
	), "test")
	require.NoError(t, err)

	data, err := json.Marshal(source.GeoJSON())
	require.NoError(t, err)

	again, err := Parse(data, "export")
	require.NoError(t, err)

	assert.Equal(t, source.Stations, again.Stations)
	assert.Equal(t, source.ETag, again.ETag)
}

func TestCatalog_GeoJSONStyling(t *testing.T) {
	c, err := NewCatalog([]Station{
		{ID: "low", ElevationMeters: meters(100), Position: Position{Lat: 1, Lon: 2}},
		{ID: "high", ElevationMeters: meters(300.5)},
		{ID: "unknown"},
	}, 0)
	require.NoError(t, err)

	fc := c.GeoJSON()
	require.Len(t, fc.Features, 3)
	assert.Equal(t, "FeatureCollection", fc.Type)

	low := fc.Features[0]
	assert.Equal(t, [2]float64{2, 1}, low.Geometry.Coordinates)
	assert.Equal(t, "low", low.Properties.ElevationClass)
	assert.Equal(t, "#91bfdb", low.Properties.Color)

	assert.Equal(t, "high", fc.Features[1].Properties.ElevationClass)
	assert.Equal(t, "#fc8d59", fc.Features[1].Properties.Color)

	assert.Equal(t, "unknown", fc.Features[2].Properties.ElevationClass)
	assert.Nil(t, fc.Features[2].Properties.Elevation)
}

func TestCatalog_GeoJSONNil(t *testing.T) {
	var c *Catalog
	fc := c.GeoJSON()
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.NotNil(t, fc.Features)
	assert.Empty(t, fc.Features)
}
