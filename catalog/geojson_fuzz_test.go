package catalog

import (
	"errors"
	"testing"
)

// FuzzParse feeds arbitrary payloads to the parser. Every input must either
// fail with a ParseError or produce a catalog whose counts add up.
func FuzzParse(f *testing.F) {
	f.Add([]byte(``))
	f.Add([]byte(`null`))
	f.Add([]byte(`{"type":"FeatureCollection"}`))
	f.Add([]byte(`{"type":"FeatureCollection","features":[]}`))
	f.Add(collection(pointFeature(`"CLIMATE_IDENTIFIER":"6106000","STATION_NAME":"OTTAWA CDA","ELEVATION":79`, -75.72, 45.38)))
	f.Add(collection(pointFeature(`"CLIMATE_IDENTIFIER":6106000,"ELEVATION":"NaN"`, 200, 100)))
	f.Add([]byte(`{"features":[{"geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]}}, 5, "x"]}`))
	f.Add([]byte(ottawaCatalog))
	f.Add([]byte(`{"type":"FeatureCollection","features":[{}]}`))
	f.Add([]byte(`{"type":"FeatureCollection","features":[null, 1, "x", []]}`))
	f.Add([]byte(`{"type":"FeatureCollection","features":[{"geometry":{"type":"Point","coordinates":[1e400,2]},"properties":{"CLIMATE_ID":true}}]}`))

	f.Fuzz(func(t *testing.T, data []byte) {
		c, err := Parse(data, "fuzz")
		if err != nil {
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("unexpected error type %T: %v", err, err)
			}
			return
		}

		if c.Skipped < 0 {
			t.Fatalf("negative skipped count %d", c.Skipped)
		}
		for _, st := range c.Stations {
			if st.ID == "" {
				t.Fatal("station without id")
			}
			if _, ok := c.Get(st.ID); !ok {
				t.Fatalf("station %q not indexed", st.ID)
			}
		}
	})
}
