package catalog

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Property names differ between published versions of the station dataset,
// so each attribute is looked up under every known spelling, in order.
var (
	idKeys            = []string{"CLIMATE_IDENTIFIER", "CLIMATE_ID", "climate_id", "id"}
	nameKeys          = []string{"STATION_NAME", "STN_NAME", "name"}
	provinceCodeKeys  = []string{"PROVINCE_CODE", "province"}
	provinceNameKeys  = []string{"ENG_PROV_NAME"}
	stationNumberKeys = []string{"STN_ID"}
	elevationKeys     = []string{"ELEVATION", "elevation"}
)

var (
	errMissingID       = errors.New("feature has no climate identifier")
	errMissingGeometry = errors.New("feature has no point geometry")
)

type featureCollection struct {
	Type     string             `json:"type"`
	Features *[]json.RawMessage `json:"features"`
}

type feature struct {
	Type       string         `json:"type"`
	Geometry   *geometry      `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [Lon, Lat(, Alt)]
}

// Parse decodes a GeoJSON FeatureCollection into a Catalog. A feature needs
// a non-blank climate identifier and a Point geometry with two finite
// coordinates; anything else, including a null geometry, is skipped and
// counted in Skipped rather than failing the whole load.
func Parse(data []byte, source string) (*Catalog, error) {
	if len(data) == 0 {
		return nil, &ParseError{URL: source, Err: errors.New("empty payload")}
	}

	if !json.Valid(data) {
		return nil, &ParseError{URL: source, Err: errors.New("invalid JSON")}
	}

	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, &ParseError{URL: source, Err: err}
	}

	if fc.Type != "FeatureCollection" {
		return nil, &ParseError{URL: source, Err: fmt.Errorf("expected FeatureCollection, got %q", fc.Type)}
	}
	if fc.Features == nil {
		return nil, &ParseError{URL: source, Err: errors.New("missing features array")}
	}

	stations := make([]Station, 0, len(*fc.Features))
	skipped := 0
	for _, raw := range *fc.Features {
		station, err := decodeFeature(raw)
		if err != nil {
			skipped++
			continue
		}
		stations = append(stations, station)
	}

	return NewCatalog(stations, skipped)
}

func decodeFeature(raw json.RawMessage) (Station, error) {
	var f feature
	if err := json.Unmarshal(raw, &f); err != nil {
		return Station{}, err
	}
	return stationFromFeature(f)
}

func stationFromFeature(f feature) (Station, error) {
	id := stringProp(f.Properties, idKeys...)
	if id == "" {
		return Station{}, errMissingID
	}

	pos, ok := f.Geometry.position()
	if !ok {
		return Station{}, errMissingGeometry
	}

	return Station{
		ID:              id,
		Name:            stringProp(f.Properties, nameKeys...),
		ProvinceCode:    stringProp(f.Properties, provinceCodeKeys...),
		ProvinceName:    stringProp(f.Properties, provinceNameKeys...),
		StationNumber:   stringProp(f.Properties, stationNumberKeys...),
		ElevationMeters: floatProp(f.Properties, elevationKeys...),
		Position:        pos,
	}, nil
}

func (g *geometry) position() (Position, bool) {
	if g == nil || !strings.EqualFold(g.Type, "Point") || len(g.Coordinates) < 2 {
		return Position{}, false
	}
	lon, lat := g.Coordinates[0], g.Coordinates[1]
	if !isFinite(lon) || !isFinite(lat) {
		return Position{}, false
	}
	return Position{Lat: lat, Lon: lon}, true
}

func stringProp(props map[string]any, keys ...string) string {
	for _, key := range keys {
		v, ok := props[key]
		if !ok || v == nil {
			continue
		}

		var s string
		switch val := v.(type) {
		case string:
			s = val
		case float64:
			s = strconv.FormatFloat(val, 'f', -1, 64)
		case json.Number:
			s = val.String()
		default:
			continue
		}

		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

func floatProp(props map[string]any, keys ...string) *float64 {
	for _, key := range keys {
		v, ok := props[key]
		if !ok || v == nil {
			continue
		}

		var f float64
		switch val := v.(type) {
		case float64:
			f = val
		case json.Number:
			parsed, err := val.Float64()
			if err != nil {
				continue
			}
			f = parsed
		case string:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
			if err != nil {
				continue
			}
			f = parsed
		default:
			continue
		}

		if isFinite(f) {
			return &f
		}
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
