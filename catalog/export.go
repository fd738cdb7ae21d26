package catalog

// FeatureCollection is the GeoJSON document served to map clients.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string            `json:"type"`
	Geometry   Point             `json:"geometry"`
	Properties FeatureProperties `json:"properties"`
}

type Point struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"` // [Lon, Lat]
}

// FeatureProperties keeps the source dataset's property names so the export
// parses back into the same stations, plus the styling a map needs.
type FeatureProperties struct {
	ClimateIdentifier string   `json:"CLIMATE_IDENTIFIER"`
	StationName       string   `json:"STATION_NAME"`
	ProvinceCode      string   `json:"PROVINCE_CODE,omitempty"`
	ProvinceName      string   `json:"ENG_PROV_NAME,omitempty"`
	StationNumber     string   `json:"STN_ID,omitempty"`
	Elevation         *float64 `json:"ELEVATION"`
	ElevationClass    string   `json:"elevationClass"`
	Color             string   `json:"color"`
}

// GeoJSON renders the catalog as a FeatureCollection in station order.
func (c *Catalog) GeoJSON() FeatureCollection {
	fc := FeatureCollection{Type: "FeatureCollection", Features: []Feature{}}
	if c == nil {
		return fc
	}

	fc.Features = make([]Feature, 0, len(c.Stations))
	for _, s := range c.Stations {
		class := s.ElevationClass()
		fc.Features = append(fc.Features, Feature{
			Type: "Feature",
			Geometry: Point{
				Type:        "Point",
				Coordinates: [2]float64{s.Position.Lon, s.Position.Lat},
			},
			Properties: FeatureProperties{
				ClimateIdentifier: s.ID,
				StationName:       s.Name,
				ProvinceCode:      s.ProvinceCode,
				ProvinceName:      s.ProvinceName,
				StationNumber:     s.StationNumber,
				Elevation:         s.ElevationMeters,
				ElevationClass:    class.String(),
				Color:             class.Color(),
			},
		})
	}
	return fc
}
