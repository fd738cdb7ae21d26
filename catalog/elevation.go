package catalog

// ElevationClass is the colour bucket a station is drawn with on the map.
type ElevationClass int

const (
	ElevationUnknown ElevationClass = iota
	ElevationLow
	ElevationMedium
	ElevationHigh
)

const (
	lowElevationMaxMeters    = 100
	mediumElevationMaxMeters = 300
)

// ClassifyElevation buckets an elevation in meters. Bounds are inclusive:
// 100 m is still low and 300 m is still medium.
func ClassifyElevation(meters *float64) ElevationClass {
	switch {
	case meters == nil:
		return ElevationUnknown
	case *meters <= lowElevationMaxMeters:
		return ElevationLow
	case *meters <= mediumElevationMaxMeters:
		return ElevationMedium
	default:
		return ElevationHigh
	}
}

func (c ElevationClass) String() string {
	switch c {
	case ElevationLow:
		return "low"
	case ElevationMedium:
		return "medium"
	case ElevationHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Color is the marker fill colour for the class.
func (c ElevationClass) Color() string {
	switch c {
	case ElevationLow:
		return "#91bfdb"
	case ElevationMedium:
		return "#ffffbf"
	case ElevationHigh:
		return "#fc8d59"
	default:
		return "#bdbdbd"
	}
}

type LegendEntry struct {
	Class ElevationClass `json:"-"`
	Name  string         `json:"class"`
	Label string         `json:"label"`
	Color string         `json:"color"`
}

// Legend lists the elevation grades shown on the map legend.
func Legend() []LegendEntry {
	entries := []struct {
		class ElevationClass
		label string
	}{
		{ElevationLow, "0–100"},
		{ElevationMedium, "100–300"},
		{ElevationHigh, "300+"},
		{ElevationUnknown, "n/a"},
	}

	legend := make([]LegendEntry, 0, len(entries))
	for _, e := range entries {
		legend = append(legend, LegendEntry{
			Class: e.class,
			Name:  e.class.String(),
			Label: e.label,
			Color: e.class.Color(),
		})
	}
	return legend
}
