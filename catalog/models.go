// Package catalog loads the weather station catalog from a GeoJSON feature collection.
package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchellh/hashstructure"
)

type Position struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Station is a fixed observation site. ID is the climate identifier used
// to query observation history and is never empty.
type Station struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	ProvinceCode    string   `json:"provinceCode"`
	ProvinceName    string   `json:"provinceName,omitempty"`
	StationNumber   string   `json:"stationNumber,omitempty"`
	ElevationMeters *float64 `json:"elevationMeters"`
	Position        Position `json:"position"`
}

// ElevationClass buckets the station by elevation for map styling.
func (s Station) ElevationClass() ElevationClass {
	return ClassifyElevation(s.ElevationMeters)
}

// Catalog is the immutable result of one successful load.
//
// Stations keeps every valid feature in source order, duplicates included.
// Lookups by id resolve to the last station loaded with that id.
type Catalog struct {
	Stations []Station `json:"stations"`
	Skipped  int       `json:"skipped"`
	ETag     string    `json:"-"`

	index map[string]int
}

// NewCatalog indexes stations and precomputes the catalog ETag.
func NewCatalog(stations []Station, skipped int) (*Catalog, error) {
	c := &Catalog{
		Stations: stations,
		Skipped:  skipped,
		index:    make(map[string]int, len(stations)),
	}
	if c.Stations == nil {
		c.Stations = []Station{}
	}

	for i := range c.Stations {
		c.index[c.Stations[i].ID] = i
	}

	hash, err := hashstructure.Hash(c.Stations, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to compute catalog ETag: %w", err)
	}
	c.ETag = "\"" + strconv.FormatUint(hash, 10) + "\""

	return c, nil
}

// Get returns the station registered under id.
func (c *Catalog) Get(id string) (Station, bool) {
	if c == nil {
		return Station{}, false
	}
	i, ok := c.index[id]
	if !ok {
		return Station{}, false
	}
	return c.Stations[i], true
}

// FilterProvince returns the stations whose province code matches province,
// ignoring case, in catalog order. An empty province returns every station.
func (c *Catalog) FilterProvince(province string) []Station {
	if c == nil {
		return nil
	}
	if province == "" {
		return c.Stations
	}
	filtered := make([]Station, 0, len(c.Stations))
	for _, st := range c.Stations {
		if strings.EqualFold(st.ProvinceCode, province) {
			filtered = append(filtered, st)
		}
	}
	return filtered
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Stations)
}
