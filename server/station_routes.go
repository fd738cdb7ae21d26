package server

import (
	"net/http"
	"strings"

	"github.com/brubcam/GEOG-464-Lab-8/catalog"
	"github.com/brubcam/GEOG-464-Lab-8/store"
	"github.com/labstack/echo/v4"
)

// StationList is the /api/stations payload.
type StationList struct {
	Count    int               `json:"count"`
	Skipped  int               `json:"skipped"`
	Stations []catalog.Station `json:"stations"`
}

// StationView adds map styling to a single station.
type StationView struct {
	catalog.Station
	ElevationClass string `json:"elevationClass"`
	Color          string `json:"color"`
}

func NewStationView(s catalog.Station) StationView {
	class := s.ElevationClass()
	return StationView{Station: s, ElevationClass: class.String(), Color: class.Color()}
}

// StationsRoute lists the catalog in source order. ?province=XX narrows the
// list to one province code.
func StationsRoute(s *store.Store, devMode bool) func(c echo.Context) error {
	return func(c echo.Context) error {
		current := s.Catalog()
		if current == nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "catalog not loaded")
		}

		province := strings.ToUpper(strings.TrimSpace(c.QueryParam("province")))

		c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
		handled, err := notModified(c, CacheConfig{
			Components: []interface{}{current, province},
			DevMode:    devMode,
		})
		if handled {
			return err
		}

		stations := current.FilterProvince(province)

		return c.JSON(http.StatusOK, StationList{
			Count:    len(stations),
			Skipped:  current.Skipped,
			Stations: stations,
		})
	}
}

func StationRoute(s *store.Store) func(c echo.Context) error {
	return func(c echo.Context) error {
		station, ok := s.Get(c.Param("id"))
		if !ok {
			return echo.NewHTTPError(http.StatusNotFound, "station not found")
		}
		return c.JSON(http.StatusOK, NewStationView(station))
	}
}

// GeoJSONRoute re-exports the catalog with elevation styling per feature.
func GeoJSONRoute(s *store.Store, devMode bool) func(c echo.Context) error {
	return func(c echo.Context) error {
		current := s.Catalog()
		if current == nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "catalog not loaded")
		}

		c.Response().Header().Set(echo.HeaderContentType, "application/geo+json")
		handled, err := notModified(c, CacheConfig{
			Components: []interface{}{current},
			DevMode:    devMode,
		})
		if handled {
			return err
		}

		return c.JSON(http.StatusOK, current.GeoJSON())
	}
}

func LegendRoute() func(c echo.Context) error {
	legend := catalog.Legend()
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, legend)
	}
}
