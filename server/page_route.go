package server

import (
	"net/http"

	"github.com/brubcam/GEOG-464-Lab-8/catalog"
	"github.com/brubcam/GEOG-464-Lab-8/store"
	"github.com/labstack/echo/v4"
)

// PageData is what index.html.tmpl renders.
type PageData struct {
	Title    string
	Version  string
	Stations int
	Skipped  int
	Year     int
	Legend   []catalog.LegendEntry
	DevMode  bool
}

func IndexRoute(s *store.Store, year int, devMode bool) func(c echo.Context) error {
	legend := catalog.Legend()

	return func(c echo.Context) error {
		current := s.Catalog()
		if current == nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "catalog not loaded")
		}

		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
		handled, err := notModified(c, CacheConfig{
			Components: []interface{}{current},
			DevMode:    devMode,
		})
		if handled {
			return err
		}

		return c.Render(http.StatusOK, "index.html.tmpl", PageData{
			Title:    "Canadian Climate Stations",
			Version:  GetVersionString(),
			Stations: current.Len(),
			Skipped:  current.Skipped,
			Year:     year,
			Legend:   legend,
			DevMode:  devMode,
		})
	}
}
