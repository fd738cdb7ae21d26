package server

import (
	"net/http"

	"github.com/brubcam/GEOG-464-Lab-8/store"
	"github.com/labstack/echo/v4"
)

// VersionRoute returns version information about the service
func VersionRoute(s *store.Store) func(c echo.Context) error {
	return func(c echo.Context) error {
		info := GetVersionInfo()
		if current := s.Catalog(); current != nil {
			info.Catalog = &CatalogInfo{
				Source:   s.Source(),
				ETag:     current.ETag,
				Stations: current.Len(),
				Skipped:  current.Skipped,
				LoadedAt: s.LoadedAt(),
			}
		}
		return c.JSON(http.StatusOK, info)
	}
}
