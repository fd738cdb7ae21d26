package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/brubcam/GEOG-464-Lab-8/store"
	"github.com/labstack/echo/v4"
)

func HealthCheckRoute(store *store.Store) func(c echo.Context) error {
	return func(c echo.Context) error {
		if !store.IsReady() {
			return c.String(http.StatusServiceUnavailable, "Service starting up - catalog not loaded yet")
		}

		if len(store.Stations()) == 0 {
			return c.String(http.StatusServiceUnavailable, "No stations loaded")
		}

		// Smoke test: verify the map page and station list render.
		// This catches template errors, data issues, and rendering pipeline problems
		e := c.Echo()

		if err := testRoute(e, "/", "text/html", "<!DOCTYPE"); err != nil {
			return c.String(http.StatusServiceUnavailable,
				fmt.Sprintf("Healthcheck failed - page route error: %v", err))
		}

		if err := testRoute(e, "/api/stations", "application/json", `"stations"`); err != nil {
			return c.String(http.StatusServiceUnavailable,
				fmt.Sprintf("Healthcheck failed - stations route error: %v", err))
		}

		return c.String(http.StatusOK, "OK")
	}
}

// testRoute performs an internal HTTP request to verify a route can render successfully
func testRoute(e *echo.Echo, path, contentType, expectedContent string) error {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		return fmt.Errorf("returned status %d instead of 200", rec.Code)
	}

	if got := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(got, contentType) {
		return fmt.Errorf("returned content type %q instead of %s", got, contentType)
	}

	if !strings.Contains(rec.Body.String(), expectedContent) {
		return fmt.Errorf("response missing expected content '%s'", expectedContent)
	}

	return nil
}
