package server

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/brubcam/GEOG-464-Lab-8/metrics"
	"github.com/labstack/echo/v4"
)

// RequestCounter and ErrorCounter, when set, are incremented for every
// request and every 5xx response so the terminal HUD can show traffic.
var (
	RequestCounter *int64
	ErrorCounter   *int64
)

// MetricsMiddleware records HTTP request metrics for Prometheus
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			metrics.HTTPRequestsInFlight.Inc()
			defer metrics.HTTPRequestsInFlight.Dec()

			start := time.Now()
			err := next(c)
			duration := time.Since(start).Seconds()

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}

			// Route templates such as /api/stations/:id keep cardinality bounded
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}

			statusStr := strconv.Itoa(status)
			method := c.Request().Method
			metrics.HTTPRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration)
			metrics.HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()

			if RequestCounter != nil {
				atomic.AddInt64(RequestCounter, 1)
			}
			if status >= 500 && ErrorCounter != nil {
				atomic.AddInt64(ErrorCounter, 1)
			}

			return err
		}
	}
}
