// Package server exposes the station catalog and climate lookups over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/brubcam/GEOG-464-Lab-8/climate"
	"github.com/brubcam/GEOG-464-Lab-8/display"
	"github.com/brubcam/GEOG-464-Lab-8/logger"
	"github.com/brubcam/GEOG-464-Lab-8/metrics"
	"github.com/brubcam/GEOG-464-Lab-8/store"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Template renderer for Echo
type TemplateRenderer struct {
	templates *template.Template
}

var templateFuncs = template.FuncMap{
	"year": func(y int) string {
		if y <= 0 {
			return "any year"
		}
		return fmt.Sprintf("%d", y)
	},
}

func (t *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}

type ServerConfig struct {
	Store *store.Store

	// Lookup answers one-shot climate requests and drives surface selections.
	Lookup        display.Lookuper
	LookupOptions climate.Options

	// Surfaces defaults to a fresh registry when nil.
	Surfaces *display.Registry

	// BaseContext parents asynchronous surface lookups so they outlive the
	// request that started them. Defaults to context.Background().
	BaseContext context.Context

	StaticFS      fs.FS
	TemplateFS    fs.FS
	DevMode       bool
	SentryEnabled bool
}

func Start(cfg ServerConfig) (*echo.Echo, error) {
	if cfg.Store == nil {
		return nil, errors.New("server: store is required")
	}
	if cfg.Lookup == nil {
		return nil, errors.New("server: lookup is required")
	}
	if cfg.Surfaces == nil {
		cfg.Surfaces = display.NewRegistry()
	}
	if cfg.BaseContext == nil {
		cfg.BaseContext = context.Background()
	}

	templates, err := template.New("").Funcs(templateFuncs).ParseFS(cfg.TemplateFS, "*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = JSONSerializer{}
	e.Renderer = &TemplateRenderer{templates: templates}
	e.HTTPErrorHandler = errorHandler

	if cfg.SentryEnabled {
		e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	}
	e.Use(middleware.Recover())
	e.Use(requestLogger())
	e.Use(MetricsMiddleware())
	e.Use(ErrorLogMiddleware())
	e.Use(versionHeader())

	selector := display.NewSelector(cfg.Lookup, cfg.LookupOptions)

	// Pages
	e.GET("/", IndexRoute(cfg.Store, cfg.LookupOptions.Year, cfg.DevMode))
	e.HEAD("/", IndexRoute(cfg.Store, cfg.LookupOptions.Year, cfg.DevMode))
	e.GET("/stations.geojson", GeoJSONRoute(cfg.Store, cfg.DevMode))
	e.HEAD("/stations.geojson", GeoJSONRoute(cfg.Store, cfg.DevMode))
	e.StaticFS("/s", cfg.StaticFS)

	// API
	api := e.Group("/api")
	api.GET("/stations", StationsRoute(cfg.Store, cfg.DevMode))
	api.HEAD("/stations", StationsRoute(cfg.Store, cfg.DevMode))
	api.GET("/stations/:id", StationRoute(cfg.Store))
	api.GET("/stations/:id/climate", ClimateRoute(cfg.Store, cfg.Lookup, cfg.LookupOptions))
	api.GET("/legend", LegendRoute())
	api.POST("/surfaces/:surface/select/:id", SelectRoute(cfg.BaseContext, cfg.Store, cfg.Surfaces, selector))
	api.GET("/surfaces/:surface", SurfaceRoute(cfg.Surfaces))
	api.GET("/surfaces/:surface/ws", SurfaceStreamRoute(cfg.Surfaces))

	// Internal
	e.GET("/healthcheck", HealthCheckRoute(cfg.Store))
	internal := e.Group("/_", noStore())
	internal.GET("/version", VersionRoute(cfg.Store))
	internal.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e, nil
}

func versionHeader() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-Version", GetVersionString())
			return next(c)
		}
	}
}

func noStore() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			setNoStore(c)
			return next(c)
		}
	}
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/healthcheck" || strings.HasPrefix(c.Path(), "/_/")
		},
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			keyvals := []interface{}{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.Round(time.Microsecond),
			}
			if id := c.Param("id"); id != "" {
				keyvals = append(keyvals, "station", id)
			}
			if v.Error != nil {
				keyvals = append(keyvals, "err", v.Error)
			}
			logger.HTTPLogger().Info("request", keyvals...)
			return nil
		},
	})
}

// errorHandler answers JSON under /api and plain text elsewhere. Server
// errors are logged and reported.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		message = fmt.Sprint(he.Message)
	}

	if code >= 500 {
		metrics.ErrorsByType.WithLabelValues(fmt.Sprintf("http_%d", code)).Inc()
		if he == nil {
			logger.Error(err, "%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		}
	}

	var respErr error
	switch {
	case c.Request().Method == http.MethodHead:
		respErr = c.NoContent(code)
	case strings.HasPrefix(c.Request().URL.Path, "/api/"):
		respErr = c.JSON(code, map[string]string{"error": message})
	default:
		respErr = c.String(code, message)
	}
	if respErr != nil {
		logger.Muted("failed to write error response: %v", respErr)
	}
}
