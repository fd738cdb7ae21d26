package server

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/brubcam/GEOG-464-Lab-8/metrics"
	"github.com/labstack/echo/v4"
)

// ETagger is an interface for types that have their own ETag
type ETagger interface {
	ETag() string
}

// CacheConfig holds configuration for cache headers and ETag generation
type CacheConfig struct {
	// Components are all the data components to include in the ETag
	// Components can be:
	// - Objects implementing ETagger interface - will call ETag() method
	// - Structs with a string ETag field (such as *catalog.Catalog)
	// - Other objects - will be hashed using StableJSONHash
	Components []interface{}

	// DevMode disables caching when true
	DevMode bool
}

// SetCacheHeaders sets consistent cache headers and ETag based on the config
// Returns the generated ETag and whether the request should return 304 Not Modified
// Returns an error if Content-Type is not already set
func SetCacheHeaders(c echo.Context, config CacheConfig) (string, bool, error) {
	if c.Response().Header().Get(echo.HeaderContentType) == "" {
		return "", false, errors.New("Content-Type must be set before calling SetCacheHeaders")
	}

	etag := buildCompositeETag(config, formatSuffix(c.Request().URL.Path))

	if config.DevMode {
		setNoStore(c)
		return etag, false, nil
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=30, stale-while-revalidate=60, must-revalidate")
	c.Response().Header().Set("ETag", etag)
	c.Response().Header().Set("Vary", "Accept")

	if ifNoneMatch := c.Request().Header.Get("If-None-Match"); ifNoneMatch != "" {
		if ifNoneMatch == etag {
			metrics.CacheHits.WithLabelValues(c.Path()).Inc()
			return etag, true, nil
		}
	}

	return etag, false, nil
}

// setNoStore marks a response as uncachable
func setNoStore(c echo.Context) {
	h := c.Response().Header()
	h.Set("Cache-Control", "no-store, no-cache, must-revalidate, private, max-age=0")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
}

// formatSuffix distinguishes HTML and data representations of the same
// resource so they never share an ETag.
func formatSuffix(path string) string {
	switch {
	case strings.HasSuffix(path, ".geojson"):
		return "geojson"
	case strings.HasSuffix(path, ".json"), strings.HasPrefix(path, "/api/"):
		return "json"
	default:
		return "html"
	}
}

// buildCompositeETag builds a composite ETag from version + all components
func buildCompositeETag(config CacheConfig, formatSuffix string) string {
	parts := []string{GetVersionString()}

	for _, component := range config.Components {
		if component == nil {
			continue
		}

		var hashValue string
		if etagger, ok := component.(ETagger); ok {
			hashValue = strings.Trim(etagger.ETag(), "\"")
		} else if etag := getETagFromStruct(component); etag != "" {
			hashValue = strings.Trim(etag, "\"")
		} else {
			hash, err := StableJSONHash(component)
			if err != nil {
				continue
			}
			hashValue = strings.Trim(hash, "\"")
		}

		if hashValue != "" {
			parts = append(parts, hashValue)
		}
	}

	if formatSuffix != "" {
		parts = append(parts, formatSuffix)
	}

	return "\"" + strings.Join(parts, "-") + "\""
}

// getETagFromStruct extracts ETag field from a struct using reflection
func getETagFromStruct(component interface{}) string {
	v := reflect.ValueOf(component)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return ""
	}

	etagField := v.FieldByName("ETag")
	if etagField.IsValid() && etagField.Kind() == reflect.String {
		return etagField.String()
	}

	return ""
}

// notModified finishes a cached response: 304 on an ETag match, and an
// empty 200 for HEAD. handled is false when the caller should write the body.
func notModified(c echo.Context, config CacheConfig) (handled bool, err error) {
	_, match, err := SetCacheHeaders(c, config)
	if err != nil {
		return true, err
	}
	if match {
		return true, c.NoContent(http.StatusNotModified)
	}
	if c.Request().Method == http.MethodHead {
		return true, c.NoContent(http.StatusOK)
	}
	return false, nil
}
