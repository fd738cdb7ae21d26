package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/brubcam/GEOG-464-Lab-8/metrics"
)

const userAgent = "climate-stations/1.0 (+https://github.com/brubcam/GEOG-464-Lab-8)"

// FetchError reports that the catalog could not be retrieved at all:
// transport failure, unreadable file or a non-success HTTP status.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("catalog fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("catalog fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a payload that is not a GeoJSON FeatureCollection.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("catalog parse %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// HTTPClient interface for HTTP operations
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Loader fetches station catalogs over HTTP.
type Loader struct {
	client HTTPClient
}

// NewLoader creates a loader. A nil client gets a default http.Client.
func NewLoader(client HTTPClient) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Loader{client: client}
}

// Open loads from an http(s) URL, or from the local filesystem otherwise.
func (l *Loader) Open(ctx context.Context, source string) (*Catalog, error) {
	if IsRemote(source) {
		return l.Load(ctx, source)
	}
	path := strings.TrimPrefix(source, "file://")
	return LoadFile(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

// Load issues a single GET for url and parses the response body.
func (l *Loader) Load(ctx context.Context, url string) (*Catalog, error) {
	c, err := l.load(ctx, url)
	recordLoad(metrics.ExtractOrigin(url), err)
	return c, err
}

func (l *Loader) load(ctx context.Context, url string) (*Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("failed to read body: %w", err)}
	}

	return Parse(data, url)
}

// LoadFile parses a catalog stored in f.
func LoadFile(f fs.FS, path string) (*Catalog, error) {
	data, err := fs.ReadFile(f, path)
	if err != nil {
		err = &FetchError{URL: path, Err: err}
		recordLoad("file", err)
		return nil, err
	}
	c, err := Parse(data, path)
	recordLoad("file", err)
	return c, err
}

func recordLoad(origin string, err error) {
	outcome := "success"
	var parseErr *ParseError
	switch {
	case errors.As(err, &parseErr):
		outcome = "parse_error"
	case err != nil:
		outcome = "fetch_error"
	}
	metrics.CatalogLoadsTotal.WithLabelValues(origin, outcome).Inc()
}

// IsRemote reports whether source should be fetched over HTTP.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
