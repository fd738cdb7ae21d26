package climate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/brubcam/GEOG-464-Lab-8/metrics"
	"github.com/goccy/go-json"
)

const (
	DefaultBaseURL = "https://api.weather.gc.ca"
	DefaultLimit   = 10

	itemsPath = "/collections/climate-daily/items"
	userAgent = "climate-stations/1.0 (+https://github.com/brubcam/GEOG-464-Lab-8)"
)

// Options narrows a lookup. Year 0 means no year filter and Limit <= 0
// falls back to DefaultLimit.
type Options struct {
	Year  int
	Limit int
}

// HTTPClient interface for HTTP operations
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client provides access to the climate-daily collection.
type Client struct {
	baseURL   string
	client    HTTPClient
	timeout   time.Duration
	userAgent string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client HTTPClient) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithTimeout bounds every lookup; expiry yields a KindTimeout failure.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a climate API client for baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{},
		userAgent: userAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type itemsResponse struct {
	Features *[]item `json:"features"`
}

type item struct {
	Properties itemProperties `json:"properties"`
}

type itemProperties struct {
	LocalDate          string   `json:"LOCAL_DATE"`
	MaxTemperature     *float64 `json:"MAX_TEMPERATURE"`
	MinTemperature     *float64 `json:"MIN_TEMPERATURE"`
	MeanTemperature    *float64 `json:"MEAN_TEMPERATURE"`
	TotalPrecipitation *float64 `json:"TOTAL_PRECIPITATION"`
	TotalRain          *float64 `json:"TOTAL_RAIN"`
	TotalSnow          *float64 `json:"TOTAL_SNOW"`
}

// FetchLatestObservation returns the most recent observation for stationID.
// Every call issues a fresh request; failures are returned as a Failed result
// and never retried.
func (c *Client) FetchLatestObservation(ctx context.Context, stationID string, opts Options) Result {
	start := time.Now()
	result := c.fetchLatest(ctx, stationID, opts)

	outcome := result.Status.String()
	if result.Err != nil {
		outcome = result.Err.Kind.String()
	}
	metrics.LookupsTotal.WithLabelValues(outcome).Inc()
	metrics.LookupDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	return result
}

func (c *Client) fetchLatest(ctx context.Context, stationID string, opts Options) Result {
	stationID = strings.TrimSpace(stationID)
	if stationID == "" {
		return Failed(&LookupError{Kind: KindInvalidRequest, Err: errors.New("station id is required")})
	}
	if opts.Year < 0 {
		return Failed(&LookupError{Kind: KindInvalidRequest, StationID: stationID, Err: fmt.Errorf("invalid year %d", opts.Year)})
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ItemsURL(stationID, opts), nil)
	if err != nil {
		return Failed(&LookupError{Kind: KindInvalidRequest, StationID: stationID, Err: fmt.Errorf("failed to create request: %w", err)})
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Failed(transportError(ctx, stationID, err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Failed(&LookupError{Kind: KindNetwork, StationID: stationID, StatusCode: resp.StatusCode})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Failed(transportError(ctx, stationID, fmt.Errorf("failed to read body: %w", err)))
	}

	var payload itemsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return Failed(&LookupError{Kind: KindSchema, StationID: stationID, Err: fmt.Errorf("failed to decode JSON: %w", err)})
	}
	if payload.Features == nil {
		return Failed(&LookupError{Kind: KindSchema, StationID: stationID, Err: errors.New("response has no features array")})
	}

	features := *payload.Features
	if len(features) == 0 {
		return NotFound()
	}

	return Found(latest(features))
}

// ItemsURL builds the climate-daily items query for stationID.
func (c *Client) ItemsURL(stationID string, opts Options) string {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sortby", "-LOCAL_DATE")
	params.Set("CLIMATE_IDENTIFIER", stationID)
	if opts.Year > 0 {
		params.Set("LOCAL_YEAR", strconv.Itoa(opts.Year))
	}

	return fmt.Sprintf("%s%s?%s", c.baseURL, itemsPath, params.Encode())
}

// latest orders records newest first and converts the head. The upstream
// already sorts by -LOCAL_DATE; sorting again keeps the choice correct when
// a proxy or mock does not. features must not be empty.
func latest(features []item) Observation {
	sorted := make([]item, len(features))
	copy(sorted, features)
	sort.SliceStable(sorted, func(i, j int) bool {
		return calendarDate(sorted[i].Properties.LocalDate) > calendarDate(sorted[j].Properties.LocalDate)
	})

	p := sorted[0].Properties
	return Observation{
		Date:                 calendarDate(p.LocalDate),
		MaxTempC:             p.MaxTemperature,
		MinTempC:             p.MinTemperature,
		MeanTempC:            p.MeanTemperature,
		TotalPrecipitationMm: p.TotalPrecipitation,
		TotalRainMm:          p.TotalRain,
		TotalSnowMm:          p.TotalSnow,
	}
}

// calendarDate drops a time component such as "2025-06-01 00:00:00".
func calendarDate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 10 && (s[10] == ' ' || s[10] == 'T') {
		return s[:10]
	}
	return s
}

func transportError(ctx context.Context, stationID string, err error) *LookupError {
	kind := KindNetwork

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		kind = KindTimeout
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		kind = KindCanceled
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = KindTimeout
	}

	return &LookupError{Kind: kind, StationID: stationID, Err: err}
}

func marshalJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}
