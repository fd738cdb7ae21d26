package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/brubcam/GEOG-464-Lab-8/catalog"
	"github.com/brubcam/GEOG-464-Lab-8/climate"
	"github.com/brubcam/GEOG-464-Lab-8/display"
	"github.com/brubcam/GEOG-464-Lab-8/store"
	"github.com/labstack/echo/v4"
)

const maxLookupLimit = 500

// ClimateResponse is the one-shot lookup payload.
type ClimateResponse struct {
	Station       catalog.Station      `json:"station"`
	Status        climate.Status       `json:"status"`
	Observation   *climate.Observation `json:"observation,omitempty"`
	Precipitation string               `json:"precipitation,omitempty"`
	Error         *climate.LookupError `json:"error,omitempty"`
	Message       string               `json:"message"`
}

// ClimateRoute looks up the latest observation for a catalog station.
// ?year= and ?limit= override the configured defaults; year=any drops the
// year filter.
func ClimateRoute(s *store.Store, lookup display.Lookuper, defaults climate.Options) func(c echo.Context) error {
	return func(c echo.Context) error {
		station, ok := s.Get(c.Param("id"))
		if !ok {
			return echo.NewHTTPError(http.StatusNotFound, "station not found")
		}

		opts, err := lookupOptions(c, defaults)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		result := lookup.FetchLatestObservation(c.Request().Context(), station.ID, opts)

		resp := ClimateResponse{
			Station:     station,
			Status:      result.Status,
			Observation: result.Observation,
			Error:       result.Err,
			Message:     display.Message(result),
		}
		if result.Observation != nil {
			resp.Precipitation, _ = result.Observation.PrecipitationText()
		}
		if result.Err != nil {
			c.Set(errorContextKey, result.Err.Error())
		}

		setNoStore(c)
		return c.JSON(statusForResult(result), resp)
	}
}

// statusForResult maps a lookup outcome onto an HTTP status. An empty
// result is a successful lookup and answers 200.
func statusForResult(r climate.Result) int {
	if r.Status != climate.StatusFailed || r.Err == nil {
		return http.StatusOK
	}
	switch r.Err.Kind {
	case climate.KindNetwork, climate.KindSchema:
		return http.StatusBadGateway
	case climate.KindTimeout:
		return http.StatusGatewayTimeout
	case climate.KindInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusServiceUnavailable
	}
}

var errInvalidLimit = fmt.Errorf("limit must be between 1 and %d", maxLookupLimit)

func lookupOptions(c echo.Context, defaults climate.Options) (climate.Options, error) {
	opts := defaults

	switch year := strings.TrimSpace(c.QueryParam("year")); year {
	case "":
	case "any", "all":
		opts.Year = 0
	default:
		y, err := strconv.Atoi(year)
		if err != nil || y < 0 {
			return opts, errors.New("year must be a non-negative integer or \"any\"")
		}
		opts.Year = y
	}

	if limit := strings.TrimSpace(c.QueryParam("limit")); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 || n > maxLookupLimit {
			return opts, errInvalidLimit
		}
		opts.Limit = n
	}

	return opts, nil
}
