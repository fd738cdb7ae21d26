// Package climate resolves a station's climate identifier to its most recent
// daily observation using the MSC GeoMet OGC API (climate-daily collection).
package climate

import (
	"fmt"
	"strconv"
	"strings"
)

// Observation is a single day's aggregated measurements for a station.
//
// Every measurement is optional. A nil value means the upstream record had no
// reading, which is not the same thing as a reading of zero.
type Observation struct {
	Date                 string   `json:"date"`
	MaxTempC             *float64 `json:"maxTempC"`
	MinTempC             *float64 `json:"minTempC"`
	MeanTempC            *float64 `json:"meanTempC"`
	TotalPrecipitationMm *float64 `json:"totalPrecipitationMm"`
	TotalRainMm          *float64 `json:"totalRainMm"`
	TotalSnowMm          *float64 `json:"totalSnowMm"`
}

// PrecipitationBreakdown describes the rain and snow contributions, e.g.
// "2.4 mm rain, 5 mm snow". A part is only included when its value is
// present and strictly positive; the result is empty when neither is.
func (o Observation) PrecipitationBreakdown() string {
	var parts []string
	if o.TotalRainMm != nil && *o.TotalRainMm > 0 {
		parts = append(parts, FormatNumber(*o.TotalRainMm)+" mm rain")
	}
	if o.TotalSnowMm != nil && *o.TotalSnowMm > 0 {
		parts = append(parts, FormatNumber(*o.TotalSnowMm)+" mm snow")
	}
	return strings.Join(parts, ", ")
}

// PrecipitationText renders the total precipitation with its breakdown, e.g.
// "7.4 mm (2.4 mm rain, 5 mm snow)". ok is false when the total is missing.
func (o Observation) PrecipitationText() (text string, ok bool) {
	if o.TotalPrecipitationMm == nil {
		return "", false
	}
	text = FormatNumber(*o.TotalPrecipitationMm) + " mm"
	if breakdown := o.PrecipitationBreakdown(); breakdown != "" {
		text += " (" + breakdown + ")"
	}
	return text, true
}

// FormatNumber prints v with the shortest exact representation.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatOptional prints v followed by unit, or "n/a" when v is nil.
func FormatOptional(v *float64, unit string) string {
	if v == nil {
		return "n/a"
	}
	if unit == "" {
		return FormatNumber(*v)
	}
	return FormatNumber(*v) + " " + unit
}

// Status tags the variant held by a Result.
type Status int

const (
	StatusFound Status = iota + 1
	StatusNotFound
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not_found"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for _, candidate := range []Status{StatusFound, StatusNotFound, StatusFailed} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown lookup status %q", text)
}

// Result is the outcome of one lookup: exactly one of Found, NotFound or
// Failed. Observation is set only for Found and Err only for Failed.
type Result struct {
	Status      Status       `json:"status"`
	Observation *Observation `json:"observation,omitempty"`
	Err         *LookupError `json:"error,omitempty"`
}

func Found(o Observation) Result {
	return Result{Status: StatusFound, Observation: &o}
}

// NotFound is the valid, empty result: the request succeeded with zero records.
func NotFound() Result {
	return Result{Status: StatusNotFound}
}

func Failed(err *LookupError) Result {
	return Result{Status: StatusFailed, Err: err}
}

// ErrorKind classifies lookup failures.
type ErrorKind int

const (
	// KindNetwork covers transport failures and non-success HTTP statuses.
	KindNetwork ErrorKind = iota + 1
	// KindSchema means the body was not the expected JSON shape.
	KindSchema
	// KindTimeout means the lookup deadline expired.
	KindTimeout
	// KindInvalidRequest means the lookup was rejected before any request was made.
	KindInvalidRequest
	// KindCanceled means the lookup was superseded and its context cancelled.
	KindCanceled
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network_error"
	case KindSchema:
		return "schema_error"
	case KindTimeout:
		return "timeout_error"
	case KindInvalidRequest:
		return "invalid_request"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown_error"
	}
}

func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ErrorKind) UnmarshalText(text []byte) error {
	for candidate := KindNetwork; candidate <= KindCanceled; candidate++ {
		if candidate.String() == string(text) {
			*k = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown lookup error kind %q", text)
}

// LookupError describes why a lookup failed.
type LookupError struct {
	Kind       ErrorKind `json:"kind"`
	StationID  string    `json:"stationId"`
	StatusCode int       `json:"statusCode,omitempty"`
	Err        error     `json:"-"`
}

func (e *LookupError) Error() string {
	msg := fmt.Sprintf("climate lookup %q: %s", e.StationID, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LookupError) Unwrap() error { return e.Err }

// MarshalJSON includes the rendered error text as "message".
func (e *LookupError) MarshalJSON() ([]byte, error) {
	type alias LookupError
	return marshalJSON(struct {
		*alias
		Message string `json:"message"`
	}{alias: (*alias)(e), Message: e.Error()})
}
