// Package display owns the "currently displayed observation" of each
// consumer view. Lookups may overlap; a surface only ever shows the result
// of the most recently issued one.
package display

import (
	"fmt"
	"time"

	"github.com/brubcam/GEOG-464-Lab-8/climate"
	"github.com/goccy/go-json"
)

// Phase is what a surface is currently showing.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseFound
	PhaseNotFound
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseFound:
		return "found"
	case PhaseNotFound:
		return "not_found"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for candidate := PhaseIdle; candidate <= PhaseFailed; candidate++ {
		if candidate.String() == string(text) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

const (
	MessageIdle     = "Select a station to see its latest climate data."
	MessageLoading  = "Loading climate data..."
	MessageNotFound = "No recent climate data available for this station."
)

// State is a snapshot of a surface. Observation is only set in PhaseFound,
// so a failed or empty lookup never leaves older readings on screen.
type State struct {
	Seq         uint64               `json:"seq"`
	RequestID   string               `json:"requestId,omitempty"`
	StationID   string               `json:"stationId,omitempty"`
	StationName string               `json:"stationName,omitempty"`
	Phase       Phase                `json:"status"`
	Observation *climate.Observation `json:"observation,omitempty"`
	ErrorKind   string               `json:"errorKind,omitempty"`
	Message     string               `json:"message"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// Message returns the human-readable text for a lookup result.
func Message(r climate.Result) string {
	switch r.Status {
	case climate.StatusFound:
		if r.Observation != nil && r.Observation.Date != "" {
			return "Latest observation: " + r.Observation.Date
		}
		return "Latest observation"
	case climate.StatusNotFound:
		return MessageNotFound
	}

	if r.Err == nil {
		return "Climate lookup failed"
	}
	switch r.Err.Kind {
	case climate.KindNetwork:
		return "Climate service unavailable"
	case climate.KindSchema:
		return "Climate service returned an unexpected response"
	case climate.KindTimeout:
		return "Timed out waiting for climate data"
	case climate.KindInvalidRequest:
		return "This station has no climate identifier"
	case climate.KindCanceled:
		return "Lookup canceled"
	default:
		return "Climate lookup failed"
	}
}

// Lines renders the observation the way the station panel shows it.
// Precipitation is omitted entirely when the total is missing.
func (st State) Lines() []string {
	if st.Phase != PhaseFound || st.Observation == nil {
		return []string{st.Message}
	}

	o := st.Observation
	lines := []string{
		"Date: " + o.Date,
		"Max Temp: " + climate.FormatOptional(o.MaxTempC, "°C"),
		"Min Temp: " + climate.FormatOptional(o.MinTempC, "°C"),
	}
	if o.MeanTempC != nil {
		lines = append(lines, "Mean Temp: "+climate.FormatOptional(o.MeanTempC, "°C"))
	}
	if precip, ok := o.PrecipitationText(); ok {
		lines = append(lines, "Total Precipitation: "+precip)
	}
	return lines
}

// MarshalJSON adds the rendered panel lines so thin clients need no
// formatting of their own.
func (st State) MarshalJSON() ([]byte, error) {
	type plain State
	return json.Marshal(struct {
		plain
		Lines []string `json:"lines"`
	}{plain(st), st.Lines()})
}
