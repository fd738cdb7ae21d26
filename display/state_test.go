package display

import (
	"testing"

	"github.com/brubcam/GEOG-464-Lab-8/climate"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage(t *testing.T) {
	failed := func(kind climate.ErrorKind) climate.Result {
		return climate.Failed(&climate.LookupError{Kind: kind})
	}

	tests := []struct {
		name   string
		result climate.Result
		want   string
	}{
		{"found", climate.Found(climate.Observation{Date: "2025-06-01"}), "Latest observation: 2025-06-01"},
		{"not found", climate.NotFound(), "No recent climate data available for this station."},
		{"network", failed(climate.KindNetwork), "Climate service unavailable"},
		{"schema", failed(climate.KindSchema), "Climate service returned an unexpected response"},
		{"timeout", failed(climate.KindTimeout), "Timed out waiting for climate data"},
		{"invalid", failed(climate.KindInvalidRequest), "This station has no climate identifier"},
		{"failed without error", climate.Result{Status: climate.StatusFailed}, "Climate lookup failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.result))
		})
	}
}

func TestState_Lines(t *testing.T) {
	obs := climate.Observation{
		Date:                 "2025-06-01",
		MaxTempC:             f(25.3),
		MinTempC:             f(14.1),
		TotalPrecipitationMm: f(0),
	}
	st := State{Phase: PhaseFound, Observation: &obs}

	assert.Equal(t, []string{
		"Date: 2025-06-01",
		"Max Temp: 25.3 °C",
		"Min Temp: 14.1 °C",
		"Total Precipitation: 0 mm",
	}, st.Lines())
}

func TestState_LinesOmitsMissingPrecipitation(t *testing.T) {
	obs := climate.Observation{Date: "2025-01-15", MinTempC: f(-12)}
	lines := State{Phase: PhaseFound, Observation: &obs}.Lines()

	assert.Contains(t, lines, "Max Temp: n/a")
	for _, line := range lines {
		assert.NotContains(t, line, "Precipitation")
	}
}

func TestState_LinesWithoutObservation(t *testing.T) {
	st := State{Phase: PhaseNotFound, Message: MessageNotFound}
	assert.Equal(t, []string{MessageNotFound}, st.Lines())
}

func TestState_JSON(t *testing.T) {
	data, err := json.Marshal(State{Seq: 3, Phase: PhaseNotFound, Message: MessageNotFound})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "not_found", decoded["status"])
	assert.Equal(t, float64(3), decoded["seq"])
	assert.NotContains(t, decoded, "observation")
	assert.Equal(t, []any{MessageNotFound}, decoded["lines"])
}

func TestState_JSONRoundTrip(t *testing.T) {
	obs := climate.Observation{Date: "2025-06-01"}
	st := State{Seq: 7, StationID: "6106000", Phase: PhaseFound, Observation: &obs, Message: "Latest observation: 2025-06-01"}

	data, err := json.Marshal(st)
	require.NoError(t, err)

	var decoded State
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, PhaseFound, decoded.Phase)
	assert.Equal(t, uint64(7), decoded.Seq)
	assert.Equal(t, "2025-06-01", decoded.Observation.Date)

	var p Phase
	assert.Error(t, p.UnmarshalText([]byte("pending")))
}
