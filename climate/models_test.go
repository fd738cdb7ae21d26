package climate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func f(v float64) *float64 { return &v }

func TestObservation_PrecipitationBreakdown(t *testing.T) {
	tests := []struct {
		name string
		rain *float64
		snow *float64
		want string
	}{
		{"both absent", nil, nil, ""},
		{"both zero", f(0), f(0), ""},
		{"zero rain with snow", f(0), f(5), "5 mm snow"},
		{"rain only", f(2.4), nil, "2.4 mm rain"},
		{"both present", f(2.4), f(5), "2.4 mm rain, 5 mm snow"},
		{"negative ignored", f(-1), f(0.2), "0.2 mm snow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := Observation{TotalRainMm: tt.rain, TotalSnowMm: tt.snow}
			assert.Equal(t, tt.want, obs.PrecipitationBreakdown())
		})
	}
}

func TestObservation_BreakdownMentionsSnowNotRain(t *testing.T) {
	obs := Observation{TotalPrecipitationMm: f(5), TotalRainMm: f(0), TotalSnowMm: f(5)}

	breakdown := obs.PrecipitationBreakdown()
	assert.Contains(t, breakdown, "snow")
	assert.NotContains(t, breakdown, "rain")

	text, ok := obs.PrecipitationText()
	assert.True(t, ok)
	assert.Equal(t, "5 mm (5 mm snow)", text)
}

func TestObservation_PrecipitationTextMissingTotal(t *testing.T) {
	obs := Observation{TotalRainMm: f(3)}
	_, ok := obs.PrecipitationText()
	assert.False(t, ok)
}

func TestFormatOptional(t *testing.T) {
	assert.Equal(t, "n/a", FormatOptional(nil, "°C"))
	assert.Equal(t, "25.3 °C", FormatOptional(f(25.3), "°C"))
	assert.Equal(t, "0", FormatOptional(f(0), ""))
}

func TestResultConstructors(t *testing.T) {
	found := Found(Observation{Date: "2025-06-01"})
	assert.Equal(t, StatusFound, found.Status)
	assert.Equal(t, "2025-06-01", found.Observation.Date)

	assert.Equal(t, "not_found", NotFound().Status.String())

	failed := Failed(&LookupError{Kind: KindTimeout, StationID: "A"})
	assert.Equal(t, StatusFailed, failed.Status)
	assert.Contains(t, failed.Err.Error(), "timeout_error")
}

func TestLookupError_Error(t *testing.T) {
	err := &LookupError{Kind: KindNetwork, StationID: "1018620", StatusCode: 500}
	assert.Equal(t, `climate lookup "1018620": network_error: status 500`, err.Error())
}

func TestCalendarDate(t *testing.T) {
	assert.Equal(t, "2025-06-01", calendarDate("2025-06-01 00:00:00"))
	assert.Equal(t, "2025-06-01", calendarDate("2025-06-01T00:00:00Z"))
	assert.Equal(t, "2025-06-01", calendarDate("2025-06-01"))
	assert.Equal(t, "", calendarDate(""))
}
