package ui

import (
	"context"
	"testing"
	"time"

	"github.com/brubcam/GEOG-464-Lab-8/catalog"
	"github.com/brubcam/GEOG-464-Lab-8/climate"
	"github.com/brubcam/GEOG-464-Lab-8/display"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

type staticLookup struct {
	result climate.Result
}

func (s staticLookup) FetchLatestObservation(ctx context.Context, stationID string, opts climate.Options) climate.Result {
	return s.result
}

func newTestBrowser(t *testing.T, result climate.Result) (*Browser, *display.Surface) {
	t.Helper()
	c, err := catalog.NewCatalog([]catalog.Station{
		{ID: "6106000", Name: "OTTAWA CDA", ProvinceCode: "ON", ProvinceName: "ONTARIO", StationNumber: "4333", ElevationMeters: ptr(79)},
		{ID: "3031093", Name: "CALGARY INTL A", ProvinceCode: "AB"},
	}, 0)
	require.NoError(t, err)

	surface := display.NewSurface("test")
	t.Cleanup(surface.Close)

	selector := display.NewSelector(staticLookup{result: result}, climate.Options{})
	return NewBrowser(context.Background(), c, selector, surface), surface
}

func press(b *Browser, key tea.KeyMsg) tea.Cmd {
	_, cmd := b.Update(key)
	return cmd
}

func TestBrowser_SelectShowsLoadingThenResult(t *testing.T) {
	found := climate.Found(climate.Observation{Date: "2025-06-01", MaxTempC: ptr(25.3), MinTempC: ptr(14.1)})
	b, surface := newTestBrowser(t, found)

	press(b, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "OTTAWA CDA", b.state.StationName)
	assert.Contains(t, []display.Phase{display.PhaseLoading, display.PhaseFound}, b.state.Phase)

	require.Eventually(t, func() bool {
		return surface.State().Phase == display.PhaseFound
	}, time.Second, 5*time.Millisecond)

	_, cmd := b.Update(stateMsg{state: surface.State(), ok: true})
	assert.NotNil(t, cmd, "keeps listening for updates")
	assert.Equal(t, display.PhaseFound, b.state.Phase)

	view := b.View()
	assert.Contains(t, view, "Max Temp:")
	assert.Contains(t, view, "25.3 °C")
	assert.Contains(t, view, "ONTARIO")
}

func TestBrowser_IgnoresStaleStates(t *testing.T) {
	b, _ := newTestBrowser(t, climate.NotFound())
	b.state = display.State{Seq: 5, Phase: display.PhaseFound, StationName: "NEWER"}

	b.Update(stateMsg{state: display.State{Seq: 4, Phase: display.PhaseFailed, StationName: "OLDER"}, ok: true})

	assert.Equal(t, "NEWER", b.state.StationName)
	assert.Equal(t, display.PhaseFound, b.state.Phase)
}

func TestBrowser_ClosedSurfaceStopsListening(t *testing.T) {
	b, _ := newTestBrowser(t, climate.NotFound())

	_, cmd := b.Update(stateMsg{ok: false})
	assert.Nil(t, cmd)
}

func TestBrowser_Quit(t *testing.T) {
	b, _ := newTestBrowser(t, climate.NotFound())

	cmd := press(b, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestBrowser_FailureView(t *testing.T) {
	failed := climate.Failed(&climate.LookupError{Kind: climate.KindTimeout, StationID: "6106000"})
	b, surface := newTestBrowser(t, failed)

	press(b, tea.KeyMsg{Type: tea.KeyEnter})
	require.Eventually(t, func() bool {
		return surface.State().Phase == display.PhaseFailed
	}, time.Second, 5*time.Millisecond)
	b.Update(stateMsg{state: surface.State(), ok: true})

	assert.Contains(t, b.View(), "Timed out waiting for climate data")
	assert.NotContains(t, b.View(), "Max Temp")
}

func TestBrowser_LogLineInFooter(t *testing.T) {
	b, _ := newTestBrowser(t, climate.NotFound())

	b.Update(logMsg{"Lookup failed"})
	assert.Contains(t, b.View(), "Lookup failed")
}

func TestStationItem(t *testing.T) {
	item := stationItem{station: catalog.Station{ID: "3031093", Name: "CALGARY INTL A", ProvinceCode: "AB"}}

	assert.Equal(t, "3031093 · AB · n/a", item.Description())
	assert.Contains(t, item.Title(), "CALGARY INTL A")
	assert.Contains(t, item.FilterValue(), "3031093")
}
