package logger

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLogs routes output through the UI hook for the duration of a test.
func captureLogs(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	prevLog, prevUI := Log, useUI
	Log = func(s string) { lines = append(lines, s) }
	SetUIMode(true)
	t.Cleanup(func() {
		Log = prevLog
		SetUIMode(prevUI)
	})
	return &lines
}

func TestSplitArgs(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		args    []interface{}
		wantErr error
		wantMsg string
	}{
		{"empty", nil, nil, ""},
		{"plain string", []interface{}{"hello"}, nil, "hello"},
		{"format", []interface{}{"loaded %d", 3}, nil, "loaded 3"},
		{"error only", []interface{}{boom}, boom, "boom"},
		{"error with format", []interface{}{boom, "failed: %v", boom}, boom, "failed: boom"},
		{"error with non-string", []interface{}{boom, 42}, boom, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := splitArgs(tt.args)
			assert.Equal(t, tt.wantErr, err)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestError_CapturesException(t *testing.T) {
	lines := captureLogs(t)

	var captured []error
	SetSentryCaptureException(func(err error) interface{} {
		captured = append(captured, err)
		return nil
	})
	t.Cleanup(func() { SetSentryCaptureException(nil) })

	boom := errors.New("climate service down")
	Error(boom, "lookup failed: %v", boom)
	Error("no error value here")

	require.Len(t, captured, 1)
	assert.Equal(t, boom, captured[0])
	require.Len(t, *lines, 2)
	assert.Contains(t, (*lines)[0], "lookup failed: climate service down")
}

func TestFatal_FlushesAndExits(t *testing.T) {
	captureLogs(t)

	var code int
	var flushed bool
	prevExit := exit
	exit = func(c int) { code = c }
	SetFlush(func() { flushed = true })
	t.Cleanup(func() {
		exit = prevExit
		SetFlush(nil)
	})

	Fatal(errors.New("catalog unavailable"))

	assert.Equal(t, 1, code)
	assert.True(t, flushed)
}

func TestCatalogSummary_Print(t *testing.T) {
	lines := captureLogs(t)

	CatalogSummary{Source: "stations.geojson", Stations: 8, Skipped: 2}.Print()
	CatalogSummary{Stations: 8}.Print()

	require.Len(t, *lines, 2)
	assert.Contains(t, (*lines)[0], "skipped")
	assert.Contains(t, (*lines)[0], "stations.geojson")
	assert.False(t, strings.Contains((*lines)[1], "skipped"))
}
