package display

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/brubcam/GEOG-464-Lab-8/catalog"
	"github.com/brubcam/GEOG-464-Lab-8/climate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

var (
	stationA = catalog.Station{ID: "A", Name: "Alpha"}
	stationB = catalog.Station{ID: "B", Name: "Bravo"}
)

func observation(date string) climate.Observation {
	return climate.Observation{Date: date, MaxTempC: f(25.3), MinTempC: f(14.1), TotalPrecipitationMm: f(0)}
}

// gatedLookup blocks each lookup until its station's gate is released.
type gatedLookup struct {
	mu      sync.Mutex
	gates   map[string]chan climate.Result
	started chan string
}

func newGatedLookup(ids ...string) *gatedLookup {
	g := &gatedLookup{gates: make(map[string]chan climate.Result), started: make(chan string, len(ids))}
	for _, id := range ids {
		g.gates[id] = make(chan climate.Result, 1)
	}
	return g
}

func (g *gatedLookup) FetchLatestObservation(ctx context.Context, id string, opts climate.Options) climate.Result {
	g.mu.Lock()
	gate := g.gates[id]
	g.mu.Unlock()

	g.started <- id
	// Deliberately ignores ctx so a superseded lookup can still complete late.
	return <-gate
}

func (g *gatedLookup) release(id string, r climate.Result) {
	g.gates[id] <- r
}

func TestSurface_InitialStateIsIdle(t *testing.T) {
	s := NewSurface("tab")

	st := s.State()
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.Equal(t, MessageIdle, st.Message)
	assert.Zero(t, st.Seq)
	assert.Equal(t, "tab", s.Name())
}

func TestSurface_BeginShowsLoading(t *testing.T) {
	s := NewSurface("tab")

	_, ticket := s.Begin(context.Background(), stationA)

	st := s.State()
	assert.Equal(t, PhaseLoading, st.Phase)
	assert.Equal(t, MessageLoading, st.Message)
	assert.Equal(t, "Alpha", st.StationName)
	assert.Equal(t, ticket.Seq, st.Seq)
	assert.NotEmpty(t, ticket.RequestID)
	assert.Nil(t, st.Observation)
}

func TestSurface_TicketsIncrease(t *testing.T) {
	s := NewSurface("tab")

	_, first := s.Begin(context.Background(), stationA)
	_, second := s.Begin(context.Background(), stationB)

	assert.Greater(t, second.Seq, first.Seq)
	assert.NotEqual(t, first.RequestID, second.RequestID)
}

func TestSurface_BeginCancelsPrevious(t *testing.T) {
	s := NewSurface("tab")

	ctxA, _ := s.Begin(context.Background(), stationA)
	ctxB, _ := s.Begin(context.Background(), stationB)

	assert.ErrorIs(t, ctxA.Err(), context.Canceled)
	assert.NoError(t, ctxB.Err())
}

func TestSurface_StaleCommitRejected(t *testing.T) {
	s := NewSurface("tab")

	_, ticketA := s.Begin(context.Background(), stationA)
	_, ticketB := s.Begin(context.Background(), stationB)

	require.True(t, s.Commit(ticketB, climate.Found(observation("2025-06-02"))))
	assert.False(t, s.Commit(ticketA, climate.Found(observation("2025-06-01"))))

	st := s.State()
	assert.Equal(t, "B", st.StationID)
	assert.Equal(t, "2025-06-02", st.Observation.Date)
}

func TestSurface_CanceledResultNotDisplayed(t *testing.T) {
	s := NewSurface("tab")

	_, first := s.Begin(context.Background(), stationA)
	s.Begin(context.Background(), stationB)
	applied := s.Commit(first, climate.Failed(&climate.LookupError{Kind: climate.KindCanceled, StationID: "A"}))

	assert.False(t, applied)
	assert.Equal(t, PhaseLoading, s.State().Phase)
	assert.Equal(t, "B", s.State().StationID)
}

func TestSurface_CanceledNewestLookupFails(t *testing.T) {
	s := NewSurface("tab")

	_, ticket := s.Begin(context.Background(), stationA)
	applied := s.Commit(ticket, climate.Failed(&climate.LookupError{Kind: climate.KindCanceled, StationID: "A"}))

	require.True(t, applied)
	st := s.State()
	assert.Equal(t, PhaseFailed, st.Phase)
	assert.Equal(t, "canceled", st.ErrorKind)
	assert.Equal(t, "Lookup canceled", st.Message)
	assert.Nil(t, st.Observation)
}

func TestSurface_FailureClearsObservation(t *testing.T) {
	s := NewSurface("tab")

	_, t1 := s.Begin(context.Background(), stationA)
	require.True(t, s.Commit(t1, climate.Found(observation("2025-06-01"))))

	_, t2 := s.Begin(context.Background(), stationB)
	require.True(t, s.Commit(t2, climate.Failed(&climate.LookupError{Kind: climate.KindNetwork, StationID: "B", StatusCode: 500})))

	st := s.State()
	assert.Equal(t, PhaseFailed, st.Phase)
	assert.Nil(t, st.Observation)
	assert.Equal(t, "network_error", st.ErrorKind)
	assert.Equal(t, "Climate service unavailable", st.Message)
}

func TestSurface_NotFound(t *testing.T) {
	s := NewSurface("tab")

	_, ticket := s.Begin(context.Background(), stationA)
	require.True(t, s.Commit(ticket, climate.NotFound()))

	st := s.State()
	assert.Equal(t, PhaseNotFound, st.Phase)
	assert.Equal(t, MessageNotFound, st.Message)
	assert.Nil(t, st.Observation)
}

func TestSurface_SubscribeReceivesLatest(t *testing.T) {
	s := NewSurface("tab")

	updates, unsubscribe := s.Subscribe()
	defer unsubscribe()

	initial := <-updates
	assert.Equal(t, PhaseIdle, initial.Phase)

	// Nobody reads while three states are published; only the newest survives.
	_, _ = s.Begin(context.Background(), stationA)
	_, ticket := s.Begin(context.Background(), stationB)
	require.True(t, s.Commit(ticket, climate.NotFound()))

	latest := <-updates
	assert.Equal(t, PhaseNotFound, latest.Phase)
	assert.Equal(t, "B", latest.StationID)

	select {
	case extra := <-updates:
		t.Fatalf("unexpected extra state %+v", extra)
	default:
	}
}

func TestSurface_UnsubscribeClosesChannel(t *testing.T) {
	s := NewSurface("tab")

	updates, unsubscribe := s.Subscribe()
	<-updates
	unsubscribe()
	unsubscribe()

	_, ok := <-updates
	assert.False(t, ok)
}

func TestSurface_Close(t *testing.T) {
	s := NewSurface("tab")

	ctx, ticket := s.Begin(context.Background(), stationA)
	updates, _ := s.Subscribe()
	<-updates

	s.Close()

	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	_, ok := <-updates
	assert.False(t, ok)
	assert.False(t, s.Commit(ticket, climate.NotFound()))
}

func TestSelector_LastSelectionWins(t *testing.T) {
	lookup := newGatedLookup("A", "B")
	sel := NewSelector(lookup, climate.Options{Year: 2025})
	s := NewSurface("tab")

	type outcome struct {
		state   State
		applied bool
	}
	resultA := make(chan outcome, 1)
	resultB := make(chan outcome, 1)

	go func() {
		st, ok := sel.Select(context.Background(), s, stationA)
		resultA <- outcome{st, ok}
	}()
	require.Equal(t, "A", <-lookup.started)

	go func() {
		st, ok := sel.Select(context.Background(), s, stationB)
		resultB <- outcome{st, ok}
	}()
	require.Equal(t, "B", <-lookup.started)

	// B finishes first, then A's late response arrives.
	lookup.release("B", climate.Found(observation("2025-06-02")))
	b := <-resultB
	assert.True(t, b.applied)

	lookup.release("A", climate.Found(observation("2025-06-01")))
	a := <-resultA
	assert.False(t, a.applied)

	final := s.State()
	assert.Equal(t, "B", final.StationID)
	assert.Equal(t, PhaseFound, final.Phase)
	assert.Equal(t, "2025-06-02", final.Observation.Date)
}

func TestSelector_SelectAsync(t *testing.T) {
	lookup := newGatedLookup("A")
	sel := NewSelector(lookup, climate.Options{})
	s := NewSurface("tab")

	loading := sel.SelectAsync(context.Background(), s, stationA)
	assert.Equal(t, PhaseLoading, loading.Phase)

	<-lookup.started
	lookup.release("A", climate.NotFound())

	require.Eventually(t, func() bool {
		return s.State().Phase == PhaseNotFound
	}, time.Second, 5*time.Millisecond)
}

type staticLookup struct {
	result climate.Result
	opts   climate.Options
}

func (l *staticLookup) FetchLatestObservation(ctx context.Context, id string, opts climate.Options) climate.Result {
	l.opts = opts
	return l.result
}

func TestSelector_PassesOptionsAndCaptures(t *testing.T) {
	lookup := &staticLookup{result: climate.Failed(&climate.LookupError{Kind: climate.KindTimeout, StationID: "A", Err: errors.New("deadline")})}
	sel := NewSelector(lookup, climate.Options{Year: 2025, Limit: 5})
	s := NewSurface("tab")

	st, applied := sel.Select(context.Background(), s, stationA)

	assert.True(t, applied)
	assert.Equal(t, climate.Options{Year: 2025, Limit: 5}, lookup.opts)
	assert.Equal(t, PhaseFailed, st.Phase)
	assert.Equal(t, "Timed out waiting for climate data", st.Message)
}

func TestSelector_RecordsOutcomes(t *testing.T) {
	before := CurrentOutcomes()

	sel := NewSelector(&staticLookup{result: climate.NotFound()}, climate.Options{})
	_, applied := sel.Select(context.Background(), NewSurface("tab"), stationB)
	require.True(t, applied)

	after := CurrentOutcomes()
	assert.Equal(t, before.NotFound+1, after.NotFound)
	assert.Equal(t, "Bravo", after.LastStation)
	assert.Equal(t, PhaseNotFound, after.LastPhase)
}

// ctxLookup blocks until its context ends, like a hanging upstream.
type ctxLookup struct{}

func (ctxLookup) FetchLatestObservation(ctx context.Context, id string, opts climate.Options) climate.Result {
	<-ctx.Done()
	return climate.Failed(&climate.LookupError{Kind: climate.KindCanceled, StationID: id, Err: ctx.Err()})
}

func TestSelector_CallerCancelLeavesFinalState(t *testing.T) {
	sel := NewSelector(ctxLookup{}, climate.Options{})
	s := NewSurface("cli")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	st, applied := sel.Select(ctx, s, stationA)

	assert.True(t, applied)
	assert.Equal(t, PhaseFailed, st.Phase)
	assert.Equal(t, "Lookup canceled", st.Message)
	assert.Equal(t, PhaseFailed, s.State().Phase)
}
