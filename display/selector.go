package display

import (
	"context"

	"github.com/brubcam/GEOG-464-Lab-8/catalog"
	"github.com/brubcam/GEOG-464-Lab-8/climate"
	"github.com/brubcam/GEOG-464-Lab-8/logger"
)

// Lookuper is satisfied by *climate.Client.
type Lookuper interface {
	FetchLatestObservation(ctx context.Context, stationID string, opts climate.Options) climate.Result
}

// Selector runs the lookup that a station selection triggers.
type Selector struct {
	lookup Lookuper
	opts   climate.Options
}

func NewSelector(lookup Lookuper, opts climate.Options) *Selector {
	return &Selector{lookup: lookup, opts: opts}
}

func (sel *Selector) Options() climate.Options { return sel.opts }

// Select shows station on surface and blocks until its lookup completes.
// It returns the surface state afterwards and whether this lookup's result
// was the one applied.
func (sel *Selector) Select(ctx context.Context, surface *Surface, station catalog.Station) (State, bool) {
	lookupCtx, ticket := surface.Begin(ctx, station)
	return sel.run(lookupCtx, surface, ticket, station)
}

// SelectAsync begins the lookup and returns the loading state right away.
// ctx should outlive the caller's request, as cancelling it cancels the lookup.
func (sel *Selector) SelectAsync(ctx context.Context, surface *Surface, station catalog.Station) State {
	lookupCtx, ticket := surface.Begin(ctx, station)
	loading := surface.State()
	go sel.run(lookupCtx, surface, ticket, station)
	return loading
}

func (sel *Selector) run(ctx context.Context, surface *Surface, ticket Ticket, station catalog.Station) (State, bool) {
	result := sel.lookup.FetchLatestObservation(ctx, station.ID, sel.opts)

	applied := surface.Commit(ticket, result)

	if result.Status == climate.StatusFailed && result.Err != nil {
		switch {
		case !applied:
			logger.Muted("Lookup %s for %s superseded", ticket.RequestID, station.ID)
		case result.Err.Kind == climate.KindCanceled:
			logger.Muted("Lookup %s for %s canceled", ticket.RequestID, station.ID)
		case result.Err.Kind == climate.KindInvalidRequest:
			logger.Warn("Lookup %s rejected: %v", ticket.RequestID, result.Err)
		default:
			logger.Warn("Lookup %s for %s failed: %v", ticket.RequestID, station.ID, result.Err)
			logger.Capture(result.Err)
		}
	}

	recordOutcome(station.Name, result, applied)
	return surface.State(), applied
}
