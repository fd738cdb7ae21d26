package display

import (
	"sync"
	"time"

	"github.com/brubcam/GEOG-464-Lab-8/climate"
)

// Outcomes tallies lookups run by any Selector in the process. The HUD
// reads it once a second; Prometheus carries the same numbers per outcome.
type Outcomes struct {
	Found      int
	NotFound   int
	Failed     int
	Superseded int

	LastStation string
	LastPhase   Phase
	LastAt      time.Time
}

var (
	outcomesMu sync.Mutex
	outcomes   Outcomes
)

// CurrentOutcomes returns a copy of the running tally.
func CurrentOutcomes() Outcomes {
	outcomesMu.Lock()
	defer outcomesMu.Unlock()
	return outcomes
}

func recordOutcome(station string, r climate.Result, applied bool) {
	outcomesMu.Lock()
	defer outcomesMu.Unlock()

	switch {
	case !applied:
		outcomes.Superseded++
		return
	case r.Status == climate.StatusFound:
		outcomes.Found++
		outcomes.LastPhase = PhaseFound
	case r.Status == climate.StatusNotFound:
		outcomes.NotFound++
		outcomes.LastPhase = PhaseNotFound
	default:
		outcomes.Failed++
		outcomes.LastPhase = PhaseFailed
	}
	outcomes.LastStation = station
	outcomes.LastAt = time.Now()
}
