package display

import (
	"context"
	"sync"
	"time"

	"github.com/brubcam/GEOG-464-Lab-8/catalog"
	"github.com/brubcam/GEOG-464-Lab-8/climate"
	"github.com/brubcam/GEOG-464-Lab-8/metrics"
	"github.com/google/uuid"
)

// Ticket identifies one lookup issued on a surface.
type Ticket struct {
	Seq       uint64
	RequestID string
}

// Surface is a single displayed-observation slot.
//
// Every Begin hands out a strictly increasing ticket and cancels the
// lookup holding the previous one. Commit applies a result only while its
// ticket is still the newest, so completion order never matters.
type Surface struct {
	name string

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	state  State
	subs   map[chan State]struct{}
	closed bool

	now func() time.Time
}

func NewSurface(name string) *Surface {
	s := &Surface{
		name: name,
		subs: make(map[chan State]struct{}),
		now:  time.Now,
	}
	s.state = State{Phase: PhaseIdle, Message: MessageIdle, UpdatedAt: s.now()}
	return s
}

func (s *Surface) Name() string { return s.name }

// Begin starts a lookup for station, putting the surface into the loading
// state. The returned context is cancelled as soon as another lookup begins
// or the surface is closed.
func (s *Surface) Begin(ctx context.Context, station catalog.Station) (context.Context, Ticket) {
	lookupCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	if s.closed {
		cancel()
	}

	s.seq++
	ticket := Ticket{Seq: s.seq, RequestID: uuid.NewString()}
	s.cancel = cancel

	s.state = State{
		Seq:         ticket.Seq,
		RequestID:   ticket.RequestID,
		StationID:   station.ID,
		StationName: station.Name,
		Phase:       PhaseLoading,
		Message:     MessageLoading,
		UpdatedAt:   s.now(),
	}
	s.publishLocked()

	return lookupCtx, ticket
}

// Commit displays r if t is still the newest ticket. It reports whether the
// result was applied. A superseded lookup is never displayed; when the
// newest lookup itself is cancelled the surface shows it as failed rather
// than staying in the loading state.
func (s *Surface) Commit(t Ticket, r climate.Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Seq != s.seq || s.closed {
		metrics.StaleCommitsDropped.Inc()
		return false
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	next := State{
		Seq:         s.state.Seq,
		RequestID:   s.state.RequestID,
		StationID:   s.state.StationID,
		StationName: s.state.StationName,
		Message:     Message(r),
		UpdatedAt:   s.now(),
	}
	switch r.Status {
	case climate.StatusFound:
		next.Phase = PhaseFound
		next.Observation = r.Observation
	case climate.StatusNotFound:
		next.Phase = PhaseNotFound
	default:
		next.Phase = PhaseFailed
		if r.Err != nil {
			next.ErrorKind = r.Err.Kind.String()
		}
	}

	s.state = next
	s.publishLocked()
	return true
}

// State returns the currently displayed state.
func (s *Surface) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe returns a channel that receives the current state immediately
// and every state published afterwards. A slow reader may miss intermediate
// states but always ends up with the latest one.
func (s *Surface) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	s.mu.Lock()
	if s.closed {
		ch <- s.state
		close(ch)
		s.mu.Unlock()
		return ch, func() {}
	}
	s.subs[ch] = struct{}{}
	ch <- s.state
	s.mu.Unlock()

	metrics.SurfaceSubscribers.Inc()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if _, ok := s.subs[ch]; ok {
				delete(s.subs, ch)
				close(ch)
				metrics.SurfaceSubscribers.Dec()
			}
		})
	}
}

// Close cancels any pending lookup and ends all subscriptions.
func (s *Surface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	for ch := range s.subs {
		delete(s.subs, ch)
		close(ch)
		metrics.SurfaceSubscribers.Dec()
	}
}

// publishLocked must be called with s.mu held. Only the publisher sends on
// subscriber channels, so draining a full buffer before sending cannot race.
func (s *Surface) publishLocked() {
	for ch := range s.subs {
		select {
		case ch <- s.state:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s.state:
		default:
		}
	}
}
