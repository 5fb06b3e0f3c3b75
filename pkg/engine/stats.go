package engine

import (
	"sort"
	"sync/atomic"

	"github.com/go-drift/headless/pkg/widgets"
)

// Stats counts events processed by an engine.
type Stats struct {
	// Dispatched is the number of events delivered to widgets, including
	// synthesized leave and cancel events.
	Dispatched uint64 `json:"dispatched"`
	// Coalesced is the number of pointer moves dropped because the hover
	// target did not change.
	Coalesced uint64 `json:"coalesced"`
	// Rejected is the number of events that returned an error.
	Rejected uint64 `json:"rejected"`
	// Panics is the number of recovered callback panics.
	Panics uint64 `json:"panics"`
}

type statsCounter struct {
	dispatchedN atomic.Uint64
	coalescedN  atomic.Uint64
	rejectedN   atomic.Uint64
	panicsN     atomic.Uint64
}

func (s *statsCounter) dispatched() { s.dispatchedN.Add(1) }
func (s *statsCounter) coalesced()  { s.coalescedN.Add(1) }
func (s *statsCounter) rejected()   { s.rejectedN.Add(1) }
func (s *statsCounter) panicked()   { s.panicsN.Add(1) }

func (s *statsCounter) load() Stats {
	return Stats{
		Dispatched: s.dispatchedN.Load(),
		Coalesced:  s.coalescedN.Load(),
		Rejected:   s.rejectedN.Load(),
		Panics:     s.panicsN.Load(),
	}
}

func (s *snapshotStore) all() []widgets.Snapshot {
	s.mu.RLock()
	out := make([]widgets.Snapshot, 0, len(s.m))
	for _, snap := range s.m {
		out = append(out, snap)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
