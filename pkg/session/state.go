package session

import (
	"sync"

	"github.com/matzehuels/brewtower/pkg/brew"
	"github.com/matzehuels/brewtower/pkg/compare"
)

// Ticket identifies one statistics request. Later tickets are newer.
type Ticket uint64

// State is the mutable application state shared by the UI handlers and the
// renderer. The zero value is ready to use: no style, no statistics.
type State struct {
	mu      sync.RWMutex
	style   *brew.Style
	stats   *brew.Stats
	issued  Ticket
	applied Ticket
}

// Snapshot is an immutable copy of the state.
type Snapshot struct {
	Style  *brew.Style
	Stats  *brew.Stats
	Ticket Ticket // ticket of the applied statistics, 0 if none
}

// Select makes style the active comparison target. Styles with malformed
// ranges are refused.
func (s *State) Select(style brew.Style) error {
	if err := style.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.style = &style
	s.mu.Unlock()
	return nil
}

// Clear removes the selected style, switching to the simple display.
func (s *State) Clear() {
	s.mu.Lock()
	s.style = nil
	s.mu.Unlock()
}

// Selected returns a copy of the selected style, or nil.
func (s *State) Selected() *brew.Style {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.style == nil {
		return nil
	}
	st := *s.style
	return &st
}

// Begin issues a ticket for a new statistics request.
func (s *State) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Complete applies stats computed for ticket t. It reports false, and
// changes nothing, when a response for a newer ticket was already applied.
func (s *State) Complete(t Ticket, stats brew.Stats) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t <= s.applied || t > s.issued {
		return false
	}
	s.applied = t
	s.stats = &stats
	return true
}

// Snapshot returns a consistent copy of style and statistics.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{Ticket: s.applied}
	if s.style != nil {
		st := *s.style
		snap.Style = &st
	}
	if s.stats != nil {
		st := *s.stats
		snap.Stats = &st
	}
	return snap
}

// Comparison builds the comparison to render. ok is false while no
// statistics have been applied yet.
func (snap Snapshot) Comparison() (cmp compare.Comparison, ok bool) {
	if snap.Stats == nil {
		return compare.Comparison{}, false
	}
	return compare.Build(*snap.Stats, snap.Style), true
}

// Restore loads a persisted session into the state. The style is resolved
// by the caller since only its id is stored.
func (s *State) Restore(sess *Session, style *brew.Style) error {
	if style != nil {
		if err := s.Select(*style); err != nil {
			return err
		}
	} else {
		s.Clear()
	}
	if sess != nil && sess.Stats != nil {
		s.Complete(s.Begin(), *sess.Stats)
	}
	return nil
}

// Persist copies the state into sess for saving.
func (s *State) Persist(sess *Session) {
	snap := s.Snapshot()
	sess.StyleID = ""
	if snap.Style != nil {
		sess.StyleID = snap.Style.ID
	}
	sess.Stats = snap.Stats
}
