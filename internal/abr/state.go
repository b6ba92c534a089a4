package abr

import (
	"sync"
	"sync/atomic"
)

// Phase is the decision state of one category.
type Phase int

const (
	PhaseIdle       Phase = iota // No decision yet
	PhaseEvaluating              // Rule fan-out in flight
	PhaseResolved                // Decision committed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseEvaluating:
		return "evaluating"
	case PhaseResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

type categoryState struct {
	quality    int
	confidence Confidence
	count      int // last known representation count, 0 if unknown
	phase      Phase
}

// StateStore holds the current selection per category plus the global
// auto-switch flag. Unknown categories start at quality 0 with default confidence.
type StateStore struct {
	mu         sync.RWMutex
	states     map[Category]*categoryState
	autoSwitch atomic.Bool
}

// NewStateStore creates a store with auto-switching enabled.
func NewStateStore() *StateStore {
	s := &StateStore{
		states: make(map[Category]*categoryState),
	}
	s.autoSwitch.Store(true)
	return s
}

// get returns the state for category, creating it if needed. Caller holds mu.
func (s *StateStore) get(category Category) *categoryState {
	st, ok := s.states[category]
	if !ok {
		st = &categoryState{confidence: ConfidenceDefault}
		s.states[category] = st
	}
	return st
}

func (s *StateStore) read(category Category) categoryState {
	s.mu.RLock()
	st, ok := s.states[category]
	if ok {
		cp := *st
		s.mu.RUnlock()
		return cp
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.get(category)
}

// Quality returns the current quality for category.
func (s *StateStore) Quality(category Category) int {
	return s.read(category).quality
}

// Confidence returns the current confidence for category.
func (s *StateStore) Confidence(category Category) Confidence {
	return s.read(category).confidence
}

// Selection returns the current quality and confidence as one consistent pair.
func (s *StateStore) Selection(category Category) Selection {
	st := s.read(category)
	return Selection{Quality: st.quality, Confidence: st.confidence}
}

// RepresentationCount returns the last ladder size seen for category, 0 if none.
func (s *StateStore) RepresentationCount(category Category) int {
	return s.read(category).count
}

// Phase returns the decision phase of category.
func (s *StateStore) Phase(category Category) Phase {
	return s.read(category).phase
}

// SetQuality writes quality and reports whether the stored value changed.
func (s *StateStore) SetQuality(category Category, quality int) (previous int, changed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.get(category)
	previous = st.quality
	if previous == quality {
		return previous, false
	}
	st.quality = quality
	return previous, true
}

// SetConfidence always writes the confidence.
func (s *StateStore) SetConfidence(category Category, confidence Confidence) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(category).confidence = confidence
}

// Commit stores a resolved selection and the ladder size it was validated
// against, and marks the category resolved.
func (s *StateStore) Commit(category Category, sel Selection, count int) (previous int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.get(category)
	previous = st.quality
	st.quality = sel.Quality
	st.confidence = sel.Confidence
	st.count = count
	st.phase = PhaseResolved
	return previous
}

func (s *StateStore) setPhase(category Category, phase Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(category).phase = phase
}

// AutoSwitch reports whether decision cycles run the rule pipeline.
func (s *StateStore) AutoSwitch() bool {
	return s.autoSwitch.Load()
}

// SetAutoSwitch enables or disables the rule pipeline for all categories.
func (s *StateStore) SetAutoSwitch(enabled bool) {
	s.autoSwitch.Store(enabled)
}
