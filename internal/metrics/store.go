package metrics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Eyevinn/moqabr/internal/abr"
)

const (
	maxThroughputSamples = 20
	maxHistory           = 100
)

// Snapshot is the per-category metrics view handed to rules.
type Snapshot struct {
	Category    abr.Category
	Throughput  []float64 // bits per second, oldest first
	BufferLevel time.Duration
	UpdatedAt   time.Time
}

// AverageThroughput returns the mean of the recorded throughput samples.
func (s *Snapshot) AverageThroughput() float64 {
	if len(s.Throughput) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s.Throughput {
		sum += v
	}
	return sum / float64(len(s.Throughput))
}

// QualityBoundsEntry is one recorded quality boundary change.
type QualityBoundsEntry struct {
	At     time.Time
	Bounds abr.QualityBounds
}

// BandwidthBoundsEntry is one recorded bandwidth boundary change.
type BandwidthBoundsEntry struct {
	At     time.Time
	Bounds abr.BandwidthBounds
}

// SwitchEntry is one recorded quality switch.
type SwitchEntry struct {
	At   time.Time
	From int
	To   int
}

type categoryMetrics struct {
	snapshot  *Snapshot
	quality   []QualityBoundsEntry
	bandwidth []BandwidthBoundsEntry
	switches  []SwitchEntry
}

// Store keeps metrics snapshots and notification history in memory. It
// implements both abr.MetricsStore and abr.MetricsRecorder.
type Store struct {
	mu         sync.RWMutex
	categories map[abr.Category]*categoryMetrics
	now        func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		categories: make(map[abr.Category]*categoryMetrics),
		now:        time.Now,
	}
}

// get returns the entry for category, creating it if needed. Caller holds mu.
func (s *Store) get(category abr.Category) *categoryMetrics {
	cm, ok := s.categories[category]
	if !ok {
		cm = &categoryMetrics{}
		s.categories[category] = cm
	}
	return cm
}

func (s *Store) snapshot(category abr.Category) *Snapshot {
	cm := s.get(category)
	if cm.snapshot == nil {
		cm.snapshot = &Snapshot{Category: category}
	}
	return cm.snapshot
}

// AddThroughput records a throughput sample in bits per second.
func (s *Store) AddThroughput(category abr.Category, bps float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshot(category)
	snap.Throughput = append(snap.Throughput, bps)
	if n := len(snap.Throughput); n > maxThroughputSamples {
		snap.Throughput = snap.Throughput[n-maxThroughputSamples:]
	}
	snap.UpdatedAt = s.now()
}

// SetBufferLevel records the current buffer level.
func (s *Store) SetBufferLevel(category abr.Category, level time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshot(category)
	snap.BufferLevel = level
	snap.UpdatedAt = s.now()
}

// MetricsFor returns a copy of the snapshot of category as a *Snapshot.
func (s *Store) MetricsFor(_ context.Context, category abr.Category) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cm, ok := s.categories[category]
	if !ok || cm.snapshot == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoMetrics, category)
	}
	cp := *cm.snapshot
	cp.Throughput = append([]float64(nil), cm.snapshot.Throughput...)
	return &cp, nil
}

// AddRepresentationBoundaries records a quality boundary change.
func (s *Store) AddRepresentationBoundaries(category abr.Category, at time.Time, bounds abr.QualityBounds) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cm := s.get(category)
	cm.quality = appendCapped(cm.quality, QualityBoundsEntry{At: at, Bounds: bounds})
}

// AddBandwidthBoundaries records a bandwidth boundary change.
func (s *Store) AddBandwidthBoundaries(category abr.Category, at time.Time, bounds abr.BandwidthBounds) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cm := s.get(category)
	cm.bandwidth = appendCapped(cm.bandwidth, BandwidthBoundsEntry{At: at, Bounds: bounds})
}

// AddRepresentationSwitch records a quality switch.
func (s *Store) AddRepresentationSwitch(category abr.Category, at time.Time, from, to int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cm := s.get(category)
	cm.switches = appendCapped(cm.switches, SwitchEntry{At: at, From: from, To: to})
}

// RepresentationBoundaries returns the recorded quality boundary changes, oldest first.
func (s *Store) RepresentationBoundaries(category abr.Category) []QualityBoundsEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if cm, ok := s.categories[category]; ok {
		return append([]QualityBoundsEntry(nil), cm.quality...)
	}
	return nil
}

// BandwidthBoundaries returns the recorded bandwidth boundary changes, oldest first.
func (s *Store) BandwidthBoundaries(category abr.Category) []BandwidthBoundsEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if cm, ok := s.categories[category]; ok {
		return append([]BandwidthBoundsEntry(nil), cm.bandwidth...)
	}
	return nil
}

// Switches returns the recorded quality switches, oldest first.
func (s *Store) Switches(category abr.Category) []SwitchEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if cm, ok := s.categories[category]; ok {
		return append([]SwitchEntry(nil), cm.switches...)
	}
	return nil
}

// CurrentRepresentationBoundaries returns the latest quality boundary change.
func (s *Store) CurrentRepresentationBoundaries(category abr.Category) (QualityBoundsEntry, bool) {
	entries := s.RepresentationBoundaries(category)
	if len(entries) == 0 {
		return QualityBoundsEntry{}, false
	}
	return entries[len(entries)-1], true
}

// CurrentBandwidthBoundaries returns the latest bandwidth boundary change.
func (s *Store) CurrentBandwidthBoundaries(category abr.Category) (BandwidthBoundsEntry, bool) {
	entries := s.BandwidthBoundaries(category)
	if len(entries) == 0 {
		return BandwidthBoundsEntry{}, false
	}
	return entries[len(entries)-1], true
}

func appendCapped[T any](list []T, v T) []T {
	list = append(list, v)
	if n := len(list); n > maxHistory {
		list = list[n-maxHistory:]
	}
	return list
}
