package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Eyevinn/moqabr/internal/abr"
)

func TestStoreMetricsFor(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, err := s.MetricsFor(ctx, abr.Video)
	require.ErrorIs(t, err, ErrNoMetrics)

	s.AddThroughput(abr.Video, 1000)
	s.AddThroughput(abr.Video, 3000)
	s.SetBufferLevel(abr.Video, 4*time.Second)

	m, err := s.MetricsFor(ctx, abr.Video)
	require.NoError(t, err)
	snap, ok := m.(*Snapshot)
	require.True(t, ok)
	require.Equal(t, abr.Video, snap.Category)
	require.Equal(t, []float64{1000, 3000}, snap.Throughput)
	require.Equal(t, 2000.0, snap.AverageThroughput())
	require.Equal(t, 4*time.Second, snap.BufferLevel)

	// The snapshot is a copy.
	snap.Throughput[0] = 0
	m2, err := s.MetricsFor(ctx, abr.Video)
	require.NoError(t, err)
	require.Equal(t, 1000.0, m2.(*Snapshot).Throughput[0])

	_, err = s.MetricsFor(ctx, abr.Audio)
	require.ErrorIs(t, err, ErrNoMetrics)
}

func TestStoreThroughputWindow(t *testing.T) {
	s := NewStore()
	for i := 0; i < maxThroughputSamples+5; i++ {
		s.AddThroughput(abr.Audio, float64(i))
	}
	m, err := s.MetricsFor(context.Background(), abr.Audio)
	require.NoError(t, err)
	snap := m.(*Snapshot)
	require.Len(t, snap.Throughput, maxThroughputSamples)
	require.Equal(t, 5.0, snap.Throughput[0])
}

func TestStoreBoundaryHistory(t *testing.T) {
	s := NewStore()
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	_, ok := s.CurrentRepresentationBoundaries(abr.Video)
	require.False(t, ok)
	_, ok = s.CurrentBandwidthBoundaries(abr.Video)
	require.False(t, ok)

	s.AddRepresentationBoundaries(abr.Video, t0, abr.QualityBounds{Max: abr.Ptr(3)})
	s.AddRepresentationBoundaries(abr.Video, t0.Add(time.Second), abr.QualityBounds{Min: abr.Ptr(1), Max: abr.Ptr(2)})
	s.AddBandwidthBoundaries(abr.Video, t0, abr.BandwidthBounds{Max: abr.Ptr(5e6)})
	s.AddRepresentationSwitch(abr.Video, t0, 0, 2)

	require.Len(t, s.RepresentationBoundaries(abr.Video), 2)
	cur, ok := s.CurrentRepresentationBoundaries(abr.Video)
	require.True(t, ok)
	require.Equal(t, t0.Add(time.Second), cur.At)
	require.Equal(t, abr.Ptr(1), cur.Bounds.Min)

	bw, ok := s.CurrentBandwidthBoundaries(abr.Video)
	require.True(t, ok)
	require.Equal(t, abr.Ptr(5e6), bw.Bounds.Max)

	require.Equal(t, []SwitchEntry{{At: t0, From: 0, To: 2}}, s.Switches(abr.Video))
	require.Nil(t, s.Switches(abr.Audio))
	require.Nil(t, s.RepresentationBoundaries(abr.Audio))
}

func TestStoreHistoryCapped(t *testing.T) {
	s := NewStore()
	for i := 0; i < maxHistory+10; i++ {
		s.AddRepresentationSwitch(abr.Stream, time.Time{}, i, i+1)
	}
	sw := s.Switches(abr.Stream)
	require.Len(t, sw, maxHistory)
	require.Equal(t, 10, sw[0].From)
}

func TestStoreWithEngine(t *testing.T) {
	s := NewStore()
	s.AddThroughput(abr.Video, 2500)
	rule := abr.RuleFunc(func(_ context.Context, _ int, metrics, _ any) (abr.SwitchRequest, error) {
		snap := metrics.(*Snapshot)
		if snap.AverageThroughput() > 2000 {
			return abr.NewSwitchRequest(2, abr.ConfidenceDefault), nil
		}
		return abr.NewSwitchRequest(0, abr.ConfidenceDefault), nil
	})
	e := abr.NewEngine(nil, abr.EngineConfig{
		Catalog:  sliceCatalog{100, 1000, 2000, 4000},
		Rules:    abr.StaticRegistry{rule},
		Metrics:  s,
		Recorder: s,
	})
	d, err := e.Decide(context.Background(), abr.Video, nil)
	require.NoError(t, err)
	require.Equal(t, 2, d.Quality)
	require.Len(t, s.Switches(abr.Video), 1)

	e.SetQualityBoundaries(abr.Video, abr.QualityBounds{Max: abr.Ptr(1)})
	cur, ok := s.CurrentRepresentationBoundaries(abr.Video)
	require.True(t, ok)
	require.Equal(t, abr.Ptr(1), cur.Bounds.Max)

	d, err = e.Decide(context.Background(), abr.Video, nil)
	require.NoError(t, err)
	require.Equal(t, 1, d.Quality)
	require.Len(t, s.Switches(abr.Video), 2)
}

// sliceCatalog is a video-only ladder.
type sliceCatalog []float64

func (c sliceCatalog) RepresentationCount(context.Context, any) (int, error) { return len(c), nil }

func (c sliceCatalog) RepresentationBandwidth(_ context.Context, _ any, i int) (float64, error) {
	return c[i], nil
}

func (c sliceCatalog) Classify(context.Context, any) (abr.Category, error) { return abr.Video, nil }
