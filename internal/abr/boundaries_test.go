package abr

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// ladderCatalog is a RepresentationCatalog over a fixed bitrate ladder.
type ladderCatalog struct {
	ladder   []float64
	category Category
	countErr error
	bwErr    map[int]error
	bwCalls  atomic.Int32
	barrier  *sync.WaitGroup
}

func (c *ladderCatalog) RepresentationCount(context.Context, any) (int, error) {
	if c.countErr != nil {
		return 0, c.countErr
	}
	return len(c.ladder), nil
}

func (c *ladderCatalog) RepresentationBandwidth(_ context.Context, _ any, index int) (float64, error) {
	c.bwCalls.Add(1)
	if c.barrier != nil {
		c.barrier.Done()
		c.barrier.Wait()
	}
	if err := c.bwErr[index]; err != nil {
		return 0, err
	}
	return c.ladder[index], nil
}

func (c *ladderCatalog) Classify(context.Context, any) (Category, error) {
	return c.category, nil
}

func TestBandwidthToIndex(t *testing.T) {
	ladder := []float64{100, 300, 600, 1000}
	testCases := []struct {
		desc   string
		minBW  *float64
		maxBW  *float64
		wantLo *int
		wantHi *int
	}{
		{"both bounds", Ptr(250.0), Ptr(800.0), Ptr(1), Ptr(2)},
		{"exact match", Ptr(300.0), Ptr(600.0), Ptr(1), Ptr(2)},
		{"unset", nil, nil, nil, nil},
		{"min above ladder", Ptr(5000.0), nil, nil, nil},
		{"max below ladder", nil, Ptr(50.0), nil, nil},
		{"min below ladder", Ptr(10.0), nil, Ptr(0), nil},
		{"max above ladder", nil, Ptr(1e9), nil, Ptr(3)},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			lo, hi := BandwidthToIndex(ladder, tc.minBW, tc.maxBW)
			require.Equal(t, tc.wantLo, lo, "lo")
			require.Equal(t, tc.wantHi, hi, "hi")
		})
	}
}

func TestConfigBoundariesResolve(t *testing.T) {
	ladder := []float64{100, 300, 600, 1000}
	testCases := []struct {
		desc     string
		params   CategoryParams
		expected IndexRange
	}{
		{
			desc:     "unbounded",
			params:   CategoryParams{},
			expected: IndexRange{Min: 0, Max: 3},
		},
		{
			desc:     "bandwidth bounds",
			params:   CategoryParams{MinBandwidth: Ptr(250.0), MaxBandwidth: Ptr(800.0)},
			expected: IndexRange{Min: 1, Max: 2},
		},
		{
			desc: "intersection with quality bounds",
			params: CategoryParams{
				MinQuality:   Ptr(2),
				MaxQuality:   Ptr(3),
				MinBandwidth: Ptr(250.0),
				MaxBandwidth: Ptr(800.0),
			},
			expected: IndexRange{Min: 2, Max: 2},
		},
		{
			desc: "quality bounds tighter on max",
			params: CategoryParams{
				MaxQuality:   Ptr(1),
				MinBandwidth: Ptr(50.0),
			},
			expected: IndexRange{Min: 0, Max: 1},
		},
		{
			desc:     "quality bounds beyond ladder clamped",
			params:   CategoryParams{MinQuality: Ptr(-3), MaxQuality: Ptr(12)},
			expected: IndexRange{Min: 0, Max: 3},
		},
		{
			desc:     "inverted bounds corrected",
			params:   CategoryParams{MinQuality: Ptr(3), MaxQuality: Ptr(1)},
			expected: IndexRange{Min: 1, Max: 1},
		},
		{
			desc:     "unmatched bandwidth bound stays unset",
			params:   CategoryParams{MinBandwidth: Ptr(1e6)},
			expected: IndexRange{Min: 0, Max: 3},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			cat := &ladderCatalog{ladder: ladder}
			b := NewConfigBoundaries(cat, StaticParams{Video: tc.params}, nil)
			rng, err := b.Resolve(context.Background(), Video, nil, len(ladder))
			require.NoError(t, err)
			require.Equal(t, tc.expected, rng)
			require.LessOrEqual(t, rng.Min, rng.Max)
		})
	}
}

func TestConfigBoundariesSkipsLadderWithoutBandwidthBounds(t *testing.T) {
	cat := &ladderCatalog{ladder: []float64{100, 200}}
	b := NewConfigBoundaries(cat, StaticParams{Video: {MaxQuality: Ptr(0)}}, nil)
	rng, err := b.Resolve(context.Background(), Video, nil, 2)
	require.NoError(t, err)
	require.Equal(t, IndexRange{Min: 0, Max: 0}, rng)
	require.Equal(t, int32(0), cat.bwCalls.Load())
}

func TestConfigBoundariesEmptyLadder(t *testing.T) {
	b := NewConfigBoundaries(&ladderCatalog{}, nil, nil)
	_, err := b.Resolve(context.Background(), Video, nil, 0)
	require.ErrorIs(t, err, ErrEmptyLadder)
}

func TestFetchLadderLaunchesAllBeforeWaiting(t *testing.T) {
	ladder := []float64{100, 300, 600, 1000, 2000}
	var barrier sync.WaitGroup
	barrier.Add(len(ladder))
	cat := &ladderCatalog{ladder: ladder, barrier: &barrier}

	type result struct {
		ladder []float64
		err    error
	}
	done := make(chan result, 1)
	go func() {
		got, err := FetchLadder(context.Background(), cat, nil, len(ladder))
		done <- result{got, err}
	}()
	select {
	case res := <-done:
		require.NoError(t, res.err)
		require.Equal(t, ladder, res.ladder)
	case <-time.After(5 * time.Second):
		t.Fatal("ladder requests were not issued concurrently")
	}
}

func TestFetchLadderFailureWaitsForAllBranches(t *testing.T) {
	ladder := []float64{100, 300, 600}
	cat := &ladderCatalog{ladder: ladder, bwErr: map[int]error{1: errors.New("boom")}}
	_, err := FetchLadder(context.Background(), cat, nil, len(ladder))
	require.ErrorIs(t, err, ErrCatalogUnavailable)
	require.Equal(t, int32(len(ladder)), cat.bwCalls.Load())
}

func TestRuntimeBoundariesIntersectBase(t *testing.T) {
	ladder := []float64{100, 300, 600, 1000, 2000}
	cat := &ladderCatalog{ladder: ladder}
	base := NewConfigBoundaries(cat, StaticParams{Video: {MaxQuality: Ptr(3)}}, nil)
	r := NewRuntimeBoundaries(base, cat)
	ctx := context.Background()

	rng, err := r.Resolve(ctx, Video, nil, len(ladder))
	require.NoError(t, err)
	require.Equal(t, IndexRange{Min: 0, Max: 3}, rng)

	r.SetQuality(Video, QualityBounds{Min: Ptr(1), Max: Ptr(4)})
	rng, err = r.Resolve(ctx, Video, nil, len(ladder))
	require.NoError(t, err)
	require.Equal(t, IndexRange{Min: 1, Max: 3}, rng)

	r.SetBandwidth(Video, BandwidthBounds{Max: Ptr(700.0)})
	rng, err = r.Resolve(ctx, Video, nil, len(ladder))
	require.NoError(t, err)
	require.Equal(t, IndexRange{Min: 1, Max: 2}, rng)

	// Other categories are unaffected.
	rng, err = r.Resolve(ctx, Audio, nil, len(ladder))
	require.NoError(t, err)
	require.Equal(t, IndexRange{Min: 0, Max: 4}, rng)
}

func TestRuntimeBoundariesDisjointCollapsesToMax(t *testing.T) {
	cat := &ladderCatalog{ladder: []float64{100, 200, 300, 400}}
	base := NewConfigBoundaries(cat, StaticParams{Video: {MaxQuality: Ptr(1)}}, nil)
	r := NewRuntimeBoundaries(base, cat)
	r.SetQuality(Video, QualityBounds{Min: Ptr(3)})
	rng, err := r.Resolve(context.Background(), Video, nil, 4)
	require.NoError(t, err)
	require.Equal(t, IndexRange{Min: 1, Max: 1}, rng)
}

func TestIndexRangeClamp(t *testing.T) {
	r := IndexRange{Min: 1, Max: 2}
	require.Equal(t, 1, r.Clamp(0))
	require.Equal(t, 2, r.Clamp(2))
	require.Equal(t, 2, r.Clamp(9))
}

func TestRuntimeBoundariesFetchesLadderOnce(t *testing.T) {
	ladder := []float64{100, 300, 600, 1000}
	testCases := []struct {
		desc      string
		params    CategoryParams
		runtime   BandwidthBounds
		wantRange IndexRange
		wantCalls int32
	}{
		{
			desc:      "configured and runtime bandwidth",
			params:    CategoryParams{MaxBandwidth: Ptr(800.0)},
			runtime:   BandwidthBounds{Min: Ptr(250.0)},
			wantRange: IndexRange{Min: 1, Max: 2},
			wantCalls: int32(len(ladder)),
		},
		{
			desc:      "configured bandwidth only",
			params:    CategoryParams{MinBandwidth: Ptr(500.0)},
			wantRange: IndexRange{Min: 2, Max: 3},
			wantCalls: int32(len(ladder)),
		},
		{
			desc:      "no bandwidth bounds",
			params:    CategoryParams{MaxQuality: Ptr(2)},
			wantRange: IndexRange{Min: 0, Max: 2},
			wantCalls: 0,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			cat := &ladderCatalog{ladder: ladder}
			r := NewRuntimeBoundaries(NewConfigBoundaries(cat, StaticParams{Video: tc.params}, nil), cat)
			r.SetBandwidth(Video, tc.runtime)
			rng, err := r.Resolve(context.Background(), Video, nil, len(ladder))
			require.NoError(t, err)
			require.Equal(t, tc.wantRange, rng)
			require.Equal(t, tc.wantCalls, cat.bwCalls.Load())
		})
	}
}

func TestRuntimeBoundariesCopiesBounds(t *testing.T) {
	cat := &ladderCatalog{ladder: []float64{100, 300, 600, 1000}}
	r := NewRuntimeBoundaries(NewConfigBoundaries(cat, nil, nil), cat)
	ctx := context.Background()

	maxQ := 1
	maxBW := 700.0
	r.SetQuality(Video, QualityBounds{Max: &maxQ})
	r.SetBandwidth(Video, BandwidthBounds{Max: &maxBW})
	maxQ = 3
	maxBW = 5000

	rng, err := r.Resolve(ctx, Video, nil, 4)
	require.NoError(t, err)
	require.Equal(t, IndexRange{Min: 0, Max: 1}, rng)

	got := r.Quality(Video)
	*got.Max = 3
	gotBW := r.Bandwidth(Video)
	*gotBW.Max = 5000
	require.Equal(t, Ptr(1), r.Quality(Video).Max)
	require.Equal(t, Ptr(700.0), r.Bandwidth(Video).Max)

	rng, err = r.Resolve(ctx, Video, nil, 4)
	require.NoError(t, err)
	require.Equal(t, IndexRange{Min: 0, Max: 1}, rng)
}
