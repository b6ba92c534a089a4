package abr

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// BoundaryResolver computes the allowed quality range for a category given
// the current ladder size.
type BoundaryResolver interface {
	Resolve(ctx context.Context, category Category, data any, count int) (IndexRange, error)
}

// ConfigBoundaries resolves the configured index and bitrate bounds of a category.
type ConfigBoundaries struct {
	catalog RepresentationCatalog
	params  ParamSource
	logger  *slog.Logger
}

// NewConfigBoundaries creates the base resolver.
func NewConfigBoundaries(catalog RepresentationCatalog, params ParamSource, logger *slog.Logger) *ConfigBoundaries {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfigBoundaries{catalog: catalog, params: params, logger: logger}
}

// Resolve intersects the configured index bounds with the index bounds
// derived from the configured bitrate bounds and clamps to [0, count-1].
func (b *ConfigBoundaries) Resolve(ctx context.Context, category Category, data any, count int) (IndexRange, error) {
	return b.resolve(ctx, category, count, newLadderCache(b.catalog, data, count))
}

func (b *ConfigBoundaries) resolve(ctx context.Context, category Category, count int, lc *ladderCache) (IndexRange, error) {
	if count <= 0 {
		return IndexRange{}, ErrEmptyLadder
	}
	var p CategoryParams
	if b.params != nil {
		p = b.params.ParamsFor(category)
	}
	b.logger.Debug("configured boundaries",
		"category", category,
		"minQuality", fmtBound(p.MinQuality),
		"maxQuality", fmtBound(p.MaxQuality),
		"minBandwidth", fmtBound(p.MinBandwidth),
		"maxBandwidth", fmtBound(p.MaxBandwidth))

	lo, hi := p.MinQuality, p.MaxQuality
	if p.MinBandwidth != nil || p.MaxBandwidth != nil {
		ladder, err := lc.get(ctx)
		if err != nil {
			return IndexRange{}, err
		}
		bwLo, bwHi := BandwidthToIndex(ladder, p.MinBandwidth, p.MaxBandwidth)
		lo, hi = intersect(lo, hi, bwLo, bwHi)
	}
	return finalizeRange(lo, hi, count), nil
}

// RuntimeBoundaries wraps a base resolver and further restricts its result
// with bounds set at runtime.
type RuntimeBoundaries struct {
	base    BoundaryResolver
	catalog RepresentationCatalog

	mu        sync.RWMutex
	quality   map[Category]QualityBounds
	bandwidth map[Category]BandwidthBounds
}

// NewRuntimeBoundaries wraps base.
func NewRuntimeBoundaries(base BoundaryResolver, catalog RepresentationCatalog) *RuntimeBoundaries {
	return &RuntimeBoundaries{
		base:      base,
		catalog:   catalog,
		quality:   make(map[Category]QualityBounds),
		bandwidth: make(map[Category]BandwidthBounds),
	}
}

// SetQuality replaces the runtime index bounds of category. The bound
// values are copied.
func (r *RuntimeBoundaries) SetQuality(category Category, bounds QualityBounds) {
	bounds = QualityBounds{Min: clonePtr(bounds.Min), Max: clonePtr(bounds.Max)}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quality[category] = bounds
}

// SetBandwidth replaces the runtime bitrate bounds of category. The bound
// values are copied.
func (r *RuntimeBoundaries) SetBandwidth(category Category, bounds BandwidthBounds) {
	bounds = BandwidthBounds{Min: clonePtr(bounds.Min), Max: clonePtr(bounds.Max)}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bandwidth[category] = bounds
}

// Quality returns the runtime index bounds of category.
func (r *RuntimeBoundaries) Quality(category Category) QualityBounds {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b := r.quality[category]
	return QualityBounds{Min: clonePtr(b.Min), Max: clonePtr(b.Max)}
}

// Bandwidth returns the runtime bitrate bounds of category.
func (r *RuntimeBoundaries) Bandwidth(category Category) BandwidthBounds {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b := r.bandwidth[category]
	return BandwidthBounds{Min: clonePtr(b.Min), Max: clonePtr(b.Max)}
}

// Resolve calls the base resolver and intersects its range with the runtime
// bounds. The ladder is fetched at most once per call, also when the base
// is a ConfigBoundaries that needs it.
func (r *RuntimeBoundaries) Resolve(ctx context.Context, category Category, data any, count int) (IndexRange, error) {
	lc := newLadderCache(r.catalog, data, count)
	var (
		rng IndexRange
		err error
	)
	if cb, ok := r.base.(*ConfigBoundaries); ok {
		rng, err = cb.resolve(ctx, category, count, lc)
	} else {
		rng, err = r.base.Resolve(ctx, category, data, count)
	}
	if err != nil {
		return IndexRange{}, err
	}
	qb := r.Quality(category)
	bb := r.Bandwidth(category)

	lo, hi := qb.Min, qb.Max
	if bb.Min != nil || bb.Max != nil {
		ladder, err := lc.get(ctx)
		if err != nil {
			return IndexRange{}, err
		}
		bwLo, bwHi := BandwidthToIndex(ladder, bb.Min, bb.Max)
		lo, hi = intersect(lo, hi, bwLo, bwHi)
	}
	lo, hi = intersect(&rng.Min, &rng.Max, lo, hi)
	return finalizeRange(lo, hi, count), nil
}

// ladderCache fetches the bitrate ladder on first use and keeps the result,
// error included, for the rest of one resolution.
type ladderCache struct {
	catalog RepresentationCatalog
	data    any
	count   int

	fetched bool
	ladder  []float64
	err     error
}

func newLadderCache(catalog RepresentationCatalog, data any, count int) *ladderCache {
	return &ladderCache{catalog: catalog, data: data, count: count}
}

func (c *ladderCache) get(ctx context.Context) ([]float64, error) {
	if !c.fetched {
		c.ladder, c.err = FetchLadder(ctx, c.catalog, c.data, c.count)
		c.fetched = true
	}
	return c.ladder, c.err
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	return Ptr(*v)
}

// FetchLadder fetches the bitrate of every representation concurrently. All
// requests complete before it returns; any failure fails the ladder.
func FetchLadder(ctx context.Context, catalog RepresentationCatalog, data any, count int) ([]float64, error) {
	ladder := make([]float64, count)
	var g errgroup.Group
	for i := 0; i < count; i++ {
		g.Go(func() error {
			bw, err := catalog.RepresentationBandwidth(ctx, data, i)
			if err != nil {
				return fmt.Errorf("bandwidth of representation %d: %w", i, err)
			}
			ladder[i] = bw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	return ladder, nil
}

// BandwidthToIndex maps bitrate bounds onto an ascending ladder. min maps to
// the first index whose bitrate is at least min, max to the last index whose
// bitrate is at most max. Unmatched or unset bounds return nil.
func BandwidthToIndex(ladder []float64, minBW, maxBW *float64) (lo, hi *int) {
	if minBW != nil {
		for i := 0; i < len(ladder); i++ {
			if ladder[i] >= *minBW {
				lo = Ptr(i)
				break
			}
		}
	}
	if maxBW != nil {
		for i := len(ladder) - 1; i >= 0; i-- {
			if ladder[i] <= *maxBW {
				hi = Ptr(i)
				break
			}
		}
	}
	return lo, hi
}

// intersect takes the larger of the minimums and the smaller of the maximums.
func intersect(aLo, aHi, bLo, bHi *int) (lo, hi *int) {
	lo = aLo
	if bLo != nil && (lo == nil || *bLo > *lo) {
		lo = bLo
	}
	hi = aHi
	if bHi != nil && (hi == nil || *bHi < *hi) {
		hi = bHi
	}
	return lo, hi
}

// finalizeRange fills unset bounds, clamps into [0, count-1] and lowers min
// to max when they cross.
func finalizeRange(lo, hi *int, count int) IndexRange {
	rng := IndexRange{Min: 0, Max: count - 1}
	if lo != nil {
		rng.Min = *lo
	}
	if hi != nil {
		rng.Max = *hi
	}
	rng.Min = clampIndex(rng.Min, count)
	rng.Max = clampIndex(rng.Max, count)
	if rng.Min > rng.Max {
		rng.Min = rng.Max
	}
	return rng
}

func clampIndex(i, count int) int {
	if i < 0 {
		return 0
	}
	if i >= count {
		return count - 1
	}
	return i
}

func fmtBound[T int | float64](v *T) string {
	if v == nil {
		return "unset"
	}
	return fmt.Sprint(*v)
}
