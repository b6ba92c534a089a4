package abr

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mocks/mock_collaborators.go -package=mocks github.com/Eyevinn/moqabr/internal/abr RepresentationCatalog,Rule,RuleRegistry,MetricsStore,MetricsRecorder

// RepresentationCatalog describes the bitrate ladder of a stream. The data
// argument is an opaque handle understood by the catalog implementation.
// Bandwidths must be non-decreasing in index.
type RepresentationCatalog interface {
	RepresentationCount(ctx context.Context, data any) (int, error)
	RepresentationBandwidth(ctx context.Context, data any, index int) (float64, error)
	Classify(ctx context.Context, data any) (Category, error)
}

// Rule is a pluggable heuristic proposing the next quality.
type Rule interface {
	CheckIndex(ctx context.Context, current int, metrics any, data any) (SwitchRequest, error)
}

// RuleRegistry supplies the rules evaluated in each cycle.
type RuleRegistry interface {
	Rules(ctx context.Context) ([]Rule, error)
}

// MetricsStore supplies a metrics snapshot for a classified category.
type MetricsStore interface {
	MetricsFor(ctx context.Context, category Category) (any, error)
}

// MetricsRecorder receives boundary and switch notifications.
type MetricsRecorder interface {
	AddRepresentationBoundaries(category Category, at time.Time, bounds QualityBounds)
	AddBandwidthBoundaries(category Category, at time.Time, bounds BandwidthBounds)
	AddRepresentationSwitch(category Category, at time.Time, from, to int)
}

// RuleFunc adapts a function to the Rule interface.
type RuleFunc func(ctx context.Context, current int, metrics any, data any) (SwitchRequest, error)

func (f RuleFunc) CheckIndex(ctx context.Context, current int, metrics any, data any) (SwitchRequest, error) {
	return f(ctx, current, metrics, data)
}

// StaticRule always returns the same request.
type StaticRule SwitchRequest

func (r StaticRule) CheckIndex(context.Context, int, any, any) (SwitchRequest, error) {
	return SwitchRequest(r), nil
}

// StaticRegistry is a RuleRegistry over a fixed rule set.
type StaticRegistry []Rule

func (r StaticRegistry) Rules(context.Context) ([]Rule, error) {
	return r, nil
}

type nopRecorder struct{}

func (nopRecorder) AddRepresentationBoundaries(Category, time.Time, QualityBounds) {}
func (nopRecorder) AddBandwidthBoundaries(Category, time.Time, BandwidthBounds)   {}
func (nopRecorder) AddRepresentationSwitch(Category, time.Time, int, int)          {}
