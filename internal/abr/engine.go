package abr

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// EngineConfig wires the collaborators of an Engine. Recorder and Params are optional.
type EngineConfig struct {
	Catalog  RepresentationCatalog
	Rules    RuleRegistry
	Metrics  MetricsStore
	Recorder MetricsRecorder
	Params   ParamSource
}

// Engine runs decision cycles per category. Cycles for the same category
// are serialized in call order; different categories run independently.
type Engine struct {
	logger       *slog.Logger
	catalog      RepresentationCatalog
	rules        RuleRegistry
	metrics      MetricsStore
	recorder     MetricsRecorder
	state        *StateStore
	orchestrator *Orchestrator
	limiter      *SwitchLimiter
	boundaries   *RuntimeBoundaries
	now          func() time.Time

	lanesMu sync.Mutex
	lanes   map[Category]*lane
}

// NewEngine creates an engine with auto-switching enabled.
func NewEngine(logger *slog.Logger, cfg EngineConfig) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}
	params := cfg.Params
	if params == nil {
		params = StaticParams{}
	}
	base := NewConfigBoundaries(cfg.Catalog, params, logger)
	return &Engine{
		logger:       logger,
		catalog:      cfg.Catalog,
		rules:        cfg.Rules,
		metrics:      cfg.Metrics,
		recorder:     recorder,
		state:        NewStateStore(),
		orchestrator: NewOrchestrator(logger),
		limiter:      NewSwitchLimiter(params),
		boundaries:   NewRuntimeBoundaries(base, cfg.Catalog),
		now:          time.Now,
		lanes:        make(map[Category]*lane),
	}
}

type cycleResult struct {
	decision Decision
	err      error
}

// Decide runs one decision cycle for category. The cycle is queued behind
// any cycle already running for the same category. If ctx ends first,
// Decide returns ctx.Err() while the cycle still completes and commits.
func (e *Engine) Decide(ctx context.Context, category Category, data any) (Decision, error) {
	l := e.lane(category)
	ready := l.enqueue()
	done := make(chan cycleResult, 1)
	cycleCtx := context.WithoutCancel(ctx)

	go func() {
		<-ready
		defer l.release()
		d, err := e.cycle(cycleCtx, category, data)
		done <- cycleResult{decision: d, err: err}
	}()

	select {
	case res := <-done:
		return res.decision, res.err
	case <-ctx.Done():
		return Decision{}, ctx.Err()
	}
}

func (e *Engine) cycle(ctx context.Context, category Category, data any) (Decision, error) {
	previous := e.state.Selection(category)
	if !e.state.AutoSwitch() {
		return Decision{Selection: previous}, nil
	}

	prevPhase := e.state.Phase(category)
	e.state.setPhase(category, PhaseEvaluating)
	abort := func() { e.state.setPhase(category, prevPhase) }

	e.logger.Debug("checking rules", "category", category, "quality", previous.Quality)

	metrics, err := e.metricsFor(ctx, data)
	if err != nil {
		abort()
		e.logger.Warn("keeping previous quality", "category", category, "error", err)
		return Decision{Selection: previous, Warning: err}, nil
	}
	rules, err := e.rules.Rules(ctx)
	if err != nil {
		abort()
		err = fmt.Errorf("%w: %w", ErrRulesUnavailable, err)
		e.logger.Warn("keeping previous quality", "category", category, "error", err)
		return Decision{Selection: previous, Warning: err}, nil
	}

	requests := e.orchestrator.Evaluate(ctx, category, data, previous.Quality, metrics, rules)
	sel := ResolvePriority(requests, previous)
	sel.Confidence = normalizeConfidence(sel.Confidence)

	quality := e.limiter.Limit(category, sel.Quality, previous.Quality)
	if quality != sel.Quality {
		e.logger.Debug("incremental switch", "category", category, "proposed", sel.Quality, "quality", quality)
	}

	count, err := e.catalog.RepresentationCount(ctx, data)
	if err != nil {
		abort()
		return Decision{}, fmt.Errorf("%w: representation count: %w", ErrCatalogUnavailable, err)
	}
	rng, err := e.boundaries.Resolve(ctx, category, data, count)
	if err != nil {
		abort()
		return Decision{}, err
	}
	if clamped := rng.Clamp(quality); clamped != quality {
		e.logger.Debug("quality outside boundaries",
			"category", category,
			"quality", quality,
			"min", rng.Min,
			"max", rng.Max,
			"clamped", clamped)
		quality = clamped
	}
	sel.Quality = quality

	from := e.state.Commit(category, sel, count)
	level := slog.LevelDebug
	if from != sel.Quality {
		e.recorder.AddRepresentationSwitch(category, e.now(), from, sel.Quality)
		level = slog.LevelInfo
	}
	e.logger.Log(ctx, level, "quality decided",
		"category", category,
		"quality", sel.Quality,
		"confidence", sel.Confidence,
		"previous", from)
	return Decision{Selection: sel}, nil
}

// metricsFor classifies data and fetches the metrics of the resulting category.
func (e *Engine) metricsFor(ctx context.Context, data any) (any, error) {
	resolved, err := e.catalog.Classify(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%w: classify: %w", ErrMetricsUnavailable, err)
	}
	m, err := e.metrics.MetricsFor(ctx, resolved)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMetricsUnavailable, resolved, err)
	}
	return m, nil
}

// SetPlaybackQuality writes quality directly, bypassing rules and
// boundaries. The value is kept inside the last known ladder.
func (e *Engine) SetPlaybackQuality(category Category, quality int) {
	if quality < 0 {
		quality = 0
	}
	if n := e.state.RepresentationCount(category); n > 0 && quality >= n {
		quality = n - 1
	}
	e.logger.Debug("set playback quality", "category", category, "quality", quality)
	from, changed := e.state.SetQuality(category, quality)
	if changed {
		e.recorder.AddRepresentationSwitch(category, e.now(), from, quality)
	}
}

// QualityFor returns the current quality of category.
func (e *Engine) QualityFor(category Category) int {
	return e.state.Quality(category)
}

// SelectionFor returns the current quality and confidence of category.
func (e *Engine) SelectionFor(category Category) Selection {
	return e.state.Selection(category)
}

// Phase returns the decision phase of category.
func (e *Engine) Phase(category Category) Phase {
	return e.state.Phase(category)
}

// AutoSwitchBitrate reports whether decision cycles evaluate rules.
func (e *Engine) AutoSwitchBitrate() bool {
	return e.state.AutoSwitch()
}

// SetAutoSwitchBitrate enables or disables rule evaluation.
func (e *Engine) SetAutoSwitchBitrate(enabled bool) {
	e.state.SetAutoSwitch(enabled)
}

// SetQualityBoundaries restricts category to an index range at runtime.
func (e *Engine) SetQualityBoundaries(category Category, bounds QualityBounds) {
	e.logger.Info("set quality boundaries",
		"category", category,
		"min", fmtBound(bounds.Min),
		"max", fmtBound(bounds.Max))
	e.boundaries.SetQuality(category, bounds)
	e.recorder.AddRepresentationBoundaries(category, e.now(), e.boundaries.Quality(category))
}

// SetBandwidthBoundaries restricts category to a bitrate range at runtime.
func (e *Engine) SetBandwidthBoundaries(category Category, bounds BandwidthBounds) {
	e.logger.Info("set bandwidth boundaries",
		"category", category,
		"min", fmtBound(bounds.Min),
		"max", fmtBound(bounds.Max))
	e.boundaries.SetBandwidth(category, bounds)
	e.recorder.AddBandwidthBoundaries(category, e.now(), e.boundaries.Bandwidth(category))
}

// QualityBoundaries returns the runtime index bounds of category.
func (e *Engine) QualityBoundaries(category Category) QualityBounds {
	return e.boundaries.Quality(category)
}

// BandwidthBoundaries returns the runtime bitrate bounds of category.
func (e *Engine) BandwidthBoundaries(category Category) BandwidthBounds {
	return e.boundaries.Bandwidth(category)
}

func (e *Engine) lane(category Category) *lane {
	e.lanesMu.Lock()
	defer e.lanesMu.Unlock()
	l, ok := e.lanes[category]
	if !ok {
		l = &lane{}
		e.lanes[category] = l
	}
	return l
}

// lane admits cycles of one category one at a time in arrival order.
type lane struct {
	mu      sync.Mutex
	busy    bool
	waiting []chan struct{}
}

// enqueue reserves a turn. The returned channel is closed when the turn starts.
func (l *lane) enqueue() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch := make(chan struct{})
	if !l.busy {
		l.busy = true
		close(ch)
		return ch
	}
	l.waiting = append(l.waiting, ch)
	return ch
}

// release ends the current turn and starts the next queued one.
func (l *lane) release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.waiting) == 0 {
		l.busy = false
		return
	}
	next := l.waiting[0]
	l.waiting = l.waiting[1:]
	close(next)
}
