package abr

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Orchestrator evaluates all rules of a cycle concurrently.
type Orchestrator struct {
	logger *slog.Logger
}

// NewOrchestrator creates an orchestrator logging rule failures to logger.
func NewOrchestrator(logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{logger: logger}
}

// Evaluate runs every rule in its own goroutine and waits for all of them.
// The result has one request per rule, in rule order. A rule that fails or
// panics contributes NoChangeRequest.
func (o *Orchestrator) Evaluate(ctx context.Context, category Category, data any, current int, metrics any, rules []Rule) []SwitchRequest {
	results := make([]SwitchRequest, len(rules))
	var wg sync.WaitGroup
	wg.Add(len(rules))
	for i, rule := range rules {
		go func(i int, rule Rule) {
			defer wg.Done()
			req, err := checkRule(ctx, rule, current, metrics, data)
			if err != nil {
				o.logger.Warn("rule evaluation failed",
					"category", category,
					"rule", i,
					"error", err)
				req = NoChangeRequest()
			}
			results[i] = req
		}(i, rule)
	}
	wg.Wait()

	for i, req := range results {
		o.logger.Debug("rule request",
			"category", category,
			"rule", i,
			"quality", req.Quality,
			"priority", req.Priority)
	}
	return results
}

func checkRule(ctx context.Context, rule Rule, current int, metrics, data any) (req SwitchRequest, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrRulePanicked, r)
		}
	}()
	if rule == nil {
		return NoChangeRequest(), nil
	}
	return rule.CheckIndex(ctx, current, metrics, data)
}
