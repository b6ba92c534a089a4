package abr

import "errors"

// Error definitions for the decision engine
var (
	ErrCatalogUnavailable = errors.New("representation catalog unavailable")
	ErrEmptyLadder        = errors.New("representation ladder is empty")
	ErrMetricsUnavailable = errors.New("metrics unavailable")
	ErrRulesUnavailable   = errors.New("rules unavailable")
	ErrRulePanicked       = errors.New("rule panicked")
)
