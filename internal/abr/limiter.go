package abr

// SwitchLimiter caps upward switches to one step for categories configured
// with SwitchUpIncrementally.
type SwitchLimiter struct {
	params ParamSource
}

// NewSwitchLimiter creates a limiter reading its option from params.
func NewSwitchLimiter(params ParamSource) *SwitchLimiter {
	return &SwitchLimiter{params: params}
}

// Limit returns previous+1 when switching up incrementally, else proposed.
func (l *SwitchLimiter) Limit(category Category, proposed, previous int) int {
	if l.params == nil || !l.params.ParamsFor(category).SwitchUpIncrementally {
		return proposed
	}
	if proposed > previous {
		return previous + 1
	}
	return proposed
}
