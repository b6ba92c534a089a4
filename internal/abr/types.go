package abr

import "fmt"

// Category identifies an independent decision stream. All engine state is keyed by it.
type Category string

const (
	Video  Category = "video"
	Audio  Category = "audio"
	Stream Category = "stream"
)

// NoChange is the quality value of a request that carries no opinion.
const NoChange = -1

// Confidence ranks how much a rule trusts its recommendation.
type Confidence int

const (
	ConfidenceNoChange Confidence = iota - 1
	ConfidenceWeak
	ConfidenceDefault
	ConfidenceStrong
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceNoChange:
		return "no-change"
	case ConfidenceWeak:
		return "weak"
	case ConfidenceDefault:
		return "default"
	case ConfidenceStrong:
		return "strong"
	default:
		return fmt.Sprintf("confidence(%d)", int(c))
	}
}

// ParseConfidence converts a name as printed by String back to a Confidence.
func ParseConfidence(s string) (Confidence, error) {
	switch s {
	case "no-change", "nochange", "none":
		return ConfidenceNoChange, nil
	case "weak":
		return ConfidenceWeak, nil
	case "default":
		return ConfidenceDefault, nil
	case "strong":
		return ConfidenceStrong, nil
	default:
		return ConfidenceNoChange, fmt.Errorf("invalid confidence: %s", s)
	}
}

// SwitchRequest is the outcome of one rule evaluation.
type SwitchRequest struct {
	Quality  int
	Priority Confidence
}

// NewSwitchRequest returns a request for quality with the given priority.
func NewSwitchRequest(quality int, priority Confidence) SwitchRequest {
	return SwitchRequest{Quality: quality, Priority: priority}
}

// NoChangeRequest returns a request that expresses no opinion.
func NoChangeRequest() SwitchRequest {
	return SwitchRequest{Quality: NoChange, Priority: ConfidenceNoChange}
}

// IsNoChange reports whether the request carries no quality proposal.
func (r SwitchRequest) IsNoChange() bool {
	return r.Quality == NoChange
}

// Selection is a quality together with the confidence it was chosen with.
type Selection struct {
	Quality    int
	Confidence Confidence
}

// Decision is the result of a decision cycle. Warning is set when the cycle
// fell back to the previously committed selection.
type Decision struct {
	Selection
	Warning error
}

// CategoryParams is the configured policy for one category. Nil bounds are unbounded.
type CategoryParams struct {
	MinQuality            *int
	MaxQuality            *int
	MinBandwidth          *float64
	MaxBandwidth          *float64
	SwitchUpIncrementally bool
}

// ParamSource supplies configured policy per category.
type ParamSource interface {
	ParamsFor(category Category) CategoryParams
}

// StaticParams is a ParamSource backed by a map. Missing categories get zero params.
type StaticParams map[Category]CategoryParams

func (p StaticParams) ParamsFor(category Category) CategoryParams {
	return p[category]
}

// QualityBounds restricts the index range at runtime.
type QualityBounds struct {
	Min *int
	Max *int
}

// BandwidthBounds restricts the bitrate range at runtime, in bits per second.
type BandwidthBounds struct {
	Min *float64
	Max *float64
}

// IndexRange is a resolved inclusive quality range.
type IndexRange struct {
	Min int
	Max int
}

// Clamp returns q limited to the range.
func (r IndexRange) Clamp(q int) int {
	if q < r.Min {
		return r.Min
	}
	if q > r.Max {
		return r.Max
	}
	return q
}

// Ptr returns a pointer to any value
func Ptr[T any](v T) *T {
	return &v
}
