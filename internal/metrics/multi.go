package metrics

import (
	"time"

	"github.com/Eyevinn/moqabr/internal/abr"
)

// MultiRecorder forwards every notification to each recorder in order.
type MultiRecorder []abr.MetricsRecorder

// NewMultiRecorder drops nil recorders.
func NewMultiRecorder(recorders ...abr.MetricsRecorder) MultiRecorder {
	out := make(MultiRecorder, 0, len(recorders))
	for _, r := range recorders {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func (m MultiRecorder) AddRepresentationBoundaries(category abr.Category, at time.Time, bounds abr.QualityBounds) {
	for _, r := range m {
		r.AddRepresentationBoundaries(category, at, bounds)
	}
}

func (m MultiRecorder) AddBandwidthBoundaries(category abr.Category, at time.Time, bounds abr.BandwidthBounds) {
	for _, r := range m {
		r.AddBandwidthBoundaries(category, at, bounds)
	}
}

func (m MultiRecorder) AddRepresentationSwitch(category abr.Category, at time.Time, from, to int) {
	for _, r := range m {
		r.AddRepresentationSwitch(category, at, from, to)
	}
}
