package metrics

import (
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Eyevinn/moqabr/internal/abr"
)

// PromRecorder exposes engine notifications as Prometheus metrics. Unset
// bounds are reported as NaN.
type PromRecorder struct {
	switches        *prometheus.CounterVec
	quality         *prometheus.GaugeVec
	boundaryUpdates *prometheus.CounterVec
	qualityBound    *prometheus.GaugeVec
	bandwidthBound  *prometheus.GaugeVec
}

// NewPromRecorder registers the recorder collectors with reg.
func NewPromRecorder(reg prometheus.Registerer) *PromRecorder {
	factory := promauto.With(reg)
	return &PromRecorder{
		switches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "moqabr",
			Subsystem: "abr",
			Name:      "quality_switches_total",
			Help:      "Total quality switches",
		}, []string{"category", "direction"}),
		quality: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "moqabr",
			Subsystem: "abr",
			Name:      "quality",
			Help:      "Current quality index",
		}, []string{"category"}),
		boundaryUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "moqabr",
			Subsystem: "abr",
			Name:      "boundary_updates_total",
			Help:      "Total runtime boundary updates",
		}, []string{"category", "kind"}),
		qualityBound: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "moqabr",
			Subsystem: "abr",
			Name:      "quality_bound",
			Help:      "Runtime quality index bound",
		}, []string{"category", "edge"}),
		bandwidthBound: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "moqabr",
			Subsystem: "abr",
			Name:      "bandwidth_bound_bps",
			Help:      "Runtime bandwidth bound in bits per second",
		}, []string{"category", "edge"}),
	}
}

// AddRepresentationBoundaries records a quality boundary change.
func (p *PromRecorder) AddRepresentationBoundaries(category abr.Category, _ time.Time, bounds abr.QualityBounds) {
	cat := string(category)
	p.boundaryUpdates.WithLabelValues(cat, KindQuality).Inc()
	p.qualityBound.WithLabelValues(cat, "min").Set(boundValue(intToFloat(bounds.Min)))
	p.qualityBound.WithLabelValues(cat, "max").Set(boundValue(intToFloat(bounds.Max)))
}

// AddBandwidthBoundaries records a bandwidth boundary change.
func (p *PromRecorder) AddBandwidthBoundaries(category abr.Category, _ time.Time, bounds abr.BandwidthBounds) {
	cat := string(category)
	p.boundaryUpdates.WithLabelValues(cat, KindBandwidth).Inc()
	p.bandwidthBound.WithLabelValues(cat, "min").Set(boundValue(bounds.Min))
	p.bandwidthBound.WithLabelValues(cat, "max").Set(boundValue(bounds.Max))
}

// AddRepresentationSwitch records a quality switch.
func (p *PromRecorder) AddRepresentationSwitch(category abr.Category, _ time.Time, from, to int) {
	direction := "up"
	if to < from {
		direction = "down"
	}
	p.switches.WithLabelValues(string(category), direction).Inc()
	p.quality.WithLabelValues(string(category)).Set(float64(to))
}

func boundValue(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
