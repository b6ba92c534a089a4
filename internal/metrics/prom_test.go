package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/Eyevinn/moqabr/internal/abr"
)

func TestPromRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPromRecorder(reg)
	now := time.Now()

	p.AddRepresentationSwitch(abr.Video, now, 0, 3)
	p.AddRepresentationSwitch(abr.Video, now, 3, 1)
	p.AddRepresentationSwitch(abr.Video, now, 1, 2)
	require.Equal(t, 2.0, testutil.ToFloat64(p.switches.WithLabelValues("video", "up")))
	require.Equal(t, 1.0, testutil.ToFloat64(p.switches.WithLabelValues("video", "down")))
	require.Equal(t, 2.0, testutil.ToFloat64(p.quality.WithLabelValues("video")))

	p.AddRepresentationBoundaries(abr.Audio, now, abr.QualityBounds{Max: abr.Ptr(2)})
	require.Equal(t, 1.0, testutil.ToFloat64(p.boundaryUpdates.WithLabelValues("audio", KindQuality)))
	require.True(t, math.IsNaN(testutil.ToFloat64(p.qualityBound.WithLabelValues("audio", "min"))))
	require.Equal(t, 2.0, testutil.ToFloat64(p.qualityBound.WithLabelValues("audio", "max")))

	p.AddBandwidthBoundaries(abr.Audio, now, abr.BandwidthBounds{Min: abr.Ptr(64000.0)})
	require.Equal(t, 64000.0, testutil.ToFloat64(p.bandwidthBound.WithLabelValues("audio", "min")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	require.True(t, names["moqabr_abr_quality_switches_total"])
	require.True(t, names["moqabr_abr_bandwidth_bound_bps"])
}
