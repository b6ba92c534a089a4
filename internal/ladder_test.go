package internal

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Eyevinn/moqabr/internal/abr"
)

func testLadder(t *testing.T) *Ladder {
	t.Helper()
	cat, err := ParseCatalog(strings.NewReader(testCatalog))
	require.NoError(t, err)
	l, err := LadderFromCatalog(cat)
	require.NoError(t, err)
	return l
}

func TestLadderFromCatalog(t *testing.T) {
	l := testLadder(t)
	groups := l.Groups()
	require.Len(t, groups, 2)

	video := groups[0]
	require.Equal(t, 1, video.ID)
	require.Equal(t, abr.Video, video.Category())
	require.Equal(t, []float64{400000, 600000, 900000}, video.Bitrates())
	require.Equal(t, "video_400", video.Renditions[0].Name)
	require.Equal(t, 640, video.Renditions[0].Width)
	require.Equal(t, 0, video.Renditions[1].Width)

	audio := groups[1]
	require.Equal(t, abr.Audio, audio.Category())
	require.Equal(t, "en", audio.Language)
	require.Equal(t, []float64{64000, 128000}, audio.Bitrates())

	require.Equal(t, []float64{64000, 128000}, l.BitratesFor(abr.Audio))
	require.Nil(t, l.BitratesFor(abr.Stream))
}

func TestLadderFromCatalogMissingBitrate(t *testing.T) {
	cat := &Catalog{Version: 1, Tracks: []Track{{Name: "video_x", MimeType: "video/mp4"}}}
	_, err := LadderFromCatalog(cat)
	require.ErrorIs(t, err, ErrMissingBitrate)

	_, err = LadderFromCatalog(&Catalog{Version: 1})
	require.ErrorIs(t, err, ErrNoTracks)
}

func TestLadderCatalogMethods(t *testing.T) {
	l := testLadder(t)
	ctx := context.Background()
	video := l.Groups()[0]

	testCases := []struct {
		desc     string
		data     any
		count    int
		category abr.Category
	}{
		{"group", video, 3, abr.Video},
		{"category", abr.Audio, 2, abr.Audio},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			n, err := l.RepresentationCount(ctx, tc.data)
			require.NoError(t, err)
			require.Equal(t, tc.count, n)
			cat, err := l.Classify(ctx, tc.data)
			require.NoError(t, err)
			require.Equal(t, tc.category, cat)
		})
	}

	bw, err := l.RepresentationBandwidth(ctx, video, 2)
	require.NoError(t, err)
	require.Equal(t, 900000.0, bw)

	_, err = l.RepresentationBandwidth(ctx, video, 3)
	require.ErrorIs(t, err, ErrRenditionIndex)
	_, err = l.RepresentationCount(ctx, "video")
	require.ErrorIs(t, err, ErrUnknownGroup)
	_, err = l.Classify(ctx, abr.Stream)
	require.ErrorIs(t, err, ErrUnknownGroup)
}

func TestStreamGroupClassification(t *testing.T) {
	g := &RenditionGroup{ContentType: "", Renditions: []Rendition{{Name: "data", Bitrate: 1000}}}
	l := NewLadder(g)
	cat, err := l.Classify(context.Background(), g)
	require.NoError(t, err)
	require.Equal(t, abr.Stream, cat)
}

func TestLadderFromAsset(t *testing.T) {
	asset := &Asset{
		Name: "test",
		Groups: []TrackGroup{
			{
				AltGroupID: 2,
				Tracks: []ContentTrack{
					{Name: "a_hi", ContentType: "audio", SampleBitrate: 96000, TimeScale: 1000, SampleDur: 250, SampleBatch: 1},
					{Name: "a_lo", ContentType: "audio", SampleBitrate: 32000, TimeScale: 1000, SampleDur: 250, SampleBatch: 1},
				},
			},
		},
	}
	l := LadderFromAsset(asset)
	require.Len(t, l.Groups(), 1)
	g := l.Groups()[0]
	require.Equal(t, 2, g.ID)
	require.Equal(t, "a_lo", g.Renditions[0].Name)
	require.Equal(t, []float64{35584, 99584}, g.Bitrates())
}

func TestLadderDrivesEngine(t *testing.T) {
	l := testLadder(t)
	rule := abr.StaticRule(abr.NewSwitchRequest(2, abr.ConfidenceStrong))
	e := abr.NewEngine(nil, abr.EngineConfig{
		Catalog: l,
		Rules:   abr.StaticRegistry{rule},
		Metrics: metricsFunc(func(context.Context, abr.Category) (any, error) { return nil, nil }),
		Params: abr.StaticParams{
			abr.Video: {MaxBandwidth: abr.Ptr(700000.0)},
		},
	})
	d, err := e.Decide(context.Background(), abr.Video, l.Groups()[0])
	require.NoError(t, err)
	require.Equal(t, 1, d.Quality)
	require.Equal(t, abr.ConfidenceStrong, d.Confidence)
}

type metricsFunc func(ctx context.Context, category abr.Category) (any, error)

func (f metricsFunc) MetricsFor(ctx context.Context, category abr.Category) (any, error) {
	return f(ctx, category)
}

func TestProfileLevel(t *testing.T) {
	testCases := []struct {
		codec    string
		expected string
	}{
		{"avc1.64001f", "High@3.1"},
		{"avc1.640028", "High@4"},
		{"avc1.4d401e", "Main@3"},
		{"avc1.42E01E", "Baseline@3"},
		{"avc1.58A01E", "Extended@3"},
		{"avc3.640033", "High@5.1"},
		{"avc1.FF001f", ""},
		{"avc1.6400zz", ""},
		{"avc1", ""},
		{"mp4a.40.2", ""},
		{"hvc1.1.6.L93.B0", ""},
		{"", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.codec, func(t *testing.T) {
			require.Equal(t, tc.expected, Rendition{Codec: tc.codec}.ProfileLevel())
		})
	}
}
