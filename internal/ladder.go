package internal

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Eyevinn/moqabr/internal/abr"
)

// Rendition is one entry of a bitrate ladder.
type Rendition struct {
	Name    string
	Bitrate float64
	Codec   string
	Width   int
	Height  int
}

var h264Profiles = map[string]string{
	"42": "Baseline",
	"4D": "Main",
	"58": "Extended",
	"64": "High",
	"6E": "High 10",
	"7A": "High 4:2:2",
	"F4": "High 4:4:4",
}

// ProfileLevel returns the H.264 profile and level of the rendition, such as
// "High@3.1". It is empty for other codecs.
func (r Rendition) ProfileLevel() string {
	return H264ProfileLevel(r.Codec)
}

// H264ProfileLevel formats the profile and level of an RFC 6381 avc1/avc3
// codec string. It returns "" if codec is not a well-formed H.264 codec string.
func H264ProfileLevel(codec string) string {
	if !strings.HasPrefix(codec, "avc1.") && !strings.HasPrefix(codec, "avc3.") {
		return ""
	}
	if len(codec) < 11 {
		return ""
	}
	profile, ok := h264Profiles[strings.ToUpper(codec[5:7])]
	if !ok {
		return ""
	}
	level, err := strconv.ParseUint(codec[9:11], 16, 8)
	if err != nil {
		return ""
	}
	return profile + "@" + strconv.FormatFloat(float64(level)/10, 'f', -1, 64)
}

// RenditionGroup is a set of alternative renditions of one content type.
// Renditions are sorted by ascending bitrate, so an index into Renditions is
// a quality index.
type RenditionGroup struct {
	ID          int
	ContentType string
	Language    string
	Renditions  []Rendition
}

// Category maps the content type of the group to a decision category.
func (g *RenditionGroup) Category() abr.Category {
	switch g.ContentType {
	case "video":
		return abr.Video
	case "audio":
		return abr.Audio
	default:
		return abr.Stream
	}
}

// Bitrates returns the ladder of the group in quality order.
func (g *RenditionGroup) Bitrates() []float64 {
	out := make([]float64, len(g.Renditions))
	for i, r := range g.Renditions {
		out[i] = r.Bitrate
	}
	return out
}

// Ladder is an abr.RepresentationCatalog over a fixed set of rendition
// groups. The data argument of the catalog methods is either a
// *RenditionGroup or an abr.Category, which selects the first group of that
// category.
type Ladder struct {
	groups []*RenditionGroup
}

// NewLadder sorts the renditions of every group by bitrate and returns the ladder.
func NewLadder(groups ...*RenditionGroup) *Ladder {
	for _, g := range groups {
		sort.SliceStable(g.Renditions, func(i, j int) bool {
			return g.Renditions[i].Bitrate < g.Renditions[j].Bitrate
		})
	}
	return &Ladder{groups: groups}
}

// LadderFromAsset builds one group per track group of the asset, using the
// CMAF bitrate of each track.
func LadderFromAsset(a *Asset) *Ladder {
	groups := make([]*RenditionGroup, 0, len(a.Groups))
	for _, tg := range a.Groups {
		g := &RenditionGroup{ID: int(tg.AltGroupID)}
		for _, ct := range tg.Tracks {
			if g.ContentType == "" {
				g.ContentType = ct.ContentType
				g.Language = ct.Language
			}
			g.Renditions = append(g.Renditions, Rendition{
				Name:    ct.Name,
				Bitrate: float64(ct.CMAFBitrate()),
				Codec:   ct.Codec,
				Width:   ct.Width,
				Height:  ct.Height,
			})
		}
		groups = append(groups, g)
	}
	return NewLadder(groups...)
}

// LadderFromCatalog groups catalog tracks by altGroup. Tracks without an
// altGroup are grouped by content type. Every track must carry a bitrate.
func LadderFromCatalog(c *Catalog) (*Ladder, error) {
	var groups []*RenditionGroup
	byAlt := make(map[int]*RenditionGroup)
	byType := make(map[string]*RenditionGroup)
	for _, t := range c.Tracks {
		if t.Bitrate == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingBitrate, t.Name)
		}
		contentType := t.ContentType()
		var g *RenditionGroup
		if t.AltGroup != nil {
			g = byAlt[*t.AltGroup]
			if g == nil {
				g = &RenditionGroup{ID: *t.AltGroup, ContentType: contentType, Language: t.Language}
				byAlt[*t.AltGroup] = g
				groups = append(groups, g)
			}
		} else {
			g = byType[contentType]
			if g == nil {
				g = &RenditionGroup{ContentType: contentType, Language: t.Language}
				byType[contentType] = g
				groups = append(groups, g)
			}
		}
		r := Rendition{Name: t.Name, Bitrate: float64(*t.Bitrate), Codec: t.Codec}
		if t.Width != nil {
			r.Width = *t.Width
		}
		if t.Height != nil {
			r.Height = *t.Height
		}
		g.Renditions = append(g.Renditions, r)
	}
	if len(groups) == 0 {
		return nil, ErrNoTracks
	}
	return NewLadder(groups...), nil
}

// Groups returns all rendition groups.
func (l *Ladder) Groups() []*RenditionGroup {
	return l.groups
}

// GroupFor returns the first group classified as category.
func (l *Ladder) GroupFor(category abr.Category) (*RenditionGroup, error) {
	for _, g := range l.groups {
		if g.Category() == category {
			return g, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownGroup, category)
}

// BitratesFor returns the bitrate ladder of the first group of category, or
// nil if there is none.
func (l *Ladder) BitratesFor(category abr.Category) []float64 {
	g, err := l.GroupFor(category)
	if err != nil {
		return nil
	}
	return g.Bitrates()
}

func (l *Ladder) resolve(data any) (*RenditionGroup, error) {
	switch d := data.(type) {
	case *RenditionGroup:
		if d == nil {
			return nil, ErrUnknownGroup
		}
		return d, nil
	case abr.Category:
		return l.GroupFor(d)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownGroup, data)
	}
}

// RepresentationCount returns the number of renditions of the group selected by data.
func (l *Ladder) RepresentationCount(_ context.Context, data any) (int, error) {
	g, err := l.resolve(data)
	if err != nil {
		return 0, err
	}
	return len(g.Renditions), nil
}

// RepresentationBandwidth returns the bitrate of rendition index.
func (l *Ladder) RepresentationBandwidth(_ context.Context, data any, index int) (float64, error) {
	g, err := l.resolve(data)
	if err != nil {
		return 0, err
	}
	if index < 0 || index >= len(g.Renditions) {
		return 0, fmt.Errorf("%w: %d of %d", ErrRenditionIndex, index, len(g.Renditions))
	}
	return g.Renditions[index].Bitrate, nil
}

// Classify returns the category of the group selected by data.
func (l *Ladder) Classify(_ context.Context, data any) (abr.Category, error) {
	g, err := l.resolve(data)
	if err != nil {
		return "", err
	}
	return g.Category(), nil
}
