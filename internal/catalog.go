package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Namespace is the namespace written into generated catalogs.
const Namespace = "moqabr"

// Catalog represents the WARP JSON catalog as defined in
// [draft-ietf-moq-warp](https://moq-wg.github.io/warp-streaming-format/draft-ietf-moq-warp.html).
// Only the fields needed to describe a bitrate ladder are kept.
type Catalog struct {
	// Version specifies the version of WARP referenced by this catalog.
	Version int `json:"version"`

	// Tracks is an array of track objects.
	Tracks []Track `json:"tracks,omitempty"`
}

// ParseCatalog decodes a JSON catalog. Delta updates are rejected.
func ParseCatalog(r io.Reader) (*Catalog, error) {
	var raw struct {
		Catalog
		DeltaUpdate bool `json:"deltaUpdate,omitempty"`
	}
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("could not decode catalog: %w", err)
	}
	if raw.DeltaUpdate {
		return nil, fmt.Errorf("delta catalog updates are not supported")
	}
	if len(raw.Tracks) == 0 {
		return nil, ErrNoTracks
	}
	return &raw.Catalog, nil
}

func (c *Catalog) GetTrackByName(name string) *Track {
	for _, track := range c.Tracks {
		if track.Name == name {
			return &track
		}
	}
	return nil
}

// String returns a JSON string representation of the catalog with indentation.
func (c *Catalog) String() string {
	jsonBytes, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error marshaling catalog: %v", err)
	}
	return string(jsonBytes)
}

// ContentType returns "video", "audio" or "" based on the mime type and,
// failing that, on the codec.
func (t *Track) ContentType() string {
	switch {
	case strings.HasPrefix(t.MimeType, "video/"):
		return "video"
	case strings.HasPrefix(t.MimeType, "audio/"):
		return "audio"
	}
	codec, _, _ := strings.Cut(t.Codec, ".")
	switch codec {
	case "avc1", "avc3", "hvc1", "hev1", "av01", "vp09":
		return "video"
	case "mp4a", "Opus", "opus", "ac-3", "ec-3":
		return "audio"
	}
	return ""
}

// Track represents a track object in the WARP catalog.
type Track struct {
	// Name defines the name of the track.
	Name string `json:"name"`

	// Namespace is the namespace under which the track name is defined.
	Namespace string `json:"namespace,omitempty"`

	// Packaging defines the type of payload encapsulation.
	Packaging string `json:"packaging"`

	// Label is a human-readable label for the track.
	Label string `json:"label,omitempty"`

	// RenderGroup specifies a group of tracks which are designed to be rendered together.
	RenderGroup *int `json:"renderGroup,omitempty"`

	// AltGroup specifies a group of tracks which are alternate versions of one-another.
	// Tracks sharing an AltGroup form one bitrate ladder.
	AltGroup *int `json:"altGroup,omitempty"`

	Codec     string   `json:"codec,omitempty"`
	MimeType  string   `json:"mimeType,omitempty"`
	Framerate *float64 `json:"framerate,omitempty"`

	// Bitrate defines the bitrate of track, expressed in bits per second.
	Bitrate *int `json:"bitrate,omitempty"`

	Width      *int `json:"width,omitempty"`
	Height     *int `json:"height,omitempty"`
	SampleRate *int `json:"samplerate,omitempty"`

	// Language defines the dominant language of the track.
	Language string `json:"lang,omitempty"`
}
