package internal

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/Eyevinn/mp4ff/aac"
	"github.com/Eyevinn/mp4ff/avc"
	"github.com/Eyevinn/mp4ff/mp4"
)

const (
	cmafOverheadBytes = 112 // moof + mdat header size for one sample
)

// ContentTrack is one rendition read from a fragmented MP4 file.
type ContentTrack struct {
	Name          string
	ContentType   string
	Language      string
	Codec         string
	SampleBitrate uint32
	TimeScale     uint32
	Duration      uint32
	SampleDur     uint32
	NrSamples     uint32
	GopLength     uint32
	SampleBatch   int
	Width         int
	Height        int
	SampleRate    int
}

// FrameRate returns the number of samples per second.
func (t *ContentTrack) FrameRate() float64 {
	if t.SampleDur == 0 {
		return 0
	}
	return float64(t.TimeScale) / float64(t.SampleDur)
}

// CMAFBitrate returns the bitrate including moof and mdat overhead for the
// configured sample batch.
func (t *ContentTrack) CMAFBitrate() int {
	return calcCmafBitrate(t.SampleBitrate, t.FrameRate(), t.SampleBatch)
}

type Asset struct {
	Name   string
	Groups []TrackGroup
}

// TrackGroup holds alternative renditions of one content type, sorted by
// ascending bitrate.
type TrackGroup struct {
	AltGroupID uint32
	Tracks     []ContentTrack
}

// GetTrackByName returns a pointer to a ContentTrack with the given name, or nil if not found.
func (a *Asset) GetTrackByName(name string) *ContentTrack {
	for _, group := range a.Groups {
		for _, ct := range group.Tracks {
			if ct.Name == name {
				return &ct
			}
		}
	}
	return nil
}

// InitContentTrack initializes a ContentTrack from an io.Reader (expects a fragmented MP4).
// The name is stripped of any extension.
func InitContentTrack(r io.Reader, name string, audioSampleBatch, videoSampleBatch int) (*ContentTrack, error) {
	m, err := mp4.DecodeFile(r)
	if err != nil {
		return nil, fmt.Errorf("could not decode file: %w", err)
	}
	if !m.IsFragmented() {
		return nil, fmt.Errorf("file is not fragmented")
	}
	if len(m.Moov.Traks) != 1 {
		return nil, fmt.Errorf("file has not exactly one track")
	}
	init := m.Init
	trak := init.Moov.Trak
	mdia := trak.Mdia
	if ext := filepath.Ext(name); ext != "" {
		name = name[:len(name)-len(ext)]
	}
	ct := ContentTrack{
		TimeScale: mdia.Mdhd.Timescale,
		Language:  mdia.Mdhd.GetLanguage(),
		Name:      name,
	}
	sampleDesc, err := mdia.Minf.Stbl.Stsd.GetSampleDescription(0)
	if err != nil {
		return nil, fmt.Errorf("could not get sample description: %w", err)
	}
	switch sampleDesc.Type() {
	case "avc1", "avc3", "hvc1", "hev1":
		ct.ContentType = "video"
		ct.SampleBatch = videoSampleBatch
	case "mp4a", "Opus", "ac-3", "ec-3":
		ct.ContentType = "audio"
		ct.SampleBatch = audioSampleBatch
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, sampleDesc.Type())
	}
	if ct.SampleBatch < 1 {
		ct.SampleBatch = 1
	}
	switch se := sampleDesc.(type) {
	case *mp4.VisualSampleEntryBox:
		ct.Width = int(se.Width)
		ct.Height = int(se.Height)
	case *mp4.AudioSampleEntryBox:
		ct.SampleRate = int(se.SampleRate)
	}
	ct.Codec = codecString(init, sampleDesc.Type())

	trex := init.Moov.Mvex.Trex
	var samples []mp4.FullSample
	for _, seg := range m.Segments {
		for _, frag := range seg.Fragments {
			fs, err := frag.GetFullSamples(trex)
			if err != nil {
				return nil, fmt.Errorf("could not get full samples: %w", err)
			}
			samples = append(samples, fs...)
		}
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("file has no samples")
	}
	for i, s := range samples {
		if ct.SampleDur == 0 {
			ct.SampleDur = s.Dur
		} else {
			// Last sample may have different duration, but all other should be same
			if s.Dur != ct.SampleDur && i != len(samples)-1 {
				return nil, fmt.Errorf("sample duration is not consistent")
			}
		}
	}

	if samples[0].IsSync() {
		lastSync := 0
		for i := 1; i < len(samples); i++ {
			if samples[i].IsSync() {
				gopLen := i - lastSync
				if ct.GopLength == 0 {
					ct.GopLength = uint32(gopLen)
				} else if ct.GopLength != uint32(gopLen) {
					return nil, fmt.Errorf("gop length is not consistent")
				}
				lastSync = i
			}
		}
	}

	ct.Duration = uint32(len(samples)) * ct.SampleDur
	ct.NrSamples = uint32(len(samples))
	// Calculate sampleBitrate (bits per second)
	totalBytes := 0
	for _, s := range samples {
		totalBytes += int(s.Size)
	}
	durationSeconds := float64(ct.Duration) / float64(ct.TimeScale)
	if durationSeconds > 0 {
		ct.SampleBitrate = uint32(float64(totalBytes*8) / durationSeconds)
	}

	return &ct, nil
}

// codecString derives an RFC 6381 codec string where the init segment
// carries enough information, and falls back to the sample entry type.
func codecString(init *mp4.InitSegment, sampleEntry string) string {
	stsd := init.Moov.Trak.Mdia.Minf.Stbl.Stsd
	switch sampleEntry {
	case "avc1", "avc3":
		avcX := stsd.AvcX
		if avcX == nil || avcX.AvcC == nil || len(avcX.AvcC.SPSnalus) == 0 {
			return sampleEntry
		}
		sps, err := avc.ParseSPSNALUnit(avcX.AvcC.SPSnalus[0], false)
		if err != nil {
			return sampleEntry
		}
		return avc.CodecString(sampleEntry, sps)
	case "mp4a":
		mp4a := stsd.Mp4a
		if mp4a == nil || mp4a.Esds == nil {
			return sampleEntry
		}
		ascBytes := mp4a.Esds.DecConfigDescriptor.DecSpecificInfo.DecConfig
		asc, err := aac.DecodeAudioSpecificConfig(bytes.NewBuffer(ascBytes))
		if err != nil {
			return sampleEntry
		}
		return fmt.Sprintf("mp4a.40.%d", asc.ObjectType)
	default:
		return sampleEntry
	}
}

// LoadAsset opens a directory, reads all *.mp4 files, creates ContentTrack from each,
// groups them by contentType, and returns a pointer to an Asset.
// Each group is sorted by ascending bitrate so that group indices form a ladder.
func LoadAsset(dirPath string, audioSampleBatch, videoSampleBatch int) (*Asset, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("could not read directory: %w", err)
	}
	tracksByType := make(map[string][]ContentTrack)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) != ".mp4" {
			continue
		}
		filePath := filepath.Join(dirPath, entry.Name())
		fh, err := os.Open(filePath)
		if err != nil {
			return nil, fmt.Errorf("could not open file %s: %w", filePath, err)
		}
		ct, err := InitContentTrack(fh, entry.Name(), audioSampleBatch, videoSampleBatch)
		fh.Close()
		if err != nil {
			return nil, fmt.Errorf("could not create ContentTrack for %s: %w", filePath, err)
		}
		tracksByType[ct.ContentType] = append(tracksByType[ct.ContentType], *ct)
	}
	var groups []TrackGroup
	groupID := uint32(1)
	// Add video group(s) first
	if videoTracks, ok := tracksByType["video"]; ok {
		sort.SliceStable(videoTracks, func(i, j int) bool {
			return videoTracks[i].SampleBitrate < videoTracks[j].SampleBitrate
		})
		for i := 0; i < len(videoTracks); i++ {
			if videoTracks[i].Duration != videoTracks[0].Duration {
				return nil, fmt.Errorf("video tracks have different durations")
			}
		}
		groups = append(groups, TrackGroup{
			AltGroupID: groupID,
			Tracks:     videoTracks,
		})
		groupID++
	}

	// Then audio group(s)
	if audioTracks, ok := tracksByType["audio"]; ok {
		sort.SliceStable(audioTracks, func(i, j int) bool {
			return audioTracks[i].SampleBitrate < audioTracks[j].SampleBitrate
		})
		groups = append(groups, TrackGroup{
			AltGroupID: groupID,
			Tracks:     audioTracks,
		})
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoTracks, dirPath)
	}

	return &Asset{
		Name:   filepath.Base(dirPath),
		Groups: groups,
	}, nil
}

// GenCatalog generates a WARP catalog listing every track of the asset with
// its CMAF bitrate.
func (a *Asset) GenCatalog() *Catalog {
	var tracks []Track
	renderGroup := 1
	for _, group := range a.Groups {
		altGroup := int(group.AltGroupID)
		for _, ct := range group.Tracks {
			track := Track{
				Name:        ct.Name,
				Namespace:   Namespace,
				Packaging:   "cmaf",
				RenderGroup: Ptr(renderGroup),
				AltGroup:    Ptr(altGroup),
				Codec:       ct.Codec,
				Bitrate:     Ptr(ct.CMAFBitrate()),
				Language:    ct.Language,
			}
			switch ct.ContentType {
			case "video":
				track.MimeType = "video/mp4"
				track.Framerate = Ptr(ct.FrameRate())
				if ct.Width != 0 {
					track.Width = Ptr(ct.Width)
				}
				if ct.Height != 0 {
					track.Height = Ptr(ct.Height)
				}
			case "audio":
				track.MimeType = "audio/mp4"
				if ct.SampleRate != 0 {
					track.SampleRate = Ptr(ct.SampleRate)
				}
			}
			tracks = append(tracks, track)
		}
	}
	return &Catalog{
		Version: 1,
		Tracks:  tracks,
	}
}

func calcCmafBitrate(sampleBitrate uint32, frameRate float64, sampleBatch int) int {
	if sampleBatch < 1 {
		sampleBatch = 1
	}
	objectRate := frameRate / float64(sampleBatch)
	cmafChunkOverhead := cmafOverheadBytes + (sampleBatch-1)*8
	return int(float64(sampleBitrate) + 8*float64(cmafChunkOverhead)*objectRate)
}

// Ptr returns a pointer to any value
func Ptr[T any](v T) *T {
	return &v
}
