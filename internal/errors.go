package internal

import "errors"

// Error definitions for asset and catalog loading
var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrNoTracks             = errors.New("no tracks found")
	ErrMissingBitrate       = errors.New("track has no bitrate")
	ErrUnknownGroup         = errors.New("unknown rendition group")
	ErrRenditionIndex       = errors.New("rendition index out of range")
)
