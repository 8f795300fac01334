package model

import (
	"errors"
	"time"
)

// Format is the closed set of audio container/codec types Apollo recognizes.
type Format string

const (
	FormatMP3 Format = "MP3"
	FormatFLAC Format = "FLAC"
	FormatOGG Format = "OGG"
	FormatOpus Format = "Opus"
	FormatAAC Format = "AAC"
	FormatWAV Format = "WAV"
	FormatAIFF Format = "AIFF"
	FormatUnknown Format = "Unknown"
)

// FormatFromExtension maps a case-insensitive file extension (without the
// leading dot) to a Format. Unrecognized extensions map to FormatUnknown.
func FormatFromExtension(ext string) Format {
	switch lowerASCII(ext) {
	case "mp3":
		return FormatMP3
	case "flac":
		return FormatFLAC
	case "ogg":
		return FormatOGG
	case "opus":
		return FormatOpus
	case "m4a", "aac":
		return FormatAAC
	case "wav":
		return FormatWAV
	case "aiff", "aif":
		return FormatAIFF
	default:
		return FormatUnknown
	}
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

var (
	ErrEmptyTitle = errors.New("model: title must not be empty")
	ErrEmptyArtist = errors.New("model: artist must not be empty")
	ErrNegDuration = errors.New("model: duration must not be negative")
	ErrTrackOverTot = errors.New("model: track_number exceeds track_total")
	ErrDiscOverTot = errors.New("model: disc_number exceeds disc_total")
)

// Track is a library's representation of a single audio file.
type Track struct {
	ID TrackID `json:"id"`

	Path string `json:"path"`

	Title string `json:"title"`
	Artist string `json:"artist"`
	AlbumArtist string `json:"album_artist,omitempty"`
	Album string `json:"album,omitempty"`
	AlbumID AlbumID `json:"album_id"`

	TrackNumber int `json:"track_number,omitempty"`
	TrackTotal int `json:"track_total,omitempty"`
	DiscNumber int `json:"disc_number,omitempty"`
	DiscTotal int `json:"disc_total,omitempty"`

	Year int `json:"year,omitempty"`
	HasYear bool `json:"has_year"`

	Genres []string `json:"genres,omitempty"`

	DurationMs int64 `json:"duration_ms"`

	Bitrate int `json:"bitrate,omitempty"`
	HasBitrate bool `json:"has_bitrate"`
	SampleRate int `json:"sample_rate,omitempty"`
	HasSampleRate bool `json:"has_sample_rate"`
	Channels int `json:"channels,omitempty"`
	HasChannels bool `json:"has_channels"`

	FormatVariant Format `json:"format"`

	RecordingMBID string `json:"recording_mbid,omitempty"`
	FingerprintID string `json:"fingerprint_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`

	FileHash string `json:"file_hash,omitempty"`
}

// Validate checks Track's required-field invariants.
func (t Track) Validate() error {
	if t.Title == "" {
		return ErrEmptyTitle
	}
	if t.Artist == "" {
		return ErrEmptyArtist
	}
	if t.DurationMs < 0 {
		return ErrNegDuration
	}
	if t.TrackTotal > 0 && t.TrackNumber > t.TrackTotal {
		return ErrTrackOverTot
	}
	if t.DiscTotal > 0 && t.DiscNumber > t.DiscTotal {
		return ErrDiscOverTot
	}
	return nil
}

// EffectiveAlbumArtist returns AlbumArtist, falling back to Artist when unset.
func (t Track) EffectiveAlbumArtist() string {
	if t.AlbumArtist != "" {
		return t.AlbumArtist
	}
	return t.Artist
}

// Duration returns the track's duration as a time.Duration.
func (t Track) Duration() time.Duration {
	return time.Duration(t.DurationMs) * time.Millisecond
}
