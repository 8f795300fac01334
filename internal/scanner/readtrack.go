package scanner

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"github.com/ariejan/apollo/internal/model"
)

// readTrack opens path, reads its tags, and optionally hashes its contents,
// producing a model.Track. Falls back to filename/directory-derived values
// when tags are absent, matching CineVault's filesystem provider.
func readTrack(path string, computeHash bool) (model.Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Track{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return model.Track{}, err
	}

	track := model.Track{
		Path: path,
		FormatVariant: model.FormatFromExtension(strings.TrimPrefix(filepath.Ext(path), ".")),
		CreatedAt: info.ModTime(),
		ModifiedAt: info.ModTime(),
	}

	meta, tagErr := tag.ReadFrom(f)
	if tagErr == nil {
		track.Title = meta.Title()
		track.Artist = meta.Artist()
		track.AlbumArtist = meta.AlbumArtist()
		track.Album = meta.Album()
		if meta.Year() != 0 {
			track.Year = meta.Year()
			track.HasYear = true
		}
		if genre := meta.Genre(); genre != "" {
			track.Genres = []string{genre}
		}
		trackNum, trackTotal := meta.Track()
		track.TrackNumber = trackNum
		track.TrackTotal = trackTotal
		discNum, discTotal := meta.Disc()
		track.DiscNumber = discNum
		track.DiscTotal = discTotal
	}

	if track.Artist == "" {
		track.Artist = "Unknown Artist"
	}
	if track.Album == "" {
		dir := filepath.Base(filepath.Dir(path))
		if dir == "." || dir == string(filepath.Separator) {
			dir = "Unknown Album"
		}
		track.Album = dir
	}
	if track.Title == "" {
		base := filepath.Base(path)
		track.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	if computeHash {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return model.Track{}, err
		}
		h := sha256.New()
		if _, err := io.Copy(h, f); err != nil {
			return model.Track{}, err
		}
		track.FileHash = hex.EncodeToString(h.Sum(nil))
	}

	return track, nil
}
