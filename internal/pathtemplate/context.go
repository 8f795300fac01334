package pathtemplate

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ariejan/apollo/internal/model"
)

// ContextFromTrack builds the TemplateContext recognized variables
// from a library Track.
func ContextFromTrack(t model.Track) TemplateContext {
	ctx := TemplateContext{
		"artist": t.Artist,
		"album_artist": t.EffectiveAlbumArtist(),
		"title": t.Title,
		"album": t.Album,
		"track": fmt.Sprintf("%02d", t.TrackNumber),
		"disc": strconv.Itoa(t.DiscNumber),
	}
	if t.HasYear {
		ctx["year"] = strconv.Itoa(t.Year)
	}
	if len(t.Genres) > 0 {
		ctx["genre"] = t.Genres[0]
	}
	ext := strings.TrimPrefix(filepath.Ext(t.Path), ".")
	ctx["ext"] = strings.ToLower(ext)
	return ctx
}
