// Package importer implements the end-to-end import pipeline: scan,
// optionally enrich against MusicBrainz, group tracks into albums, fetch
// cover art, write tags back, and persist everything to storage,
// reporting ordered progress and tolerating per-item failures.
package importer

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/ariejan/apollo/internal/model"
	"github.com/ariejan/apollo/internal/plugin"
	"github.com/ariejan/apollo/internal/scanner"
	"github.com/ariejan/apollo/internal/sources/coverart"
	"github.com/ariejan/apollo/internal/sources/musicbrainz"
	"github.com/ariejan/apollo/internal/storage"
)

// Options configures a single import run
type Options struct {
	Roots []string
	MaxDepth int
	FollowSymlinks bool
	ComputeHashes bool

	Enrich bool
	EnrichThreshold uint8

	GroupIntoAlbums bool
	FetchCoverArt bool
	WriteTags bool
}

// Store is the subset of *storage.DB the importer needs to persist
// scanned/enriched tracks and albums.
type Store interface {
	AddTrack(ctx context.Context, t model.Track) error
	AddAlbum(ctx context.Context, a model.Album) error
}

// MetadataClient is the subset of musicbrainz.CachedClient the enrich step
// needs, narrowed so tests can substitute a fake.
type MetadataClient interface {
	FindBestRecording(ctx context.Context, title, artist string, album *string, durationMs *uint64, minScore uint8) (*musicbrainz.Recording, error)
}

// CoverArtClient is the subset of coverart.Client the fetch-art step needs.
type CoverArtClient interface {
	GetFrontCover(ctx context.Context, releaseMBID string, size coverart.ImageSize) (coverart.CoverImage, error)
}

// TagWriter writes a track's in-memory metadata back to its file. Swapped
// out in tests; production wiring uses a real tag-writing implementation.
type TagWriter func(t model.Track) error

// ItemError is one failed or skipped item recorded in an ImportResult.
type ItemError struct {
	Path string `json:"path"`
	Message string `json:"message"`
}

// ImportResult is the outcome of a complete (or cancelled) import run.
type ImportResult struct {
	Imported int
	Skipped int
	Failed int
	Errors []ItemError
	Cancelled bool
}

// Event is one progress notification emitted during an import's ordered
// event stream.
type Event struct {
	Kind string // "scanning", "looking_up", "creating_albums", "fetching_art", "importing", "complete"

	FilesFound int
	CurrentFile string

	Index int
	Total int

	AlbumCount int

	Imported int
	Skipped int
	Failed int

	Result *ImportResult
}

// ProgressSink receives Events. The orchestrator calls the sink
// synchronously and in event order; a slow sink delays the import, and no
// event is dropped.
type ProgressSink func(Event)

func emit(sink ProgressSink, e Event) {
	if sink == nil {
		return
	}
	sink(e)
}

// Importer runs import pipelines against a fixed set of collaborators.
// A nil MetadataClient/CoverArtClient/TagWriter simply disables the
// corresponding optional step even if requested in Options.
type Importer struct {
	Store Store
	Metadata MetadataClient
	CoverArt CoverArtClient
	WriteTags TagWriter
	// Hooks, when set, fires on_import/post_import around each track's
	// persistence and on_album_import/post_album_import around each
	// album's A nil Hooks disables dispatch entirely.
	Hooks *plugin.HookManager
}

// Cancel is a shared, concurrency-safe cancellation flag polled between
// files and between pipeline steps's cancellation
// contract.
type Cancel struct {
	flag atomic.Bool
}

// Cancel requests cancellation. Safe to call from any goroutine.
func (c *Cancel) Cancel() { c.flag.Store(true) }

// Cancelled reports whether Cancel has been called.
func (c *Cancel) Cancelled() bool { return c.flag.Load() }

// ErrScanCancelled is returned when a cancellation was observed during the
// scan step.
var ErrScanCancelled = scanCancelledError{}

type scanCancelledError struct{}

func (scanCancelledError) Error() string { return "importer: scan cancelled" }

// Import runs the full pipeline described in and returns the
// accumulated result. cancel may be nil, meaning the run cannot be
// cancelled. sink may be nil.
func (im *Importer) Import(ctx context.Context, opts Options, cancel *Cancel, sink ProgressSink) (ImportResult, error) {
	result := ImportResult{}

	scanResult, err := im.scan(ctx, opts, cancel, sink)
	if err != nil {
		if err == ErrScanCancelled {
			result.Cancelled = true
			emit(sink, Event{Kind: "complete", Result: &result})
			return result, nil
		}
		return result, err
	}
	tracks := scanResult.Tracks
	for _, fe := range scanResult.Errors {
		result.Failed++
		result.Errors = append(result.Errors, ItemError{Path: fe.Path, Message: fe.Err.Error()})
	}

	if cancelled(cancel) {
		result.Cancelled = true
		emit(sink, Event{Kind: "complete", Result: &result})
		return result, nil
	}

	var releaseByTrack map[int]string
	if opts.Enrich && im.Metadata != nil {
		tracks, releaseByTrack = im.enrich(ctx, tracks, opts, cancel, sink)
	}

	if cancelled(cancel) {
		result.Cancelled = true
		emit(sink, Event{Kind: "complete", Result: &result})
		return result, nil
	}

	var albums []model.Album
	albumIDByIndex := make(map[int]model.AlbumID)
	if opts.GroupIntoAlbums {
		albums, albumIDByIndex = groupIntoAlbums(tracks)
		emit(sink, Event{Kind: "creating_albums", AlbumCount: len(albums)})
	}

	if cancelled(cancel) {
		result.Cancelled = true
		emit(sink, Event{Kind: "complete", Result: &result})
		return result, nil
	}

	if opts.FetchCoverArt && im.CoverArt != nil {
		im.fetchCoverArt(ctx, albums, releaseByTrack, tracks, albumIDByIndex, sink)
	}

	if cancelled(cancel) {
		result.Cancelled = true
		emit(sink, Event{Kind: "complete", Result: &result})
		return result, nil
	}

	if opts.WriteTags && im.WriteTags != nil {
		for _, t := range tracks {
			if err := im.WriteTags(t); err != nil {
				result.Failed++
				result.Errors = append(result.Errors, ItemError{Path: t.Path, Message: err.Error()})
			}
		}
	}

	for _, a := range albums {
		if im.Hooks != nil {
			kind, err := im.Hooks.FireAlbum(ctx, plugin.HookOnAlbumImport, &a)
			if err != nil {
				return result, err
			}
			if kind == plugin.Skip {
				continue
			}
		}
		if err := im.Store.AddAlbum(ctx, a); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, ItemError{Path: a.Title, Message: err.Error()})
			continue
		}
		if im.Hooks != nil {
			if _, err := im.Hooks.FireAlbum(ctx, plugin.HookPostAlbumImport, &a); err != nil {
				return result, err
			}
		}
	}

	for i, t := range tracks {
		if cancelled(cancel) {
			result.Cancelled = true
			break
		}
		if albumID, ok := albumIDByIndex[i]; ok {
			t.AlbumID = albumID
		}
		if im.Hooks != nil {
			kind, err := im.Hooks.FireTrack(ctx, plugin.HookOnImport, &t)
			if err != nil {
				return result, err
			}
			if kind == plugin.Skip {
				result.Skipped++
				emit(sink, Event{Kind: "importing", Imported: result.Imported, Skipped: result.Skipped, Failed: result.Failed, Total: len(tracks)})
				continue
			}
		}
		if err := im.Store.AddTrack(ctx, t); err != nil {
			if err == storage.ErrDuplicatePath {
				result.Skipped++
			} else {
				result.Failed++
				result.Errors = append(result.Errors, ItemError{Path: t.Path, Message: err.Error()})
			}
		} else {
			result.Imported++
			if im.Hooks != nil {
				if _, err := im.Hooks.FireTrack(ctx, plugin.HookPostImport, &t); err != nil {
					return result, err
				}
			}
		}
		emit(sink, Event{Kind: "importing", Imported: result.Imported, Skipped: result.Skipped, Failed: result.Failed, Total: len(tracks)})
	}

	emit(sink, Event{Kind: "complete", Result: &result})
	return result, nil
}

func cancelled(c *Cancel) bool {
	return c != nil && c.Cancelled()
}

func (im *Importer) scan(ctx context.Context, opts Options, cancel *Cancel, sink ProgressSink) (scanner.Result, error) {
	scanOpts := scanner.Options{
		MaxDepth: opts.MaxDepth,
		FollowSymlinks: opts.FollowSymlinks,
		ComputeHashes: opts.ComputeHashes,
	}
	emit(sink, Event{Kind: "scanning"})
	if cancelled(cancel) {
		return scanner.Result{}, ErrScanCancelled
	}
	// scanner.Scan has no internal cancellation hook; a cancel observed
	// mid-walk is instead caught at the check below once it returns.
	result, err := scanner.Scan(ctx, opts.Roots, scanOpts, func(p scanner.Progress) {
			emit(sink, Event{Kind: "scanning", FilesFound: p.FilesFound, CurrentFile: p.CurrentFile})
		})
	if err != nil {
		return scanner.Result{}, err
	}
	if cancelled(cancel) {
		return result, ErrScanCancelled
	}
	return result, nil
}

// enrich calls the metadata client's best-match lookup for every track that
// has no recording id yet (tracks that already carry one are skipped) and
// replaces title/artist/album/recording id on success
// step 2. It returns the updated tracks and a map from track index to the
// release mbid chosen, for the cover-art step.
func (im *Importer) enrich(ctx context.Context, tracks []model.Track, opts Options, cancel *Cancel, sink ProgressSink) ([]model.Track, map[int]string) {
	releaseByTrack := make(map[int]string)
	total := len(tracks)
	for i, t := range tracks {
		if cancelled(cancel) {
			break
		}
		emit(sink, Event{Kind: "looking_up", Index: i + 1, Total: total})
		if t.RecordingMBID != "" {
			continue
		}
		var albumPtr *string
		if t.Album != "" {
			albumPtr = &t.Album
		}
		var durationPtr *uint64
		if t.DurationMs > 0 {
			d := uint64(t.DurationMs)
			durationPtr = &d
		}
		rec, err := im.Metadata.FindBestRecording(ctx, t.Title, t.Artist, albumPtr, durationPtr, opts.EnrichThreshold)
		if err != nil || rec == nil {
			continue
		}
		t.Title = rec.Title
		t.Artist = rec.ArtistName()
		t.RecordingMBID = rec.ID
		if t.Album == "" && len(rec.Releases) > 0 {
			t.Album = rec.Releases[0].Title
		}
		if len(rec.Releases) > 0 {
			releaseByTrack[i] = rec.Releases[0].ID
		}
		tracks[i] = t
	}
	return tracks, releaseByTrack
}

// groupIntoAlbums buckets tracks by (lower(album_artist or artist),
// lower(album)) step 3, returning one Album per non-empty
// bucket and a map from track index to the album it belongs to.
func groupIntoAlbums(tracks []model.Track) ([]model.Album, map[int]model.AlbumID) {
	type bucketKey struct {
		artist string
		title string
	}
	order := make([]bucketKey, 0)
	buckets := make(map[bucketKey][]int)
	for i, t := range tracks {
		key := bucketKey{artist: strings.ToLower(t.EffectiveAlbumArtist()), title: strings.ToLower(t.Album)}
		if key.title == "" {
			continue
		}
		if _, ok := buckets[key]; !ok {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], i)
	}

	albums := make([]model.Album, 0, len(order))
	albumIDByIndex := make(map[int]model.AlbumID)
	for _, key := range order {
		indices := buckets[key]
		first := tracks[indices[0]]
		album := model.Album{
			ID: model.NewAlbumID(),
			Title: first.Album,
			Artist: first.EffectiveAlbumArtist(),
			TrackCount: len(indices),
		}
		for _, idx := range indices {
			if tracks[idx].HasYear {
				album.Year = tracks[idx].Year
				album.HasYear = true
				break
			}
		}
		for _, idx := range indices {
			albumIDByIndex[idx] = album.ID
		}
		albums = append(albums, album)
	}
	return albums, albumIDByIndex
}

// fetchCoverArt fetches a front cover for each album whose tracks carry a
// release mbid from enrichment step 4. Failures are
// best-effort and never recorded as import errors.
func (im *Importer) fetchCoverArt(ctx context.Context, albums []model.Album, releaseByTrack map[int]string, tracks []model.Track, albumIDByIndex map[int]model.AlbumID, sink ProgressSink) {
	releaseByAlbum := make(map[model.AlbumID]string)
	for idx, release := range releaseByTrack {
		if release == "" {
			continue
		}
		if albumID, ok := albumIDByIndex[idx]; ok {
			if _, have := releaseByAlbum[albumID]; !have {
				releaseByAlbum[albumID] = release
			}
		}
	}
	total := len(releaseByAlbum)
	i := 0
	for _, album := range albums {
		release, ok := releaseByAlbum[album.ID]
		if !ok {
			continue
		}
		i++
		emit(sink, Event{Kind: "fetching_art", Index: i, Total: total})
		_, _ = im.CoverArt.GetFrontCover(ctx, release, coverart.ImageSizeLarge)
	}
}
