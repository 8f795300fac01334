// Package scanner implements the filesystem walk and tag-extraction step:
// discover audio files under one or more roots and read each into a
// model.Track, tolerating per-file failures.
package scanner

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ariejan/apollo/internal/model"
)

// audioExtensions is the closed set of recognized audio file extensions.
var audioExtensions = map[string]bool{
	"mp3": true, "flac": true, "ogg": true, "opus": true, "m4a": true,
	"aac": true, "wav": true, "aiff": true, "aif": true, "wv": true, "mpc": true,
}

// IsAudioFile reports whether path's extension (case-insensitive) is in the
// closed set of recognized audio formats.
func IsAudioFile(path string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	return audioExtensions[strings.ToLower(ext)]
}

// Options configures a directory scan.
type Options struct {
	// MaxDepth limits recursion below each root; 0 means unlimited.
	MaxDepth int
	// FollowSymlinks controls whether symlinked directories are descended
	// into and symlinked files are considered for scanning.
	FollowSymlinks bool
	// ComputeHashes enables SHA-256 hashing of each file's contents.
	ComputeHashes bool
}

// FileError records a single file that could not be read during a scan.
type FileError struct {
	Path string
	Err error
}

// Progress is reported incrementally as a scan proceeds.
type Progress struct {
	FilesFound int
	FilesProcessed int
	FilesFailed int
	CurrentFile string
}

// Result is the outcome of a completed (or cancelled) scan.
type Result struct {
	Tracks []model.Track
	Errors []FileError
	TotalFiles int
}

// Scan walks roots for audio files and reads each into a Track. Individual
// file failures are collected into Result.Errors; Scan only returns a
// non-nil error when ctx is cancelled or a root cannot be walked at all.
func Scan(ctx context.Context, roots []string, opts Options, progress func(Progress)) (Result, error) {
	var allFiles []string
	for _, root := range roots {
		files, err := walkAudioFiles(root, opts.MaxDepth, opts.FollowSymlinks)
		if err != nil {
			return Result{}, err
		}
		allFiles = append(allFiles, files...)
	}
	sort.Strings(allFiles)

	var (
		mu sync.Mutex
		result = Result{TotalFiles: len(allFiles)}
	)
	report := func(delta func(*Progress)) {
		if progress == nil {
			return
		}
		mu.Lock()
		p := Progress{FilesFound: len(allFiles), FilesProcessed: len(result.Tracks), FilesFailed: len(result.Errors)}
		mu.Unlock()
		delta(&p)
		progress(p)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, runtime.NumCPU()))

	for _, path := range allFiles {
		path := path
		g.Go(func() error {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				track, err := readTrack(path, opts.ComputeHashes)

				mu.Lock()
				if err != nil {
					result.Errors = append(result.Errors, FileError{Path: path, Err: err})
				} else {
					result.Tracks = append(result.Tracks, track)
				}
				mu.Unlock()

				report(func(p *Progress) { p.CurrentFile = path })
				return nil
			})
	}

	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, nil
}

// walkAudioFiles recursively collects audio file paths under root, honoring
// maxDepth (0 = unlimited) and whether to follow symlinked directories.
func walkAudioFiles(root string, maxDepth int, followSymlinks bool) ([]string, error) {
	var files []string
	var visit func(dir string, depth int) error
	visit = func(dir string, depth int) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			full := filepath.Join(dir, entry.Name())
			isDir := entry.IsDir()

			if entry.Type()&os.ModeSymlink != 0 {
				if !followSymlinks {
					continue
				}
				info, err := os.Stat(full)
				if err != nil {
					continue
				}
				isDir = info.IsDir()
			}

			if isDir {
				if maxDepth > 0 && depth >= maxDepth {
					continue
				}
				if err := visit(full, depth+1); err != nil {
					return err
				}
				continue
			}

			if IsAudioFile(full) {
				files = append(files, full)
			}
		}
		return nil
	}

	if err := visit(root, 1); err != nil {
		return nil, err
	}
	return files, nil
}
