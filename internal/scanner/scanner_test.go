package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestIsAudioFile(t *testing.T) {
	cases := map[string]bool{
		"song.mp3": true,
		"song.MP3": true,
		"song.flac": true,
		"song.ogg": true,
		"/path/to/song.m4a": true,
		"document.pdf": false,
		"image.jpg": false,
		"noextension": false,
		"archive.wv": true,
		"musepack.mpc": true,
	}
	for path, want := range cases {
		if got := IsAudioFile(path); got != want {
			t.Errorf("IsAudioFile(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestScan_EmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	result, err := Scan(context.Background(), []string{dir}, Options{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Tracks) != 0 || len(result.Errors) != 0 || result.TotalFiles != 0 {
		t.Fatalf("got %+v", result)
	}
}

func TestScan_SkipsNonAudioFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "cover.jpg"), []byte("not audio"))
	writeFile(t, filepath.Join(dir, "track.mp3"), minimalMP3())

	result, err := Scan(context.Background(), []string{dir}, Options{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalFiles != 1 {
		t.Fatalf("TotalFiles = %d, want 1", result.TotalFiles)
	}
}

func TestScan_RecursesIntoSubdirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "Artist", "Album")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(sub, "01 - Track.mp3"), minimalMP3())

	result, err := Scan(context.Background(), []string{dir}, Options{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalFiles != 1 || len(result.Tracks) != 1 {
		t.Fatalf("got %+v", result)
	}
	track := result.Tracks[0]
	if track.Artist != "Unknown Artist" {
		t.Fatalf("Artist = %q, want fallback", track.Artist)
	}
	if track.Album != "Album" {
		t.Fatalf("Album = %q, want directory name fallback", track.Album)
	}
	if track.Title != "01 - Track" {
		t.Fatalf("Title = %q, want filename fallback", track.Title)
	}
}

func TestScan_MaxDepthLimitsRecursion(t *testing.T) {
	dir := t.TempDir()
	deep := filepath.Join(dir, "a", "b", "c")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "a", "shallow.mp3"), minimalMP3())
	writeFile(t, filepath.Join(deep, "deep.mp3"), minimalMP3())

	result, err := Scan(context.Background(), []string{dir}, Options{MaxDepth: 2}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalFiles != 1 {
		t.Fatalf("TotalFiles = %d, want 1 (deep.mp3 should be excluded by max_depth)", result.TotalFiles)
	}
}

func TestScan_ComputeHashes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "track.mp3"), minimalMP3())

	result, err := Scan(context.Background(), []string{dir}, Options{ComputeHashes: true}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Tracks) != 1 || result.Tracks[0].FileHash == "" {
		t.Fatalf("expected a non-empty file hash, got %+v", result)
	}
}

func TestReadTrack_MissingFileReturnsError(t *testing.T) {
	if _, err := readTrack(filepath.Join(t.TempDir(), "missing.mp3"), false); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

// minimalMP3 returns a tiny byte sequence with no valid ID3 tags; readTrack
// is expected to fall back to filename/directory-derived metadata for it.
func minimalMP3() []byte {
	return []byte{0xFF, 0xFB, 0x90, 0x00}
}
