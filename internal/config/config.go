// Package config loads and validates Apollo's TOML configuration: a
// nested record of options with defaults, tolerant on read (unknown
// keys ignored), strict on write (Set rejects unknown dotted paths).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config is Apollo's full configuration surface's on-disk
// format: sections [library], [import], [paths], [musicbrainz],
// [acoustid], [web], [plugins].
type Config struct {
	Library LibraryConfig `toml:"library"`
	Import ImportConfig `toml:"import"`
	Paths PathsConfig `toml:"paths"`
	MusicBrainz MusicBrainzConfig `toml:"musicbrainz"`
	AcoustID AcoustIDConfig `toml:"acoustid"`
	Web WebConfig `toml:"web"`
	Plugins PluginsConfig `toml:"plugins"`
}

// LibraryConfig names the roots Apollo scans and the database file.
type LibraryConfig struct {
	Roots []string `toml:"roots"`
	Database string `toml:"database"`
}

// ImportConfig controls the optional steps of internal/importer's
// pipeline.
type ImportConfig struct {
	ComputeHashes bool `toml:"compute_hashes"`
	FollowSymlinks bool `toml:"follow_symlinks"`
	MaxDepth int `toml:"max_depth"`
	Enrich bool `toml:"enrich"`
	EnrichThreshold uint8 `toml:"enrich_threshold"`
	GroupIntoAlbums bool `toml:"group_into_albums"`
	FetchCoverArt bool `toml:"fetch_cover_art"`
	WriteTags bool `toml:"write_tags"`
	PathTemplate string `toml:"path_template"`
}

// PathsConfig names OS locations Apollo writes to; tilde-prefixed values
// are expanded against the user's home directory.
type PathsConfig struct {
	StateDir string `toml:"state_dir"`
	CacheDir string `toml:"cache_dir"`
	LogDir string `toml:"log_dir"`
}

// MusicBrainzConfig configures the metadata client.
type MusicBrainzConfig struct {
	AppName string `toml:"app_name"`
	AppVersion string `toml:"app_version"`
	ContactEmail string `toml:"contact_email"`
	CacheMaxEntries int `toml:"cache_max_entries"`
	CacheTTLSecs int `toml:"cache_ttl_secs"`
}

// AcoustIDConfig configures the fingerprint client.
type AcoustIDConfig struct {
	APIKey string `toml:"api_key"`
	ScoreThreshold float64 `toml:"score_threshold"`
}

// WebConfig controls the HTTP/JSON facade.
type WebConfig struct {
	Listen string `toml:"listen"`
	DefaultLimit int `toml:"default_limit"`
	MaxLimit int `toml:"max_limit"`
}

// PluginsConfig points at the plugin manifest file (internal/plugin).
type PluginsConfig struct {
	Enabled bool `toml:"enabled"`
	ManifestPath string `toml:"manifest_path"`
}

// ParseError is returned when the TOML document itself cannot be parsed.
type ParseError struct {
	Path string
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("config: parse %s: %v", e.Path, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// UnknownKeyError is returned by Set when the dotted path does not name a
// known configuration field.
type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string { return fmt.Sprintf("config: unknown key %q", e.Key) }

// Load reads cfgPath (tilde-expanded), parses it as TOML, applies
// defaults, and validates the result. Unknown keys in the file are
// silently ignored (tolerant read), matching go-toml/v2's default
// unmarshal behavior.
func Load(cfgPath string) (*Config, error) {
	path := ExpandPath(cfgPath)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save serializes cfg as TOML to cfgPath (tilde-expanded), creating parent
// directories as needed.
func Save(cfgPath string, cfg *Config) error {
	path := ExpandPath(cfgPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Default returns a Config populated with applyDefaults, suitable for
// `config init`.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Library.Database == "" {
		cfg.Library.Database = "~/.local/share/apollo/library.db"
	}
	if cfg.Import.MaxDepth == 0 {
		cfg.Import.MaxDepth = 0 // unlimited, explicit for readability
	}
	if cfg.Import.EnrichThreshold == 0 {
		cfg.Import.EnrichThreshold = 70
	}
	if cfg.Import.PathTemplate == "" {
		cfg.Import.PathTemplate = "$album_artist/$album ($year)/$track - $title.$ext"
	}
	if cfg.Paths.StateDir == "" {
		cfg.Paths.StateDir = "~/.local/share/apollo"
	}
	if cfg.Paths.CacheDir == "" {
		cfg.Paths.CacheDir = "~/.cache/apollo"
	}
	if cfg.Paths.LogDir == "" {
		cfg.Paths.LogDir = "~/.local/share/apollo/logs"
	}
	if cfg.MusicBrainz.AppName == "" {
		cfg.MusicBrainz.AppName = "apollo"
	}
	if cfg.MusicBrainz.AppVersion == "" {
		cfg.MusicBrainz.AppVersion = "0.1.0"
	}
	if cfg.MusicBrainz.CacheMaxEntries == 0 {
		cfg.MusicBrainz.CacheMaxEntries = 1000
	}
	if cfg.MusicBrainz.CacheTTLSecs == 0 {
		cfg.MusicBrainz.CacheTTLSecs = 86400
	}
	if cfg.AcoustID.ScoreThreshold == 0 {
		cfg.AcoustID.ScoreThreshold = 0.5
	}
	if cfg.Web.Listen == "" {
		cfg.Web.Listen = "127.0.0.1:8080"
	}
	if cfg.Web.DefaultLimit == 0 {
		cfg.Web.DefaultLimit = 50
	}
	if cfg.Web.MaxLimit == 0 {
		cfg.Web.MaxLimit = 500
	}
	if cfg.Plugins.ManifestPath == "" {
		cfg.Plugins.ManifestPath = "~/.config/apollo/plugins.yaml"
	}
}

// Validate checks cross-field invariants that TOML unmarshaling cannot
// express.
func Validate(cfg *Config) error {
	if cfg.Web.DefaultLimit > cfg.Web.MaxLimit {
		return fmt.Errorf("config: web.default_limit (%d) exceeds web.max_limit (%d)", cfg.Web.DefaultLimit, cfg.Web.MaxLimit)
	}
	if cfg.AcoustID.ScoreThreshold < 0 || cfg.AcoustID.ScoreThreshold > 1 {
		return fmt.Errorf("config: acoustid.score_threshold must be between 0 and 1, got %v", cfg.AcoustID.ScoreThreshold)
	}
	return nil
}

// ExpandPath expands a leading "~" in path to the user's home directory.
// Paths without a leading "~" are returned unchanged.
func ExpandPath(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	rest := strings.TrimPrefix(path, "~")
	return filepath.Join(home, rest)
}

// DefaultPath returns the OS-specific default config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve default config dir: %w", err)
	}
	return filepath.Join(dir, "apollo", "config.toml"), nil
}

// Get reads the dotted path from cfg and returns its string representation.
// Unknown paths return an empty string (tolerant read.
func Get(cfg *Config, dotted string) string {
	v, ok := lookup(cfg, strings.Split(dotted, "."))
	if !ok {
		return ""
	}
	return formatValue(v)
}

// Set assigns value to the dotted path in cfg, parsing value according to
// the target field's type. Unknown paths return an *UnknownKeyError
// (strict write.
func Set(cfg *Config, dotted, value string) error {
	parts := strings.Split(dotted, ".")
	return assign(cfg, parts, value)
}
