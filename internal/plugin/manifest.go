package plugin

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest describes one registered plugin, loaded from a plugins.yaml
// file alongside the library config.
type Manifest struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
	Hooks []Hook `yaml:"hooks"`
	Enabled bool `yaml:"enabled"`
	Args []string `yaml:"args,omitempty"`
}

// ManifestFile is the root of a plugins.yaml document.
type ManifestFile struct {
	Plugins []Manifest `yaml:"plugins"`
}

// LoadManifests reads and validates a plugins.yaml file. Every hook name
// in every entry must be one of the closed Hook set; an unknown hook
// produces an error rather than being silently ignored.
func LoadManifests(path string) ([]Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plugin manifest: %w", err)
	}
	var file ManifestFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse plugin manifest: %w", err)
	}
	for _, m := range file.Plugins {
		for _, h := range m.Hooks {
			if !validHooks[h] {
				return nil, fmt.Errorf("plugin %q: unknown hook %q", m.Name, h)
			}
		}
	}
	return file.Plugins, nil
}

// EnabledManifests filters manifests down to those with Enabled set.
func EnabledManifests(manifests []Manifest) []Manifest {
	enabled := make([]Manifest, 0, len(manifests))
	for _, m := range manifests {
		if m.Enabled {
			enabled = append(enabled, m)
		}
	}
	return enabled
}
