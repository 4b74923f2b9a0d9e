package tooling

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestArg documents a single tool argument for agent consumption.
type ManifestArg struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
	Required    bool   `yaml:"required"`
}

// Manifest is the optional per-tool metadata file (tool.yaml). When present
// it overrides the builtin description shown by `list` and the MCP server.
type Manifest struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Args        []ManifestArg `yaml:"args,omitempty"`
}

// ParseManifest parses and validates a tool.yaml document.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid manifest YAML: %w", err)
	}
	if m.Name == "" {
		return nil, fmt.Errorf("manifest missing required field: name")
	}
	if m.Description == "" {
		return nil, fmt.Errorf("manifest missing required field: description")
	}
	return &m, nil
}

// LoadManifestDir reads every .yaml/.yml file in dir and returns manifests
// keyed by tool name. A missing directory is not an error; an unparseable
// manifest is.
func LoadManifestDir(dir string) (map[string]*Manifest, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*Manifest{}, nil
		}
		return nil, fmt.Errorf("manifest dir: %w", err)
	}

	out := make(map[string]*Manifest)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("manifest %s: %w", entry.Name(), err)
		}
		m, err := ParseManifest(data)
		if err != nil {
			return nil, fmt.Errorf("manifest %s: %w", entry.Name(), err)
		}
		out[m.Name] = m
	}
	return out, nil
}

// Describe returns the manifest description for name when one is loaded,
// otherwise the fallback.
func Describe(manifests map[string]*Manifest, name, fallback string) string {
	if m, ok := manifests[name]; ok && m.Description != "" {
		return m.Description
	}
	return fallback
}
