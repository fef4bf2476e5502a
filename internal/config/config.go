package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"schema-expander/internal/expand"
	"schema-expander/internal/merge"
	"schema-expander/internal/pointer"
	"schema-expander/internal/registry"
)

// Config is the complete tool configuration.
type Config struct {
	// Source is the root holding field/, model/, form/ and leaf directories.
	Source string `yaml:"source"`
	// Output is where expanded documents are written.
	Output string `yaml:"output"`
	// CycleTolerance bounds ancestor re-entry per top-level document.
	CycleTolerance int `yaml:"cycle_tolerance"`
	// LeafClasses are merged as raw text instead of being expanded.
	LeafClasses []string `yaml:"leaf_classes"`
	// Patterns maps a class to a doublestar glob relative to Source.
	Patterns map[string]string `yaml:"patterns"`
	// Annotations maps a property name to its default merge tokens.
	Annotations map[string][]string `yaml:"annotations"`
	Watch       WatchConfig         `yaml:"watch"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	// Debounce is how long to wait for more changes before re-running.
	Debounce time.Duration `yaml:"debounce"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	annotations := make(map[string][]string)
	for key, tokens := range merge.DefaultAnnotations() {
		annotations[key] = tokens.Names()
	}

	return &Config{
		Source:         "wiki",
		Output:         "build",
		CycleTolerance: expand.DefaultCycleTolerance,
		LeafClasses:    []string{string(pointer.ClassTemplate)},
		Patterns:       map[string]string{},
		Annotations:    annotations,
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("source is required")
	}

	if c.Output == "" {
		return fmt.Errorf("output is required")
	}

	if c.CycleTolerance < 1 {
		return fmt.Errorf("cycle_tolerance must be at least 1, got %d", c.CycleTolerance)
	}

	for _, leaf := range c.LeafClasses {
		if leaf == "" {
			return fmt.Errorf("leaf_classes: empty class name")
		}

		if pointer.Class(leaf).IsDocument() {
			return fmt.Errorf("leaf_classes: %q is a document class", leaf)
		}
	}

	for _, class := range slices.Sorted(maps.Keys(c.Patterns)) {
		if !pointer.Class(class).IsDocument() && !slices.Contains(c.LeafClasses, class) {
			return fmt.Errorf("patterns: unknown class %q", class)
		}

		if !doublestar.ValidatePattern(c.Patterns[class]) {
			return fmt.Errorf("patterns.%s: invalid glob %q", class, c.Patterns[class])
		}
	}

	if _, err := merge.DefaultsFromConfig(c.Annotations); err != nil {
		return fmt.Errorf("annotations: %w", err)
	}

	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file. Only the keys present
// in the file are set. Relative source and output paths are resolved
// against the file's directory.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	base := filepath.Dir(path)
	config.Source = resolve(base, config.Source)
	config.Output = resolve(base, config.Output)

	return config, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}

	return filepath.Join(base, p)
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one. Non-zero values in other take
// precedence; pattern and annotation entries are merged key by key.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Source != "" {
		c.Source = other.Source
	}

	if other.Output != "" {
		c.Output = other.Output
	}

	if other.CycleTolerance != 0 {
		c.CycleTolerance = other.CycleTolerance
	}

	if len(other.LeafClasses) > 0 {
		c.LeafClasses = slices.Clone(other.LeafClasses)
	}

	if len(other.Patterns) > 0 {
		if c.Patterns == nil {
			c.Patterns = make(map[string]string, len(other.Patterns))
		}

		maps.Copy(c.Patterns, other.Patterns)
	}

	if len(other.Annotations) > 0 {
		if c.Annotations == nil {
			c.Annotations = make(map[string][]string, len(other.Annotations))
		}

		for key, tokens := range other.Annotations {
			c.Annotations[key] = slices.Clone(tokens)
		}
	}

	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}
}

// Defaults builds the annotation table.
func (c *Config) Defaults() (merge.Defaults, error) {
	return merge.DefaultsFromConfig(c.Annotations)
}

// Leaves returns the leaf classes as pointer classes.
func (c *Config) Leaves() []pointer.Class {
	out := make([]pointer.Class, 0, len(c.LeafClasses))
	for _, l := range c.LeafClasses {
		out = append(out, pointer.Class(l))
	}

	return out
}

// RegistryConfig returns the discovery settings for registry.Load.
func (c *Config) RegistryConfig() registry.LoadConfig {
	patterns := make(map[pointer.Class]string, len(c.Patterns))
	for class, p := range c.Patterns {
		patterns[pointer.Class(class)] = p
	}

	return registry.LoadConfig{
		Source:      c.Source,
		Patterns:    patterns,
		LeafClasses: c.Leaves(),
	}
}
