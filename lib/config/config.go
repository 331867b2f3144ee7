// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/fleetgrid/lib/palette"
	"github.com/bureau-foundation/fleetgrid/lib/topology"
)

// EnvironmentVariable names the config file for [Load].
const EnvironmentVariable = "FLEETGRID_CONFIG"

// Config is the viewer configuration.
type Config struct {
	// Topology describes how node names map to grid positions.
	Topology TopologyConfig `yaml:"topology"`

	// Grid tunes the linear layout.
	Grid GridConfig `yaml:"grid"`

	// Palette replaces the built-in color table.
	Palette PaletteConfig `yaml:"palette"`

	// Refresh configures the node list poll.
	Refresh RefreshConfig `yaml:"refresh"`

	// Blink configures highlight blinking.
	Blink BlinkConfig `yaml:"blink"`

	// Source names the node snapshot.
	Source SourceConfig `yaml:"source"`
}

// TopologyConfig selects the fleet topology.
type TopologyConfig struct {
	// Kind is "linear", "torus3d" or "4d".
	// Default: linear
	Kind string `yaml:"kind"`

	// Dims are the torus axis sizes X, Y, Z. Ignored for linear.
	Dims []int `yaml:"dims"`
}

// GridConfig tunes the linear layout.
type GridConfig struct {
	// Columns fixes the row width. Zero chooses from the node count.
	Columns int `yaml:"columns"`

	// VerticalSpacing draws a gutter after every this many rows.
	// Default: 10
	VerticalSpacing int `yaml:"vertical_spacing"`

	// HorizontalSpacing draws a gutter after every this many columns.
	// Default: 10
	HorizontalSpacing int `yaml:"horizontal_spacing"`
}

// PaletteConfig overrides the color table. Empty fields keep the
// built-in values.
type PaletteConfig struct {
	Colors      []string `yaml:"colors"`
	Placeholder string   `yaml:"placeholder"`
	Unset       string   `yaml:"unset"`
	Spotlight   string   `yaml:"spotlight"`
}

// RefreshConfig configures the node list poll.
type RefreshConfig struct {
	// Interval between fetches.
	// Default: 5s
	Interval string `yaml:"interval"`
}

// BlinkConfig configures highlight blinking.
type BlinkConfig struct {
	// Interval between highlight toggles.
	// Default: 500ms
	Interval string `yaml:"interval"`
}

// SourceConfig names the node snapshot.
type SourceConfig struct {
	// Path of the snapshot file. ${VAR} patterns are expanded.
	Path string `yaml:"path"`

	// Watch refreshes as soon as the snapshot file is rewritten,
	// in addition to the periodic poll.
	// Default: true
	Watch bool `yaml:"watch"`
}

// Default returns the configuration used when no file is given and as
// the base every file is merged into.
func Default() *Config {
	return &Config{
		Topology: TopologyConfig{Kind: "linear"},
		Grid: GridConfig{
			VerticalSpacing:   topology.DefaultVerticalSpacing,
			HorizontalSpacing: topology.DefaultHorizontalSpacing,
		},
		Refresh: RefreshConfig{Interval: "5s"},
		Blink:   BlinkConfig{Interval: "500ms"},
		Source:  SourceConfig{Watch: true},
	}
}

// Load loads the file named by FLEETGRID_CONFIG. It fails when the
// variable is unset; callers that accept running on defaults check
// the variable first.
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your fleetgrid.yaml, or use --config", EnvironmentVariable)
	}
	return LoadFile(path)
}

// LoadFile loads configuration from path, merged over [Default].
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.expandVariables()
	return cfg, nil
}

func (c *Config) expandVariables() {
	c.Source.Path = expandVars(c.Source.Path, map[string]string{
		"HOME": os.Getenv("HOME"),
	})
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		name := parts[1]
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return parts[2]
	})
}

// Validate checks the configuration for errors. An unsupported
// topology kind is valid here: the viewer starts and shows no grid.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.Descriptor(); err != nil {
		errs = append(errs, fmt.Errorf("topology: %w", err))
	}
	if c.Grid.Columns < 0 {
		errs = append(errs, fmt.Errorf("grid.columns must not be negative"))
	}
	if c.Grid.VerticalSpacing < 1 {
		errs = append(errs, fmt.Errorf("grid.vertical_spacing must be at least 1"))
	}
	if c.Grid.HorizontalSpacing < 1 {
		errs = append(errs, fmt.Errorf("grid.horizontal_spacing must be at least 1"))
	}
	if _, err := c.PaletteTable(); err != nil {
		errs = append(errs, fmt.Errorf("palette: %w", err))
	}
	if _, err := c.RefreshInterval(); err != nil {
		errs = append(errs, fmt.Errorf("refresh.interval: %w", err))
	}
	if _, err := c.BlinkInterval(); err != nil {
		errs = append(errs, fmt.Errorf("blink.interval: %w", err))
	}

	return errors.Join(errs...)
}

// Descriptor builds the topology descriptor. Unsupported4D is returned
// without error.
func (c *Config) Descriptor() (topology.Descriptor, error) {
	kind, err := topology.ParseKind(c.Topology.Kind)
	if err != nil {
		return topology.Descriptor{}, err
	}
	descriptor := topology.Descriptor{Kind: kind}
	if kind != topology.Torus3D {
		return descriptor, nil
	}
	if len(c.Topology.Dims) != 3 {
		return topology.Descriptor{}, fmt.Errorf("torus3d needs 3 dims, got %d", len(c.Topology.Dims))
	}
	copy(descriptor.Dims[:], c.Topology.Dims)
	if err := descriptor.Validate(); err != nil {
		return topology.Descriptor{}, err
	}
	return descriptor, nil
}

// LayoutOptions returns the linear layout tuning.
func (c *Config) LayoutOptions() topology.Options {
	return topology.Options{
		Columns:           c.Grid.Columns,
		VerticalSpacing:   c.Grid.VerticalSpacing,
		HorizontalSpacing: c.Grid.HorizontalSpacing,
	}
}

// PaletteTable builds the color table, starting from the built-in
// colors when none are configured.
func (c *Config) PaletteTable() (palette.Table, error) {
	colors := c.Palette.Colors
	if len(colors) == 0 {
		colors = palette.DefaultColors
	}
	return palette.NewTable(colors, c.Palette.Placeholder, c.Palette.Unset, c.Palette.Spotlight)
}

// RefreshInterval parses the refresh interval.
func (c *Config) RefreshInterval() (time.Duration, error) {
	return positiveDuration(c.Refresh.Interval)
}

// BlinkInterval parses the blink interval.
func (c *Config) BlinkInterval() (time.Duration, error) {
	return positiveDuration(c.Blink.Interval)
}

func positiveDuration(text string) (time.Duration, error) {
	duration, err := time.ParseDuration(text)
	if err != nil {
		return 0, err
	}
	if duration <= 0 {
		return 0, fmt.Errorf("%s is not positive", text)
	}
	return duration, nil
}
