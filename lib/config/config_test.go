// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/fleetgrid/lib/topology"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fleetgrid.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	descriptor, _ := cfg.Descriptor()
	if descriptor.Kind != topology.Linear {
		t.Errorf("expected linear topology, got %s", descriptor.Kind)
	}
	if interval, _ := cfg.RefreshInterval(); interval != 5*time.Second {
		t.Errorf("expected refresh 5s, got %v", interval)
	}
	if interval, _ := cfg.BlinkInterval(); interval != 500*time.Millisecond {
		t.Errorf("expected blink 500ms, got %v", interval)
	}
	if !cfg.Source.Watch {
		t.Error("expected watch=true by default")
	}
	options := cfg.LayoutOptions()
	if options.VerticalSpacing != 10 || options.HorizontalSpacing != 10 {
		t.Errorf("expected spacing 10/10, got %d/%d", options.VerticalSpacing, options.HorizontalSpacing)
	}
}

func TestLoad_RequiresEnvironmentVariable(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when FLEETGRID_CONFIG not set, got nil")
	}
	if !strings.HasPrefix(err.Error(), "FLEETGRID_CONFIG environment variable not set") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_WithEnvironmentVariable(t *testing.T) {
	path := writeConfig(t, `
refresh:
  interval: 2s
`)
	t.Setenv(EnvironmentVariable, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Refresh.Interval != "2s" {
		t.Errorf("expected refresh 2s, got %s", cfg.Refresh.Interval)
	}
	if cfg.Blink.Interval != "500ms" {
		t.Errorf("expected default blink to survive, got %s", cfg.Blink.Interval)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
topology:
  kind: torus3d
  dims: [8, 4, 4]
grid:
  columns: 32
  horizontal_spacing: 8
palette:
  colors: ["#112233", "#445566"]
  placeholder: "#000000"
source:
  path: /var/lib/fleet/nodes.yaml.zst
  watch: false
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	descriptor, err := cfg.Descriptor()
	if err != nil {
		t.Fatalf("Descriptor: %v", err)
	}
	if descriptor != topology.TorusDescriptor(8, 4, 4) {
		t.Errorf("expected torus3d(8x4x4), got %s", descriptor)
	}
	options := cfg.LayoutOptions()
	if options.Columns != 32 || options.HorizontalSpacing != 8 || options.VerticalSpacing != 10 {
		t.Errorf("unexpected layout options %+v", options)
	}
	table, err := cfg.PaletteTable()
	if err != nil {
		t.Fatalf("PaletteTable: %v", err)
	}
	if table.Size() != 2 {
		t.Errorf("expected 2 palette colors, got %d", table.Size())
	}
	if cfg.Source.Watch {
		t.Error("expected watch=false")
	}
}

func TestLoadFile_ExpandsSourcePath(t *testing.T) {
	t.Setenv("FLEET_STATE", "/srv/fleet")
	path := writeConfig(t, `
source:
  path: ${FLEET_STATE}/nodes.json
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Source.Path != "/srv/fleet/nodes.json" {
		t.Errorf("expected expanded path, got %s", cfg.Source.Path)
	}
}

func TestExpandVars(t *testing.T) {
	t.Setenv("FLEETGRID_TEST_SET", "value")
	cases := map[string]string{
		"${FLEETGRID_TEST_SET}/x":             "value/x",
		"${FLEETGRID_TEST_UNSET:-fallback}/x": "fallback/x",
		"${FLEETGRID_TEST_UNSET}/x":           "/x",
		"plain":                               "plain",
	}
	for input, want := range cases {
		if got := expandVars(input, nil); got != want {
			t.Errorf("expandVars(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadFile_Malformed(t *testing.T) {
	path := writeConfig(t, "grid: [not, a, map")
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"unknown topology", func(c *Config) { c.Topology.Kind = "hypercube" }, "topology"},
		{"torus without dims", func(c *Config) { c.Topology.Kind = "torus3d" }, "topology"},
		{"torus axis too large", func(c *Config) {
			c.Topology.Kind = "torus3d"
			c.Topology.Dims = []int{40, 4, 4}
		}, "topology"},
		{"negative columns", func(c *Config) { c.Grid.Columns = -1 }, "grid.columns"},
		{"zero spacing", func(c *Config) { c.Grid.VerticalSpacing = 0 }, "grid.vertical_spacing"},
		{"bad color", func(c *Config) { c.Palette.Colors = []string{"red"} }, "palette"},
		{"bad refresh", func(c *Config) { c.Refresh.Interval = "soon" }, "refresh.interval"},
		{"negative blink", func(c *Config) { c.Blink.Interval = "-1s" }, "blink.interval"},
	}
	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			cfg := Default()
			testCase.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), testCase.field) {
				t.Errorf("error %q does not mention %s", err, testCase.field)
			}
		})
	}
}

func TestValidate_AcceptsUnsupported4D(t *testing.T) {
	cfg := Default()
	cfg.Topology.Kind = "4d"
	if err := cfg.Validate(); err != nil {
		t.Errorf("4d topology rejected at load time: %v", err)
	}
}
