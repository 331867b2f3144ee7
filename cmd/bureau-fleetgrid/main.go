// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// bureau-fleetgrid draws a cluster's node fleet as a live grid in the
// terminal. Nodes are read from a snapshot file (YAML, JSON, JSONC or
// CBOR, optionally zstd or lz4 compressed) that an exporter rewrites
// periodically; the viewer polls it and, by default, also watches it
// with inotify so rewrites show up immediately.
//
// With --once a single frame is printed to stdout and the binary
// exits, which works without a terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/fleetgrid/lib/config"
	"github.com/bureau-foundation/fleetgrid/lib/gridui"
	"github.com/bureau-foundation/fleetgrid/lib/nodesource"
	"github.com/bureau-foundation/fleetgrid/lib/palette"
	"github.com/bureau-foundation/fleetgrid/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type flags struct {
	configPath   string
	snapshotPath string
	columns      int
	refresh      string
	colorProfile string
	logOutput    string
	once         bool
	width        int
}

func run() error {
	var options flags
	flagSet := pflag.NewFlagSet("bureau-fleetgrid", pflag.ContinueOnError)
	flagSet.StringVar(&options.configPath, "config", "", "path to fleetgrid.yaml (default: $"+config.EnvironmentVariable+", then built-in defaults)")
	flagSet.StringVar(&options.snapshotPath, "snapshot", "", "node snapshot file (overrides source.path)")
	flagSet.IntVar(&options.columns, "columns", 0, "fixed grid width for linear fleets (overrides grid.columns)")
	flagSet.StringVar(&options.refresh, "refresh", "", "poll interval, e.g. 2s (overrides refresh.interval)")
	flagSet.StringVar(&options.colorProfile, "color-profile", "auto", "color output: auto, ascii, ansi, ansi256 or truecolor")
	flagSet.StringVar(&options.logOutput, "log-output", "", "write JSON log records to this file (in addition to the status line)")
	flagSet.BoolVar(&options.once, "once", false, "print one frame to stdout and exit")
	flagSet.IntVar(&options.width, "width", 0, "frame width for --once (default: terminal width, else unlimited)")
	flagSet.BoolP("help", "h", false, "show help")

	// Handled before parsing to match the other binaries.
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Fprint(os.Stdout, "bureau-fleetgrid")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	cfg, err := loadConfig(options, flagSet)
	if err != nil {
		return err
	}
	if cfg.Source.Path == "" {
		return fmt.Errorf("no snapshot file: set source.path in the config or pass --snapshot")
	}

	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	if err := applyColorProfile(options.colorProfile, interactive); err != nil {
		return err
	}

	if options.once {
		return renderOnce(cfg, options)
	}
	if !interactive {
		return fmt.Errorf("stdout is not a terminal; use --once for a single frame")
	}
	return runViewer(cfg, options.logOutput)
}

// loadConfig reads the config file and applies flag overrides. With
// no --config and no FLEETGRID_CONFIG the built-in defaults are used.
func loadConfig(options flags, flagSet *pflag.FlagSet) (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case options.configPath != "":
		cfg, err = config.LoadFile(options.configPath)
	case os.Getenv(config.EnvironmentVariable) != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if options.snapshotPath != "" {
		cfg.Source.Path = options.snapshotPath
	}
	if flagSet.Changed("columns") {
		cfg.Grid.Columns = options.columns
	}
	if options.refresh != "" {
		cfg.Refresh.Interval = options.refresh
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyColorProfile(name string, interactive bool) error {
	switch strings.ToLower(name) {
	case "auto", "":
		if !interactive {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
	case "ascii", "none":
		lipgloss.SetColorProfile(termenv.Ascii)
	case "ansi":
		lipgloss.SetColorProfile(termenv.ANSI)
	case "ansi256", "256":
		lipgloss.SetColorProfile(termenv.ANSI256)
	case "truecolor":
		lipgloss.SetColorProfile(termenv.TrueColor)
	default:
		return fmt.Errorf("unknown color profile %q (want auto, ascii, ansi, ansi256 or truecolor)", name)
	}
	return nil
}

// modelOptions turns a validated config into viewer options.
func modelOptions(cfg *config.Config, logger *slog.Logger) (gridui.Options, error) {
	descriptor, err := cfg.Descriptor()
	if err != nil {
		return gridui.Options{}, err
	}
	table, err := cfg.PaletteTable()
	if err != nil {
		return gridui.Options{}, err
	}
	assigner, err := palette.NewAssigner(table)
	if err != nil {
		return gridui.Options{}, err
	}
	refreshInterval, err := cfg.RefreshInterval()
	if err != nil {
		return gridui.Options{}, err
	}
	blinkInterval, err := cfg.BlinkInterval()
	if err != nil {
		return gridui.Options{}, err
	}
	return gridui.Options{
		Descriptor:      descriptor,
		Layout:          cfg.LayoutOptions(),
		Assigner:        assigner,
		RefreshInterval: refreshInterval,
		BlinkInterval:   blinkInterval,
		Logger:          logger,
	}, nil
}

func renderOnce(cfg *config.Config, options flags) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	viewerOptions, err := modelOptions(cfg, logger)
	if err != nil {
		return err
	}
	width := options.width
	if width == 0 {
		if terminalWidth, _, sizeErr := term.GetSize(int(os.Stdout.Fd())); sizeErr == nil {
			width = terminalWidth
		}
	}
	frame, err := gridui.RenderOnce(nodesource.NewFileSource(cfg.Source.Path, logger), viewerOptions, width)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", cfg.Source.Path, err)
	}
	_, err = io.WriteString(os.Stdout, frame)
	return err
}

// runViewer runs the interactive grid. Background log records go to
// the status line (warnings and above) and, with --log-output, to a
// JSON file; writing to stderr would corrupt the alt-screen display.
func runViewer(cfg *config.Config, logOutput string) error {
	var fileHandler slog.Handler
	if logOutput != "" {
		handler, closeFile, err := openFileLogHandler(logOutput)
		if err != nil {
			return fmt.Errorf("cannot open log file %s: %w", logOutput, err)
		}
		defer closeFile()
		fileHandler = handler
	}
	tuiHandler := gridui.NewLogHandler(slog.LevelWarn, fileHandler)
	logger := slog.New(tuiHandler)

	options, err := modelOptions(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	options.Context = ctx

	source := nodesource.NewFileSource(cfg.Source.Path, logger)
	if cfg.Source.Watch {
		watcher, err := nodesource.Watch(cfg.Source.Path, logger)
		if err != nil {
			// Polling still works; the watch only shortens latency.
			logger.Warn("snapshot watch unavailable, polling only", "path", cfg.Source.Path, "error", err)
		} else {
			defer watcher.Close()
			options.Watch = watcher.Events()
		}
	}

	started := time.Now()
	program := tea.NewProgram(gridui.NewModel(source, options), tea.WithAltScreen())
	tuiHandler.SetProgram(program)

	_, err = program.Run()
	logger.Debug("viewer exited", "uptime", time.Since(started).Round(time.Second))
	return err
}

// openFileLogHandler creates a JSON handler writing to path, which is
// created or truncated.
func openFileLogHandler(path string) (slog.Handler, func(), error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	handler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})
	return handler, func() { file.Close() }, nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `bureau-fleetgrid: live terminal grid of a cluster's nodes.

Reads the node snapshot named by source.path (or --snapshot) and
redraws the grid every refresh interval and whenever the file is
rewritten. Configuration comes from --config, else $%s, else
built-in defaults.

Usage:
  bureau-fleetgrid [flags]

Examples:
  # Watch a snapshot with the default linear layout
  bureau-fleetgrid --snapshot /var/run/fleet/nodes.yaml.zst

  # Print one frame without a terminal
  bureau-fleetgrid --snapshot nodes.cbor --once --color-profile ascii

Keys:
  h/j/k/l   move          Space  select       /  search
  Enter     spotlight     b      blocks       r  refresh
  B         blink         Esc    close popup  q  quit

Flags:
`, config.EnvironmentVariable)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
