// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package palette

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/charmbracelet/lipgloss"
)

// ErrEmptyPalette is returned when a table has no palette colors.
// Every palette request is reduced modulo the table size, so an empty
// table cannot serve any request.
var ErrEmptyPalette = errors.New("palette has no colors")

// Table is the immutable color table: the cycling palette plus the
// fixed colors used by the sentinels. Load it once at startup and
// share it by value.
type Table struct {
	colors      []lipgloss.Color
	placeholder lipgloss.Color
	unset       lipgloss.Color
	spotlight   lipgloss.Color
}

// DefaultColors is the built-in 20-entry palette. Adjacent entries
// are chosen to contrast so neighboring jobs stay distinguishable.
var DefaultColors = []string{
	"#0000FF", "#00FF00", "#00FFFF", "#FFFF00",
	"#FF0000", "#4D4DC6", "#F09A09", "#BDFA19",
	"#715627", "#6A8CA2", "#4C7127", "#25B9B9",
	"#A020F0", "#8293ED", "#FFA500", "#FFC0CB",
	"#8B6914", "#18A24E", "#F827FC", "#B8A40C",
}

// Fixed sentinel colors.
const (
	DefaultPlaceholderColor = "#919191"
	DefaultUnsetColor       = "#FFFFFF"
	DefaultSpotlightColor   = "#FFFFFF"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// NewTable builds a table from hex color strings ("#RRGGBB"). Empty
// sentinel colors fall back to the defaults.
func NewTable(colors []string, placeholder, unset, spotlight string) (Table, error) {
	if len(colors) == 0 {
		return Table{}, ErrEmptyPalette
	}
	table := Table{colors: make([]lipgloss.Color, len(colors))}
	for position, color := range colors {
		if !hexColorPattern.MatchString(color) {
			return Table{}, fmt.Errorf("palette entry %d: %q is not a #RRGGBB color", position, color)
		}
		table.colors[position] = lipgloss.Color(color)
	}

	resolveFixed := func(name, value, fallback string) (lipgloss.Color, error) {
		if value == "" {
			return lipgloss.Color(fallback), nil
		}
		if !hexColorPattern.MatchString(value) {
			return "", fmt.Errorf("%s color %q is not a #RRGGBB color", name, value)
		}
		return lipgloss.Color(value), nil
	}
	var err error
	if table.placeholder, err = resolveFixed("placeholder", placeholder, DefaultPlaceholderColor); err != nil {
		return Table{}, err
	}
	if table.unset, err = resolveFixed("unset", unset, DefaultUnsetColor); err != nil {
		return Table{}, err
	}
	if table.spotlight, err = resolveFixed("spotlight", spotlight, DefaultSpotlightColor); err != nil {
		return Table{}, err
	}
	return table, nil
}

// DefaultTable returns the built-in table.
func DefaultTable() Table {
	table, err := NewTable(DefaultColors, "", "", "")
	if err != nil {
		panic("palette: default table is invalid: " + err.Error())
	}
	return table
}

// Size is the number of cycling palette colors.
func (table Table) Size() int {
	return len(table.colors)
}

// Color returns the display color for a slot. Palette slots wrap;
// ForcedFault has no color of its own and returns the placeholder.
func (table Table) Color(slot Slot) lipgloss.Color {
	switch {
	case slot >= 0:
		return table.colors[int(slot)%len(table.colors)]
	case slot == Uninitialized:
		return table.unset
	case slot == Spotlight:
		return table.spotlight
	default:
		return table.placeholder
	}
}
