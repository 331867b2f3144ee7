// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package gridui

import "github.com/charmbracelet/lipgloss"

// Theme holds the chrome colors of the viewer. Node colors come from
// the palette table, not from the theme.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Fault icon colors.
	FaultDown  lipgloss.Color
	FaultDrain lipgloss.Color

	// Status bar log levels.
	WarnText  lipgloss.Color
	ErrorText lipgloss.Color

	// Search input.
	SearchForeground lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal scheme, in ANSI 256-color
// codes.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	FaultDown:  lipgloss.Color("196"), // red
	FaultDrain: lipgloss.Color("220"), // amber

	WarnText:  lipgloss.Color("220"),
	ErrorText: lipgloss.Color("196"),

	SearchForeground: lipgloss.Color("75"),
}
