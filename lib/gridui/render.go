// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package gridui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/fleetgrid/lib/grid"
	"github.com/bureau-foundation/fleetgrid/lib/palette"
)

// Cell glyphs.
const (
	glyphNode  = "■"
	glyphDown  = "✗"
	glyphDrain = "!"
	glyphBlank = "·"
)

// gridFrame is a rendered grid plus the screen offset of every drawn
// cell, used to map the cursor back to a location.
type gridFrame struct {
	lines   []string
	columns map[int]int // grid X to screen column
	rows    map[int]int // grid Y to screen row
}

// renderGrid draws the placed cells of views on a width×height grid.
// Each cell is a glyph and a space; cells flagged with gutters add a
// blank column after their column or a blank line after their row.
// cursor is the node index drawn bold and underlined, or -1.
func renderGrid(views []grid.CellView, width, height, cursor int, theme Theme) gridFrame {
	frame := gridFrame{columns: make(map[int]int), rows: make(map[int]int)}
	if width <= 0 || height <= 0 {
		return frame
	}

	cells := make([][]*grid.CellView, height)
	for row := range cells {
		cells[row] = make([]*grid.CellView, width)
	}
	columnGutter := make([]bool, width)
	rowGutter := make([]bool, height)
	for position := range views {
		view := &views[position]
		x, y := view.Position.X, view.Position.Y
		if !view.Position.IsSet() || x >= width || y >= height {
			continue
		}
		cells[y][x] = view
		if view.ColumnGutter {
			columnGutter[x] = true
		}
		if view.RowGutter {
			rowGutter[y] = true
		}
	}

	screenColumn := 0
	for x := 0; x < width; x++ {
		frame.columns[x] = screenColumn
		screenColumn += 2
		if columnGutter[x] {
			screenColumn++
		}
	}

	for y := 0; y < height; y++ {
		frame.rows[y] = len(frame.lines)
		var line strings.Builder
		for x := 0; x < width; x++ {
			view := cells[y][x]
			if view == nil {
				line.WriteString("  ")
			} else {
				line.WriteString(renderCell(*view, view.Index == cursor, theme))
				line.WriteString(" ")
			}
			if columnGutter[x] {
				line.WriteString(" ")
			}
		}
		frame.lines = append(frame.lines, strings.TrimRight(line.String(), " "))
		if rowGutter[y] && y+1 < height {
			frame.lines = append(frame.lines, "")
		}
	}
	return frame
}

// renderCell draws one cell glyph.
func renderCell(view grid.CellView, cursor bool, theme Theme) string {
	style := lipgloss.NewStyle()
	glyph := glyphNode
	switch view.Representation.Kind {
	case palette.KindPalette:
		style = style.Foreground(view.Representation.Color)
	case palette.KindFault:
		if view.Representation.Fault == palette.FaultDown {
			glyph = glyphDown
			style = style.Foreground(theme.FaultDown)
		} else {
			glyph = glyphDrain
			style = style.Foreground(theme.FaultDrain)
		}
	default:
		glyph = glyphBlank
		style = style.Foreground(theme.FaintText)
	}
	if view.Highlighted {
		style = style.Reverse(true)
	}
	if cursor {
		style = style.Bold(true).Underline(true)
	}
	return style.Render(glyph)
}

// renderList draws cells one per line with their tooltip, for popups
// whose cells are stacked in a single column.
func renderList(views []grid.CellView, cursor int, theme Theme) []string {
	lines := make([]string, 0, len(views))
	label := lipgloss.NewStyle().Foreground(theme.NormalText)
	for _, view := range views {
		lines = append(lines, renderCell(view, view.Index == cursor, theme)+" "+label.Render(view.Tooltip))
	}
	return lines
}

// boxLines frames lines in a rounded border with a title in the top
// edge, clipping each line to maxWidth columns.
func boxLines(title string, lines []string, maxWidth int, theme Theme) []string {
	if maxWidth < 8 {
		maxWidth = 8
	}
	innerWidth := ansi.StringWidth(title) + 2
	for _, line := range lines {
		if lineWidth := ansi.StringWidth(line); lineWidth > innerWidth {
			innerWidth = lineWidth
		}
	}
	if innerWidth > maxWidth-4 {
		innerWidth = maxWidth - 4
	}

	border := lipgloss.NewStyle().Foreground(theme.BorderColor)
	heading := lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true)

	titleText := ansi.Truncate(title, innerWidth, "…")
	top := border.Render("╭─") + heading.Render(titleText) +
		border.Render(strings.Repeat("─", innerWidth-ansi.StringWidth(titleText)+1)+"╮")

	boxed := []string{top}
	for _, line := range lines {
		clipped := ansi.Truncate(line, innerWidth, "…")
		padding := strings.Repeat(" ", innerWidth-ansi.StringWidth(clipped))
		boxed = append(boxed, border.Render("│ ")+clipped+padding+border.Render(" │"))
	}
	boxed = append(boxed, border.Render("╰"+strings.Repeat("─", innerWidth+2)+"╯"))
	return boxed
}

// spliceOverlay writes overlay over view starting at (anchorX,
// anchorY), keeping the ANSI styling of the view on both sides.
func spliceOverlay(view []string, overlay []string, anchorX, anchorY int) []string {
	if len(overlay) == 0 {
		return view
	}
	result := append([]string(nil), view...)
	for len(result) < anchorY+len(overlay) {
		result = append(result, "")
	}
	overlayWidth := ansi.StringWidth(overlay[0])
	for offset, overlayLine := range overlay {
		row := anchorY + offset
		if row < 0 {
			continue
		}
		line := result[row]
		lineWidth := ansi.StringWidth(line)

		var spliced strings.Builder
		if anchorX > 0 {
			prefix := ansi.Truncate(line, anchorX, "")
			spliced.WriteString(prefix)
			if prefixWidth := ansi.StringWidth(prefix); prefixWidth < anchorX {
				spliced.WriteString(strings.Repeat(" ", anchorX-prefixWidth))
			}
		}
		spliced.WriteString("\x1b[0m")
		spliced.WriteString(overlayLine)
		spliced.WriteString("\x1b[0m")
		if suffixStart := anchorX + overlayWidth; suffixStart < lineWidth {
			spliced.WriteString(ansi.TruncateLeft(line, suffixStart, ""))
		}
		result[row] = spliced.String()
	}
	return result
}
