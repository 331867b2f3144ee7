// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package grid

import (
	"log/slog"

	"github.com/bureau-foundation/fleetgrid/lib/nodestate"
	"github.com/bureau-foundation/fleetgrid/lib/palette"
)

// ApplyOptions tunes a Highlighter.Apply pass.
type ApplyOptions struct {
	// OnlyIfUnused skips cells already painted during this overlay
	// cycle, so a later, lower-priority layer does not clobber an
	// earlier one. It also disables the reset of cells outside every
	// selection.
	OnlyIfUnused bool

	// StateOverride, when non-nil, is resolved instead of each cell's
	// own state. Popups use an Idle override to paint background
	// cells without fault icons.
	StateOverride *nodestate.State
}

// Highlighter paints selections onto a collection. Every color change
// goes through the palette assigner, so fault icons always win.
type Highlighter struct {
	assigner *palette.Assigner
	logger   *slog.Logger
}

// NewHighlighter returns a highlighter resolving through assigner.
func NewHighlighter(assigner *palette.Assigner, logger *slog.Logger) *Highlighter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Highlighter{assigner: assigner, logger: logger}
}

// Apply paints each selection's slot onto the cells in its range, in
// order, and marks them used. With OnlyIfUnused false, overlapping
// selections resolve last-applied-wins and every cell outside all
// selections is reset to the placeholder color with its highlight
// cleared. With OnlyIfUnused true, cells already used are left alone,
// which makes repeating a pass idempotent.
func (highlighter *Highlighter) Apply(collection *Collection, selections []Selection, options ApplyOptions) Outcome {
	var outcome Outcome
	selected := make(map[*Cell]bool)

	for _, selection := range selections {
		for _, cell := range collection.cells {
			if !selection.Contains(cell.index) {
				continue
			}
			selected[cell] = true
			if options.OnlyIfUnused && cell.used {
				continue
			}
			if highlighter.paint(cell, selection.Slot, options.StateOverride) {
				outcome.Changed = true
			}
			outcome.Touched++
		}
	}

	if options.OnlyIfUnused {
		return outcome
	}
	for _, cell := range collection.cells {
		if selected[cell] {
			continue
		}
		resolution := highlighter.assigner.Resolve(palette.Placeholder, cell.state, cell.representation)
		cell.apply(resolution)
		if resolution.Changed || cell.highlighted {
			outcome.Changed = true
		}
		cell.highlighted = false
	}
	return outcome
}

// Paint colors the cells in r with slot. It is Apply for a single
// range without the outside reset, the common "overlay one job"
// operation.
func (highlighter *Highlighter) Paint(collection *Collection, r Range, slot palette.Slot, options ApplyOptions) Outcome {
	var outcome Outcome
	for _, cell := range collection.cells {
		if !r.Contains(cell.index) {
			continue
		}
		if options.OnlyIfUnused && cell.used {
			continue
		}
		if highlighter.paint(cell, slot, options.StateOverride) {
			outcome.Changed = true
		}
		outcome.Touched++
	}
	return outcome
}

// SetHighlight sets highlighted on every cell inside any of ranges and
// clears it everywhere else. Colors are not touched. Several disjoint
// ranges support multi-row selection.
func (highlighter *Highlighter) SetHighlight(collection *Collection, ranges []Range) Outcome {
	var outcome Outcome
	for _, cell := range collection.cells {
		want := anyContains(ranges, cell.index)
		if cell.highlighted != want {
			cell.highlighted = want
			outcome.Changed = true
			outcome.Touched++
		}
	}
	return outcome
}

func (highlighter *Highlighter) paint(cell *Cell, slot palette.Slot, override *nodestate.State) bool {
	state := cell.state
	if override != nil {
		state = *override
	}
	resolution := highlighter.assigner.Resolve(slot, state, cell.representation)
	cell.apply(resolution)
	cell.used = true
	return resolution.Changed
}
