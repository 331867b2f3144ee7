// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package palette

import "fmt"

// Slot is a color request: a non-negative palette index or a
// negative sentinel.
type Slot int

const (
	// Placeholder is the neutral background color. Cells outside the
	// current overlay are reset to it.
	Placeholder Slot = -1

	// Uninitialized marks a cell that has never been painted.
	Uninitialized Slot = -2

	// ForcedFault is reported for cells whose structural state forces
	// a fault icon. It is never stored as a request: the cell keeps
	// its last requested slot so the color returns when the fault
	// clears.
	ForcedFault Slot = -3

	// Spotlight marks the subject nodes of a popup view.
	Spotlight Slot = -4
)

// IsPalette reports whether the slot indexes the cycling palette.
func (slot Slot) IsPalette() bool {
	return slot >= 0
}

// Normalize reduces palette slots modulo size. Sentinels pass through.
func (slot Slot) Normalize(size int) Slot {
	if slot >= 0 && size > 0 {
		return slot % Slot(size)
	}
	return slot
}

func (slot Slot) String() string {
	switch slot {
	case Placeholder:
		return "placeholder"
	case Uninitialized:
		return "uninitialized"
	case ForcedFault:
		return "forced-fault"
	case Spotlight:
		return "spotlight"
	}
	if slot >= 0 {
		return fmt.Sprintf("palette(%d)", int(slot))
	}
	return fmt.Sprintf("slot(%d)", int(slot))
}
