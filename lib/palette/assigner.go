// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package palette

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/fleetgrid/lib/nodestate"
)

// Kind is the tag of a Representation.
type Kind int

const (
	// KindNone is the zero Representation: nothing drawn yet.
	KindNone Kind = iota
	// KindPalette draws the cell in Representation.Color.
	KindPalette
	// KindFault draws a fault icon selected by Representation.Fault.
	KindFault
)

// Fault selects the icon for a KindFault representation.
type Fault int

const (
	FaultDown Fault = iota + 1
	FaultDrain
)

func (fault Fault) String() string {
	switch fault {
	case FaultDown:
		return "down"
	case FaultDrain:
		return "drain"
	default:
		return "none"
	}
}

// Representation is how a cell is drawn: either Palette(Color) or
// FaultIcon(Fault). The renderer owns the drawing objects; the grid
// only records the tag.
type Representation struct {
	Kind  Kind
	Color lipgloss.Color
	Fault Fault
}

// PaletteColor builds a Palette representation.
func PaletteColor(color lipgloss.Color) Representation {
	return Representation{Kind: KindPalette, Color: color}
}

// FaultIcon builds a fault representation.
func FaultIcon(fault Fault) Representation {
	return Representation{Kind: KindFault, Fault: fault}
}

func (representation Representation) String() string {
	switch representation.Kind {
	case KindPalette:
		return fmt.Sprintf("palette(%s)", string(representation.Color))
	case KindFault:
		return fmt.Sprintf("fault(%s)", representation.Fault)
	default:
		return "none"
	}
}

// Resolution is the outcome of Assigner.Resolve.
type Resolution struct {
	// Slot is the normalized request. Palette requests are reduced
	// modulo the table size.
	Slot Slot

	// Representation is what the cell should display.
	Representation Representation

	// Changed is true when Representation differs from the prior
	// one: a different kind, a different fault icon, or a different
	// palette color.
	Changed bool
}

// Assigner resolves color requests against structural state. It is
// immutable and safe to share between views.
type Assigner struct {
	table Table
}

// NewAssigner returns an assigner over table. An empty table is a
// configuration error.
func NewAssigner(table Table) (*Assigner, error) {
	if table.Size() == 0 {
		return nil, ErrEmptyPalette
	}
	return &Assigner{table: table}, nil
}

// Table returns the color table the assigner resolves against.
func (assigner *Assigner) Table() Table {
	return assigner.table
}

// Resolve computes the representation for a request on a node in
// state. Precedence, highest first: base state Down gives
// FaultIcon(Down); the drain flag or base state Error gives
// FaultIcon(Drain); otherwise the requested color.
//
// Placeholder requests are exempt from the fault rules: a placeholder
// cell is background, not a rendering of its node, so it is always
// drawn in the placeholder color.
func (assigner *Assigner) Resolve(requested Slot, state nodestate.State, prior Representation) Resolution {
	slot := requested.Normalize(assigner.table.Size())
	representation := assigner.representationFor(slot, state)
	return Resolution{
		Slot:           slot,
		Representation: representation,
		Changed:        differs(prior, representation),
	}
}

// IsFault reports whether state forces a fault icon.
func IsFault(state nodestate.State) bool {
	_, faulted := faultFor(state)
	return faulted
}

func (assigner *Assigner) representationFor(slot Slot, state nodestate.State) Representation {
	if slot == Placeholder {
		return PaletteColor(assigner.table.Color(slot))
	}
	if fault, faulted := faultFor(state); faulted {
		return FaultIcon(fault)
	}
	return PaletteColor(assigner.table.Color(slot))
}

func faultFor(state nodestate.State) (Fault, bool) {
	base := state.Base()
	switch {
	case base == nodestate.Down:
		return FaultDown, true
	case state.Has(nodestate.Drain) || base == nodestate.Error:
		return FaultDrain, true
	default:
		return 0, false
	}
}

func differs(prior, next Representation) bool {
	if prior.Kind != next.Kind {
		return true
	}
	switch next.Kind {
	case KindPalette:
		return prior.Color != next.Color
	case KindFault:
		return prior.Fault != next.Fault
	default:
		return false
	}
}
