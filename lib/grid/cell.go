// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package grid

import (
	"fmt"

	"github.com/bureau-foundation/fleetgrid/lib/nodestate"
	"github.com/bureau-foundation/fleetgrid/lib/palette"
	"github.com/bureau-foundation/fleetgrid/lib/topology"
)

// Cell is one visual unit of a grid, bound to one node index.
//
// The requested slot and the displayed representation are kept
// separately: while a structural fault forces an icon, the cell still
// remembers the last color it was asked for, and shows it again as
// soon as the fault clears.
type Cell struct {
	index int
	name  string

	slot           palette.Slot
	representation palette.Representation
	state          nodestate.State

	used        bool
	highlighted bool

	position     topology.Position
	rowGutter    bool
	columnGutter bool

	owner *Collection
}

// Index is the node index the cell represents.
func (cell *Cell) Index() int { return cell.index }

// Name is the node name (or composite label) shown for the cell.
func (cell *Cell) Name() string { return cell.name }

// ColorSlot is the cell's effective slot: ForcedFault while a fault
// icon is displayed, otherwise the last requested slot.
func (cell *Cell) ColorSlot() palette.Slot {
	if cell.representation.Kind == palette.KindFault {
		return palette.ForcedFault
	}
	return cell.slot
}

// RequestedSlot is the last color requested for the cell, retained
// across faults.
func (cell *Cell) RequestedSlot() palette.Slot { return cell.slot }

// Representation is what the renderer should draw.
func (cell *Cell) Representation() palette.Representation { return cell.representation }

// State is the last known structural state of the node.
func (cell *Cell) State() nodestate.State { return cell.state }

// Used reports whether the cell has been painted during the current
// overlay pass.
func (cell *Cell) Used() bool { return cell.used }

// Highlighted reports the selection highlight flag.
func (cell *Cell) Highlighted() bool { return cell.highlighted }

// Position is the cell's coordinate, or topology.Unset.
func (cell *Cell) Position() topology.Position { return cell.position }

// Placed reports whether the cell has a position.
func (cell *Cell) Placed() bool { return cell.position.IsSet() }

// Owner returns the collection holding the cell, or nil once the cell
// has been removed.
func (cell *Cell) Owner() *Collection { return cell.owner }

// Tooltip is the hover text for the cell: name and state.
func (cell *Cell) Tooltip() string {
	return fmt.Sprintf("%s (%s)", cell.name, cell.state)
}

// apply stores a resolution on the cell.
func (cell *Cell) apply(resolution palette.Resolution) {
	cell.slot = resolution.Slot
	cell.representation = resolution.Representation
}

// place stores a placement on the cell.
func (cell *Cell) place(placement topology.Placement) {
	cell.position = placement.Position
	cell.rowGutter = placement.RowGutter
	cell.columnGutter = placement.ColumnGutter
}

func (cell *Cell) unplace() {
	cell.place(topology.Placement{Position: topology.Unset})
}

// clone returns a detached value copy. The copy has no owner.
func (cell *Cell) clone() *Cell {
	copied := *cell
	copied.owner = nil
	return &copied
}

// CellView is the read-only snapshot of a cell handed to renderers.
type CellView struct {
	Index          int
	Name           string
	Position       topology.Position
	Representation palette.Representation
	Highlighted    bool
	RowGutter      bool
	ColumnGutter   bool
	Tooltip        string
}

func (cell *Cell) view() CellView {
	return CellView{
		Index:          cell.index,
		Name:           cell.name,
		Position:       cell.position,
		Representation: cell.representation,
		Highlighted:    cell.highlighted,
		RowGutter:      cell.rowGutter,
		ColumnGutter:   cell.columnGutter,
		Tooltip:        cell.Tooltip(),
	}
}
