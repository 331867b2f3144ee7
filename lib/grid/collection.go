// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package grid

import (
	"sort"

	"github.com/bureau-foundation/fleetgrid/lib/topology"
)

// Collection is the ordered set of cells for one view plus the grid
// dimensions they are laid out in. For node grids, cell indexes are
// unique and ascending. A composite collection (see
// Factory.GroupByComposite) may hold several cells for one index, one
// per group the node belongs to.
type Collection struct {
	cells      []*Cell
	descriptor topology.Descriptor
	layout     *topology.Layout
	width      int
	height     int
}

// newCollection returns an empty collection for descriptor. Derived
// collections have no layout until LayOut is called.
func newCollection(descriptor topology.Descriptor) *Collection {
	return &Collection{descriptor: descriptor}
}

// Len is the number of cells.
func (collection *Collection) Len() int { return len(collection.cells) }

// Width is the number of grid columns.
func (collection *Collection) Width() int { return collection.width }

// Height is the number of grid rows.
func (collection *Collection) Height() int { return collection.height }

// Descriptor is the topology the collection is laid out for.
func (collection *Collection) Descriptor() topology.Descriptor { return collection.descriptor }

// Cells returns a read-only snapshot of every cell in collection
// order. Renderers draw from this; mutating the returned slice has no
// effect on the collection.
func (collection *Collection) Cells() []CellView {
	views := make([]CellView, len(collection.cells))
	for position, cell := range collection.cells {
		views[position] = cell.view()
	}
	return views
}

// At returns the cell at ordinal position, in collection order.
func (collection *Collection) At(position int) *Cell {
	return collection.cells[position]
}

// Lookup finds the first cell for a node index by binary search.
// Every collection keeps its cells in ascending index order (Build,
// Resync, CopyAll and insertSorted all preserve it); composite
// collections may hold several cells per index, and Lookup returns
// the first of them.
func (collection *Collection) Lookup(index int) (*Cell, bool) {
	cells := collection.cells
	position := sort.Search(len(cells), func(candidate int) bool {
		return cells[candidate].index >= index
	})
	if position < len(cells) && cells[position].index == index {
		return cells[position], true
	}
	return nil, false
}

// Indexes lists the node indexes in collection order.
func (collection *Collection) Indexes() []int {
	indexes := make([]int, len(collection.cells))
	for position, cell := range collection.cells {
		indexes[position] = cell.index
	}
	return indexes
}

// ToggleHighlight flips the highlight flag of every cell inside any
// of ranges. This is the primitive a Blinker's owner calls on each
// blink tick.
func (collection *Collection) ToggleHighlight(ranges []Range) int {
	toggled := 0
	for _, cell := range collection.cells {
		if anyContains(ranges, cell.index) {
			cell.highlighted = !cell.highlighted
			toggled++
		}
	}
	return toggled
}

// LayOut places every cell of a derived collection in its own
// coordinate space. Torus grids place cells by name, exactly as the
// main grid does; linear grids pack the collection's cells row-major
// in collection order, so a popup holding a handful of nodes stays
// compact. Cells whose names cannot be placed keep an unset position
// and are returned as placement errors.
func (collection *Collection) LayOut(options topology.Options) ([]*PlacementError, error) {
	layout, err := topology.NewLayout(collection.descriptor, len(collection.cells), options)
	if err != nil {
		return nil, err
	}
	var failures []*PlacementError
	for ordinal, cell := range collection.cells {
		placement, err := layout.Place(ordinal, cell.name)
		if err != nil {
			cell.unplace()
			failures = append(failures, &PlacementError{Index: cell.index, Name: cell.name, Err: err})
			continue
		}
		cell.place(placement)
	}
	collection.layout = layout
	collection.width = layout.Width()
	collection.height = layout.Height()
	return failures, nil
}

// insertSorted adds cell keeping ascending index order, after any
// cells with the same index.
func (collection *Collection) insertSorted(cell *Cell) {
	cells := collection.cells
	position := sort.Search(len(cells), func(candidate int) bool {
		return cells[candidate].index > cell.index
	})
	cells = append(cells, nil)
	copy(cells[position+1:], cells[position:])
	cells[position] = cell
	collection.cells = cells
	cell.owner = collection
}

// Release detaches every cell from the collection. Called when the
// owning view closes.
func (collection *Collection) Release() {
	for _, cell := range collection.cells {
		cell.owner = nil
	}
	collection.cells = nil
}
