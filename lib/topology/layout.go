// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package topology

import "fmt"

// Default gutter periods: every 10th row and column gets a wider gap.
const (
	DefaultVerticalSpacing   = 10
	DefaultHorizontalSpacing = 10
)

// Position is a cell's coordinate in its grid. Cells that have not
// been placed hold [Unset].
type Position struct {
	X, Y int
}

// Unset is the zero-information position of a cell that has not been
// placed (or whose placement failed).
var Unset = Position{X: -1, Y: -1}

// IsSet reports whether the position refers to a real grid slot.
func (position Position) IsSet() bool {
	return position.X >= 0 && position.Y >= 0
}

func (position Position) String() string {
	if !position.IsSet() {
		return "unset"
	}
	return fmt.Sprintf("(%d,%d)", position.X, position.Y)
}

// Placement is the result of placing one node: its position plus
// cosmetic spacing hints. A gutter hint asks the renderer to leave a
// wider gap below (RowGutter) or to the right of (ColumnGutter) the
// cell; it never changes logical placement.
type Placement struct {
	Position     Position
	RowGutter    bool
	ColumnGutter bool
}

// Options tunes linear layouts. Zero values select the defaults.
type Options struct {
	// Columns fixes the linear row width. Zero chooses adaptively
	// from the node count: 1 under 50 nodes, 10 under 500, else 20.
	Columns int

	// VerticalSpacing is the row gutter period.
	VerticalSpacing int

	// HorizontalSpacing is the column gutter period.
	HorizontalSpacing int
}

// AdaptiveColumns returns the linear row width for nodeCount nodes.
func AdaptiveColumns(nodeCount int) int {
	switch {
	case nodeCount < 50:
		return 1
	case nodeCount < 500:
		return 10
	default:
		return 20
	}
}

// Layout places nodes for one grid. A Layout is created once per grid
// and resized as the node count changes; its column count is chosen
// the first time and then kept, so a linear grid does not reflow when
// a few nodes come and go.
type Layout struct {
	descriptor        Descriptor
	columns           int
	rows              int
	verticalSpacing   int
	horizontalSpacing int
}

// NewLayout prepares a layout for nodeCount nodes. Returns
// ErrBadTopology for Unsupported4D.
func NewLayout(descriptor Descriptor, nodeCount int, options Options) (*Layout, error) {
	if err := descriptor.Validate(); err != nil {
		return nil, err
	}
	layout := &Layout{
		descriptor:        descriptor,
		columns:           options.Columns,
		verticalSpacing:   options.VerticalSpacing,
		horizontalSpacing: options.HorizontalSpacing,
	}
	if layout.verticalSpacing <= 0 {
		layout.verticalSpacing = DefaultVerticalSpacing
	}
	if layout.horizontalSpacing <= 0 {
		layout.horizontalSpacing = DefaultHorizontalSpacing
	}
	layout.Resize(nodeCount)
	return layout, nil
}

// Resize recomputes the grid dimensions for a new node count. The
// linear column count is only chosen if it has not been chosen yet.
func (layout *Layout) Resize(nodeCount int) {
	switch layout.descriptor.Kind {
	case Torus3D:
		dims := layout.descriptor.Dims
		layout.columns = dims[X] + dims[Z]
		layout.rows = (dims[Z] * dims[Y]) + dims[Y]
	default:
		if layout.columns <= 0 {
			layout.columns = AdaptiveColumns(nodeCount)
		}
		layout.rows = nodeCount/layout.columns + 1
	}
}

// Descriptor returns the topology the layout was built for.
func (layout *Layout) Descriptor() Descriptor {
	return layout.descriptor
}

// Width is the number of grid columns.
func (layout *Layout) Width() int {
	return layout.columns
}

// Height is the number of grid rows.
func (layout *Layout) Height() int {
	return layout.rows
}

// Place maps a node to its grid position. Linear placement uses the
// node's ordinal in the index-sorted node list, so with at most the
// sized-for node count every position lies inside Width×Height no
// matter how sparse the indexes are. Torus placement uses the name
// alone. Errors wrap ErrInvalidNodeName or ErrBadTopology.
func (layout *Layout) Place(ordinal int, name string) (Placement, error) {
	switch layout.descriptor.Kind {
	case Linear:
		if ordinal < 0 {
			return Placement{Position: Unset}, fmt.Errorf("negative node ordinal %d", ordinal)
		}
		x := ordinal % layout.columns
		y := ordinal / layout.columns
		return Placement{
			Position:     Position{X: x, Y: y},
			RowGutter:    (y+1)%layout.verticalSpacing == 0,
			ColumnGutter: (x+1)%layout.horizontalSpacing == 0 && x+1 < layout.columns,
		}, nil
	case Torus3D:
		coordinate, err := DecodeCoordinate(name, layout.descriptor.Dims)
		if err != nil {
			return Placement{Position: Unset}, err
		}
		position := Project(coordinate, layout.descriptor.Dims)
		return Placement{
			Position:  position,
			RowGutter: position.X == 0,
		}, nil
	default:
		return Placement{Position: Unset}, fmt.Errorf("%w: %s", ErrBadTopology, layout.descriptor.Kind)
	}
}
