// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package grid

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bureau-foundation/fleetgrid/lib/nodestate"
	"github.com/bureau-foundation/fleetgrid/lib/palette"
	"github.com/bureau-foundation/fleetgrid/lib/topology"
)

// cancelCheckInterval is how many nodes Resync stages between checks
// of its context.
const cancelCheckInterval = 64

// Report summarizes a Build, Resync or LayOut.
type Report struct {
	// Placed counts cells that received a position.
	Placed int

	// Unplaced lists nodes whose placement failed. Their cells exist
	// with an unset position.
	Unplaced []*PlacementError

	// Added and Removed list node indexes that entered or left the
	// collection.
	Added   []int
	Removed []int

	// Moved counts surviving cells whose position changed.
	Moved int
}

// Changed reports whether the renderer needs to redraw the layout.
func (report *Report) Changed() bool {
	return report.Moved > 0 || len(report.Added) > 0 || len(report.Removed) > 0 || len(report.Unplaced) > 0
}

// Err joins the per-cell placement failures, or returns nil.
func (report *Report) Err() error {
	if len(report.Unplaced) == 0 {
		return nil
	}
	errs := make([]error, len(report.Unplaced))
	for position, failure := range report.Unplaced {
		errs[position] = failure
	}
	return errors.Join(errs...)
}

// Outcome summarizes a color or flag pass over a collection.
type Outcome struct {
	// Touched counts cells the pass modified.
	Touched int

	// Changed is true when any cell's representation or highlight
	// changed, meaning one redraw of the surface is needed.
	Changed bool
}

// Synchronizer builds and maintains the main grid for one view. It
// holds the run's topology and the palette assigner; it holds no
// collection itself, so one synchronizer can serve several views.
type Synchronizer struct {
	descriptor topology.Descriptor
	options    topology.Options
	assigner   *palette.Assigner
	logger     *slog.Logger
}

// NewSynchronizer returns a synchronizer. The descriptor is not
// validated here: an unsupported topology is reported by Build so the
// caller can suppress the grid instead of failing startup.
func NewSynchronizer(descriptor topology.Descriptor, options topology.Options, assigner *palette.Assigner, logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Synchronizer{
		descriptor: descriptor,
		options:    options,
		assigner:   assigner,
		logger:     logger,
	}
}

// Descriptor returns the synchronizer's topology.
func (synchronizer *Synchronizer) Descriptor() topology.Descriptor {
	return synchronizer.descriptor
}

// Build creates a collection holding one cell per node, ascending by
// index, every cell uninitialized in color. Per-node placement
// failures leave that cell unplaced and are listed in the report;
// the only error is topology.ErrBadTopology for topologies that
// cannot be laid out.
func (synchronizer *Synchronizer) Build(nodes []nodestate.Node) (*Collection, *Report, error) {
	layout, err := topology.NewLayout(synchronizer.descriptor, len(nodes), synchronizer.options)
	if err != nil {
		synchronizer.logger.Warn("grid build skipped", "topology", synchronizer.descriptor.String(), "error", err)
		return nil, nil, err
	}

	sorted := append([]nodestate.Node(nil), nodes...)
	nodestate.SortByIndex(sorted)

	collection := newCollection(synchronizer.descriptor)
	collection.layout = layout
	collection.width = layout.Width()
	collection.height = layout.Height()
	collection.cells = make([]*Cell, 0, len(sorted))

	report := &Report{}
	previous := -1
	for _, node := range sorted {
		if node.Index == previous {
			synchronizer.logger.Warn("duplicate node index in node list", "index", node.Index, "name", node.Name)
			continue
		}
		previous = node.Index

		cell := synchronizer.newCell(node, collection)
		synchronizer.placeCell(layout, len(collection.cells), cell, report)
		collection.cells = append(collection.cells, cell)
		report.Added = append(report.Added, node.Index)
	}
	synchronizer.logReport("grid built", collection, report)
	return collection, report, nil
}

// stagedCell is one entry of the cell list Resync assembles before
// committing.
type stagedCell struct {
	cell      *Cell
	name      string
	placement topology.Placement
	failure   *PlacementError
	fresh     bool
}

// Resync brings collection in line with a refreshed node list. Cells
// whose index is still present keep their color slot, used and
// highlighted flags; only their name and position are updated. Cells
// whose index vanished are removed, and new indexes get fresh
// uninitialized cells.
//
// Matching scans the collection from the last matched position and
// wraps to the start once, which is O(1) per node while the order is
// stable and O(n) per node when it is not.
//
// The new cell list is staged and swapped in only after every node
// has been processed. If ctx is cancelled first (a newer refresh
// superseded this one), Resync returns ctx.Err() and the collection
// is untouched.
func (synchronizer *Synchronizer) Resync(ctx context.Context, collection *Collection, nodes []nodestate.Node) (*Report, error) {
	if err := synchronizer.descriptor.Validate(); err != nil {
		synchronizer.logger.Warn("grid resync skipped", "topology", synchronizer.descriptor.String(), "error", err)
		return nil, err
	}

	sorted := append([]nodestate.Node(nil), nodes...)
	nodestate.SortByIndex(sorted)

	layout := topology.Layout{}
	if collection.layout != nil {
		layout = *collection.layout
		layout.Resize(len(sorted))
	} else {
		fresh, err := topology.NewLayout(synchronizer.descriptor, len(sorted), synchronizer.options)
		if err != nil {
			return nil, err
		}
		layout = *fresh
	}

	report := &Report{}
	staged := make([]stagedCell, 0, len(sorted))
	matched := make(map[*Cell]bool, len(collection.cells))
	cursor := 0
	previous := -1

	for position, node := range sorted {
		if position%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				synchronizer.logger.Debug("grid resync abandoned", "staged", position, "error", err)
				return nil, err
			}
		}
		if node.Index == previous {
			synchronizer.logger.Warn("duplicate node index in node list", "index", node.Index, "name", node.Name)
			continue
		}
		previous = node.Index

		entry := stagedCell{name: node.Name}
		entry.cell, cursor = scanForIndex(collection.cells, cursor, node.Index)
		if entry.cell == nil || matched[entry.cell] {
			entry.cell = synchronizer.newCell(node, nil)
			entry.fresh = true
		} else {
			matched[entry.cell] = true
		}

		placement, err := layout.Place(len(staged), node.Name)
		if err != nil {
			entry.failure = &PlacementError{Index: node.Index, Name: node.Name, Err: err}
			placement = topology.Placement{Position: topology.Unset}
		}
		entry.placement = placement
		staged = append(staged, entry)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Commit.
	cells := make([]*Cell, len(staged))
	for position, entry := range staged {
		cell := entry.cell
		if entry.fresh {
			report.Added = append(report.Added, cell.index)
		} else if cell.position != entry.placement.Position {
			report.Moved++
		}
		cell.name = entry.name
		cell.place(entry.placement)
		cell.owner = collection
		if entry.failure != nil {
			report.Unplaced = append(report.Unplaced, entry.failure)
		} else {
			report.Placed++
		}
		cells[position] = cell
	}
	for _, cell := range collection.cells {
		if !matched[cell] {
			report.Removed = append(report.Removed, cell.index)
			cell.owner = nil
		}
	}

	committedLayout := layout
	collection.cells = cells
	collection.layout = &committedLayout
	collection.width = layout.Width()
	collection.height = layout.Height()

	synchronizer.logReport("grid resynced", collection, report)
	return report, nil
}

// scanForIndex looks for index starting at cursor, wrapping to the
// start once. Returns the cell (or nil) and the cursor for the next
// lookup.
func scanForIndex(cells []*Cell, cursor, index int) (*Cell, int) {
	for position := cursor; position < len(cells); position++ {
		if cells[position].index == index {
			return cells[position], position + 1
		}
	}
	for position := 0; position < cursor && position < len(cells); position++ {
		if cells[position].index == index {
			return cells[position], position + 1
		}
	}
	return nil, cursor
}

// RefreshBaseline starts a new overlay cycle: every cell takes its
// node's current state from states (cells without an entry keep
// theirs), and used and highlighted are cleared. Colors are not
// repainted, but each cell's representation is re-resolved against
// its new state, so a node leaving a fault shows its retained color
// again and a node entering one switches to the fault icon.
func (synchronizer *Synchronizer) RefreshBaseline(collection *Collection, states map[int]nodestate.State) Outcome {
	var outcome Outcome
	for _, cell := range collection.cells {
		if state, present := states[cell.index]; present {
			cell.state = state
		}
		if cell.highlighted {
			outcome.Changed = true
		}
		cell.used = false
		cell.highlighted = false

		resolution := synchronizer.assigner.Resolve(cell.slot, cell.state, cell.representation)
		if resolution.Changed {
			cell.apply(resolution)
			outcome.Touched++
			outcome.Changed = true
		}
	}
	return outcome
}

// ResetUsage clears the used flag of cells in r, and their highlight
// too when resetHighlight is set. This is the whole per-tick baseline
// when the node list did not change since the last fetch.
func (synchronizer *Synchronizer) ResetUsage(collection *Collection, r Range, resetHighlight bool) Outcome {
	var outcome Outcome
	for _, cell := range collection.cells {
		if !r.Contains(cell.index) {
			continue
		}
		cell.used = false
		if resetHighlight && cell.highlighted {
			cell.highlighted = false
			outcome.Changed = true
		}
		outcome.Touched++
	}
	return outcome
}

func (synchronizer *Synchronizer) newCell(node nodestate.Node, owner *Collection) *Cell {
	cell := &Cell{
		index:    node.Index,
		name:     node.Name,
		state:    node.State,
		position: topology.Unset,
		owner:    owner,
	}
	cell.apply(synchronizer.assigner.Resolve(palette.Uninitialized, node.State, palette.Representation{}))
	return cell
}

// placeCell positions cell, the ordinal-th distinct node in index
// order.
func (synchronizer *Synchronizer) placeCell(layout *topology.Layout, ordinal int, cell *Cell, report *Report) {
	placement, err := layout.Place(ordinal, cell.name)
	if err != nil {
		cell.unplace()
		report.Unplaced = append(report.Unplaced, &PlacementError{Index: cell.index, Name: cell.name, Err: err})
		return
	}
	cell.place(placement)
	report.Placed++
}

func (synchronizer *Synchronizer) logReport(message string, collection *Collection, report *Report) {
	for _, failure := range report.Unplaced {
		synchronizer.logger.Warn("node left unplaced",
			"index", failure.Index,
			"name", failure.Name,
			"error", failure.Err,
		)
	}
	synchronizer.logger.Debug(message,
		"cells", collection.Len(),
		"width", collection.width,
		"height", collection.height,
		"added", len(report.Added),
		"removed", len(report.Removed),
		"moved", report.Moved,
	)
}
