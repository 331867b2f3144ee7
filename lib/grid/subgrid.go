// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package grid

import (
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/fleetgrid/lib/nodestate"
	"github.com/bureau-foundation/fleetgrid/lib/palette"
	"github.com/bureau-foundation/fleetgrid/lib/topology"
)

// CompositeSource answers which composite groups contain a node. An
// empty result means the node belongs to no group.
type CompositeSource interface {
	CompositeMembership(index int) ([]nodestate.Composite, error)
}

// Factory derives independent collections from a main collection.
// Derived cells are value copies: later changes to either side are
// invisible to the other.
type Factory struct {
	assigner    *palette.Assigner
	highlighter *Highlighter
	options     topology.Options
	logger      *slog.Logger
}

// NewFactory returns a factory. options is used to lay out popups.
func NewFactory(assigner *palette.Assigner, options topology.Options, logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Factory{
		assigner:    assigner,
		highlighter: NewHighlighter(assigner, logger),
		options:     options,
		logger:      logger,
	}
}

// FilterByRange copies the cells of main whose index lies in r into
// destination (a new collection when destination is nil) and returns
// it. Copies keep the source's name, state and flags, take slot as
// their color, and have no position: the caller lays the destination
// out on its own. Indexes already in destination are skipped, so
// repeated calls accumulate without duplicates.
//
// Indexes of an explicit range that main does not hold are stale: they
// are skipped and reported through an error wrapping
// ErrStaleReference. The returned collection is valid either way.
func (factory *Factory) FilterByRange(destination, main *Collection, r Range, slot palette.Slot) (*Collection, error) {
	if destination == nil {
		destination = newCollection(main.descriptor)
	}
	if !r.Valid() {
		return destination, fmt.Errorf("invalid node range [%d, %d]", r.Start, r.End)
	}
	matched := 0
	for _, cell := range main.cells {
		if !r.Contains(cell.index) {
			continue
		}
		matched++
		if _, present := destination.Lookup(cell.index); present {
			continue
		}
		destination.insertSorted(factory.derive(cell, cell.name, cell.state, slot))
	}
	if !r.IsAll() && matched < r.Span() {
		missing := r.Span() - matched
		factory.logger.Warn("range references nodes missing from the grid",
			"range", r.String(),
			"missing", missing,
		)
		return destination, fmt.Errorf("%w: %d of %d nodes in range %s are not in the grid", ErrStaleReference, missing, r.Span(), r)
	}
	return destination, nil
}

// CopyAll copies every cell of main with the given initial color. The
// copies start unused, giving the popup its own overlay baseline.
func (factory *Factory) CopyAll(main *Collection, initial palette.Slot) *Collection {
	destination := newCollection(main.descriptor)
	destination.cells = make([]*Cell, 0, len(main.cells))
	for _, cell := range main.cells {
		copied := factory.derive(cell, cell.name, cell.state, initial)
		copied.used = false
		copied.owner = destination
		destination.cells = append(destination.cells, copied)
	}
	return destination
}

// GroupByComposite decomposes one node into the composite groups that
// contain it. Every group yields one cell labelled with the group's
// aggregate name, carrying the group's derived state and the next
// color in sequence starting at base. A node in no group yields a
// single copy of its own cell. Any cells destination already holds
// for targetIndex are replaced; derived cells are stacked in one
// column below the rest.
//
// The returned slot is the next unused color, for the caller's next
// decomposition. A targetIndex absent from main returns an error
// wrapping ErrStaleReference and leaves destination unchanged.
func (factory *Factory) GroupByComposite(destination, main *Collection, targetIndex int, source CompositeSource, base palette.Slot) (*Collection, palette.Slot, error) {
	if destination == nil {
		destination = newCollection(main.descriptor)
	}
	target, present := main.Lookup(targetIndex)
	if !present {
		factory.logger.Warn("composite target missing from the grid", "index", targetIndex)
		return destination, base, fmt.Errorf("%w: node %d", ErrStaleReference, targetIndex)
	}

	var groups []nodestate.Composite
	if source != nil {
		membership, err := source.CompositeMembership(targetIndex)
		if err != nil {
			return destination, base, fmt.Errorf("querying composite membership of node %d: %w", targetIndex, err)
		}
		for _, group := range membership {
			if group.Contains(targetIndex) {
				groups = append(groups, group)
			}
		}
	}

	kept := destination.cells[:0]
	for _, cell := range destination.cells {
		if cell.index == targetIndex {
			cell.owner = nil
			continue
		}
		kept = append(kept, cell)
	}
	destination.cells = kept

	row := 0
	for _, cell := range destination.cells {
		if cell.position.IsSet() && cell.position.Y >= row {
			row = cell.position.Y + 1
		}
	}

	next := base
	appendDerived := func(name string, state nodestate.State) {
		derived := factory.derive(target, name, state, next)
		derived.place(topology.Placement{Position: topology.Position{X: 0, Y: row}})
		row++
		destination.insertSorted(derived)
		next++
	}

	if len(groups) == 0 {
		appendDerived(target.name, target.state)
	} else {
		for _, group := range groups {
			appendDerived(group.Name(), group.DerivedState())
		}
	}
	destination.width = 1
	destination.height = row
	return destination, next, nil
}

// SetupPopup prepares the grid of a popup view. An existing popup
// grid only has its used flags reset; otherwise the main grid is
// copied with the placeholder color and laid out.
func (factory *Factory) SetupPopup(existing, main *Collection) (*Collection, error) {
	if existing != nil {
		for _, cell := range existing.cells {
			cell.used = false
		}
		return existing, nil
	}
	popup := factory.CopyAll(main, palette.Placeholder)
	failures, err := popup.LayOut(factory.options)
	if err != nil {
		return nil, err
	}
	for _, failure := range failures {
		factory.logger.Warn("popup node left unplaced", "index", failure.Index, "name", failure.Name, "error", failure.Err)
	}
	return popup, nil
}

// FinishPopup paints a popup's subject nodes in the spotlight color
// and every other unused cell in the placeholder color, resolving the
// background as idle so faults outside the subject stay quiet.
func (factory *Factory) FinishPopup(popup *Collection, subject []Range) Outcome {
	var outcome Outcome
	for _, r := range subject {
		painted := factory.highlighter.Paint(popup, r, palette.Spotlight, ApplyOptions{OnlyIfUnused: true})
		outcome.Touched += painted.Touched
		outcome.Changed = outcome.Changed || painted.Changed
	}
	idle := nodestate.Idle
	background := factory.highlighter.Paint(popup, All, palette.Placeholder, ApplyOptions{
		OnlyIfUnused:  true,
		StateOverride: &idle,
	})
	outcome.Touched += background.Touched
	outcome.Changed = outcome.Changed || background.Changed
	return outcome
}

// derive builds a detached copy of source for a derived collection.
func (factory *Factory) derive(source *Cell, name string, state nodestate.State, slot palette.Slot) *Cell {
	derived := source.clone()
	derived.name = name
	derived.state = state
	derived.unplace()
	derived.apply(factory.assigner.Resolve(slot, state, palette.Representation{}))
	return derived
}
