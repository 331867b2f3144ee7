// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package gridui

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/fleetgrid/lib/grid"
)

type popupKind int

const (
	// popupSpotlight shows the whole grid with the subject nodes lit
	// and everything else dimmed.
	popupSpotlight popupKind = iota

	// popupBlocks lists the composites containing one node.
	popupBlocks
)

type popup struct {
	kind       popupKind
	title      string
	subject    []grid.Range
	target     int
	collection *grid.Collection
}

func (model *Model) openNodePopup() {
	if model.main == nil {
		return
	}
	subject := model.subjectRanges()
	if len(subject) == 0 {
		return
	}
	model.closePopup()
	collection, err := model.factory.SetupPopup(nil, model.main)
	if err != nil {
		model.logger.Warn("spotlight popup failed", "error", err)
		return
	}
	model.factory.FinishPopup(collection, subject)

	count := 0
	for _, r := range subject {
		count += r.Span()
	}
	model.popup = &popup{
		kind:       popupSpotlight,
		title:      fmt.Sprintf("spotlight: %d nodes", count),
		subject:    subject,
		collection: collection,
	}
}

func (model *Model) openBlockPopup() {
	if model.main == nil || model.cursor < 0 {
		return
	}
	cell, present := model.main.Lookup(model.cursor)
	if !present {
		return
	}
	model.closePopup()
	collection, _, err := model.factory.GroupByComposite(nil, model.main, model.cursor, model.source, 0)
	if err != nil {
		model.logger.Warn("block popup failed", "node", cell.Name(), "error", err)
		return
	}
	model.popup = &popup{
		kind:       popupBlocks,
		title:      "blocks of " + cell.Name(),
		target:     model.cursor,
		collection: collection,
	}
}

// refreshPopup brings an open popup up to date after a refresh.
// nodeListChanged rebuilds a spotlight from scratch since its cells
// mirror the main grid one for one.
func (model *Model) refreshPopup(nodeListChanged bool) {
	if model.popup == nil {
		return
	}
	switch model.popup.kind {
	case popupSpotlight:
		existing := model.popup.collection
		if nodeListChanged {
			existing.Release()
			existing = nil
		}
		collection, err := model.factory.SetupPopup(existing, model.main)
		if err != nil {
			model.logger.Warn("spotlight popup refresh failed", "error", err)
			model.closePopup()
			return
		}
		model.factory.FinishPopup(collection, model.popup.subject)
		model.popup.collection = collection

	case popupBlocks:
		collection, _, err := model.factory.GroupByComposite(model.popup.collection, model.main, model.popup.target, model.source, 0)
		if err != nil {
			if !errors.Is(err, grid.ErrStaleReference) {
				model.logger.Warn("block popup refresh failed", "error", err)
			}
			model.closePopup()
			return
		}
		model.popup.collection = collection
	}
}

func (model *Model) closePopup() {
	if model.popup == nil {
		return
	}
	model.popup.collection.Release()
	model.popup = nil
}

// renderPopup draws the open popup boxed.
func (model Model) renderPopup() []string {
	collection := model.popup.collection
	var body []string
	switch model.popup.kind {
	case popupSpotlight:
		body = renderGrid(collection.Cells(), collection.Width(), collection.Height(), -1, model.theme).lines
	case popupBlocks:
		body = renderList(collection.Cells(), -1, model.theme)
		if len(body) == 0 {
			body = []string{"no blocks"}
		}
	}
	maxWidth := model.width - 4
	if maxWidth <= 0 {
		maxWidth = 80
	}
	return boxLines(model.popup.title, body, maxWidth, model.theme)
}
