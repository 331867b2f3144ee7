// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package grid keeps a fleet's visual cell grid consistent with a
// periodically refreshed node list.
//
// A [Collection] is the ordered set of [Cell] values for one view:
// the main fleet display owns one, and every popup owns its own
// derived copy. Cells carry their node index and name, a grid
// position, the last requested color slot, the resolved
// representation (palette color or fault icon), the node's structural
// state, and two flags: used ("already painted during this overlay
// pass") and highlighted (driven by selection).
//
// Four components operate on collections:
//
//   - [Synchronizer] builds a collection from a node list, resyncs it
//     in place on every refresh (identity-preserving: color, used and
//     highlighted survive), and establishes the per-tick baseline.
//   - [Highlighter] paints index-range selections through the palette
//     assigner and toggles the highlight flag.
//   - [Factory] derives popup collections: range-filtered copies,
//     full copies, and composite-group decompositions.
//   - [Blinker] is an optional ticker that asks its owner to toggle the
//     highlight of a set of cells.
//
// Within one refresh tick the order is: Resync, then RefreshBaseline,
// then any overlays (Apply/SetHighlight), then derived views. All
// mutation happens on the owner's goroutine; collections are not safe
// for concurrent use. Derived collections hold value copies, so
// changing a popup cell never affects the main grid.
package grid
