// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package gridui is the terminal front end of the fleet grid: a
// bubbletea model that polls a node source, keeps the grid in step
// with it, and draws one glyph per node.
//
// Each refresh fetches the node list. A changed list is resynced into
// the grid and the overlay baseline is rebuilt; an unchanged one only
// has its usage marks reset. The overlay then paints, in priority
// order, the operator's selection and one color per node state, so
// faults (down, drained, error) always show as icons whatever color
// the cell would otherwise have.
//
// Keys move a cursor over the grid, toggle nodes in and out of the
// selection, fuzzy-search node names, open a popup for the selection
// or for the composite groups of the node under the cursor, force a
// refresh, and blink the selection. See [DefaultKeyMap].
//
// Log records at Warn and above are shown in the status bar through
// [LogHandler] rather than written to the terminal.
package gridui
