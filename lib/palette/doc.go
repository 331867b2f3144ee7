// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package palette resolves a cell's requested color against the
// node's structural state.
//
// A request is a [Slot]: a palette index (always reduced modulo the
// table size) or one of the sentinels [Placeholder], [Uninitialized]
// and [Spotlight]. The [Assigner] turns a request plus a node state
// into a [Representation], a tagged variant that is either a palette
// color or a fault icon. Down nodes always render as FaultDown;
// drained or errored nodes render as FaultDrain. Resolution has no
// side effects: callers apply the result to their cells and use the
// Changed flag to batch a single redraw.
package palette
