// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package nodestate defines the read-only node records a fleet grid is
// built from: a dense node index, the node's name, and its raw state
// bitmask (a base lifecycle state combined with independent flags such
// as drain or maintenance).
//
// It also defines [Composite], the interval description of a group of
// nodes (a "block") that a detail view can decompose into per-group
// cells. Nothing in this package knows how nodes are displayed.
package nodestate
