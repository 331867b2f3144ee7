// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package topology maps node identities to 2-D grid coordinates.
//
// A [Descriptor] is fixed for the lifetime of a run. Linear fleets are
// laid out row-major with an adaptive column count; 3-D torus fleets
// decode each node's coordinates from the last three characters of its
// name (base 36) and project them into an isometric-looking 2-D
// arrangement. The 4-D case is recognized but deliberately unsupported:
// every placement reports [ErrBadTopology] and callers leave their
// existing layout untouched.
//
// All arithmetic is integer arithmetic. The same (index, name,
// descriptor) always yields the same coordinate, so cells do not jump
// between refreshes.
package topology
