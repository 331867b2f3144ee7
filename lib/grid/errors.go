// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package grid

import (
	"errors"
	"fmt"
)

// ErrStaleReference is reported when a derived-view operation names
// node indexes that are not present in the source collection. Stale
// references are skipped, never fatal.
var ErrStaleReference = errors.New("stale grid reference")

// PlacementError records a node that could not be placed. The cell
// still exists in its collection, with an unset position.
type PlacementError struct {
	Index int
	Name  string
	Err   error
}

func (placementError *PlacementError) Error() string {
	return fmt.Sprintf("placing node %d (%q): %v", placementError.Index, placementError.Name, placementError.Err)
}

func (placementError *PlacementError) Unwrap() error {
	return placementError.Err
}
