// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package grid

import (
	"fmt"
	"math"
	"sort"

	"github.com/bureau-foundation/fleetgrid/lib/palette"
)

// Range is an inclusive node index interval. The value {-1, -1}
// (see [All]) matches every index.
type Range struct {
	Start int
	End   int
}

// All matches every node.
var All = Range{Start: -1, End: -1}

// NewRange validates and returns the interval [start, end].
func NewRange(start, end int) (Range, error) {
	if start == -1 && end == -1 {
		return All, nil
	}
	if start < 0 || end < start {
		return Range{}, fmt.Errorf("invalid node range [%d, %d]", start, end)
	}
	return Range{Start: start, End: end}, nil
}

// Single returns the range holding exactly index.
func Single(index int) Range {
	return Range{Start: index, End: index}
}

// IsAll reports whether the range matches every index.
func (r Range) IsAll() bool {
	return r.Start == -1 && r.End == -1
}

// Valid reports whether the range is All or a well-formed explicit
// interval. Ranges built with [NewRange] are always valid.
func (r Range) Valid() bool {
	return r.IsAll() || (r.Start >= 0 && r.End >= r.Start)
}

// Contains reports whether index is inside the range. An invalid
// range contains nothing.
func (r Range) Contains(index int) bool {
	if r.IsAll() {
		return true
	}
	return r.Valid() && index >= r.Start && index <= r.End
}

// Span is the number of indexes an explicit range covers, saturating
// at math.MaxInt. Zero for All and for invalid ranges.
func (r Range) Span() int {
	if r.IsAll() || !r.Valid() {
		return 0
	}
	width := r.End - r.Start
	if width == math.MaxInt {
		return math.MaxInt
	}
	return width + 1
}

func (r Range) String() string {
	if r.IsAll() {
		return "all"
	}
	if r.Start == r.End {
		return fmt.Sprintf("%d", r.Start)
	}
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Selection pairs a range with the color it should be painted.
type Selection struct {
	Range
	Slot palette.Slot
}

// RangesFromIndexes coalesces a set of indexes into the minimal list
// of ascending, disjoint ranges. Duplicates are ignored.
func RangesFromIndexes(indexes []int) []Range {
	if len(indexes) == 0 {
		return nil
	}
	sorted := append([]int(nil), indexes...)
	sort.Ints(sorted)

	var ranges []Range
	current := Single(sorted[0])
	for _, index := range sorted[1:] {
		switch {
		case index <= current.End:
			// Duplicate.
		case index == current.End+1:
			current.End = index
		default:
			ranges = append(ranges, current)
			current = Single(index)
		}
	}
	return append(ranges, current)
}

func anyContains(ranges []Range, index int) bool {
	for _, r := range ranges {
		if r.Contains(index) {
			return true
		}
	}
	return false
}
