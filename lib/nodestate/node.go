// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package nodestate

import (
	"sort"
	"strings"
)

// Node is one entry of a node list snapshot. Index values are unique
// and dense over [0, count) within a snapshot.
type Node struct {
	Index int
	Name  string
	State State
}

// SortByIndex sorts nodes ascending by Index in place.
func SortByIndex(nodes []Node) {
	sort.SliceStable(nodes, func(a, b int) bool {
		return nodes[a].Index < nodes[b].Index
	})
}

// StatesByIndex builds the index-to-state lookup consumed by a grid
// baseline refresh.
func StatesByIndex(nodes []Node) map[int]State {
	states := make(map[int]State, len(nodes))
	for _, node := range nodes {
		states[node.Index] = node.State
	}
	return states
}

// GroupState is the condition of a composite group as a whole.
type GroupState int

const (
	// GroupFree means no job is running on the group.
	GroupFree GroupState = iota
	// GroupRunning means at least one job occupies the group.
	GroupRunning
	// GroupError means the group itself is in an error condition,
	// independent of its member nodes.
	GroupError
)

// Composite describes a group of nodes spanning the contiguous index
// interval [Start, End]. SubMembers optionally names a partial slice
// of the members (for example a subset of I/O nodes) and is rendered
// in brackets after the member list.
type Composite struct {
	Start      int
	End        int
	Members    []string
	SubMembers string
	State      GroupState
}

// Contains reports whether index lies inside the group's interval.
func (composite Composite) Contains(index int) bool {
	return index >= composite.Start && index <= composite.End
}

// Name is the group's aggregate label: its members joined by commas,
// followed by "[SubMembers]" when a partial selection is present.
func (composite Composite) Name() string {
	name := strings.Join(composite.Members, ",")
	if composite.SubMembers != "" {
		name += "[" + composite.SubMembers + "]"
	}
	return name
}

// DerivedState maps the group condition onto a node state so the
// group's cell renders with the same fault rules as a node cell.
func (composite Composite) DerivedState() State {
	switch composite.State {
	case GroupError:
		return Error
	case GroupRunning:
		return Allocated
	default:
		return Idle
	}
}
