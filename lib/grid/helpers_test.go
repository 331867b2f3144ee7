// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package grid

import (
	"fmt"
	"testing"

	"github.com/bureau-foundation/fleetgrid/lib/nodestate"
	"github.com/bureau-foundation/fleetgrid/lib/palette"
	"github.com/bureau-foundation/fleetgrid/lib/topology"
)

func testAssigner(t *testing.T) *palette.Assigner {
	t.Helper()
	assigner, err := palette.NewAssigner(palette.DefaultTable())
	if err != nil {
		t.Fatalf("NewAssigner: %v", err)
	}
	return assigner
}

func linearNodes(count int) []nodestate.Node {
	nodes := make([]nodestate.Node, count)
	for index := range nodes {
		nodes[index] = nodestate.Node{
			Index: index,
			Name:  fmt.Sprintf("node%03d", index),
			State: nodestate.Idle,
		}
	}
	return nodes
}

func buildLinear(t *testing.T, count int) (*Synchronizer, *Collection) {
	t.Helper()
	synchronizer := NewSynchronizer(topology.LinearDescriptor(), topology.Options{}, testAssigner(t), nil)
	collection, report, err := synchronizer.Build(linearNodes(count))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if report.Err() != nil {
		t.Fatalf("Build report: %v", report.Err())
	}
	return synchronizer, collection
}

func mustLookup(t *testing.T, collection *Collection, index int) *Cell {
	t.Helper()
	cell, present := collection.Lookup(index)
	if !present {
		t.Fatalf("cell %d missing", index)
	}
	return cell
}

func paletteColor(slot int) palette.Representation {
	return palette.PaletteColor(palette.DefaultTable().Color(palette.Slot(slot)))
}
