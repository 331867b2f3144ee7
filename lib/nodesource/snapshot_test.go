// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package nodesource

import (
	"errors"
	"reflect"
	"testing"

	"github.com/bureau-foundation/fleetgrid/lib/nodestate"
)

func sampleSnapshot() *Snapshot {
	return &Snapshot{
		Nodes: []NodeRecord{
			{Index: 0, Name: "bgl000", State: nodestate.Idle},
			{Index: 1, Name: "bgl001", State: nodestate.Down},
			{Index: 2, Name: "bgl002", State: nodestate.Allocated | nodestate.Drain},
		},
		Composites: []CompositeRecord{
			{Start: 0, End: 1, Members: []string{"bgl000", "bgl001"}, SubMembers: "0-3", State: "running"},
		},
	}
}

// --- DetectFormat ---

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		path        string
		format      Format
		compression Compression
	}{
		{"nodes.yaml", FormatYAML, CompressionNone},
		{"/var/run/nodes.YML", FormatYAML, CompressionNone},
		{"nodes.json", FormatJSON, CompressionNone},
		{"nodes.jsonc", FormatJSONC, CompressionNone},
		{"nodes.cbor.zst", FormatCBOR, CompressionZstd},
		{"nodes.json.lz4", FormatJSON, CompressionLZ4},
	}
	for _, testCase := range cases {
		format, compression, err := DetectFormat(testCase.path)
		if err != nil {
			t.Errorf("DetectFormat(%q): %v", testCase.path, err)
			continue
		}
		if format != testCase.format || compression != testCase.compression {
			t.Errorf("DetectFormat(%q) = (%v, %v), want (%v, %v)",
				testCase.path, format, compression, testCase.format, testCase.compression)
		}
	}
}

func TestDetectFormatUnknown(t *testing.T) {
	for _, path := range []string{"nodes.txt", "nodes", "nodes.zst"} {
		if _, _, err := DetectFormat(path); !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("DetectFormat(%q) error = %v, want ErrUnknownFormat", path, err)
		}
	}
}

// --- Encode / Decode ---

func TestEncodeDecodeEveryFormat(t *testing.T) {
	want := sampleSnapshot()
	for _, path := range []string{
		"n.yaml", "n.json", "n.jsonc", "n.cbor",
		"n.yaml.zst", "n.json.lz4", "n.cbor.zst", "n.cbor.lz4",
	} {
		data, err := Encode(path, want)
		if err != nil {
			t.Fatalf("Encode(%s): %v", path, err)
		}
		got, err := Decode(path, data)
		if err != nil {
			t.Fatalf("Decode(%s): %v", path, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s: decoded %+v, want %+v", path, got, want)
		}
	}
}

func TestDecodeYAMLByHand(t *testing.T) {
	data := []byte(`
nodes:
  - {index: 0, name: r00A, state: idle}
  - {index: 1, name: r00B, state: "idle+drain"}
composites:
  - {start: 0, end: 1, members: [r00A], sub_members: "0"}
`)
	snapshot, err := Decode("snap.yaml", data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	nodes, err := snapshot.NodeList()
	if err != nil {
		t.Fatalf("NodeList: %v", err)
	}
	if nodes[1].State != nodestate.Idle|nodestate.Drain {
		t.Errorf("node 1 state = %v, want idle+drain", nodes[1].State)
	}
	composites, err := snapshot.CompositeList()
	if err != nil {
		t.Fatalf("CompositeList: %v", err)
	}
	if composites[0].State != nodestate.GroupFree || composites[0].Name() != "r00A[0]" {
		t.Errorf("composite = %+v", composites[0])
	}
}

func TestDecodeJSONCComments(t *testing.T) {
	data := []byte(`{
  // collected from the controller
  "nodes": [
    {"index": 0, "name": "n0", "state": "allocated"}, /* trailing comma next */
  ],
}`)
	snapshot, err := Decode("snap.jsonc", data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(snapshot.Nodes) != 1 || snapshot.Nodes[0].State != nodestate.Allocated {
		t.Errorf("nodes = %+v", snapshot.Nodes)
	}
}

func TestDecodeRejectsBadState(t *testing.T) {
	if _, err := Decode("snap.json", []byte(`{"nodes":[{"index":0,"name":"n","state":"sleepy"}]}`)); err == nil {
		t.Error("Decode accepted an unknown state")
	}
}

// --- Validation ---

func TestNodeListValidation(t *testing.T) {
	negative := &Snapshot{Nodes: []NodeRecord{{Index: -1, Name: "n"}}}
	if _, err := negative.NodeList(); err == nil {
		t.Error("NodeList accepted a negative index")
	}
	unnamed := &Snapshot{Nodes: []NodeRecord{{Index: 0}}}
	if _, err := unnamed.NodeList(); err == nil {
		t.Error("NodeList accepted an empty name")
	}
}

func TestCompositeListValidation(t *testing.T) {
	inverted := &Snapshot{Composites: []CompositeRecord{{Start: 4, End: 2}}}
	if _, err := inverted.CompositeList(); err == nil {
		t.Error("CompositeList accepted an inverted interval")
	}
	badState := &Snapshot{Composites: []CompositeRecord{{Start: 0, End: 2, State: "melting"}}}
	if _, err := badState.CompositeList(); err == nil {
		t.Error("CompositeList accepted an unknown state")
	}
}
