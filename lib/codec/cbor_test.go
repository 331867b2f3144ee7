// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"testing"

	"github.com/bureau-foundation/fleetgrid/lib/nodestate"
)

type sampleNode struct {
	Index int             `json:"index"`
	Name  string          `json:"name"`
	State nodestate.State `json:"state"`
}

func TestRoundtripUsesTextStates(t *testing.T) {
	original := sampleNode{Index: 7, Name: "bgl013", State: nodestate.Idle | nodestate.Drain}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Contains(data, []byte("idle+drain")) {
		t.Errorf("encoded state is not a text string: %x", data)
	}

	var decoded sampleNode
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("roundtrip = %+v, want %+v", decoded, original)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	value := map[string]int{"zeta": 1, "alpha": 2, "mid": 3}
	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for range 10 {
		again, err := Marshal(value)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("encoding differs between runs: %x != %x", first, again)
		}
	}
}

func TestDecoderReadsSequence(t *testing.T) {
	var stream bytes.Buffer
	for index := range 3 {
		data, err := Marshal(sampleNode{Index: index, Name: "n", State: nodestate.Idle})
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		stream.Write(data)
	}

	decoder := NewDecoder(&stream)
	for index := range 3 {
		var node sampleNode
		if err := decoder.Decode(&node); err != nil {
			t.Fatalf("Decode %d: %v", index, err)
		}
		if node.Index != index {
			t.Errorf("item %d has index %d", index, node.Index)
		}
	}
}

func TestUnmarshalAnyUsesStringKeys(t *testing.T) {
	data, err := Marshal(map[string]any{"rack": "r12"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := decoded.(map[string]any); !ok {
		t.Errorf("decoded type = %T, want map[string]any", decoded)
	}
}
