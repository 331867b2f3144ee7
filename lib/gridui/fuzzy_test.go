// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package gridui

import "testing"

func TestFuzzyMatchBasic(t *testing.T) {
	result := fuzzyMatch("gpu-node-017", []rune("node"), nil)
	if result.Score <= 0 {
		t.Fatal("expected positive score for substring match")
	}
	if len(result.Positions) != 4 {
		t.Errorf("expected 4 match positions, got %v", result.Positions)
	}
	for position := 1; position < len(result.Positions); position++ {
		if result.Positions[position] < result.Positions[position-1] {
			t.Errorf("positions should be ascending, got %v", result.Positions)
		}
	}
}

func TestFuzzyMatchNonContiguous(t *testing.T) {
	result := fuzzyMatch("rack07-node113", []rune("r7n3"), nil)
	if result.Score <= 0 {
		t.Fatal("expected positive score for non-contiguous fuzzy match")
	}
}

func TestFuzzyMatchCaseInsensitive(t *testing.T) {
	result := fuzzyMatch("BGL120", []rune("bgl"), nil)
	if result.Score <= 0 {
		t.Fatalf("expected case-insensitive match, got score=%d", result.Score)
	}
}

func TestFuzzyMatchNoMatch(t *testing.T) {
	result := fuzzyMatch("node001", []rune("xyz"), nil)
	if result.Score != 0 || len(result.Positions) != 0 {
		t.Errorf("fuzzyMatch(no match) = %+v, want zero result", result)
	}
}

func TestFuzzyMatchEmptyPattern(t *testing.T) {
	if result := fuzzyMatch("anything", []rune{}, nil); result.Score != 0 {
		t.Errorf("empty pattern score = %d, want 0", result.Score)
	}
}

func TestMatchNodesOrdering(t *testing.T) {
	names := map[int]string{
		0: "node000",
		1: "node001",
		2: "login1",
		3: "node1",
		4: "node001",
	}
	matches := matchNodes(names, "node001")
	if len(matches) != 2 {
		t.Fatalf("matchNodes returned %d matches, want 2: %+v", len(matches), matches)
	}
	// Equal scores fall back to index order.
	if matches[0].Index != 1 || matches[1].Index != 4 {
		t.Errorf("match order = [%d %d], want [1 4]", matches[0].Index, matches[1].Index)
	}
}

func TestMatchNodesBlankQuery(t *testing.T) {
	if matches := matchNodes(map[int]string{0: "node000"}, "   "); matches != nil {
		t.Errorf("blank query matched %+v, want nil", matches)
	}
}
