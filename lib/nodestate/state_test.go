// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package nodestate

import "testing"

func TestStateBaseStripsFlags(t *testing.T) {
	state := Idle | Drain | Maint
	if got := state.Base(); got != Idle {
		t.Errorf("Base() = %v, want %v", got, Idle)
	}
	if !state.Has(Drain) {
		t.Error("Has(Drain) = false, want true")
	}
	if state.Has(Fail) {
		t.Error("Has(Fail) = true, want false")
	}
}

func TestStateStringRoundTrip(t *testing.T) {
	for _, state := range []State{Down, Idle | Drain, Allocated | Completing | Maint, Error} {
		parsed, err := ParseState(state.String())
		if err != nil {
			t.Fatalf("ParseState(%q): %v", state.String(), err)
		}
		if parsed != state {
			t.Errorf("ParseState(%q) = %#x, want %#x", state.String(), uint32(parsed), uint32(state))
		}
	}
}

func TestStateStringFormat(t *testing.T) {
	if got := (Idle | Drain).String(); got != "idle+drain" {
		t.Errorf("String() = %q, want %q", got, "idle+drain")
	}
}

func TestParseStateRejectsUnknown(t *testing.T) {
	if _, err := ParseState("sleeping"); err == nil {
		t.Error("ParseState(sleeping) succeeded, want error")
	}
	if _, err := ParseState("idle+sparkly"); err == nil {
		t.Error("ParseState(idle+sparkly) succeeded, want error")
	}
}

func TestCompositeNameAndState(t *testing.T) {
	composite := Composite{
		Start:      4,
		End:        7,
		Members:    []string{"bg000", "bg001"},
		SubMembers: "0-3",
		State:      GroupRunning,
	}
	if got := composite.Name(); got != "bg000,bg001[0-3]" {
		t.Errorf("Name() = %q, want %q", got, "bg000,bg001[0-3]")
	}
	if got := composite.DerivedState(); got != Allocated {
		t.Errorf("DerivedState() = %v, want %v", got, Allocated)
	}
	if !composite.Contains(4) || !composite.Contains(7) || composite.Contains(8) {
		t.Error("Contains does not honor the inclusive interval [4, 7]")
	}
}

func TestSortByIndex(t *testing.T) {
	nodes := []Node{{Index: 2}, {Index: 0}, {Index: 1}}
	SortByIndex(nodes)
	for position, node := range nodes {
		if node.Index != position {
			t.Fatalf("nodes[%d].Index = %d after sort", position, node.Index)
		}
	}
}
