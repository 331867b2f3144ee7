// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package nodestate

import (
	"fmt"
	"strings"
)

// State is a node's raw state: the low bits hold the base lifecycle
// state, the remaining bits are independent flags.
type State uint32

// Base lifecycle states. Exactly one is present in the low nibble.
const (
	Unknown   State = 0
	Down      State = 1
	Idle      State = 2
	Allocated State = 3
	Error     State = 4
	Mixed     State = 5
	Future    State = 6
)

// BaseMask selects the base lifecycle state from a State.
const BaseMask State = 0x000f

// Flags combined with a base state.
const (
	Drain      State = 0x0200
	Completing State = 0x0400
	NoRespond  State = 0x0800
	PowerSave  State = 0x1000
	Fail       State = 0x2000
	PowerUp    State = 0x4000
	Maint      State = 0x8000
)

var baseNames = map[State]string{
	Unknown:   "unknown",
	Down:      "down",
	Idle:      "idle",
	Allocated: "allocated",
	Error:     "error",
	Mixed:     "mixed",
	Future:    "future",
}

// flagNames is ordered so String output is stable.
var flagNames = []struct {
	flag State
	name string
}{
	{Drain, "drain"},
	{Completing, "completing"},
	{NoRespond, "no_respond"},
	{PowerSave, "power_save"},
	{Fail, "fail"},
	{PowerUp, "power_up"},
	{Maint, "maint"},
}

// Base returns the base lifecycle state with all flags stripped.
func (state State) Base() State {
	return state & BaseMask
}

// Has reports whether every bit of flag is set.
func (state State) Has(flag State) bool {
	return state&flag == flag
}

// String renders the state as the base name followed by any set
// flags, joined with "+": "idle+drain", "down", "allocated+maint".
func (state State) String() string {
	base, known := baseNames[state.Base()]
	if !known {
		base = fmt.Sprintf("base(%d)", uint32(state.Base()))
	}
	parts := []string{base}
	for _, entry := range flagNames {
		if state.Has(entry.flag) {
			parts = append(parts, entry.name)
		}
	}
	return strings.Join(parts, "+")
}

// ParseState is the inverse of [State.String]. Names are matched
// case-insensitively; the base state must come first.
func ParseState(text string) (State, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(text)), "+")
	var state State
	found := false
	for base, name := range baseNames {
		if parts[0] == name {
			state = base
			found = true
			break
		}
	}
	if !found {
		return 0, fmt.Errorf("unknown base state %q", parts[0])
	}
	for _, part := range parts[1:] {
		matched := false
		for _, entry := range flagNames {
			if part == entry.name {
				state |= entry.flag
				matched = true
				break
			}
		}
		if !matched {
			return 0, fmt.Errorf("unknown state flag %q in %q", part, text)
		}
	}
	return state, nil
}

// MarshalText implements encoding.TextMarshaler so snapshots carry
// readable state names instead of raw bitmasks.
func (state State) MarshalText() ([]byte, error) {
	return []byte(state.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (state *State) UnmarshalText(data []byte) error {
	parsed, err := ParseState(string(data))
	if err != nil {
		return err
	}
	*state = parsed
	return nil
}
