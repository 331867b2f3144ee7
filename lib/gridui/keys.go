// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package gridui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the grid viewer.
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Home  key.Binding
	End   key.Binding

	// Selection.
	Toggle      key.Binding // Add or remove the cursor node.
	ClearSelect key.Binding
	Search      key.Binding // Start a fuzzy name search.

	// Popups.
	NodePopup  key.Binding // Spotlight the selection (or cursor node).
	BlockPopup key.Binding // Composite groups of the cursor node.
	Close      key.Binding

	Refresh key.Binding
	Blink   key.Binding
	Quit    key.Binding
}

// DefaultKeyMap is the built-in key binding set. Vim-style movement
// alongside the arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "left"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "right"),
	),
	Home: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "first"),
	),
	End: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "last"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("Space", "select"),
	),
	ClearSelect: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clear"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	NodePopup: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "spotlight"),
	),
	BlockPopup: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "blocks"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "close"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Blink: key.NewBinding(
		key.WithKeys("B"),
		key.WithHelp("B", "blink"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// helpBindings is the order bindings appear in the help line.
func (keys KeyMap) helpBindings() []key.Binding {
	return []key.Binding{
		keys.Toggle, keys.Search, keys.NodePopup, keys.BlockPopup,
		keys.Refresh, keys.Blink, keys.Quit,
	}
}
