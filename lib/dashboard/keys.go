// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package dashboard

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the dashboard key bindings.
type KeyMap struct {
	AddSmall   key.Binding
	AddLarge   key.Binding
	RemoveLast key.Binding
	Refresh    key.Binding
	Quit       key.Binding
}

// DefaultKeyMap mirrors the quick-add amounts of the tray menu.
var DefaultKeyMap = KeyMap{
	AddSmall: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "+250 ml"),
	),
	AddLarge: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "+500 ml"),
	),
	RemoveLast: key.NewBinding(
		key.WithKeys("u", "backspace"),
		key.WithHelp("u", "undo last"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
}

func (k KeyMap) bindings() []key.Binding {
	return []key.Binding{k.AddSmall, k.AddLarge, k.RemoveLast, k.Refresh, k.Quit}
}
