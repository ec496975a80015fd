// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/jeranaias/recochat/internal/ui/components"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the application's global bindings plus the thread bindings
// shown in help while the thread has focus.
type KeyMap struct {
	Send    key.Binding
	NewChat key.Binding
	Stats   key.Binding
	Back    key.Binding
	Forward key.Binding
	Focus   key.Binding
	Help    key.Binding
	Quit    key.Binding

	Thread components.ThreadKeyMap
}

// DefaultKeyMap returns the default application bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		NewChat: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new chat"),
		),
		Stats: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "statistics"),
		),
		Back: key.NewBinding(
			key.WithKeys("alt+left", "esc"),
			key.WithHelp("esc", "back"),
		),
		Forward: key.NewBinding(
			key.WithKeys("alt+right"),
			key.WithHelp("alt+→", "forward"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "rate replies"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("ctrl+q", "quit"),
		),
		Thread: components.DefaultThreadKeyMap(),
	}
}

// ShortHelp implements help.KeyMap. Disabled bindings are hidden.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Send, k.Thread.Positive, k.Thread.Negative, k.Focus,
		k.NewChat, k.Stats, k.Back, k.Quit,
	}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Chat
		{k.Send, k.Focus, k.NewChat},
		// Rating
		{k.Thread.Up, k.Thread.Down, k.Thread.Positive, k.Thread.Negative},
		// Navigation
		{k.Stats, k.Back, k.Forward},
		{k.Help, k.Quit},
	}
}
