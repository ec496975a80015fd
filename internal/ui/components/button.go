// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/recochat/internal/ui/styles"
)

// =============================================================================
// BUTTON COMPONENT
// =============================================================================

// Variant selects a button's visual weight.
type Variant int

const (
	VariantPrimary Variant = iota
	VariantSecondary
)

// String returns the variant name.
func (v Variant) String() string {
	if v == VariantSecondary {
		return "secondary"
	}
	return "primary"
}

// Button is a labelled control bound to a key. It holds no behavior of its
// own: the owner asks Pressed and reacts.
type Button struct {
	Label    string
	Title    string // Descriptive text shown in help
	Variant  Variant
	Disabled bool
	Active   bool
	Binding  key.Binding
}

// NewButton creates a primary button with a key binding.
func NewButton(label string, binding key.Binding) Button {
	return Button{Label: label, Variant: VariantPrimary, Binding: binding}
}

// WithVariant returns a copy using v.
func (b Button) WithVariant(v Variant) Button {
	b.Variant = v
	return b
}

// WithTitle returns a copy with a descriptive title.
func (b Button) WithTitle(title string) Button {
	b.Title = title
	return b
}

// Pressed reports whether msg activates the button. Disabled buttons never
// activate.
func (b Button) Pressed(msg tea.Msg) bool {
	if b.Disabled {
		return false
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return false
	}
	return key.Matches(km, b.Binding)
}

// View renders the button, with its key hint when it has one.
func (b Button) View(theme *styles.Theme) string {
	label := b.Label
	if h := b.Binding.Help(); h.Key != "" {
		label += " [" + h.Key + "]"
	}

	switch {
	case b.Disabled:
		return theme.ButtonDisabled.Render(b.Label)
	case b.Active:
		return theme.ButtonActive.Render(label)
	case b.Variant == VariantSecondary:
		return theme.ButtonSecondary.Render(label)
	default:
		return theme.ButtonPrimary.Render(label)
	}
}
