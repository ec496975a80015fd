// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/recochat/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the title bar: title and view tabs on the left, buttons on the
// right.
type Header struct {
	Title   string
	Tabs    []string
	Active  int
	Buttons []Button
	Width   int
	theme   *styles.Theme
}

// NewHeader creates a Header with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "Chat Bot",
		Width: 80,
		theme: theme,
	}
}

// SetWidth sets the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// View renders the header.
func (h *Header) View() string {
	left := h.theme.HeaderTitle.Render(truncate(h.Title, max(h.Width-4, 1)))

	if len(h.Tabs) > 0 {
		tabs := make([]string, len(h.Tabs))
		for i, tab := range h.Tabs {
			if i == h.Active {
				tabs[i] = h.theme.ShortcutKey.Render("[" + tab + "]")
			} else {
				tabs[i] = h.theme.HeaderNav.Render(" " + tab + " ")
			}
		}
		left += "  " + strings.Join(tabs, " ")
	}

	buttons := make([]string, 0, len(h.Buttons))
	for _, b := range h.Buttons {
		buttons = append(buttons, b.View(h.theme))
	}
	right := strings.Join(buttons, " ")

	inner := max(h.Width-h.theme.Header.GetHorizontalFrameSize(), 0)
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		// Narrow terminal: drop the buttons before overlapping the title.
		right = ""
		gap = max(inner-lipgloss.Width(left), 0)
	}

	return h.theme.Header.Width(h.Width).Render(left + strings.Repeat(" ", gap) + right)
}
