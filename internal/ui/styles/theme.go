// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// IsDark selects the markdown style for assistant replies.
	IsDark bool

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderNav   lipgloss.Style

	// ==========================================================================
	// THREAD STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	ErrorBubble     lipgloss.Style
	SelectedBubble  lipgloss.Style
	BubbleMeta      lipgloss.Style
	EmptyThread     lipgloss.Style

	// ==========================================================================
	// INPUT STYLES
	// ==========================================================================

	InputContainer        lipgloss.Style
	InputContainerFocused lipgloss.Style
	InputPrompt           lipgloss.Style
	InputPlaceholder      lipgloss.Style

	// ==========================================================================
	// BUTTON STYLES
	// ==========================================================================

	ButtonPrimary   lipgloss.Style
	ButtonSecondary lipgloss.Style
	ButtonActive    lipgloss.Style
	ButtonDisabled  lipgloss.Style

	// ==========================================================================
	// DASHBOARD STYLES
	// ==========================================================================

	DashboardTitle lipgloss.Style
	Card           lipgloss.Style
	CardLabel      lipgloss.Style
	CardValue      lipgloss.Style
	Summary        lipgloss.Style
	SummaryTitle   lipgloss.Style
	SummaryLabel   lipgloss.Style
	SummaryValue   lipgloss.Style
	Spinner        lipgloss.Style
	LoadingText    lipgloss.Style

	// ==========================================================================
	// FOOTER STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Muted        lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	t := &Theme{
		IsDark: termenv.HasDarkBackground(),
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.HeaderNav = lipgloss.NewStyle().
		Foreground(TextSecondary)

	// Thread
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		Padding(0, 2)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		Background(AssistantBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 1)

	t.ErrorBubble = lipgloss.NewStyle().
		Foreground(ErrorBubbleFg).
		Background(ErrorBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Padding(0, 1)

	t.SelectedBubble = t.AssistantBubble.
		BorderStyle(lipgloss.ThickBorder()).
		BorderForeground(SelectionBorder)

	t.BubbleMeta = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.EmptyThread = lipgloss.NewStyle().
		Foreground(TextMuted).
		Align(lipgloss.Center, lipgloss.Center)

	// Input
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputContainerFocused = t.InputContainer.
		BorderForeground(Blue)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Blue).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Buttons
	t.ButtonPrimary = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(BlueDeep).
		Bold(true).
		Padding(0, 2)

	t.ButtonSecondary = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Overlay).
		Padding(0, 2)

	t.ButtonActive = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Emerald).
		Bold(true).
		Padding(0, 1)

	t.ButtonDisabled = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(SurfaceDim).
		Padding(0, 2)

	// Dashboard
	t.DashboardTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary).
		MarginBottom(1)

	t.Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 2).
		Width(24)

	t.CardLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.CardValue = lipgloss.NewStyle().
		Bold(true)

	t.Summary = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 2).
		MarginTop(1)

	t.SummaryTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.SummaryLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.SummaryValue = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Violet)

	t.LoadingText = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Footer
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Blue).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Muted = lipgloss.NewStyle().
		Foreground(TextMuted)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // >= 100 columns
)

// BubbleWidth returns the maximum message bubble width for the layout.
func (t *Theme) BubbleWidth() int {
	switch t.GetLayoutMode() {
	case LayoutNarrow:
		return max(t.Width-4, 10)
	case LayoutMedium:
		return t.Width * 3 / 4
	default:
		return t.Width * 2 / 3
	}
}
