// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/recochat/internal/ui/styles"
)

// =============================================================================
// SHARED STYLES FOR LINE-MODE COMMANDS
// =============================================================================

var (
	// TitleStyle is used for command titles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Blue).
			MarginBottom(1)

	// LabelStyle is used for field labels
	LabelStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Width(26)

	// ValueStyle is used for field values
	ValueStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary).
			Bold(true)

	// PromptStyle is the REPL prompt
	PromptStyle = lipgloss.NewStyle().
			Foreground(styles.Blue).
			Bold(true)

	// AssistantStyle prefixes assistant replies in the REPL
	AssistantStyle = lipgloss.NewStyle().
			Foreground(styles.Violet).
			Bold(true)

	// RecommendationStyle tags recommendation replies
	RecommendationStyle = lipgloss.NewStyle().
				Foreground(styles.Amber)

	// SuccessStyle is used for confirmations
	SuccessStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	// ErrorStyle is used for failures
	ErrorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	// DimStyle is used for hints
	DimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)
)

// renderField renders one "label value" line.
func renderField(label, value string) string {
	return LabelStyle.Render(label) + ValueStyle.Render(value)
}
