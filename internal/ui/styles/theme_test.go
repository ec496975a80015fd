// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// THEME CREATION TESTS
// =============================================================================

func TestNewTheme(t *testing.T) {
	theme := NewTheme()

	if theme == nil {
		t.Fatal("NewTheme() returned nil")
	}

	styles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Header", theme.Header},
		{"UserBubble", theme.UserBubble},
		{"AssistantBubble", theme.AssistantBubble},
		{"ErrorBubble", theme.ErrorBubble},
		{"SelectedBubble", theme.SelectedBubble},
		{"InputContainer", theme.InputContainer},
		{"ButtonPrimary", theme.ButtonPrimary},
		{"ButtonSecondary", theme.ButtonSecondary},
		{"Card", theme.Card},
		{"Summary", theme.Summary},
		{"StatusBar", theme.StatusBar},
	}

	for _, s := range styles {
		if rendered := s.style.Render("test"); rendered == "" {
			t.Errorf("%s style should be initialized", s.name)
		}
	}
}

func TestBubbleBordersDiffer(t *testing.T) {
	theme := NewTheme()
	if theme.SelectedBubble.GetBorderStyle() == theme.AssistantBubble.GetBorderStyle() {
		t.Error("selected bubble should use a distinct border")
	}
}

// =============================================================================
// LAYOUT TESTS
// =============================================================================

func TestGetLayoutMode(t *testing.T) {
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
		{200, LayoutWide},
	}

	theme := NewTheme()
	for _, tt := range tests {
		theme.SetSize(tt.width, 24)
		if got := theme.GetLayoutMode(); got != tt.want {
			t.Errorf("GetLayoutMode() at width %d = %v, want %v", tt.width, got, tt.want)
		}
	}
}

func TestBubbleWidth(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{8, 10},
		{40, 36},
		{80, 60},
		{120, 80},
	}

	theme := NewTheme()
	for _, tt := range tests {
		theme.SetSize(tt.width, 24)
		if got := theme.BubbleWidth(); got != tt.want {
			t.Errorf("BubbleWidth() at width %d = %d, want %d", tt.width, got, tt.want)
		}
	}
}
