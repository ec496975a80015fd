// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/recochat/internal/model"
	"github.com/jeranaias/recochat/internal/ui/styles"
)

// Feedback button labels and titles.
const (
	PositiveLabel = "👍"
	NegativeLabel = "👎"
	PositiveTitle = "Good recommendation"
	NegativeTitle = "Bad recommendation"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one message. It is stateless: build one per render.
type MessageBubble struct {
	Message       model.Message
	Width         int
	Selected      bool
	ShowTimestamp bool
	keys          ThreadKeyMap
	markdown      *MarkdownRenderer
	theme         *styles.Theme
}

// NewMessageBubble creates a bubble for msg.
func NewMessageBubble(msg model.Message, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{
		Message: msg,
		Width:   80,
		keys:    DefaultThreadKeyMap(),
		theme:   theme,
	}
}

// WithKeys sets the bindings shown on the feedback buttons.
func (b *MessageBubble) WithKeys(keys ThreadKeyMap) *MessageBubble {
	b.keys = keys
	return b
}

// WithMarkdown renders assistant content through r. A nil r renders plain
// text.
func (b *MessageBubble) WithMarkdown(r *MarkdownRenderer) *MessageBubble {
	b.markdown = r
	return b
}

// HasFeedbackControls reports whether the bubble shows 👍/👎. Only assistant
// recommendations do.
func (b *MessageBubble) HasFeedbackControls() bool {
	return b.Message.AcceptsFeedback() && !b.Message.IsError
}

// FeedbackButtons returns the 👍 and 👎 buttons, with the current value
// marked active.
func (b *MessageBubble) FeedbackButtons() (Button, Button) {
	keys := b.keys
	up := NewButton(PositiveLabel, keys.Positive).WithTitle(PositiveTitle).WithVariant(VariantSecondary)
	down := NewButton(NegativeLabel, keys.Negative).WithTitle(NegativeTitle).WithVariant(VariantSecondary)
	up.Active = b.Message.Feedback == model.FeedbackPositive
	down.Active = b.Message.Feedback == model.FeedbackNegative
	return up, down
}

// View renders the bubble aligned within Width.
func (b *MessageBubble) View() string {
	if b.Message.Role == model.RoleUser {
		return b.renderUserBubble()
	}
	return b.renderAssistantBubble()
}

// ==========================================================================
// USER BUBBLE - Blue, right-aligned
// ==========================================================================

func (b *MessageBubble) renderUserBubble() string {
	inner := b.contentWidth()
	body := wordWrap(b.Message.Content, inner)
	bubble := b.theme.UserBubble.Render(body)

	parts := []string{}
	if meta := b.renderMeta(); meta != "" {
		parts = append(parts, lipgloss.PlaceHorizontal(b.Width, lipgloss.Right, meta))
	}
	parts = append(parts, lipgloss.PlaceHorizontal(b.Width, lipgloss.Right, bubble))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// ==========================================================================
// ASSISTANT BUBBLE - Violet (rose for errors), left-aligned
// ==========================================================================

func (b *MessageBubble) renderAssistantBubble() string {
	inner := b.contentWidth()

	var body string
	if b.markdown != nil && !b.Message.IsError {
		body = b.markdown.Render(b.Message.Content, inner)
	} else {
		body = wordWrap(b.Message.Content, inner)
	}

	style := b.theme.AssistantBubble
	switch {
	case b.Message.IsError:
		style = b.theme.ErrorBubble
	case b.Selected:
		style = b.theme.SelectedBubble
	}

	parts := []string{}
	if meta := b.renderMeta(); meta != "" {
		parts = append(parts, meta)
	}
	parts = append(parts, style.Render(body))

	if b.HasFeedbackControls() {
		up, down := b.FeedbackButtons()
		row := up.View(b.theme) + " " + down.View(b.theme)
		if b.Selected {
			row += " " + b.theme.Muted.Render(strings.Join([]string{PositiveTitle, NegativeTitle}, " / "))
		}
		parts = append(parts, row)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderMeta renders the role label and, optionally, the time.
func (b *MessageBubble) renderMeta() string {
	label := b.Message.Role.DisplayName()
	if b.ShowTimestamp {
		if ts := formatTime(b.Message.CreatedAt); ts != "" {
			label += " · " + ts
		}
	}
	return b.theme.BubbleMeta.Render(label)
}

// contentWidth is the wrap width inside the bubble's padding and border.
func (b *MessageBubble) contentWidth() int {
	w := b.Width
	if b.theme != nil && b.theme.Width > 0 {
		w = min(w, b.theme.BubbleWidth())
	}
	return max(w-6, 10)
}

// ThreadKeyMap defines the thread's navigation and feedback keys.
type ThreadKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Positive key.Binding
	Negative key.Binding
}

// DefaultThreadKeyMap returns the default thread bindings.
func DefaultThreadKeyMap() ThreadKeyMap {
	return ThreadKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous recommendation"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next recommendation"),
		),
		Positive: key.NewBinding(
			key.WithKeys("+", "y"),
			key.WithHelp("+", PositiveTitle),
		),
		Negative: key.NewBinding(
			key.WithKeys("-", "n"),
			key.WithHelp("-", NegativeTitle),
		),
	}
}
