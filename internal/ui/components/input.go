// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/recochat/internal/ui/styles"
)

// InputPlaceholder is shown while the draft is empty.
const InputPlaceholder = "Type your message..."

// SubmitMsg carries a non-blank, trimmed, NFC-normalised draft.
type SubmitMsg struct {
	Text string
}

// NormalizeDraft trims surrounding whitespace and applies NFC so visually
// identical input produces identical text.
func NormalizeDraft(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// =============================================================================
// INPUT BOX COMPONENT
// =============================================================================

// InputBox is the single-line message editor with a Send button.
type InputBox struct {
	input   textinput.Model
	send    Button
	focused bool
	width   int
	theme   *styles.Theme
}

// NewInputBox creates an InputBox.
func NewInputBox(theme *styles.Theme) *InputBox {
	ti := textinput.New()
	ti.Placeholder = InputPlaceholder
	ti.CharLimit = 4096
	ti.Width = 60
	ti.Prompt = "> "

	ti.PromptStyle = theme.InputPrompt
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.TextPrimary)
	ti.PlaceholderStyle = theme.InputPlaceholder
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(styles.Blue)

	send := NewButton("Send", key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "send"),
	))

	return &InputBox{
		input: ti,
		send:  send,
		width: 80,
		theme: theme,
	}
}

// Focus focuses the input.
func (i *InputBox) Focus() tea.Cmd {
	i.focused = true
	return i.input.Focus()
}

// Blur removes focus from the input.
func (i *InputBox) Blur() {
	i.focused = false
	i.input.Blur()
}

// Focused returns whether the input is focused.
func (i *InputBox) Focused() bool {
	return i.focused
}

// SetWidth sets the input box width.
func (i *InputBox) SetWidth(width int) {
	i.width = width
	// border, padding, prompt and the Send button
	i.input.Width = max(width-displayWidth(i.send.Label)-18, 10)
}

// Value returns the current draft.
func (i *InputBox) Value() string {
	return i.input.Value()
}

// SetValue replaces the draft.
func (i *InputBox) SetValue(value string) {
	i.input.SetValue(value)
}

// Submit emits the draft as a SubmitMsg and clears it. A blank draft is a
// no-op and keeps whatever whitespace was typed.
func (i *InputBox) Submit() tea.Cmd {
	text := NormalizeDraft(i.input.Value())
	if text == "" {
		return nil
	}
	i.input.Reset()
	return func() tea.Msg {
		return SubmitMsg{Text: text}
	}
}

// Update handles typing; Enter submits.
func (i *InputBox) Update(msg tea.Msg) (*InputBox, tea.Cmd) {
	if !i.focused {
		return i, nil
	}
	if i.send.Pressed(msg) {
		return i, i.Submit()
	}

	var cmd tea.Cmd
	i.input, cmd = i.input.Update(msg)
	return i, cmd
}

// View renders the input box and Send button side by side.
func (i *InputBox) View() string {
	container := i.theme.InputContainer
	if i.focused {
		container = i.theme.InputContainerFocused
	}

	button := i.send
	button.Disabled = strings.TrimSpace(i.input.Value()) == ""
	btn := button.View(i.theme)

	field := container.Width(max(i.width-lipgloss.Width(btn)-3, 12)).Render(i.input.View())
	return lipgloss.JoinHorizontal(lipgloss.Center, field, " ", btn)
}
