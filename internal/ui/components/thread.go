// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"reflect"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/recochat/internal/model"
	"github.com/jeranaias/recochat/internal/ui/styles"
)

// EmptyThreadText is shown when the conversation has no messages.
const EmptyThreadText = "Start a new conversation..."

// FeedbackMsg is emitted when the user rates the selected recommendation.
type FeedbackMsg struct {
	Index    int
	ID       string
	Feedback model.Feedback
}

// =============================================================================
// THREAD COMPONENT
// =============================================================================

// Thread renders the conversation inside a scrollable viewport. Its content
// is a pure function of the messages handed to SetMessages.
type Thread struct {
	viewport viewport.Model
	messages []model.Message
	offsets  []int // first line of each message in the rendered content

	selected       int // index into messages, -1 for none
	focused        bool
	showTimestamps bool
	width          int
	height         int

	keys     ThreadKeyMap
	markdown *MarkdownRenderer
	theme    *styles.Theme
}

// NewThread creates an empty thread.
func NewThread(theme *styles.Theme) *Thread {
	vp := viewport.New(80, 20)
	return &Thread{
		viewport: vp,
		selected: -1,
		width:    80,
		height:   20,
		keys:     DefaultThreadKeyMap(),
		theme:    theme,
	}
}

// SetMarkdown enables markdown rendering of assistant replies.
func (t *Thread) SetMarkdown(r *MarkdownRenderer) {
	t.markdown = r
	t.refresh(false)
}

// SetShowTimestamps toggles per-message timestamps.
func (t *Thread) SetShowTimestamps(show bool) {
	t.showTimestamps = show
	t.refresh(false)
}

// SetSize sets the thread dimensions.
func (t *Thread) SetSize(width, height int) {
	t.width = max(width, 10)
	t.height = max(height, 1)
	t.viewport.Width = t.width
	t.viewport.Height = t.height
	t.refresh(true)
}

// Focus gives the thread keyboard focus.
func (t *Thread) Focus() {
	t.focused = true
	if t.selected < 0 {
		t.selected = t.lastRecommendation()
	}
	t.refresh(false)
	t.ensureSelectedVisible()
}

// Blur removes focus and clears the selection highlight.
func (t *Thread) Blur() {
	t.focused = false
	t.selected = -1
	t.refresh(false)
}

// Focused returns whether the thread has focus.
func (t *Thread) Focused() bool {
	return t.focused
}

// KeyMap returns the thread's bindings.
func (t *Thread) KeyMap() ThreadKeyMap {
	return t.keys
}

// SetKeyMap replaces the thread's bindings, including the hints shown on
// the feedback buttons.
func (t *Thread) SetKeyMap(keys ThreadKeyMap) {
	t.keys = keys
	t.refresh(false)
}

// Messages returns the messages currently displayed.
func (t *Thread) Messages() []model.Message {
	return t.messages
}

// Selected returns the selected recommendation, if any.
func (t *Thread) Selected() (model.Message, int, bool) {
	if t.selected < 0 || t.selected >= len(t.messages) {
		return model.Message{}, -1, false
	}
	return t.messages[t.selected], t.selected, true
}

// SetMessages replaces the displayed messages. Any change scrolls to the
// bottom.
func (t *Thread) SetMessages(msgs []model.Message) {
	if reflect.DeepEqual(msgs, t.messages) {
		return
	}

	var selectedID string
	if m, _, ok := t.Selected(); ok {
		selectedID = m.ID
	}

	t.messages = msgs
	t.selected = -1
	if selectedID != "" {
		for i, m := range msgs {
			if m.ID == selectedID {
				t.selected = i
				break
			}
		}
	}
	if t.focused && t.selected < 0 {
		t.selected = t.lastRecommendation()
	}

	t.refresh(true)
}

// Update handles navigation, feedback keys and scrolling.
func (t *Thread) Update(msg tea.Msg) (*Thread, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !t.focused {
			return t, nil
		}
		switch {
		case key.Matches(msg, t.keys.Up):
			t.moveSelection(-1)
			return t, nil
		case key.Matches(msg, t.keys.Down):
			t.moveSelection(1)
			return t, nil
		case key.Matches(msg, t.keys.Positive):
			return t, t.feedback(model.FeedbackPositive)
		case key.Matches(msg, t.keys.Negative):
			return t, t.feedback(model.FeedbackNegative)
		}
	}

	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return t, cmd
}

// View renders the thread.
func (t *Thread) View() string {
	if len(t.messages) == 0 {
		return t.theme.EmptyThread.
			Width(t.width).
			Height(t.height).
			Render(EmptyThreadText)
	}
	return t.viewport.View()
}

// AtBottom reports whether the viewport shows the last line.
func (t *Thread) AtBottom() bool {
	return t.viewport.AtBottom()
}

// ==========================================================================
// INTERNALS
// ==========================================================================

// feedback returns a command emitting FeedbackMsg for the selection.
func (t *Thread) feedback(value model.Feedback) tea.Cmd {
	m, idx, ok := t.Selected()
	if !ok || !m.AcceptsFeedback() || m.IsError {
		return nil
	}
	return func() tea.Msg {
		return FeedbackMsg{Index: idx, ID: m.ID, Feedback: value}
	}
}

// moveSelection steps to the previous or next recommendation.
func (t *Thread) moveSelection(dir int) {
	start := t.selected
	if start < 0 {
		start = len(t.messages)
		if dir > 0 {
			start = -1
		}
	}
	for i := start + dir; i >= 0 && i < len(t.messages); i += dir {
		if t.messages[i].AcceptsFeedback() && !t.messages[i].IsError {
			t.selected = i
			t.refresh(false)
			t.ensureSelectedVisible()
			return
		}
	}
}

func (t *Thread) lastRecommendation() int {
	for i := len(t.messages) - 1; i >= 0; i-- {
		if t.messages[i].AcceptsFeedback() && !t.messages[i].IsError {
			return i
		}
	}
	return -1
}

// refresh re-renders content; toBottom scrolls to the last line.
func (t *Thread) refresh(toBottom bool) {
	if t.theme == nil {
		return
	}

	var b strings.Builder
	t.offsets = t.offsets[:0]
	line := 0
	for i, msg := range t.messages {
		if i > 0 {
			b.WriteString("\n\n")
			line += 2
		}
		t.offsets = append(t.offsets, line)

		bubble := NewMessageBubble(msg, t.theme).WithMarkdown(t.markdown).WithKeys(t.keys)
		bubble.Width = t.width
		bubble.Selected = t.focused && i == t.selected
		bubble.ShowTimestamp = t.showTimestamps

		rendered := bubble.View()
		b.WriteString(rendered)
		line += lipgloss.Height(rendered) - 1
	}

	t.viewport.SetContent(b.String())
	if toBottom {
		t.viewport.GotoBottom()
	}
}

// ensureSelectedVisible scrolls so the selected message's first line shows.
func (t *Thread) ensureSelectedVisible() {
	if t.selected < 0 || t.selected >= len(t.offsets) {
		return
	}
	top := t.offsets[t.selected]
	if top < t.viewport.YOffset || top >= t.viewport.YOffset+t.viewport.Height {
		t.viewport.SetYOffset(top)
	}
}
