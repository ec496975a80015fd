// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/recochat/internal/backend"
	"github.com/jeranaias/recochat/internal/model"
	"github.com/jeranaias/recochat/internal/router"
	"github.com/jeranaias/recochat/internal/session"
	"github.com/jeranaias/recochat/internal/stats"
	"github.com/jeranaias/recochat/internal/ui/components"
	"github.com/jeranaias/recochat/internal/ui/dashboard"
	"github.com/jeranaias/recochat/internal/ui/styles"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type fakeBackend struct {
	mu sync.Mutex

	recommend   bool
	chatErr     error
	feedbackErr error
	statsErr    error

	chats      []string
	feedback   []model.Feedback
	resets     int
	statsCalls int
}

func (f *fakeBackend) Chat(_ context.Context, text string) (*backend.ChatReply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chats = append(f.chats, text)
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	return &backend.ChatReply{Response: "re: " + text, IsRecommendation: f.recommend}, nil
}

func (f *fakeBackend) SubmitFeedback(_ context.Context, fb model.Feedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feedback = append(f.feedback, fb)
	return f.feedbackErr
}

func (f *fakeBackend) NewChat(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
	return nil
}

func (f *fakeBackend) Stats(context.Context) (*stats.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statsCalls++
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return &stats.Snapshot{TotalChats: 10, ChatsWithFeedback: 4, PositiveFeedbackPercent: 75, AvgConversationDurationSec: 125}, nil
}

func newApp(t *testing.T, fb *fakeBackend, opts Options) *Model {
	t.Helper()
	s := session.NewManager(fb, session.DefaultConfig())
	m := New(s, fb, styles.NewTheme(), opts, zerolog.Nop())
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	run(m, m.Init())
	return m
}

// runCmd executes c, giving up on commands that wait on timers.
func runCmd(c tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- c() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

// run executes cmd and feeds the application messages it produces back into
// the model until nothing is left.
func run(m *Model, cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for i := 0; len(queue) > 0 && i < 100; i++ {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := runCmd(c).(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case components.SubmitMsg, components.FeedbackMsg, ReplyMsg, FeedbackSentMsg,
			ResetSentMsg, dashboard.LoadedMsg, dashboard.FailedMsg:
			_, next := m.Update(msg)
			queue = append(queue, next)
		}
	}
}

func press(m *Model, msg tea.KeyMsg) {
	_, cmd := m.Update(msg)
	run(m, cmd)
}

func typeText(m *Model, text string) {
	for _, r := range text {
		press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

var (
	keyEnter    = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab      = tea.KeyMsg{Type: tea.KeyTab}
	keyEsc      = tea.KeyMsg{Type: tea.KeyEscape}
	keyNewChat  = tea.KeyMsg{Type: tea.KeyCtrlN}
	keyStats    = tea.KeyMsg{Type: tea.KeyCtrlS}
	keyForward  = tea.KeyMsg{Type: tea.KeyRight, Alt: true}
	keyQuit     = tea.KeyMsg{Type: tea.KeyCtrlQ}
	keyPositive = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}}
	keyNegative = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}}
)

// =============================================================================
// CHAT VIEW TESTS
// =============================================================================

func TestStartsOnChat(t *testing.T) {
	m := newApp(t, &fakeBackend{}, Options{})

	assert.Equal(t, router.PathChat, m.Path())
	assert.Equal(t, router.ViewChat, m.CurrentView())
	assert.Nil(t, m.Dashboard())
	assert.True(t, m.Input().Focused())

	view := m.View()
	assert.Contains(t, view, "Chat Bot")
	assert.Contains(t, view, components.EmptyThreadText)
}

func TestSendFlow(t *testing.T) {
	fb := &fakeBackend{recommend: true}
	m := newApp(t, fb, Options{})

	typeText(m, "recommend a laptop")
	press(m, keyEnter)

	msgs := m.Session().Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, "recommend a laptop", msgs[0].Content)
	assert.Equal(t, model.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "re: recommend a laptop", msgs[1].Content)
	assert.True(t, msgs[1].IsRecommendation)
	assert.Equal(t, model.FeedbackNone, msgs[1].Feedback)

	assert.Equal(t, []string{"recommend a laptop"}, fb.chats)
	assert.Equal(t, 0, m.Pending())
	assert.Equal(t, "", m.Input().Value())
	assert.Len(t, m.Thread().Messages(), 2)
	assert.True(t, m.Thread().AtBottom())
}

func TestBlankSendIsNoop(t *testing.T) {
	fb := &fakeBackend{}
	m := newApp(t, fb, Options{})

	typeText(m, "   ")
	press(m, keyEnter)

	assert.True(t, m.Session().IsEmpty())
	assert.Empty(t, fb.chats)
}

func TestSendFailureAppendsErrorMessage(t *testing.T) {
	fb := &fakeBackend{chatErr: errors.New("connection refused")}
	m := newApp(t, fb, Options{})

	typeText(m, "hello")
	press(m, keyEnter)

	msgs := m.Session().Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, session.ErrorReplyText, msgs[1].Content)
	assert.True(t, msgs[1].IsError)
	assert.False(t, msgs[1].IsRecommendation)
}

func TestOverlappingSendsApplyInArrivalOrder(t *testing.T) {
	m := newApp(t, &fakeBackend{}, Options{})

	_, first := m.Update(components.SubmitMsg{Text: "a"})
	_, second := m.Update(components.SubmitMsg{Text: "b"})
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, 2, m.Pending())
	assert.Contains(t, m.View(), "waiting for 2 replies")

	m.Update(second())
	m.Update(first())

	var contents []string
	for _, msg := range m.Session().Messages() {
		contents = append(contents, msg.Content)
	}
	assert.Equal(t, []string{"a", "b", "re: b", "re: a"}, contents)
	assert.Equal(t, 0, m.Pending())
}

func TestTypingFeedbackKeysGoesToInput(t *testing.T) {
	fb := &fakeBackend{recommend: true}
	m := newApp(t, fb, Options{})
	typeText(m, "hi")
	press(m, keyEnter)

	typeText(m, "+")
	assert.Equal(t, "+", m.Input().Value())
	assert.Empty(t, fb.feedback)
}

// =============================================================================
// FEEDBACK TESTS
// =============================================================================

func TestFeedbackFlow(t *testing.T) {
	fb := &fakeBackend{recommend: true}
	m := newApp(t, fb, Options{})
	typeText(m, "recommend a laptop")
	press(m, keyEnter)

	press(m, keyTab)
	require.True(t, m.Thread().Focused())
	require.False(t, m.Input().Focused())

	press(m, keyPositive)
	assert.Equal(t, model.FeedbackPositive, m.Session().Messages()[1].Feedback)

	press(m, keyNegative)
	assert.Equal(t, model.FeedbackNegative, m.Session().Messages()[1].Feedback)
	assert.Equal(t, []model.Feedback{model.FeedbackPositive, model.FeedbackNegative}, fb.feedback)

	press(m, keyTab)
	assert.True(t, m.Input().Focused())
}

func TestFeedbackFailureKeepsLocalValue(t *testing.T) {
	fb := &fakeBackend{recommend: true, feedbackErr: errors.New("boom")}
	m := newApp(t, fb, Options{})
	typeText(m, "recommend a laptop")
	press(m, keyEnter)

	press(m, keyTab)
	press(m, keyPositive)

	assert.Equal(t, model.FeedbackPositive, m.Session().Messages()[1].Feedback)
	assert.Len(t, fb.feedback, 1)
}

func TestNoFeedbackOnPlainReplies(t *testing.T) {
	fb := &fakeBackend{recommend: false}
	m := newApp(t, fb, Options{})
	typeText(m, "hello")
	press(m, keyEnter)

	press(m, keyTab)
	press(m, keyPositive)

	reply := m.Session().Messages()[1]
	assert.False(t, reply.AcceptsFeedback())
	assert.Empty(t, reply.Feedback)
	assert.Empty(t, fb.feedback)

	view := m.View()
	assert.Contains(t, view, "re: hello")
	assert.NotContains(t, view, components.PositiveLabel)
	assert.NotContains(t, view, components.NegativeLabel)
}

// =============================================================================
// NEW CHAT TESTS
// =============================================================================

func TestNewChat(t *testing.T) {
	fb := &fakeBackend{}
	m := newApp(t, fb, Options{})
	typeText(m, "hello")
	press(m, keyEnter)
	require.False(t, m.Session().IsEmpty())

	press(m, keyNewChat)

	assert.True(t, m.Session().IsEmpty())
	assert.Equal(t, 1, fb.resets)
	assert.Contains(t, m.View(), components.EmptyThreadText)
}

func TestNewChatFromDashboardReturnsToChat(t *testing.T) {
	fb := &fakeBackend{}
	m := newApp(t, fb, Options{StartPath: router.PathDashboard})

	press(m, keyNewChat)

	assert.Equal(t, router.ViewChat, m.CurrentView())
	assert.Equal(t, 1, fb.resets)
}

// =============================================================================
// NAVIGATION TESTS
// =============================================================================

func TestStartPathDashboard(t *testing.T) {
	fb := &fakeBackend{}
	m := newApp(t, fb, Options{StartPath: "/Dashboard/"})

	assert.Equal(t, router.ViewDashboard, m.CurrentView())
	require.NotNil(t, m.Dashboard())
	assert.False(t, m.Dashboard().Loading())
	assert.Equal(t, 1, fb.statsCalls)

	view := m.View()
	assert.Contains(t, view, dashboard.Title)
	assert.Contains(t, view, "2:05 minutes")
}

func TestUnknownStartPathShowsChat(t *testing.T) {
	m := newApp(t, &fakeBackend{}, Options{StartPath: "/settings"})
	assert.Equal(t, router.ViewChat, m.CurrentView())
}

func TestEveryVisitFetchesFreshStatistics(t *testing.T) {
	fb := &fakeBackend{}
	m := newApp(t, fb, Options{})

	press(m, keyStats)
	require.NotNil(t, m.Dashboard())
	first := m.Dashboard().Visit()
	assert.Equal(t, 1, fb.statsCalls)

	press(m, keyEsc)
	assert.Equal(t, router.ViewChat, m.CurrentView())
	assert.Nil(t, m.Dashboard())
	assert.True(t, m.Input().Focused())

	press(m, keyForward)
	require.NotNil(t, m.Dashboard())
	assert.NotEqual(t, first, m.Dashboard().Visit())
	assert.Equal(t, 2, fb.statsCalls)
}

func TestDashboardFailureStaysLoading(t *testing.T) {
	fb := &fakeBackend{statsErr: errors.New("unreachable")}
	m := newApp(t, fb, Options{})

	press(m, keyStats)

	require.NotNil(t, m.Dashboard())
	assert.True(t, m.Dashboard().Loading())
	assert.Contains(t, m.View(), dashboard.LoadingText)
}

func TestConversationSurvivesNavigation(t *testing.T) {
	m := newApp(t, &fakeBackend{}, Options{})
	typeText(m, "hello")
	press(m, keyEnter)

	press(m, keyStats)
	press(m, keyEsc)

	assert.Equal(t, 2, m.Session().Len())
	assert.Contains(t, m.View(), "hello")
}

// =============================================================================
// LIFECYCLE TESTS
// =============================================================================

func TestQuit(t *testing.T) {
	m := newApp(t, &fakeBackend{}, Options{})

	_, cmd := m.Update(keyQuit)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.Quitting())
	assert.Equal(t, "", m.View())
}

func TestSettingsMsg(t *testing.T) {
	m := newApp(t, &fakeBackend{}, Options{})
	typeText(m, "hello")
	press(m, keyEnter)

	m.Update(SettingsMsg{Markdown: false, ShowTimestamps: true})
	ts := m.Session().Messages()[0].CreatedAt.Format("15:04")
	assert.Contains(t, m.View(), ts)
}

func TestFooterSharesThreadBindings(t *testing.T) {
	m := newApp(t, &fakeBackend{}, Options{})

	threadKeys := m.Thread().KeyMap()
	assert.Equal(t, threadKeys.Positive.Keys(), m.keys.Thread.Positive.Keys())
	assert.Equal(t, threadKeys.Negative.Help(), m.keys.Thread.Negative.Help())

	assert.Equal(t, m.theme.ShortcutKey.GetForeground(), m.help.Styles.ShortKey.GetForeground())
	assert.Equal(t, m.theme.ShortcutDesc.GetForeground(), m.help.Styles.ShortDesc.GetForeground())
}
