// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jeranaias/recochat/internal/router"
	"github.com/jeranaias/recochat/internal/session"
	"github.com/jeranaias/recochat/internal/ui/components"
	"github.com/jeranaias/recochat/internal/ui/dashboard"
	"github.com/jeranaias/recochat/internal/ui/styles"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures the application model.
type Options struct {
	// StartPath is the route shown first (default: "/")
	StartPath string

	// Markdown renders assistant replies through glamour.
	Markdown bool

	// ShowTimestamps shows the time next to each message.
	ShowTimestamps bool

	// StatsTimeout bounds the statistics fetch (default: 30 seconds)
	StatsTimeout time.Duration
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the application root. It owns navigation and turns user actions
// into session mutations and network commands.
type Model struct {
	session *session.Manager
	stats   dashboard.Fetcher
	history *router.History
	opts    Options

	theme     *styles.Theme
	header    *components.Header
	thread    *components.Thread
	input     *components.InputBox
	dashboard *dashboard.Model // nil outside the statistics view
	help      help.Model
	keys      KeyMap

	pending  int
	width    int
	height   int
	quitting bool

	log zerolog.Logger
}

// New creates the application model.
func New(s *session.Manager, f dashboard.Fetcher, theme *styles.Theme, opts Options, log zerolog.Logger) *Model {
	if opts.StartPath == "" {
		opts.StartPath = router.PathChat
	}
	if opts.StatsTimeout <= 0 {
		opts.StatsTimeout = 30 * time.Second
	}

	m := &Model{
		session: s,
		stats:   f,
		history: router.NewHistory(opts.StartPath),
		opts:    opts,
		theme:   theme,
		header:  components.NewHeader(theme),
		thread:  components.NewThread(theme),
		input:   components.NewInputBox(theme),
		help:    help.New(),
		keys:    DefaultKeyMap(),
		width:   80,
		height:  24,
		log:     log.With().Str("component", "app").Logger(),
	}
	m.header.Tabs = []string{router.ViewChat.String(), router.ViewDashboard.String()}
	m.keys.Thread = m.thread.KeyMap()
	m.help.Styles.ShortKey = theme.ShortcutKey
	m.help.Styles.ShortDesc = theme.ShortcutDesc
	m.help.Styles.FullKey = theme.ShortcutKey
	m.help.Styles.FullDesc = theme.ShortcutDesc
	m.applySettings(SettingsMsg{Markdown: opts.Markdown, ShowTimestamps: opts.ShowTimestamps})
	m.syncThread()
	m.syncKeys()
	m.layout()
	return m
}

// Init enters the start route.
func (m *Model) Init() tea.Cmd {
	m.log.Info().Str("path", m.history.Current()).Msg("starting")
	return tea.Batch(m.enterRoute(), textinput.Blink)
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Path returns the current route path.
func (m *Model) Path() string {
	return m.history.Current()
}

// CurrentView returns the view for the current route.
func (m *Model) CurrentView() router.View {
	return m.history.View()
}

// Session returns the conversation controller.
func (m *Model) Session() *session.Manager {
	return m.session
}

// Dashboard returns the statistics view for the current visit, or nil.
func (m *Model) Dashboard() *dashboard.Model {
	return m.dashboard
}

// Thread returns the thread component.
func (m *Model) Thread() *components.Thread {
	return m.thread
}

// Input returns the input box.
func (m *Model) Input() *components.InputBox {
	return m.input
}

// Pending returns the number of chat requests awaiting a reply.
func (m *Model) Pending() int {
	return m.pending
}

// Quitting reports whether the user asked to quit.
func (m *Model) Quitting() bool {
	return m.quitting
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.syncKeys()
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.layout()
		return nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case components.SubmitMsg:
		return m.send(msg.Text)

	case ReplyMsg:
		m.pending = max(m.pending-1, 0)
		m.session.CompleteSend(msg.Reply, msg.Err)
		m.syncThread()
		return nil

	case components.FeedbackMsg:
		return m.feedback(msg)

	case FeedbackSentMsg:
		if msg.Err == nil {
			m.log.Debug().Str("feedback", msg.Feedback.String()).Msg("feedback delivered")
		}
		return nil

	case ResetSentMsg:
		if msg.Err == nil {
			m.log.Debug().Msg("backend conversation reset")
		}
		return nil

	case SettingsMsg:
		m.applySettings(msg)
		return nil

	case dashboard.LoadedMsg, dashboard.FailedMsg:
		if m.dashboard != nil {
			var cmd tea.Cmd
			m.dashboard, cmd = m.dashboard.Update(msg)
			return cmd
		}
		return nil
	}

	// Spinner ticks, cursor blinks and anything else go to the active view.
	if m.dashboard != nil {
		var cmd tea.Cmd
		m.dashboard, cmd = m.dashboard.Update(msg)
		return cmd
	}
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.thread, cmd = m.thread.Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit

	case key.Matches(msg, m.keys.NewChat):
		return m.newChat()

	case key.Matches(msg, m.keys.Stats):
		return m.navigate(router.PathDashboard)

	case key.Matches(msg, m.keys.Back):
		if m.history.Back() {
			return m.enterRoute()
		}
		return nil

	case key.Matches(msg, m.keys.Forward):
		if m.history.Forward() {
			return m.enterRoute()
		}
		return nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return nil
	}

	if m.dashboard != nil {
		return nil
	}

	if key.Matches(msg, m.keys.Focus) {
		return m.toggleFocus()
	}

	var cmd tea.Cmd
	if m.thread.Focused() {
		m.thread, cmd = m.thread.Update(msg)
		return cmd
	}
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// =============================================================================
// ACTIONS
// =============================================================================

// send appends the user message and issues the chat request. Earlier
// requests may still be pending.
func (m *Model) send(text string) tea.Cmd {
	msg, ok := m.session.BeginSend(text)
	if !ok {
		return nil
	}
	m.pending++
	m.syncThread()

	s := m.session
	content := msg.Content
	return func() tea.Msg {
		reply, err := s.RequestReply(context.Background(), content)
		return ReplyMsg{Reply: reply, Err: err}
	}
}

// feedback applies a rating locally, then notifies the backend. The local
// value stands whatever the notification's outcome.
func (m *Model) feedback(msg components.FeedbackMsg) tea.Cmd {
	if err := m.session.SetFeedback(msg.ID, msg.Feedback); err != nil {
		m.log.Warn().Err(err).Str("message_id", msg.ID).Msg("feedback not applied")
		return nil
	}
	m.syncThread()

	s, value := m.session, msg.Feedback
	return func() tea.Msg {
		return FeedbackSentMsg{Feedback: value, Err: s.NotifyFeedback(context.Background(), value)}
	}
}

// newChat clears the conversation, returns to the chat view and notifies
// the backend.
func (m *Model) newChat() tea.Cmd {
	m.session.Reset()
	m.syncThread()

	s := m.session
	notify := func() tea.Msg {
		return ResetSentMsg{Err: s.NotifyReset(context.Background())}
	}
	return tea.Batch(notify, m.navigate(router.PathChat))
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.input.Focused() {
		m.input.Blur()
		m.thread.Focus()
		return nil
	}
	m.thread.Blur()
	return m.input.Focus()
}

// =============================================================================
// ROUTING
// =============================================================================

// navigate pushes path and enters it. Navigating to the current path does
// nothing.
func (m *Model) navigate(path string) tea.Cmd {
	if !m.history.Push(path) {
		return nil
	}
	return m.enterRoute()
}

// enterRoute builds the view for the current path. Every statistics visit
// gets a new dashboard and a new fetch.
func (m *Model) enterRoute() tea.Cmd {
	view := m.history.View()
	m.header.Active = int(view)
	m.log.Debug().Str("path", m.history.Current()).Str("view", view.String()).Msg("navigated")

	if view == router.ViewDashboard {
		m.input.Blur()
		m.thread.Blur()
		m.dashboard = dashboard.New(m.stats, m.theme, m.opts.StatsTimeout, m.log)
		m.layout()
		return m.dashboard.Init()
	}

	m.dashboard = nil
	m.thread.Blur()
	m.layout()
	return m.input.Focus()
}

// =============================================================================
// SYNC HELPERS
// =============================================================================

// syncThread hands the current conversation to the thread.
func (m *Model) syncThread() {
	m.thread.SetMessages(m.session.Messages())
}

func (m *Model) applySettings(s SettingsMsg) {
	m.opts.Markdown = s.Markdown
	m.opts.ShowTimestamps = s.ShowTimestamps
	if s.Markdown {
		m.thread.SetMarkdown(components.NewMarkdownRenderer(m.theme.IsDark))
	} else {
		m.thread.SetMarkdown(nil)
	}
	m.thread.SetShowTimestamps(s.ShowTimestamps)
}

// syncKeys enables only the bindings that do something right now, which
// also filters the help line.
func (m *Model) syncKeys() {
	onChat := m.dashboard == nil
	threadFocused := onChat && m.thread.Focused()

	m.keys.Send.SetEnabled(onChat && m.input.Focused())
	m.keys.Focus.SetEnabled(onChat)
	m.keys.Back.SetEnabled(m.history.CanBack())
	m.keys.Forward.SetEnabled(m.history.CanForward())
	m.keys.Stats.SetEnabled(onChat)

	_, _, selected := m.thread.Selected()
	m.keys.Thread.Up.SetEnabled(threadFocused)
	m.keys.Thread.Down.SetEnabled(threadFocused)
	m.keys.Thread.Positive.SetEnabled(threadFocused && selected)
	m.keys.Thread.Negative.SetEnabled(threadFocused && selected)

	if threadFocused {
		m.keys.Focus.SetHelp("tab", "type")
	} else {
		m.keys.Focus.SetHelp("tab", "rate replies")
	}
}
