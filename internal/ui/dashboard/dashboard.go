// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dashboard renders the usage statistics view.
//
// A Model fetches one snapshot when it starts and never refetches. The app
// builds a fresh Model for every visit, so figures are never reused across
// visits. A failed fetch is logged and the view keeps showing the loading
// indicator.
package dashboard

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/jeranaias/recochat/internal/stats"
	"github.com/jeranaias/recochat/internal/ui/styles"
)

// Visible text.
const (
	Title       = "📊 System Statistics"
	LoadingText = "Loading data..."
	SummaryText = "Summary"
)

// Fetcher retrieves the statistics snapshot.
type Fetcher interface {
	Stats(ctx context.Context) (*stats.Snapshot, error)
}

// =============================================================================
// MESSAGES
// =============================================================================

// LoadedMsg delivers a snapshot to the visit that requested it.
type LoadedMsg struct {
	Visit    uint64
	Snapshot stats.Snapshot
}

// FailedMsg reports a failed fetch for a visit.
type FailedMsg struct {
	Visit uint64
	Err   error
}

var visits atomic.Uint64

// =============================================================================
// MODEL
// =============================================================================

// Model is one visit to the statistics view.
type Model struct {
	fetcher Fetcher
	timeout time.Duration
	visit   uint64

	spinner  spinner.Model
	snapshot *stats.Snapshot
	failed   bool

	width  int
	height int
	theme  *styles.Theme
	log    zerolog.Logger
}

// New creates a dashboard for a single visit. timeout bounds the fetch; zero
// means no deadline beyond the client's own.
func New(f Fetcher, theme *styles.Theme, timeout time.Duration, log zerolog.Logger) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	sp.Style = theme.Spinner

	return &Model{
		fetcher: f,
		timeout: timeout,
		visit:   visits.Add(1),
		spinner: sp,
		width:   80,
		height:  24,
		theme:   theme,
		log:     log.With().Str("component", "dashboard").Logger(),
	}
}

// Visit returns the identifier carried by this model's messages.
func (m *Model) Visit() uint64 {
	return m.visit
}

// Init starts the spinner and issues the single fetch.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch())
}

func (m *Model) fetch() tea.Cmd {
	f, visit, timeout := m.fetcher, m.visit, m.timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		snap, err := f.Stats(ctx)
		if err != nil {
			return FailedMsg{Visit: visit, Err: err}
		}
		return LoadedMsg{Visit: visit, Snapshot: *snap}
	}
}

// Loading reports whether no snapshot has arrived. It stays true after a
// failure.
func (m *Model) Loading() bool {
	return m.snapshot == nil
}

// Failed reports whether the fetch failed.
func (m *Model) Failed() bool {
	return m.failed
}

// Snapshot returns the loaded figures.
func (m *Model) Snapshot() (stats.Snapshot, bool) {
	if m.snapshot == nil {
		return stats.Snapshot{}, false
	}
	return *m.snapshot, true
}

// SetSize sets the available area.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update applies fetch results and spinner ticks. Results for other visits
// are ignored.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.Visit != m.visit {
			return m, nil
		}
		snap := msg.Snapshot
		m.snapshot = &snap
		m.log.Debug().
			Int("total_chats", snap.TotalChats).
			Int("chats_with_feedback", snap.ChatsWithFeedback).
			Msg("statistics loaded")
		return m, nil

	case FailedMsg:
		if msg.Visit != m.visit {
			return m, nil
		}
		m.failed = true
		m.log.Error().Err(msg.Err).Msg("failed to fetch statistics")
		return m, nil

	case spinner.TickMsg:
		if !m.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// =============================================================================
// VIEW
// =============================================================================

type card struct {
	icon  string
	label string
	value string
	color lipgloss.AdaptiveColor
}

// View renders the loading indicator or the cards and summary.
func (m *Model) View() string {
	if m.snapshot == nil {
		loading := m.spinner.View() + " " + m.theme.LoadingText.Render(LoadingText)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, loading)
	}
	s := *m.snapshot

	cards := []card{
		{"💬", "Total Chats", strconv.Itoa(s.TotalChats), styles.CardTotal},
		{"✅", "Chats with Feedback", strconv.Itoa(s.ChatsWithFeedback), styles.CardFeedback},
		{"⭐", "Positive Feedback", s.FormatPositive(), styles.CardPositive},
		{"⏱️", "Average Duration", s.FormatAverageMinutes(), styles.CardDuration},
	}

	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = m.renderCard(c)
	}

	var grid string
	if m.width < 2*lipgloss.Width(rendered[0])+2 {
		grid = lipgloss.JoinVertical(lipgloss.Left, rendered...)
	} else {
		top := lipgloss.JoinHorizontal(lipgloss.Top, rendered[0], "  ", rendered[1])
		bottom := lipgloss.JoinHorizontal(lipgloss.Top, rendered[2], "  ", rendered[3])
		grid = lipgloss.JoinVertical(lipgloss.Left, top, bottom)
	}

	summaryWidth := max(lipgloss.Width(grid), 40) - m.theme.Summary.GetHorizontalBorderSize()
	summary := m.theme.Summary.Width(summaryWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.theme.SummaryTitle.Render(SummaryText),
			m.summaryLine("Feedback Response Rate:", s.FormatResponseRate()),
			m.summaryLine("Average Chat Time:", s.FormatChatTime()),
		),
	)

	body := lipgloss.JoinVertical(lipgloss.Center,
		m.theme.DashboardTitle.Render(Title),
		grid,
		summary,
	)
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, body)
}

func (m *Model) renderCard(c card) string {
	label := m.theme.CardLabel.Render(c.label)
	value := m.theme.CardValue.Foreground(c.color).Render(c.value)
	return m.theme.Card.Render(lipgloss.JoinVertical(lipgloss.Left, label, c.icon+" "+value))
}

func (m *Model) summaryLine(label, value string) string {
	return m.theme.SummaryLabel.Render(label) + " " + m.theme.SummaryValue.Render(value)
}
