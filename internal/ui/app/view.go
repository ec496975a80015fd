// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/recochat/internal/ui/components"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the header, the active view and the footer.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	if m.dashboard != nil {
		body = m.dashboard.View()
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, m.thread.View(), m.input.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
}

func (m *Model) renderHeader() string {
	m.header.Buttons = []components.Button{
		components.NewButton("New Chat", m.keys.NewChat).WithVariant(components.VariantSecondary),
	}
	return m.header.View()
}

func (m *Model) renderFooter() string {
	line := m.help.View(m.keys)
	if m.pending > 0 && m.dashboard == nil {
		status := "waiting for reply"
		if m.pending > 1 {
			status = "waiting for " + strconv.Itoa(m.pending) + " replies"
		}
		line = m.theme.LoadingText.Render(status) + "  " + line
	}
	return m.theme.StatusBar.Width(m.width).Render(line)
}

// layout sizes every component to the window.
func (m *Model) layout() {
	m.header.SetWidth(m.width)
	m.input.SetWidth(m.width)
	m.help.Width = max(m.width-m.theme.StatusBar.GetHorizontalFrameSize(), 0)

	headerH := lipgloss.Height(m.renderHeader())
	footerH := lipgloss.Height(m.renderFooter())
	bodyH := max(m.height-headerH-footerH, 1)

	if m.dashboard != nil {
		m.dashboard.SetSize(m.width, bodyH)
		return
	}
	inputH := lipgloss.Height(m.input.View())
	m.thread.SetSize(m.width, max(bodyH-inputH, 1))
}
