// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"net/url"
	"strings"
	"sync"
)

// Recognised paths.
const (
	PathChat      = "/"
	PathDashboard = "/dashboard"
)

// =============================================================================
// VIEWS
// =============================================================================

// View is a top-level screen.
type View int

const (
	// ViewChat is the conversation screen (default for any path).
	ViewChat View = iota
	// ViewDashboard is the statistics screen.
	ViewDashboard
)

// String returns a human-readable name for the view.
func (v View) String() string {
	switch v {
	case ViewDashboard:
		return "Dashboard"
	default:
		return "Chat"
	}
}

// Path returns the canonical path for the view.
func (v View) Path() string {
	if v == ViewDashboard {
		return PathDashboard
	}
	return PathChat
}

// Normalize strips query and fragment, ensures a leading slash and drops a
// trailing one.
func Normalize(path string) string {
	path = strings.TrimSpace(path)
	if u, err := url.Parse(path); err == nil {
		path = u.Path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}

// Resolve maps a path to a view. Only /dashboard (case-insensitive) selects
// the statistics view; everything else is the chat.
func Resolve(path string) View {
	if strings.EqualFold(Normalize(path), PathDashboard) {
		return ViewDashboard
	}
	return ViewChat
}

// =============================================================================
// HISTORY
// =============================================================================

// History is a back/forward navigation stack. Safe for concurrent use.
type History struct {
	mu      sync.Mutex
	entries []string
	pos     int
}

// NewHistory creates a history positioned at start.
func NewHistory(start string) *History {
	return &History{entries: []string{Normalize(start)}}
}

// Current returns the current path.
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.pos]
}

// View resolves the current path.
func (h *History) View() View {
	return Resolve(h.Current())
}

// Push navigates to path, discarding any forward entries. Pushing the
// current path is a no-op and returns false.
func (h *History) Push(path string) bool {
	path = Normalize(path)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.entries[h.pos] == path {
		return false
	}
	h.entries = append(h.entries[:h.pos+1], path)
	h.pos++
	return true
}

// Back moves one entry back. Returns false at the start.
func (h *History) Back() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pos == 0 {
		return false
	}
	h.pos--
	return true
}

// Forward moves one entry forward. Returns false at the end.
func (h *History) Forward() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pos >= len(h.entries)-1 {
		return false
	}
	h.pos++
	return true
}

// CanBack reports whether Back would move.
func (h *History) CanBack() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pos > 0
}

// CanForward reports whether Forward would move.
func (h *History) CanForward() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pos < len(h.entries)-1
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
