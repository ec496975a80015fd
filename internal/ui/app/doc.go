// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the root bubbletea model.
//
// It routes between the chat view ("/") and the statistics view
// ("/dashboard"), forwards keys to the focused component and turns backend
// calls into commands. Every network result comes back as a message
// (ReplyMsg, FeedbackSentMsg, ResetSentMsg, dashboard.LoadedMsg) and is
// applied in arrival order; sends may overlap.
//
// Key bindings:
//
//	enter       send the draft
//	tab         switch focus between the input and the thread
//	↑/↓ (k/j)   select a recommendation (thread focused)
//	+/y  -/n    rate the selected recommendation
//	ctrl+n      new chat
//	ctrl+s      statistics
//	esc         back
//	alt+→       forward
//	ctrl+q      quit
package app
