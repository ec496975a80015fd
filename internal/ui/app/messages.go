// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/jeranaias/recochat/internal/backend"
	"github.com/jeranaias/recochat/internal/model"
)

// =============================================================================
// NETWORK RESULT MESSAGES
// =============================================================================

// ReplyMsg carries the outcome of one chat request. Results are applied in
// the order they arrive.
type ReplyMsg struct {
	Reply *backend.ChatReply
	Err   error
}

// FeedbackSentMsg reports the outcome of a feedback notification.
type FeedbackSentMsg struct {
	Feedback model.Feedback
	Err      error
}

// ResetSentMsg reports the outcome of a new-chat notification.
type ResetSentMsg struct {
	Err error
}

// =============================================================================
// SETTINGS MESSAGES
// =============================================================================

// SettingsMsg applies display settings while running, e.g. after the config
// file changes.
type SettingsMsg struct {
	Markdown       bool
	ShowTimestamps bool
}
