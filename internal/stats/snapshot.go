// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package stats holds the aggregate usage counters reported by the backend
// and the display formats derived from them.
package stats

import (
	"fmt"
	"math"
	"strconv"
)

// Snapshot is one read of the backend's aggregate counters.
type Snapshot struct {
	TotalChats                 int     `json:"total_chats"`
	ChatsWithFeedback          int     `json:"chats_with_feedback"`
	PositiveFeedbackPercent    float64 `json:"positive_feedback_percent"`
	AvgConversationDurationSec float64 `json:"avg_conversation_duration_sec"`
}

// ResponseRate returns the share of chats that received feedback, as a
// whole percentage. Zero chats yields 0.
func (s Snapshot) ResponseRate() int {
	if s.TotalChats <= 0 {
		return 0
	}
	return int(math.Round(float64(s.ChatsWithFeedback) / float64(s.TotalChats) * 100))
}

// FormatResponseRate renders ResponseRate as "40%".
func (s Snapshot) FormatResponseRate() string {
	return strconv.Itoa(s.ResponseRate()) + "%"
}

// FormatPositive renders the positive feedback percentage as reported.
func (s Snapshot) FormatPositive() string {
	return strconv.FormatFloat(s.PositiveFeedbackPercent, 'f', -1, 64) + "%"
}

// FormatAverageMinutes renders the average duration as "2.1 min".
func (s Snapshot) FormatAverageMinutes() string {
	return fmt.Sprintf("%.1f min", s.AvgConversationDurationSec/60)
}

// FormatChatTime renders the average duration as "2:05 minutes".
// Seconds are rounded first so 119.6s reads 2:00, never 1:60.
func (s Snapshot) FormatChatTime() string {
	total := int(math.Round(s.AvgConversationDurationSec))
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%d:%02d minutes", total/60, total%60)
}
