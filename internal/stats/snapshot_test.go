// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stats

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotDecode(t *testing.T) {
	raw := `{"total_chats": 10, "chats_with_feedback": 4, "positive_feedback_percent": 75, "avg_conversation_duration_sec": 125}`

	var s Snapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &s))

	assert.Equal(t, 10, s.TotalChats)
	assert.Equal(t, 4, s.ChatsWithFeedback)
	assert.Equal(t, 75.0, s.PositiveFeedbackPercent)
	assert.Equal(t, 125.0, s.AvgConversationDurationSec)
}

func TestDashboardScenario(t *testing.T) {
	s := Snapshot{TotalChats: 10, ChatsWithFeedback: 4, PositiveFeedbackPercent: 75, AvgConversationDurationSec: 125}

	assert.Equal(t, "40%", s.FormatResponseRate())
	assert.Equal(t, "2:05 minutes", s.FormatChatTime())
	assert.Equal(t, "75%", s.FormatPositive())
	assert.Equal(t, "2.1 min", s.FormatAverageMinutes())
}

func TestResponseRate(t *testing.T) {
	tests := []struct {
		name  string
		total int
		with  int
		want  int
	}{
		{"no chats", 0, 0, 0},
		{"negative total", -1, 3, 0},
		{"all", 5, 5, 100},
		{"rounds half up", 8, 1, 13},
		{"rounds down", 3, 1, 33},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := Snapshot{TotalChats: tc.total, ChatsWithFeedback: tc.with}
			assert.Equal(t, tc.want, s.ResponseRate())
		})
	}
}

func TestFormatChatTime(t *testing.T) {
	tests := []struct {
		sec  float64
		want string
	}{
		{0, "0:00 minutes"},
		{59, "0:59 minutes"},
		{60, "1:00 minutes"},
		{119.6, "2:00 minutes"},
		{3725, "62:05 minutes"},
		{-5, "0:00 minutes"},
	}

	for _, tc := range tests {
		s := Snapshot{AvgConversationDurationSec: tc.sec}
		assert.Equal(t, tc.want, s.FormatChatTime(), "sec=%v", tc.sec)
	}
}

func TestFormatPositive(t *testing.T) {
	assert.Equal(t, "66.5%", Snapshot{PositiveFeedbackPercent: 66.5}.FormatPositive())
	assert.Equal(t, "0%", Snapshot{}.FormatPositive())
}
