// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "you"
	case RoleAssistant:
		return "assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// FEEDBACK TYPE
// =============================================================================

// Feedback is the user's verdict on a recommendation message.
type Feedback string

const (
	FeedbackNone     Feedback = "none"
	FeedbackPositive Feedback = "positive"
	FeedbackNegative Feedback = "negative"
)

// Errors returned by feedback operations.
var (
	ErrInvalidFeedback    = errors.New("feedback must be positive or negative")
	ErrFeedbackNotAllowed = errors.New("feedback is only accepted on assistant recommendations")
	ErrMessageNotFound    = errors.New("message not found")
)

// ParseFeedback converts a wire value into a submittable Feedback.
// Only "positive" and "negative" are accepted.
func ParseFeedback(s string) (Feedback, error) {
	switch Feedback(strings.ToLower(strings.TrimSpace(s))) {
	case FeedbackPositive:
		return FeedbackPositive, nil
	case FeedbackNegative:
		return FeedbackNegative, nil
	default:
		return "", ErrInvalidFeedback
	}
}

// Submittable reports whether f can be sent to the backend.
func (f Feedback) Submittable() bool {
	return f == FeedbackPositive || f == FeedbackNegative
}

// String returns the wire value.
func (f Feedback) String() string {
	return string(f)
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single turn in a conversation.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`

	// Content
	Content string `json:"content"`

	// Recommendation state (assistant messages only)
	IsRecommendation bool     `json:"is_recommendation,omitempty"`
	Feedback         Feedback `json:"feedback,omitempty"`

	// IsError marks the placeholder reply appended when the backend call failed.
	IsError bool `json:"is_error,omitempty"`
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *Message {
	return &Message{
		ID:        newID(),
		Role:      RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// NewAssistantMessage creates an assistant reply. Recommendations start with
// FeedbackNone; plain replies carry no feedback value at all.
func NewAssistantMessage(content string, isRecommendation bool) *Message {
	msg := &Message{
		ID:               newID(),
		Role:             RoleAssistant,
		Content:          content,
		IsRecommendation: isRecommendation,
		CreatedAt:        time.Now(),
	}
	if isRecommendation {
		msg.Feedback = FeedbackNone
	}
	return msg
}

// NewErrorMessage creates the assistant placeholder shown when a send failed.
func NewErrorMessage(content string) *Message {
	msg := NewAssistantMessage(content, false)
	msg.IsError = true
	return msg
}

// AcceptsFeedback reports whether feedback may be attached to the message.
func (m *Message) AcceptsFeedback() bool {
	return m.Role == RoleAssistant && m.IsRecommendation
}

// Preview returns a truncated single-line preview of the content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	content := strings.ReplaceAll(m.Content, "\n", " ")
	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

func newID() string {
	return "msg_" + uuid.NewString()
}
