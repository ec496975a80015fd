// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is the ordered, append-only list of messages for one chat.
// It is not safe for concurrent use; a single owner mutates it.
type Conversation struct {
	ID        string     `json:"id"`
	StartedAt time.Time  `json:"started_at"`
	Messages  []*Message `json:"messages"`
}

// NewConversation creates an empty conversation with a generated ID.
func NewConversation() *Conversation {
	return &Conversation{
		ID:        "conv_" + uuid.NewString(),
		StartedAt: time.Now(),
		Messages:  make([]*Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message to the conversation.
func (c *Conversation) AddMessage(msg *Message) {
	c.Messages = append(c.Messages, msg)
}

// AddUserMessage creates and appends a user message.
func (c *Conversation) AddUserMessage(content string) *Message {
	msg := NewUserMessage(content)
	c.AddMessage(msg)
	return msg
}

// AddAssistantMessage creates and appends an assistant reply.
func (c *Conversation) AddAssistantMessage(content string, isRecommendation bool) *Message {
	msg := NewAssistantMessage(content, isRecommendation)
	c.AddMessage(msg)
	return msg
}

// AddErrorMessage creates and appends the failed-send placeholder.
func (c *Conversation) AddErrorMessage(content string) *Message {
	msg := NewErrorMessage(content)
	c.AddMessage(msg)
	return msg
}

// At returns the message at position i.
func (c *Conversation) At(i int) (*Message, bool) {
	if i < 0 || i >= len(c.Messages) {
		return nil, false
	}
	return c.Messages[i], true
}

// IndexOf returns the position of the message with the given ID, or -1.
func (c *Conversation) IndexOf(id string) int {
	for i, msg := range c.Messages {
		if msg.ID == id {
			return i
		}
	}
	return -1
}

// GetMessageByID returns a message by its ID.
func (c *Conversation) GetMessageByID(id string) *Message {
	if i := c.IndexOf(id); i >= 0 {
		return c.Messages[i]
	}
	return nil
}

// LastRecommendation returns the most recent recommendation message.
func (c *Conversation) LastRecommendation() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].AcceptsFeedback() {
			return c.Messages[i]
		}
	}
	return nil
}

// SetFeedback attaches feedback to a recommendation message in place.
// A second call overwrites the first.
func (c *Conversation) SetFeedback(id string, feedback Feedback) error {
	if !feedback.Submittable() {
		return ErrInvalidFeedback
	}
	msg := c.GetMessageByID(id)
	if msg == nil {
		return ErrMessageNotFound
	}
	if !msg.AcceptsFeedback() {
		return ErrFeedbackNotAllowed
	}
	msg.Feedback = feedback
	return nil
}

// Clear drops every message and starts a fresh conversation identity.
func (c *Conversation) Clear() {
	c.Messages = make([]*Message, 0)
	c.ID = "conv_" + uuid.NewString()
	c.StartedAt = time.Now()
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// Snapshot returns value copies of the messages for read-only consumers.
func (c *Conversation) Snapshot() []Message {
	out := make([]Message, len(c.Messages))
	for i, msg := range c.Messages {
		out[i] = *msg
	}
	return out
}
