// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jeranaias/recochat/internal/backend"
	"github.com/jeranaias/recochat/internal/model"
)

// ErrorReplyText is the assistant message appended when a send fails for any
// reason.
const ErrorReplyText = "Sorry, I couldn't reach the recommendation service. Please try again."

// =============================================================================
// COLLABORATORS
// =============================================================================

// Backend is the subset of the backend client the manager calls.
type Backend interface {
	Chat(ctx context.Context, text string) (*backend.ChatReply, error)
	SubmitFeedback(ctx context.Context, feedback model.Feedback) error
	NewChat(ctx context.Context) error
}

// Recorder receives every conversation mutation. See journal.Journal.
type Recorder interface {
	RecordMessage(ctx context.Context, conversationID string, msg *model.Message) error
	RecordFeedback(ctx context.Context, conversationID, messageID string, feedback model.Feedback) error
	RecordReset(ctx context.Context, conversationID string) error
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config holds configuration for the session manager.
type Config struct {
	// RequestTimeout bounds each backend call (default: 30 seconds)
	RequestTimeout time.Duration

	// UnloadTimeout bounds the reset sent on exit; 0 skips it (default: 2 seconds)
	UnloadTimeout time.Duration
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		RequestTimeout: 30 * time.Second,
		UnloadTimeout:  2 * time.Second,
	}
}

// =============================================================================
// SESSION MANAGER
// =============================================================================

// Manager is the single owner of the conversation. Every mutation goes
// through it; network calls are separate methods so the UI can run them
// off the update loop.
type Manager struct {
	mu   sync.Mutex
	conv *model.Conversation

	cfg     Config
	backend Backend
	journal Recorder
	log     zerolog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithJournal records every mutation to r.
func WithJournal(r Recorder) Option {
	return func(m *Manager) { m.journal = r }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// NewManager creates a manager holding an empty conversation.
func NewManager(b Backend, cfg Config, opts ...Option) *Manager {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultConfig().RequestTimeout
	}
	if cfg.UnloadTimeout < 0 {
		cfg.UnloadTimeout = 0
	}

	m := &Manager{
		conv:    model.NewConversation(),
		cfg:     cfg,
		backend: b,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With().Str("component", "session").Logger()
	return m
}

// =============================================================================
// STATE
// =============================================================================

// ConversationID returns the current conversation ID.
func (m *Manager) ConversationID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conv.ID
}

// StartedAt returns when the current conversation started.
func (m *Manager) StartedAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conv.StartedAt
}

// Messages returns a copy of the conversation's messages.
func (m *Manager) Messages() []model.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conv.Snapshot()
}

// Len returns the number of messages.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conv.Len()
}

// IsEmpty reports whether the conversation has no messages.
func (m *Manager) IsEmpty() bool {
	return m.Len() == 0
}

// LastRecommendation returns a copy of the most recent recommendation.
func (m *Manager) LastRecommendation() (model.Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg := m.conv.LastRecommendation()
	if msg == nil {
		return model.Message{}, false
	}
	return *msg, true
}

// =============================================================================
// SENDING
// =============================================================================

// BeginSend trims text and appends it as a user message. Blank text appends
// nothing and returns false; no backend call should follow.
func (m *Manager) BeginSend(text string) (model.Message, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Message{}, false
	}

	m.mu.Lock()
	msg := m.conv.AddUserMessage(text)
	convID := m.conv.ID
	out := *msg
	m.mu.Unlock()

	m.record(func(ctx context.Context) error { return m.journal.RecordMessage(ctx, convID, &out) })
	m.log.Debug().Str("message_id", out.ID).Int("length", len(text)).Msg("user message appended")
	return out, true
}

// RequestReply calls the backend chat endpoint. Safe to call from any
// goroutine; it does not touch the conversation.
func (m *Manager) RequestReply(ctx context.Context, text string) (*backend.ChatReply, error) {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.RequestTimeout)
	defer cancel()
	return m.backend.Chat(ctx, text)
}

// CompleteSend appends the outcome of a send: the reply on success,
// ErrorReplyText on any failure. It always appends exactly one message.
func (m *Manager) CompleteSend(reply *backend.ChatReply, err error) model.Message {
	m.mu.Lock()
	var msg *model.Message
	if err != nil || reply == nil {
		msg = m.conv.AddErrorMessage(ErrorReplyText)
	} else {
		msg = m.conv.AddAssistantMessage(reply.Response, reply.IsRecommendation)
	}
	convID := m.conv.ID
	out := *msg
	m.mu.Unlock()

	if err != nil {
		m.log.Warn().Err(err).Msg("chat request failed")
	}
	m.record(func(ctx context.Context) error { return m.journal.RecordMessage(ctx, convID, &out) })
	return out
}

// Send runs a whole exchange synchronously. It returns false for blank text.
func (m *Manager) Send(ctx context.Context, text string) (model.Message, bool) {
	user, ok := m.BeginSend(text)
	if !ok {
		return model.Message{}, false
	}
	reply, err := m.RequestReply(ctx, user.Content)
	return m.CompleteSend(reply, err), true
}

// =============================================================================
// FEEDBACK
// =============================================================================

// SetFeedback records feedback on a recommendation message. Unknown ids,
// user messages and plain replies are rejected without mutation.
func (m *Manager) SetFeedback(id string, feedback model.Feedback) error {
	m.mu.Lock()
	err := m.conv.SetFeedback(id, feedback)
	convID := m.conv.ID
	m.mu.Unlock()

	if err != nil {
		m.log.Debug().Err(err).Str("message_id", id).Msg("feedback rejected")
		return err
	}

	m.record(func(ctx context.Context) error { return m.journal.RecordFeedback(ctx, convID, id, feedback) })
	return nil
}

// FeedbackAt resolves a position to a message ID and calls SetFeedback.
func (m *Manager) FeedbackAt(index int, feedback model.Feedback) (string, error) {
	m.mu.Lock()
	msg, ok := m.conv.At(index)
	m.mu.Unlock()
	if !ok {
		return "", model.ErrMessageNotFound
	}
	return msg.ID, m.SetFeedback(msg.ID, feedback)
}

// NotifyFeedback reports feedback to the backend. Failure is logged and
// returned but never rolls back the local value.
func (m *Manager) NotifyFeedback(ctx context.Context, feedback model.Feedback) error {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.RequestTimeout)
	defer cancel()

	if err := m.backend.SubmitFeedback(ctx, feedback); err != nil {
		m.log.Warn().Err(err).Str("feedback", feedback.String()).Msg("feedback submission failed")
		return err
	}
	return nil
}

// =============================================================================
// RESET
// =============================================================================

// Reset clears the conversation immediately. Replies still in flight are
// appended to the new conversation when they arrive.
func (m *Manager) Reset() {
	m.mu.Lock()
	oldID := m.conv.ID
	m.conv.Clear()
	m.mu.Unlock()

	m.record(func(ctx context.Context) error { return m.journal.RecordReset(ctx, oldID) })
	m.log.Debug().Str("conversation_id", oldID).Msg("conversation reset")
}

// NotifyReset tells the backend to start a fresh conversation. Failure is
// logged and returned.
func (m *Manager) NotifyReset(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.RequestTimeout)
	defer cancel()

	if err := m.backend.NewChat(ctx); err != nil {
		m.log.Warn().Err(err).Msg("reset notification failed")
		return err
	}
	return nil
}

// Unload is called on exit. A non-empty conversation is reset and the
// backend notified within UnloadTimeout. Best-effort: errors are logged only.
// Returns whether a notification was attempted.
func (m *Manager) Unload(ctx context.Context) bool {
	if m.IsEmpty() || m.cfg.UnloadTimeout == 0 {
		return false
	}

	m.Reset()

	ctx, cancel := context.WithTimeout(ctx, m.cfg.UnloadTimeout)
	defer cancel()
	if err := m.backend.NewChat(ctx); err != nil {
		m.log.Warn().Err(err).Msg("unload reset failed")
	}
	return true
}

// record writes to the journal if one is attached. Journal failures never
// affect the conversation.
func (m *Manager) record(fn func(ctx context.Context) error) {
	if m.journal == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		m.log.Warn().Err(err).Msg("journal write failed")
	}
}
