// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package journal keeps an append-only local record of conversation events
// in SQLite. It is opt-in and never used to restore a conversation.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/recochat/internal/model"
)

// ErrClosed is returned by operations on a closed journal.
var ErrClosed = errors.New("journal is closed")

// Kind identifies an event type.
type Kind string

const (
	KindMessage  Kind = "message"
	KindFeedback Kind = "feedback"
	KindReset    Kind = "reset"
)

// Entry is one journal row.
type Entry struct {
	ID               int64
	At               time.Time
	ConversationID   string
	Kind             Kind
	MessageID        string
	Role             string
	Content          string
	IsRecommendation bool
	IsError          bool
	Feedback         model.Feedback
}

// String renders the entry as a single line.
func (e Entry) String() string {
	ts := e.At.Local().Format("2006-01-02 15:04:05")
	switch e.Kind {
	case KindMessage:
		tag := ""
		switch {
		case e.IsError:
			tag = " [error]"
		case e.IsRecommendation:
			tag = " [rec]"
		}
		msg := model.Message{Content: e.Content}
		return fmt.Sprintf("%s  %-8s %-9s%s %s", ts, e.Kind, e.Role, tag, msg.Preview(60))
	case KindFeedback:
		return fmt.Sprintf("%s  %-8s %s -> %s", ts, e.Kind, e.MessageID, e.Feedback)
	default:
		return fmt.Sprintf("%s  %-8s %s", ts, e.Kind, e.ConversationID)
	}
}

// Journal is a SQLite-backed event log. Safe for concurrent use.
type Journal struct {
	mu     sync.Mutex
	db     *sql.DB
	closed bool
	now    func() time.Time
}

// Open opens (creating if needed) the journal database at path.
func Open(path string) (*Journal, error) {
	if path == "" {
		return nil, errors.New("journal path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if _, err := db.Exec(InitMetadata); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize metadata: %w", err)
	}

	return &Journal{db: db, now: time.Now}, nil
}

// RecordMessage appends a message event.
func (j *Journal) RecordMessage(ctx context.Context, conversationID string, msg *model.Message) error {
	if msg == nil {
		return errors.New("nil message")
	}
	return j.insert(ctx, Entry{
		ConversationID:   conversationID,
		Kind:             KindMessage,
		MessageID:        msg.ID,
		Role:             msg.Role.String(),
		Content:          msg.Content,
		IsRecommendation: msg.IsRecommendation,
		IsError:          msg.IsError,
	})
}

// RecordFeedback appends a feedback event.
func (j *Journal) RecordFeedback(ctx context.Context, conversationID, messageID string, feedback model.Feedback) error {
	return j.insert(ctx, Entry{
		ConversationID: conversationID,
		Kind:           KindFeedback,
		MessageID:      messageID,
		Feedback:       feedback,
	})
}

// RecordReset appends a reset event for the conversation being discarded.
func (j *Journal) RecordReset(ctx context.Context, conversationID string) error {
	return j.insert(ctx, Entry{
		ConversationID: conversationID,
		Kind:           KindReset,
	})
}

func (j *Journal) insert(ctx context.Context, e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return ErrClosed
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO events (at, conversation_id, kind, message_id, role, content, is_recommendation, is_error, feedback)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.now().UnixNano(), e.ConversationID, string(e.Kind), e.MessageID, e.Role, e.Content,
		boolToInt(e.IsRecommendation), boolToInt(e.IsError), string(e.Feedback),
	)
	if err != nil {
		return fmt.Errorf("record %s: %w", e.Kind, err)
	}
	return nil
}

// Recent returns the last limit entries in chronological order. A
// non-positive limit returns every entry.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil, ErrClosed
	}

	if limit <= 0 {
		limit = -1
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, at, conversation_id, kind, message_id, role, content, is_recommendation, is_error, feedback
		FROM (SELECT * FROM events ORDER BY id DESC LIMIT ?)
		ORDER BY id ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e        Entry
			at       int64
			kind     string
			feedback string
			rec, bad int
		)
		if err := rows.Scan(&e.ID, &at, &e.ConversationID, &kind, &e.MessageID, &e.Role, &e.Content, &rec, &bad, &feedback); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.At = time.Unix(0, at)
		e.Kind = Kind(kind)
		e.Feedback = model.Feedback(feedback)
		e.IsRecommendation = rec != 0
		e.IsError = bad != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database. Further calls return ErrClosed.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true
	return j.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
