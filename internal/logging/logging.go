// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the zerolog logger shared by every component.
//
// The terminal UI owns stdout, so log lines go to a file as JSON.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures New.
type Options struct {
	// File is the log file path. Empty discards all output.
	File string

	// Level is a zerolog level name (trace, debug, info, warn, error).
	Level string

	// Console writes human-readable lines instead of JSON.
	Console bool
}

// Logger wraps a zerolog.Logger together with the file it writes to.
type Logger struct {
	zerolog.Logger
	file *os.File
}

// New opens the log file (creating parent directories) and returns a logger
// at the requested level.
func New(opts Options) (*Logger, error) {
	var out io.Writer = io.Discard
	var file *os.File

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		file = f
		out = f
	}

	SetLevel(opts.Level)
	return &Logger{Logger: build(out, opts), file: file}, nil
}

// NewWriter returns a logger writing to w at opts.Level without touching the
// global level. Used by tests and one-shot commands.
func NewWriter(w io.Writer, opts Options) *Logger {
	return &Logger{Logger: build(w, opts).Level(ParseLevel(opts.Level))}
}

func build(w io.Writer, opts Options) zerolog.Logger {
	if opts.Console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}
	return zerolog.New(w).
		With().
		Timestamp().
		Str("service", "recochat").
		Logger()
}

// SetLevel sets the process-wide level. Child loggers handed to components
// are filtered by it too, so a config reload takes effect everywhere.
func SetLevel(level string) {
	zerolog.SetGlobalLevel(ParseLevel(level))
}

// Close closes the underlying file, if any.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// ParseLevel parses a level name, falling back to info for empty or unknown
// values.
func ParseLevel(raw string) zerolog.Level {
	if raw == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// ValidLevel reports whether raw names a known level.
func ValidLevel(raw string) bool {
	if raw == "" {
		return true
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(raw)))
	return err == nil && level != zerolog.NoLevel
}
