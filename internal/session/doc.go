// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the in-memory conversation.
//
// The Manager splits each operation into a local mutation and a network
// call so the UI can apply the first synchronously and run the second as a
// background command:
//
//	msg, ok := mgr.BeginSend(text)
//	if !ok {
//	    return // blank input
//	}
//	reply, err := mgr.RequestReply(ctx, msg.Content)
//	mgr.CompleteSend(reply, err)
//
// Feedback is addressed by message ID. FeedbackAt exists for callers that
// only know a position.
//
// Conversations are never persisted or restored. An optional Recorder (the
// journal) receives every mutation for later inspection.
package session
