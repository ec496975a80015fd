// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// # Key Types
//
//   - Conversation: ordered list of messages for one chat
//   - Message: single turn with role, content and optional recommendation feedback
//   - Role: user or assistant
//   - Feedback: none, positive or negative
//
// # Usage
//
//	conv := model.NewConversation()
//	conv.AddUserMessage("recommend a laptop")
//	reply := conv.AddAssistantMessage("Try the X200", true)
//	_ = conv.SetFeedback(reply.ID, model.FeedbackPositive)
//
// Feedback is addressed by message ID so positions can shift without
// attaching a verdict to the wrong message.
package model
