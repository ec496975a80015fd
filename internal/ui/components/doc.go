// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the presentational pieces of the chat screen.
//
// # Components
//
//   - Button: labelled control with a key binding and variant
//   - MessageBubble: one message; 👍/👎 only on assistant recommendations
//   - Thread: scrollable message list that emits FeedbackMsg
//   - InputBox: draft editor that emits SubmitMsg
//   - Header: title, view tabs and buttons
//
// Components hold view state only. The conversation lives in the session
// manager and is passed in with Thread.SetMessages.
package components
