// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import "github.com/jeranaias/recochat/internal/model"

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ChatRequest is the request body for POST /chat.
type ChatRequest struct {
	Text string `json:"text"`
}

// FeedbackRequest is the request body for POST /feedback.
type FeedbackRequest struct {
	Feedback model.Feedback `json:"feedback"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// chatResponse mirrors the /chat payload. Response is a pointer so an absent
// or null field can be told apart from an empty answer.
type chatResponse struct {
	Response         *string `json:"response"`
	IsRecommendation bool    `json:"is_recommendation"`
}

// ChatReply is a validated /chat answer.
type ChatReply struct {
	Response         string
	IsRecommendation bool
}
