// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jeranaias/recochat/internal/model"
	"github.com/jeranaias/recochat/internal/stats"
)

// Endpoint paths.
const (
	PathChat     = "/chat"
	PathFeedback = "/feedback"
	PathNewChat  = "/new_chat"
	PathLogs     = "/logs"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend base URL (default: http://127.0.0.1:8000)
	BaseURL string

	// Timeout bounds each request (default: 30s)
	Timeout time.Duration

	// RateLimit caps outbound requests per second; 0 means unlimited.
	RateLimit float64

	// RateBurst is the limiter bucket size (default: 1)
	RateBurst int

	// UserAgent is sent on every request.
	UserAgent string
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:   "http://127.0.0.1:8000",
		Timeout:   30 * time.Second,
		RateBurst: 1,
		UserAgent: "recochat",
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the chat backend. It is safe for concurrent use; calls are
// neither serialized nor de-duplicated.
//
// Example:
//
//	client := backend.NewClient(nil, logger)
//	reply, err := client.Chat(ctx, "recommend a laptop")
type Client struct {
	config  *ClientConfig
	http    *resty.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

// NewClient creates a backend client. A nil config uses DefaultConfig.
func NewClient(config *ClientConfig, log zerolog.Logger) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.RateBurst <= 0 {
		config.RateBurst = defaults.RateBurst
	}
	if config.UserAgent == "" {
		config.UserAgent = defaults.UserAgent
	}

	limit := rate.Inf
	if config.RateLimit > 0 {
		limit = rate.Limit(config.RateLimit)
	}

	return &Client{
		config: config,
		http: resty.New().
			SetBaseURL(strings.TrimRight(config.BaseURL, "/")).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json").
			SetHeader("User-Agent", config.UserAgent).
			SetTimeout(config.Timeout),
		limiter: rate.NewLimiter(limit, config.RateBurst),
		log:     log.With().Str("component", "backend").Logger(),
	}
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Chat sends the user's text and returns the assistant reply.
// A missing or null "response" field is reported as ErrInvalidResponse.
func (c *Client) Chat(ctx context.Context, text string) (*ChatReply, error) {
	resp, err := c.do(ctx, http.MethodPost, PathChat, ChatRequest{Text: text})
	if err != nil {
		return nil, err
	}

	var payload chatResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: sentinelMessage(ErrTypeInvalidResponse), Cause: err}
	}
	if payload.Response == nil {
		return nil, &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: sentinelMessage(ErrTypeInvalidResponse),
			Cause:   fmt.Errorf("missing %q field", "response"),
		}
	}

	return &ChatReply{
		Response:         *payload.Response,
		IsRecommendation: payload.IsRecommendation,
	}, nil
}

// SubmitFeedback reports a feedback value. The response body is ignored.
func (c *Client) SubmitFeedback(ctx context.Context, feedback model.Feedback) error {
	if !feedback.Submittable() {
		return model.ErrInvalidFeedback
	}
	_, err := c.do(ctx, http.MethodPost, PathFeedback, FeedbackRequest{Feedback: feedback})
	return err
}

// NewChat asks the backend to start a fresh conversation.
func (c *Client) NewChat(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, PathNewChat, nil)
	return err
}

// Stats fetches the aggregate usage counters.
func (c *Client) Stats(ctx context.Context) (*stats.Snapshot, error) {
	resp, err := c.do(ctx, http.MethodGet, PathLogs, nil)
	if err != nil {
		return nil, err
	}

	var snap stats.Snapshot
	if err := json.Unmarshal(resp.Body(), &snap); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: sentinelMessage(ErrTypeInvalidResponse), Cause: err}
	}
	return &snap, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

// do executes one request and maps failures onto ClientError.
func (c *Client) do(ctx context.Context, method, path string, body any) (*resty.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, transportError(err)
	}

	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	elapsed := time.Since(start)

	if err != nil {
		cerr := transportError(err)
		c.log.Debug().Err(err).Str("method", method).Str("path", path).
			Dur("elapsed", elapsed).Str("type", cerr.Type.String()).Msg("request failed")
		return nil, cerr
	}

	c.log.Debug().Str("method", method).Str("path", path).
		Int("status", resp.StatusCode()).Dur("elapsed", elapsed).Msg("request complete")

	if !resp.IsSuccess() {
		return nil, &ClientError{
			Type:       ErrTypeStatus,
			Message:    sentinelMessage(ErrTypeStatus),
			StatusCode: resp.StatusCode(),
			Cause:      fmt.Errorf("%s %s: %s", method, path, resp.Status()),
		}
	}
	return resp, nil
}
