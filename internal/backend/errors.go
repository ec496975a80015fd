// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"context"
	"errors"
	"net"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the backend client.
type ClientError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Cause      error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches sentinel errors by type so wrapped instances compare equal.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	return ok && t.Type == e.Type
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeUnreachable
	ErrTypeTimeout
	ErrTypeStatus
	ErrTypeInvalidResponse
)

// String returns a short name for the error type.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeUnreachable:
		return "unreachable"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeStatus:
		return "status"
	case ErrTypeInvalidResponse:
		return "invalid_response"
	default:
		return "unknown"
	}
}

// Sentinel errors for easy checking with errors.Is.
var (
	ErrUnreachable     = &ClientError{Type: ErrTypeUnreachable, Message: sentinelMessage(ErrTypeUnreachable)}
	ErrTimeout         = &ClientError{Type: ErrTypeTimeout, Message: sentinelMessage(ErrTypeTimeout)}
	ErrStatus          = &ClientError{Type: ErrTypeStatus, Message: sentinelMessage(ErrTypeStatus)}
	ErrInvalidResponse = &ClientError{Type: ErrTypeInvalidResponse, Message: sentinelMessage(ErrTypeInvalidResponse)}
)

func sentinelMessage(t ErrorType) string {
	switch t {
	case ErrTypeUnreachable:
		return "backend is unreachable"
	case ErrTypeTimeout:
		return "request timed out"
	case ErrTypeStatus:
		return "unexpected status from backend"
	case ErrTypeInvalidResponse:
		return "invalid response from backend"
	default:
		return "backend error"
	}
}

// transportError classifies an error returned before any response arrived.
func transportError(err error) *ClientError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &ClientError{Type: ErrTypeTimeout, Message: sentinelMessage(ErrTypeTimeout), Cause: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &ClientError{Type: ErrTypeTimeout, Message: sentinelMessage(ErrTypeTimeout), Cause: err}
	}
	return &ClientError{Type: ErrTypeUnreachable, Message: sentinelMessage(ErrTypeUnreachable), Cause: err}
}
