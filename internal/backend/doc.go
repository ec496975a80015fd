// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the chat backend API.
//
// The backend exposes four endpoints:
//
//	POST /chat       {"text": "..."}            -> {"response": "...", "is_recommendation": bool}
//	POST /feedback   {"feedback": "positive"}   -> ignored
//	POST /new_chat                              -> ignored
//	GET  /logs                                  -> aggregate statistics
//
// Every failure is returned as a *ClientError whose Type distinguishes
// transport failures, timeouts, non-2xx statuses and malformed payloads:
//
//	if errors.Is(err, backend.ErrTimeout) { ... }
package backend
