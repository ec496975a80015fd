// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the recochat command line.
//
// Commands:
//
//	recochat                  full-screen chat UI
//	recochat repl             line-mode chat (/good [n], /bad [n], /new, /stats, /quit)
//	recochat stats [--json]   one statistics snapshot
//	recochat journal [-n N]   recent journal entries
//	recochat config path|show|init
//	recochat version
//
// Persistent flags --config, --backend, --path and --log-level override the
// config file, .env files and RECOCHAT_* variables.
package cli
