// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for recochat.
//
// # Configuration Precedence
//
// Later sources override earlier ones:
//   - Built-in defaults
//   - ~/.recochat/config.toml (or --config)
//   - .env files (working directory, then ~/.recochat/.env)
//   - Environment variables (RECOCHAT_*)
//   - Command-line flags
//
// # Usage
//
//	_ = config.LoadDotEnv(config.DotEnvPaths()...)
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	timeout := cfg.Backend.RequestTimeout()
//
// A Watcher reloads the file when it changes so the log level can be
// adjusted without restarting.
package config
