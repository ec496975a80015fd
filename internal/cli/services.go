// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"

	"github.com/jeranaias/recochat/internal/backend"
	"github.com/jeranaias/recochat/internal/config"
	"github.com/jeranaias/recochat/internal/journal"
	"github.com/jeranaias/recochat/internal/logging"
	"github.com/jeranaias/recochat/internal/session"
)

// =============================================================================
// SERVICES
// =============================================================================

// services is everything a command needs, built from flags and config.
type services struct {
	cfg     *config.Config
	log     *logging.Logger
	client  *backend.Client
	journal *journal.Journal
	session *session.Manager
}

// loadConfig resolves the configuration: defaults, TOML file, .env and
// environment, then flags.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	if err := config.LoadDotEnv(config.DotEnvPaths()...); err != nil {
		return nil, err
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	err = cfg.ApplyOverrides(config.Overrides{
		BackendURL: opts.backendURL,
		StartPath:  opts.path,
		LogLevel:   opts.logLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	config.SetGlobal(cfg)
	return cfg, nil
}

// newServices builds the logger, backend client, optional journal and
// session manager.
func newServices(opts *rootOptions) (*services, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(logging.Options{File: cfg.Log.File, Level: cfg.Log.Level})
	if err != nil {
		return nil, err
	}

	client := backend.NewClient(&backend.ClientConfig{
		BaseURL:   cfg.Backend.URL,
		Timeout:   cfg.Backend.RequestTimeout(),
		RateLimit: cfg.Backend.RateLimit,
		RateBurst: cfg.Backend.RateBurst,
		UserAgent: "recochat/" + Version,
	}, log.Logger)

	rt := &services{cfg: cfg, log: log, client: client}

	sessOpts := []session.Option{session.WithLogger(log.Logger)}
	if cfg.Journal.Enabled {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			_ = log.Close()
			return nil, err
		}
		rt.journal = j
		sessOpts = append(sessOpts, session.WithJournal(j))
	}

	rt.session = session.NewManager(client, session.Config{
		RequestTimeout: cfg.Backend.RequestTimeout(),
		UnloadTimeout:  cfg.Backend.UnloadTimeout(),
	}, sessOpts...)

	log.Info().
		Str("backend", cfg.Backend.URL).
		Bool("journal", cfg.Journal.Enabled).
		Str("version", Version).
		Msg("recochat starting")
	return rt, nil
}

// Close releases the journal and log file.
func (r *services) Close() error {
	var errs []error
	if r.journal != nil {
		errs = append(errs, r.journal.Close())
	}
	errs = append(errs, r.log.Close())
	return errors.Join(errs...)
}
