// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jeranaias/recochat/internal/config"
	"github.com/jeranaias/recochat/internal/logging"
	"github.com/jeranaias/recochat/internal/ui/app"
	"github.com/jeranaias/recochat/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// configReloadDebounce coalesces editor save bursts.
const configReloadDebounce = 250 * time.Millisecond

// rootOptions holds the persistent flags.
type rootOptions struct {
	configPath string
	backendURL string
	path       string
	logLevel   string
}

// ErrNoTerminal is returned when the full-screen UI cannot start.
var ErrNoTerminal = errors.New("recochat needs an interactive terminal; use 'recochat repl' or 'recochat stats'")

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "recochat",
		Short: "Terminal client for the product recommendation chat service",
		Long: `recochat is a terminal client for the product recommendation chat service.

It shows the conversation with the assistant, lets you rate recommendations
with 👍/👎 and displays usage statistics.

Examples:
  recochat                               # start the chat UI
  recochat --path /dashboard             # open on the statistics view
  recochat --backend http://host:8000    # use another backend
  recochat repl                          # line-mode chat
  recochat stats --json                  # print statistics`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file (default ~/.recochat/config.toml)")
	pf.StringVar(&opts.backendURL, "backend", "", "backend base URL")
	pf.StringVar(&opts.path, "path", "", "start route: / or /dashboard")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")

	root.AddCommand(
		newReplCommand(opts),
		newStatsCommand(opts),
		newJournalCommand(opts),
		newConfigCommand(opts),
		newVersionCommand(),
	)
	return root
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	lipgloss.SetColorProfile(GetColorProfile())

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error:"), err)
		return 1
	}
	return 0
}

// =============================================================================
// TUI
// =============================================================================

func runTUI(ctx context.Context, opts *rootOptions) error {
	if !CanRunTUI() {
		return ErrNoTerminal
	}

	rt, err := newServices(opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	theme := styles.NewTheme()
	model := app.New(rt.session, rt.client, theme, app.Options{
		StartPath:      rt.cfg.UI.StartPath,
		Markdown:       rt.cfg.UI.Markdown,
		ShowTimestamps: rt.cfg.UI.ShowTimestamps,
		StatsTimeout:   rt.cfg.Backend.RequestTimeout(),
	}, rt.log.Logger)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if w := watchConfig(opts, rt, p); w != nil {
		defer w.Close()
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run UI: %w", err)
	}

	// Leaving the UI ends the conversation.
	if rt.session.Unload(context.Background()) {
		rt.log.Info().Msg("conversation reset on exit")
	}
	return nil
}

// watchConfig applies config file edits while the UI runs: the log level and
// display settings change live. Returns nil if the file cannot be watched.
func watchConfig(opts *rootOptions, rt *services, p *tea.Program) *config.Watcher {
	path := opts.configPath
	if path == "" {
		p2, err := config.DefaultPath()
		if err != nil {
			return nil
		}
		path = p2
	}

	w, err := config.NewWatcher(path, configReloadDebounce, rt.log.Logger, func(cfg *config.Config) {
		// Flags still win over the file.
		if err := cfg.ApplyOverrides(config.Overrides{
			BackendURL: opts.backendURL,
			StartPath:  opts.path,
			LogLevel:   opts.logLevel,
		}); err != nil {
			rt.log.Warn().Err(err).Msg("ignoring config change")
			return
		}
		levelChanged, settings := applyConfigChange(cfg)
		if levelChanged {
			rt.log.Info().Str("log_level", cfg.Log.Level).Msg("log level changed")
		}
		if settings != nil {
			p.Send(*settings)
		}
	})
	if err != nil {
		rt.log.Debug().Err(err).Msg("config watcher unavailable")
		return nil
	}
	if err := w.Start(); err != nil {
		rt.log.Debug().Err(err).Str("path", path).Msg("config watcher not started")
		_ = w.Close()
		return nil
	}
	return w
}

// applyConfigChange makes next the active configuration and applies the
// parts that can change while the UI runs. It reports whether the log level
// changed and returns the display settings to send to the UI, or nil when
// they are unchanged.
func applyConfigChange(next *config.Config) (bool, *app.SettingsMsg) {
	prev := config.Global()
	config.SetGlobal(next)

	levelChanged := prev.Log.Level != next.Log.Level
	if levelChanged {
		logging.SetLevel(next.Log.Level)
	}

	if prev.UI.Markdown == next.UI.Markdown && prev.UI.ShowTimestamps == next.UI.ShowTimestamps {
		return levelChanged, nil
	}
	return levelChanged, &app.SettingsMsg{
		Markdown:       next.UI.Markdown,
		ShowTimestamps: next.UI.ShowTimestamps,
	}
}
