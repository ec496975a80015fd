// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jeranaias/recochat/internal/stats"
)

func newStatsCommand(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print usage statistics",
		Long:  `Fetch one statistics snapshot from the backend and print it.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newServices(opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), rt.cfg.Backend.RequestTimeout())
			defer cancel()
			return printStats(ctx, rt.client, cmd.OutOrStdout(), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the snapshot as JSON")
	return cmd
}

// printStats fetches and prints one snapshot.
func printStats(ctx context.Context, f statsFetcher, out io.Writer, asJSON bool) error {
	snap, err := f.Stats(ctx)
	if asJSON {
		if err != nil {
			if werr := NewJSONErrorResponse("stats", err).Write(out); werr != nil {
				return werr
			}
			return err
		}
		return NewJSONResponse("stats", snap).Write(out)
	}
	if err != nil {
		return fmt.Errorf("fetch statistics: %w", err)
	}
	writeStats(out, *snap)
	return nil
}

// writeStats prints the same figures as the statistics view.
func writeStats(out io.Writer, s stats.Snapshot) {
	fmt.Fprintln(out, TitleStyle.Render("📊 System Statistics"))
	fmt.Fprintln(out, renderField("Total Chats", strconv.Itoa(s.TotalChats)))
	fmt.Fprintln(out, renderField("Chats with Feedback", strconv.Itoa(s.ChatsWithFeedback)))
	fmt.Fprintln(out, renderField("Positive Feedback", s.FormatPositive()))
	fmt.Fprintln(out, renderField("Average Duration", s.FormatAverageMinutes()))
	fmt.Fprintln(out, renderField("Feedback Response Rate", s.FormatResponseRate()))
	fmt.Fprintln(out, renderField("Average Chat Time", s.FormatChatTime()))
}
