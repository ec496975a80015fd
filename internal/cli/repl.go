// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/recochat/internal/config"
	"github.com/jeranaias/recochat/internal/model"
	"github.com/jeranaias/recochat/internal/session"
	"github.com/jeranaias/recochat/internal/stats"
	"github.com/jeranaias/recochat/internal/util"
)

func newReplCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Chat in line mode",
		Long: `Chat with the assistant one line at a time, for terminals without
full-screen support.

Commands:
  /good, /bad   rate the latest recommendation
  /good N       rate recommendation #N (also /bad N)
  /new          start a new chat
  /stats        show usage statistics
  /help         list commands
  /quit         exit (Ctrl+D also works)

Any other line is sent to the assistant. Start a line with // to send
text that begins with /.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRepl(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}
}

// =============================================================================
// INPUT HISTORY
// =============================================================================

// lineReader wraps liner with persistent history.
type lineReader struct {
	line        *liner.State
	historyFile string
}

func newLineReader() *lineReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	r := &lineReader{line: line, historyFile: filepath.Join(dir, "repl_history")}
	if f, err := os.Open(r.historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	return r
}

// Read prompts for one line and appends non-blank input to history.
func (r *lineReader) Read(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history with owner-only permissions and restores the terminal.
func (r *lineReader) Close() {
	var buf bytes.Buffer
	if _, err := r.line.WriteHistory(&buf); err == nil {
		_ = util.AtomicWriteFile(r.historyFile, buf.Bytes(), 0o600)
	}
	r.line.Close()
}

// =============================================================================
// REPL
// =============================================================================

// statsFetcher retrieves the statistics snapshot.
type statsFetcher interface {
	Stats(ctx context.Context) (*stats.Snapshot, error)
}

// repl interprets one line at a time against a session.
type repl struct {
	session *session.Manager
	stats   statsFetcher
	out     io.Writer
	// width wraps replies; 0 leaves them unwrapped.
	width int
}

func runRepl(ctx context.Context, opts *rootOptions, out io.Writer) error {
	rt, err := newServices(opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	r := &repl{session: rt.session, stats: rt.client, out: out}
	if IsStdoutTTY() {
		r.width = GetTerminalWidth()
	}
	reader := newLineReader()
	defer reader.Close()

	fmt.Fprintln(out, TitleStyle.Render("Chat Bot"))
	fmt.Fprintln(out, DimStyle.Render("Backend "+rt.cfg.Backend.URL+". Type /help for commands."))

	for {
		line, err := reader.Read(PromptStyle.Render("you") + " > ")
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			// io.EOF on Ctrl+D
			break
		}
		if r.handle(ctx, line) {
			break
		}
	}

	if rt.session.Unload(context.Background()) {
		rt.log.Info().Msg("conversation reset on exit")
	}
	return nil
}

// handle processes one input line. It returns true when the user quits.
// Lines that are not a known command are sent as chat; a leading "//"
// sends the rest of the line starting with "/".
func (r *repl) handle(ctx context.Context, line string) bool {
	text := norm.NFC.String(strings.TrimSpace(line))
	if text == "" {
		return false
	}

	if strings.HasPrefix(text, "//") {
		r.send(ctx, text[1:])
		return false
	}
	if !strings.HasPrefix(text, "/") {
		r.send(ctx, text)
		return false
	}

	fields := strings.Fields(text)
	args := fields[1:]
	switch strings.ToLower(fields[0]) {
	case "/quit", "/q", "/exit":
		return true
	case "/new":
		r.newChat(ctx)
	case "/good", "/+":
		r.rate(ctx, model.FeedbackPositive, args)
	case "/bad", "/-":
		r.rate(ctx, model.FeedbackNegative, args)
	case "/stats":
		r.showStats(ctx)
	case "/help", "/h":
		r.help()
	default:
		r.send(ctx, text)
	}
	return false
}

func (r *repl) send(ctx context.Context, text string) {
	reply, ok := r.session.Send(ctx, text)
	if !ok {
		return
	}

	prefix := AssistantStyle.Render("assistant") + " > "
	content := reply.Content
	if r.width > 0 {
		content = wordwrap.String(content, max(r.width-lipgloss.Width(prefix), MinTerminalWidth/2))
	}
	fmt.Fprintln(r.out, prefix+content)

	if reply.IsRecommendation && !reply.IsError {
		// The reply is the newest message, so its number is the length.
		tag := fmt.Sprintf("[recommendation #%d]", r.session.Len())
		fmt.Fprintln(r.out, RecommendationStyle.Render(tag)+" "+DimStyle.Render("rate it with /good or /bad"))
	}
}

func (r *repl) newChat(ctx context.Context) {
	r.session.Reset()
	// Failure is logged by the session.
	_ = r.session.NotifyReset(ctx)
	fmt.Fprintln(r.out, SuccessStyle.Render("Started a new chat."))
}

// rate applies feedback to the recommendation numbered args[0], or to the
// most recent one when no number is given.
func (r *repl) rate(ctx context.Context, fb model.Feedback, args []string) {
	var err error
	if len(args) > 0 {
		n, convErr := strconv.Atoi(args[0])
		if convErr != nil || n < 1 {
			fmt.Fprintln(r.out, ErrorStyle.Render("Usage: /good [n] or /bad [n]"))
			return
		}
		_, err = r.session.FeedbackAt(n-1, fb)
	} else {
		msg, ok := r.session.LastRecommendation()
		if !ok {
			fmt.Fprintln(r.out, DimStyle.Render("No recommendation to rate yet."))
			return
		}
		err = r.session.SetFeedback(msg.ID, fb)
	}
	if err != nil {
		fmt.Fprintln(r.out, ErrorStyle.Render("Feedback not recorded: "+err.Error()))
		return
	}
	_ = r.session.NotifyFeedback(ctx, fb)

	label := "👍"
	if fb == model.FeedbackNegative {
		label = "👎"
	}
	fmt.Fprintln(r.out, SuccessStyle.Render("Feedback recorded: "+label))
}

func (r *repl) showStats(ctx context.Context) {
	snap, err := r.stats.Stats(ctx)
	if err != nil {
		fmt.Fprintln(r.out, ErrorStyle.Render("Statistics unavailable: "+err.Error()))
		return
	}
	writeStats(r.out, *snap)
}

func (r *repl) help() {
	lines := []string{
		"/good, /bad   rate the latest recommendation",
		"/good N       rate recommendation #N",
		"//text        send text starting with /",
		"/new          start a new chat",
		"/stats        show usage statistics",
		"/quit         exit",
	}
	for _, l := range lines {
		fmt.Fprintln(r.out, DimStyle.Render(l))
	}
}
