// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/recochat/internal/backend"
	"github.com/jeranaias/recochat/internal/config"
	"github.com/jeranaias/recochat/internal/journal"
	"github.com/jeranaias/recochat/internal/model"
	"github.com/jeranaias/recochat/internal/session"
	"github.com/jeranaias/recochat/internal/stats"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// isolate points HOME and the working directory at a temp dir so no real
// config, .env or journal is read.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(home))
	t.Setenv("PWD", home)
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return home
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func statsServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != backend.PathLogs {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

const statsBody = `{"total_chats":10,"chats_with_feedback":4,"positive_feedback_percent":75,"avg_conversation_duration_sec":125}`

// =============================================================================
// STATS COMMAND TESTS
// =============================================================================

func TestStatsCommand(t *testing.T) {
	isolate(t)
	srv := statsServer(t, http.StatusOK, statsBody)

	out, err := execute(t, "stats", "--backend", srv.URL)
	require.NoError(t, err)

	for _, want := range []string{"Total Chats", "10", "75%", "2.1 min", "40%", "2:05 minutes"} {
		assert.Contains(t, out, want)
	}
}

func TestStatsCommandJSON(t *testing.T) {
	isolate(t)
	srv := statsServer(t, http.StatusOK, statsBody)

	out, err := execute(t, "stats", "--json", "--backend", srv.URL)
	require.NoError(t, err)

	var resp struct {
		Success bool           `json:"success"`
		Data    stats.Snapshot `json:"data"`
		Command string         `json:"command"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "stats", resp.Command)
	assert.Equal(t, 10, resp.Data.TotalChats)
	assert.Equal(t, 125.0, resp.Data.AvgConversationDurationSec)
}

func TestStatsCommandFailure(t *testing.T) {
	isolate(t)
	srv := statsServer(t, http.StatusInternalServerError, `{}`)

	_, err := execute(t, "stats", "--backend", srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, backend.ErrStatus))

	out, err := execute(t, "stats", "--json", "--backend", srv.URL)
	require.Error(t, err)
	assert.Contains(t, out, `"success": false`)
}

// =============================================================================
// CONFIG COMMAND TESTS
// =============================================================================

func TestConfigPath(t *testing.T) {
	home := isolate(t)

	out, err := execute(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".recochat", "config.toml"), strings.TrimSpace(out))

	out, err = execute(t, "config", "path", "--config", "/tmp/other.toml")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.toml", strings.TrimSpace(out))
}

func TestConfigInitAndShow(t *testing.T) {
	isolate(t)

	_, err := execute(t, "config", "init")
	require.NoError(t, err)

	_, err = execute(t, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "config", "init", "--force")
	require.NoError(t, err)

	out, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, `url = "http://127.0.0.1:8000"`)

	out, err = execute(t, "config", "show", "--backend", "http://example.com:9000")
	require.NoError(t, err)
	assert.Contains(t, out, `url = "http://example.com:9000"`)
}

func TestInvalidFlagRejected(t *testing.T) {
	isolate(t)

	_, err := execute(t, "config", "show", "--path", "dashboard")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid flags")

	_, err = execute(t, "config", "show", "--log-level", "loud")
	require.Error(t, err)
}

func TestApplyConfigChange(t *testing.T) {
	prevGlobal := config.Global()
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		config.SetGlobal(prevGlobal)
		zerolog.SetGlobalLevel(prevLevel)
	})

	base := config.Default()
	config.SetGlobal(base)

	same := *base
	changed, settings := applyConfigChange(&same)
	assert.False(t, changed)
	assert.Nil(t, settings)
	assert.Same(t, &same, config.Global())

	edited := same
	edited.Log.Level = "debug"
	edited.UI.ShowTimestamps = !same.UI.ShowTimestamps
	changed, settings = applyConfigChange(&edited)
	assert.True(t, changed)
	require.NotNil(t, settings)
	assert.Equal(t, edited.UI.ShowTimestamps, settings.ShowTimestamps)
	assert.Equal(t, edited.UI.Markdown, settings.Markdown)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

// =============================================================================
// JOURNAL COMMAND TESTS
// =============================================================================

func TestJournalCommand(t *testing.T) {
	home := isolate(t)

	out, err := execute(t, "journal")
	require.NoError(t, err)
	assert.Contains(t, out, "No journal at")

	j, err := journal.Open(filepath.Join(home, ".recochat", "journal.db"))
	require.NoError(t, err)
	msg := model.NewAssistantMessage("Try the X200", true)
	require.NoError(t, j.RecordMessage(context.Background(), "conv-1", msg))
	require.NoError(t, j.RecordFeedback(context.Background(), "conv-1", msg.ID, model.FeedbackPositive))
	require.NoError(t, j.Close())

	out, err = execute(t, "journal", "--limit", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Try the X200")
	assert.Contains(t, out, "[rec]")
	assert.Contains(t, out, msg.ID+" -> positive")
}

// =============================================================================
// ROOT AND VERSION TESTS
// =============================================================================

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "recochat "+Version)
}

func TestRootNeedsTerminal(t *testing.T) {
	if CanRunTUI() {
		t.Skip("running in a terminal")
	}
	isolate(t)

	_, err := execute(t)
	assert.ErrorIs(t, err, ErrNoTerminal)
}

func TestUnknownArgsRejected(t *testing.T) {
	_, err := execute(t, "stats", "extra")
	assert.Error(t, err)
}

// =============================================================================
// REPL TESTS
// =============================================================================

type fakeBackend struct {
	recommend bool
	chatErr   error
	feedback  []model.Feedback
	resets    int
}

func (f *fakeBackend) Chat(_ context.Context, text string) (*backend.ChatReply, error) {
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	return &backend.ChatReply{Response: "re: " + text, IsRecommendation: f.recommend}, nil
}

func (f *fakeBackend) SubmitFeedback(_ context.Context, fb model.Feedback) error {
	f.feedback = append(f.feedback, fb)
	return nil
}

func (f *fakeBackend) NewChat(context.Context) error {
	f.resets++
	return nil
}

func (f *fakeBackend) Stats(context.Context) (*stats.Snapshot, error) {
	return &stats.Snapshot{TotalChats: 3, ChatsWithFeedback: 3, PositiveFeedbackPercent: 100}, nil
}

func newTestRepl(fb *fakeBackend) (*repl, *bytes.Buffer) {
	var buf bytes.Buffer
	return &repl{
		session: session.NewManager(fb, session.DefaultConfig()),
		stats:   fb,
		out:     &buf,
	}, &buf
}

func TestReplSend(t *testing.T) {
	fb := &fakeBackend{recommend: true}
	r, out := newTestRepl(fb)

	assert.False(t, r.handle(context.Background(), "  recommend a laptop "))
	assert.Contains(t, out.String(), "re: recommend a laptop")
	assert.Contains(t, out.String(), "[recommendation #2]")
	assert.Equal(t, 2, r.session.Len())
}

func TestReplBlankIsNoop(t *testing.T) {
	r, out := newTestRepl(&fakeBackend{})

	assert.False(t, r.handle(context.Background(), "   "))
	assert.Empty(t, out.String())
	assert.True(t, r.session.IsEmpty())
}

func TestReplSendFailure(t *testing.T) {
	r, out := newTestRepl(&fakeBackend{chatErr: errors.New("down")})

	r.handle(context.Background(), "hello")
	assert.Contains(t, out.String(), session.ErrorReplyText)
	assert.NotContains(t, out.String(), "[recommendation")
}

func TestReplRating(t *testing.T) {
	fb := &fakeBackend{recommend: true}
	r, out := newTestRepl(fb)
	ctx := context.Background()

	r.handle(ctx, "/good")
	assert.Contains(t, out.String(), "No recommendation to rate yet.")
	assert.Empty(t, fb.feedback)

	r.handle(ctx, "recommend a laptop")
	r.handle(ctx, "/good")
	r.handle(ctx, "/BAD")

	assert.Equal(t, []model.Feedback{model.FeedbackPositive, model.FeedbackNegative}, fb.feedback)
	assert.Equal(t, model.FeedbackNegative, r.session.Messages()[1].Feedback)
	assert.Contains(t, out.String(), "Feedback recorded: 👎")
}

func TestReplPlainReplyNotRatable(t *testing.T) {
	fb := &fakeBackend{recommend: false}
	r, out := newTestRepl(fb)

	r.handle(context.Background(), "hello")
	r.handle(context.Background(), "/good")
	assert.Contains(t, out.String(), "No recommendation to rate yet.")
	assert.Empty(t, fb.feedback)
}

func TestReplCommands(t *testing.T) {
	fb := &fakeBackend{}
	r, out := newTestRepl(fb)
	ctx := context.Background()

	r.handle(ctx, "hello")
	r.handle(ctx, "/new")
	assert.True(t, r.session.IsEmpty())
	assert.Equal(t, 1, fb.resets)

	r.handle(ctx, "/stats")
	assert.Contains(t, out.String(), "100%")
	assert.Contains(t, out.String(), "Feedback Response Rate")

	r.handle(ctx, "/nope")
	assert.Contains(t, out.String(), "re: /nope")
	assert.Equal(t, 2, r.session.Len())

	assert.True(t, r.handle(ctx, "/quit"))
	assert.True(t, r.handle(ctx, "/q"))
}

func TestReplSlashTextIsChat(t *testing.T) {
	fb := &fakeBackend{}
	r, out := newTestRepl(fb)
	ctx := context.Background()

	r.handle(ctx, "/r/laptops picks?")
	assert.Contains(t, out.String(), "re: /r/laptops picks?")

	r.handle(ctx, "//new")
	assert.Contains(t, out.String(), "re: /new")
	assert.Equal(t, 0, fb.resets)
	assert.Equal(t, 4, r.session.Len())
}

func TestReplRateByNumber(t *testing.T) {
	fb := &fakeBackend{recommend: true}
	r, out := newTestRepl(fb)
	ctx := context.Background()

	r.handle(ctx, "recommend a laptop")
	r.handle(ctx, "recommend a phone")

	r.handle(ctx, "/good 2")
	assert.Equal(t, model.FeedbackPositive, r.session.Messages()[1].Feedback)
	assert.Empty(t, r.session.Messages()[3].Feedback)

	r.handle(ctx, "/bad 1")
	assert.Contains(t, out.String(), "Feedback not recorded")
	assert.Empty(t, r.session.Messages()[0].Feedback)

	r.handle(ctx, "/good x")
	assert.Contains(t, out.String(), "Usage: /good [n]")

	assert.Equal(t, []model.Feedback{model.FeedbackPositive}, fb.feedback)
}

func TestReplWrapsReplies(t *testing.T) {
	r, out := newTestRepl(&fakeBackend{})
	r.width = 40

	r.handle(context.Background(), strings.Repeat("tell me about laptops ", 8))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Greater(t, len(lines), 1)
	for _, line := range lines {
		assert.LessOrEqual(t, lipgloss.Width(line), 40, line)
	}
}
