package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/sentitag/internal/server"
	"github.com/cognicore/sentitag/pkg/sentitag"
	"github.com/cognicore/sentitag/pkg/sentitag/internalerr"
	"github.com/cognicore/sentitag/pkg/sentitag/lexicon"
	"github.com/cognicore/sentitag/pkg/sentitag/reaction"
	"github.com/cognicore/sentitag/pkg/sentitag/store/sqlite"
)

const (
	chatHTML    = "../../testdata/chat.html"
	chatJSONL   = "../../testdata/chat.jsonl"
	extraLex    = "../../testdata/lexicon.yaml"
	fixtureConf = "../../testdata/config.yaml"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestClassifyArgs(t *testing.T) {
	out, err := execute(t, "", "classify", "He was furious and joyful")
	require.NoError(t, err)
	assert.Equal(t, "happy, angry\n", out)
}

func TestClassifyStdinLines(t *testing.T) {
	out, err := execute(t, "so happy\n\nthe meeting is at noon\n", "classify")
	require.NoError(t, err)
	assert.Equal(t, "happy\nneutral\n", out)
}

func TestClassifyJSON(t *testing.T) {
	out, err := execute(t, "", "classify", "--json", "--explain", "Happy, joyful, and a bit tired")
	require.NoError(t, err)

	var got classifyOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Happy, joyful, and a bit tired", got.Text)
	assert.Equal(t, []lexicon.Category{lexicon.Happy, lexicon.Exhausted}, got.Result.Categories())
	require.Len(t, got.Matches, 2)
	assert.Equal(t, []string{"happy", "joyful"}, got.Matches[0].Phrases)
}

func TestClassifyExplain(t *testing.T) {
	out, err := execute(t, "", "classify", "--explain", "so happy and joyful")
	require.NoError(t, err)
	assert.Equal(t, "happy\n  happy: happy, joyful\n", out)
}

func TestClassifyCustomLexicon(t *testing.T) {
	out, err := execute(t, "", "--lexicon", extraLex, "classify", "yippee, so happy")
	require.NoError(t, err)
	assert.Equal(t, "excited\n", out, "--lexicon alone replaces the built-in lexicon")

	out, err = execute(t, "", "--lexicon", extraLex, "--extend", "classify", "yippee, so happy")
	require.NoError(t, err)
	assert.Equal(t, "happy, excited\n", out)
}

func TestClassifyMissingLexicon(t *testing.T) {
	_, err := execute(t, "", "--lexicon", filepath.Join(t.TempDir(), "missing.yaml"), "classify", "hi")
	assert.Error(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, "", "--log-level", "loud", "classify", "hi")
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
}

func TestCategories(t *testing.T) {
	pterm.DisableColor()
	defer pterm.EnableColor()

	out, err := execute(t, "", "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "Category")
	assert.Contains(t, out, "bittersweet")
	assert.Contains(t, out, "15 categories, 261 phrases (6 multi-word)")
}

func TestCategoriesHelpListsBuiltins(t *testing.T) {
	out, err := execute(t, "", "categories", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Built-in categories: sad, happy, teasing,")
	assert.Contains(t, out, "bittersweet")
}

func TestCategoriesJSON(t *testing.T) {
	out, err := execute(t, "", "categories", "--json")
	require.NoError(t, err)

	var got struct {
		Order      []string            `json:"order"`
		Categories map[string][]string `json:"categories"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Order, 15)
	assert.Equal(t, "sad", got.Order[0])
	assert.Contains(t, got.Categories["happy"], "on cloud nine")
}

func TestWatchOnceHTML(t *testing.T) {
	out, err := execute(t, "", "watch", "--once", "--html", chatHTML)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "[3] happy", lines[0])
	assert.Contains(t, lines[1], "reaction happy: https://image.cdn2.seaart.me/")
}

func TestWatchReactionsOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reactions.jsonl")

	_, err := execute(t, "", "watch", "--once", "--html", chatHTML, "--reactions-out", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var r reaction.Reaction
	require.NoError(t, json.Unmarshal(data, &r))
	assert.Equal(t, lexicon.Happy, r.Category)
	assert.Equal(t, 3, r.MessageIndex)
	assert.Equal(t, reaction.DefaultImageURL, r.ImageURL)
}

func TestWatchOnceJSONLWithDB(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	out, err := execute(t, "", "watch", "--once", "--json", "--jsonl", chatJSONL, "--db", dbPath)
	require.NoError(t, err)

	var ev eventOutput
	require.NoError(t, json.Unmarshal([]byte(out), &ev))
	assert.Equal(t, 3, ev.Index)
	assert.Equal(t, []lexicon.Category{lexicon.Grateful}, ev.Result.Categories())
	assert.Empty(t, ev.Reactions, "only happy reacts by default")
	require.NotEmpty(t, ev.RecordID)

	ctx := context.Background()
	st, err := sqlite.Open(ctx, dbPath)
	require.NoError(t, err)
	defer st.Close()

	rec, err := st.Get(ctx, ev.RecordID)
	require.NoError(t, err)
	assert.Equal(t, "Thank you, I'm so grateful.", rec.Text)
	assert.Equal(t, []lexicon.Category{lexicon.Grateful}, rec.Categories)
}

func TestWatchOnceFromConfig(t *testing.T) {
	out, err := execute(t, "", "--config", fixtureConf, "watch", "--once", "--json")
	require.NoError(t, err)

	var ev eventOutput
	require.NoError(t, json.Unmarshal([]byte(out), &ev))
	assert.Equal(t, 3, ev.Index)
	require.Len(t, ev.Reactions, 1)
	assert.Equal(t, lexicon.Happy, ev.Reactions[0].Category)
}

func TestWatchRoleFilter(t *testing.T) {
	out, err := execute(t, "", "watch", "--once", "--jsonl", chatJSONL, "--role", "user")
	require.NoError(t, err)
	assert.Equal(t, "[2] neutral\n", out)
}

func TestWatchRequiresSource(t *testing.T) {
	_, err := execute(t, "", "watch", "--once")
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
}

func TestWatchRejectsTwoSources(t *testing.T) {
	_, err := execute(t, "", "watch", "--once", "--html", chatHTML, "--jsonl", chatJSONL)
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
}

func TestClassifyRecordsAndHistory(t *testing.T) {
	pterm.DisableColor()
	defer pterm.EnableColor()

	dbPath := filepath.Join(t.TempDir(), "history.db")

	_, err := execute(t, "so happy\nfurious and joyful\nthe meeting is at noon\n", "classify", "--db", dbPath)
	require.NoError(t, err)

	out, err := execute(t, "", "history", "--db", dbPath, "--json")
	require.NoError(t, err)

	var got historyOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.EqualValues(t, 3, got.Total)
	assert.EqualValues(t, 1, got.Neutral)
	assert.EqualValues(t, 2, got.ByCategory[lexicon.Happy])
	assert.EqualValues(t, 1, got.ByCategory[lexicon.Angry])

	require.Len(t, got.Records, 3)
	assert.Equal(t, "the meeting is at noon", got.Records[0].Text, "newest first")
	assert.Equal(t, 3, got.Records[0].MessageIndex)
	assert.Equal(t, "stdin", got.Records[0].Source)

	out, err = execute(t, "", "history", "--db", dbPath, "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "the meeting is at noon")
	assert.NotContains(t, out, "furious and joyful")
	assert.Contains(t, out, "3 records, 1 neutral: happy=2 angry=1")
}

func TestHistoryRequiresDB(t *testing.T) {
	_, err := execute(t, "", "history")
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

func TestServeUntilDoneStopsOnCancel(t *testing.T) {
	srv := server.NewServer(server.Options{Classifier: sentitag.New(nil)})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serveUntilDone(ctx, srv, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serveUntilDone did not return after cancel")
	}
}
