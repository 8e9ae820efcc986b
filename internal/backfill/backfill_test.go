package backfill

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedClient answers each call with the next scripted reply
type scriptedClient struct {
	replies  []reply
	requests []llm.Request
}

type reply struct {
	text string
	err  error
}

func (c *scriptedClient) Complete(_ context.Context, req llm.Request) (string, error) {
	c.requests = append(c.requests, req)
	if len(c.replies) == 0 {
		return "", errors.New("no scripted reply")
	}
	r := c.replies[0]
	c.replies = c.replies[1:]
	return r.text, r.err
}

func (c *scriptedClient) Model() string { return "scripted" }
func (c *scriptedClient) Close() error  { return nil }

func quietLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestRun_SkipsRecordsWithEnoughHighlights(t *testing.T) {
	client := &scriptedClient{}
	items := []types.ExperienceItem{{ID: "a", Highlights: []string{"1", "2", "3"}}}

	out, report := New(client).Run(context.Background(), items, "source")

	assert.Equal(t, items, out)
	assert.Empty(t, client.requests)
	assert.Equal(t, Report{}, report)
}

func TestRun_FillsSparseRecords(t *testing.T) {
	client := &scriptedClient{replies: []reply{
		{text: "```json\n{\"highlights\":[\"Led migration\",\"Cut costs 20%\",\"Mentored 4 engineers\"]}\n```"},
	}}
	items := []types.ExperienceItem{{ID: "a", Role: "SRE", Company: "Acme", Location: "Berlin", Highlights: []string{"On call"}}}

	out, report := New(client).Run(context.Background(), items, "raw resume text")

	require.Len(t, out, 1)
	assert.Equal(t, []string{"Led migration", "Cut costs 20%", "Mentored 4 engineers"}, out[0].Highlights)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, Report{Attempted: 1, Filled: 1}, report)
	assert.Equal(t, []string{"On call"}, items[0].Highlights, "input must not be modified")

	require.Len(t, client.requests, 1)
	prompt := client.requests[0].Messages[0].Content
	assert.Contains(t, prompt, "SRE")
	assert.Contains(t, prompt, "Acme")
	assert.Contains(t, prompt, "Berlin")
	assert.Contains(t, prompt, `["On call"]`)
	assert.Contains(t, prompt, "raw resume text")
	assert.NotEmpty(t, client.requests[0].System)
}

func TestRun_CapsAtSix(t *testing.T) {
	client := &scriptedClient{replies: []reply{{text: `{"highlights":"1;2;3;4;5;6;7;8"}`}}}

	out, _ := New(client).Run(context.Background(), []types.ExperienceItem{{ID: "a"}}, "")

	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, out[0].Highlights)
}

func TestRun_FailureIsIsolatedPerRecord(t *testing.T) {
	var logs bytes.Buffer
	client := &scriptedClient{replies: []reply{
		{err: &llm.TransportError{StatusCode: 500, Body: "boom"}},
		{text: "definitely not json"},
		{text: `{"highlights":["x","y","z"]}`},
	}}
	items := []types.ExperienceItem{
		{ID: "transport", Highlights: []string{"keep me"}},
		{ID: "malformed", Highlights: []string{"keep me too", "and me"}},
		{ID: "ok"},
	}

	out, report := New(client, WithLogger(quietLogger(&logs))).Run(context.Background(), items, "")

	require.Len(t, out, 3)
	assert.Equal(t, []string{"keep me"}, out[0].Highlights)
	assert.Equal(t, []string{"keep me too", "and me"}, out[1].Highlights)
	assert.Equal(t, []string{"x", "y", "z"}, out[2].Highlights)
	assert.Equal(t, Report{Attempted: 3, Filled: 1, Failed: 2}, report)
	assert.Len(t, client.requests, 3, "calls are issued one per record")
	assert.Contains(t, logs.String(), "experience_id=transport")
	assert.Contains(t, logs.String(), "experience_id=malformed")
}

func TestRun_NeverShrinksExistingHighlights(t *testing.T) {
	client := &scriptedClient{replies: []reply{{text: `{"highlights":[]}`}, {text: `{"highlights":["only one"]}`}}}
	items := []types.ExperienceItem{
		{ID: "a", Highlights: []string{"one", "two"}},
		{ID: "b", Highlights: []string{"first", "second"}},
	}

	out, report := New(client, WithLogger(quietLogger(&bytes.Buffer{}))).Run(context.Background(), items, "")

	assert.Equal(t, items, out)
	assert.Equal(t, 0, report.Filled)
}

func TestRun_ShortReplyKeepsOriginal(t *testing.T) {
	client := &scriptedClient{replies: []reply{{text: `{"highlights":["a","b"]}`}}}
	items := []types.ExperienceItem{{ID: "a", Highlights: []string{"only"}}}

	out, report := New(client, WithLogger(quietLogger(&bytes.Buffer{}))).Run(context.Background(), items, "")

	assert.Equal(t, []string{"only"}, out[0].Highlights)
	assert.Equal(t, Report{Attempted: 1}, report)
}

func TestRun_ExcerptBounded(t *testing.T) {
	client := &scriptedClient{replies: []reply{{text: `{"highlights":["a","b","c"]}`}}}
	source := strings.Repeat("é", 2500)

	New(client).Run(context.Background(), []types.ExperienceItem{{ID: "a"}}, source)

	prompt := client.requests[0].Messages[0].Content
	assert.Contains(t, prompt, strings.Repeat("é", 2000))
	assert.NotContains(t, prompt, strings.Repeat("é", 2001))
}

func TestWithThreshold(t *testing.T) {
	client := &scriptedClient{}
	items := []types.ExperienceItem{{ID: "a", Highlights: []string{"1"}}}

	New(client, WithThreshold(1)).Run(context.Background(), items, "")

	assert.Empty(t, client.requests)
}
