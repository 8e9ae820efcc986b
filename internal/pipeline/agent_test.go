package pipeline

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/jonathan/resume-studio/internal/ingestion"
	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/normalize"
	"github.com/jonathan/resume-studio/internal/prompts"
	"github.com/jonathan/resume-studio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient answers requests in order with scripted replies
type fakeClient struct {
	replies  []fakeReply
	requests []llm.Request
}

type fakeReply struct {
	text string
	err  error
}

func (f *fakeClient) Complete(_ context.Context, req llm.Request) (string, error) {
	f.requests = append(f.requests, req)
	if len(f.replies) == 0 {
		return "", errors.New("unexpected call")
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r.text, r.err
}

func (f *fakeClient) Model() string { return "fake-model" }
func (f *fakeClient) Close() error  { return nil }

func newTestAgent(client *fakeClient, events *[]ProgressEvent) *Agent {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return NewAgent(client, WithLogger(logger), WithProgress(func(e ProgressEvent) {
		if events != nil {
			*events = append(*events, e)
		}
	}))
}

func TestExtract_TextWithBackfill(t *testing.T) {
	client := &fakeClient{replies: []fakeReply{
		{text: "```json\n" + `{
			"language": "en",
			"profile": {"name": "Jane Doe"},
			"experience": [
				{"company": "Acme", "role": "Dev", "highlights": ["Built API"]},
				{"company": "Globex", "role": "Lead", "highlights": ["a", "b", "c"]}
			],
			"education": [{"school": "MIT", "degree": "BSc", "year": "2015"}],
			"skills": "Go, SQL"
		}` + "\n```"},
		{text: `{"highlights":["Built API","Scaled to 1M users","Mentored 3 engineers"]}`},
	}}
	var events []ProgressEvent
	agent := newTestAgent(client, &events)

	got, err := agent.Extract(context.Background(), ingestion.TextPayload("Jane Doe\nDev at Acme"), ExtractOptions{})
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", got.Profile.Name)
	require.Len(t, got.Experience, 2)
	assert.Equal(t, []string{"Built API", "Scaled to 1M users", "Mentored 3 engineers"}, got.Experience[0].Highlights)
	assert.Equal(t, []string{"a", "b", "c"}, got.Experience[1].Highlights)
	assert.NotEmpty(t, got.Experience[0].ID)
	assert.NotEqual(t, got.Experience[0].ID, got.Experience[1].ID)
	assert.Equal(t, []string{"Go", "SQL"}, got.Skills)

	require.Len(t, client.requests, 2, "one extraction call plus one backfill call")
	first := client.requests[0]
	assert.Equal(t, prompts.Resume(prompts.KeyParserSystem), first.System)
	assert.True(t, first.Structured)
	assert.Nil(t, first.Inline)
	assert.Contains(t, first.Messages[0].Content, "Dev at Acme")
	assert.Contains(t, client.requests[1].Messages[0].Content, "Dev at Acme", "backfill is grounded on the source text")

	var steps []string
	for _, e := range events {
		steps = append(steps, e.Step+":"+e.Category)
	}
	assert.Equal(t, []string{"extract:started", "extract:completed", "backfill:started", "backfill:completed"}, steps)
}

func TestExtract_BackfillFailureKeepsExtraction(t *testing.T) {
	client := &fakeClient{replies: []fakeReply{
		{text: `{"experience":[{"company":"Acme","highlights":["only one"]}]}`},
		{err: &llm.TransportError{StatusCode: 503, Body: "overloaded"}},
	}}
	var events []ProgressEvent

	got, err := newTestAgent(client, &events).Extract(context.Background(), ingestion.TextPayload("resume"), ExtractOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"only one"}, got.Experience[0].Highlights)
	assert.Equal(t, CategoryWarning, events[len(events)-1].Category)
}

func TestExtract_CustomSystemPrompt(t *testing.T) {
	client := &fakeClient{replies: []fakeReply{{text: `{"skills":["Go"]}`}}}

	_, err := newTestAgent(client, nil).Extract(context.Background(), ingestion.TextPayload("resume"), ExtractOptions{SystemPrompt: "Custom parser"})
	require.NoError(t, err)

	assert.Equal(t, "Custom parser", client.requests[0].System)
}

func TestExtract_BinaryPayload(t *testing.T) {
	client := &fakeClient{replies: []fakeReply{{text: `{"skills":["Go"]}`}}}
	payload := &ingestion.Payload{Kind: ingestion.KindBinary, MediaType: "application/pdf", Data: "JVBERi0="}

	got, err := newTestAgent(client, nil).Extract(context.Background(), payload, ExtractOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Go"}, got.Skills)
	require.NotNil(t, client.requests[0].Inline)
	assert.Equal(t, "application/pdf", client.requests[0].Inline.MIMEType)
	assert.Equal(t, "JVBERi0=", client.requests[0].Inline.Data)
}

func TestExtract_ClampsResumeText(t *testing.T) {
	client := &fakeClient{replies: []fakeReply{{text: `{}`}}}
	long := strings.Repeat("x", 50000)

	_, err := newTestAgent(client, nil).Extract(context.Background(), &ingestion.Payload{Kind: ingestion.KindText, Text: long}, ExtractOptions{})
	require.NoError(t, err)

	content := client.requests[0].Messages[0].Content
	assert.Contains(t, content, strings.Repeat("x", 40000)+"...")
	assert.NotContains(t, content, strings.Repeat("x", 40001))
}

func TestExtract_Errors(t *testing.T) {
	t.Run("empty payload sends nothing", func(t *testing.T) {
		client := &fakeClient{}
		_, err := newTestAgent(client, nil).Extract(context.Background(), ingestion.TextPayload("  "), ExtractOptions{})
		assert.ErrorIs(t, err, ErrEmptyPayload)
		assert.Empty(t, client.requests)
	})

	t.Run("authentication", func(t *testing.T) {
		client := &fakeClient{replies: []fakeReply{{err: &llm.AuthenticationError{Provider: llm.ProviderDeepSeek}}}}
		_, err := newTestAgent(client, nil).Extract(context.Background(), ingestion.TextPayload("resume"), ExtractOptions{})
		assert.True(t, llm.IsAuthentication(err))
	})

	t.Run("malformed response", func(t *testing.T) {
		client := &fakeClient{replies: []fakeReply{{text: "I am not JSON"}}}
		got, err := newTestAgent(client, nil).Extract(context.Background(), ingestion.TextPayload("resume"), ExtractOptions{})
		assert.Nil(t, got)

		var malformed *normalize.MalformedResponseError
		require.ErrorAs(t, err, &malformed)
		var stepErr *StepError
		require.ErrorAs(t, err, &stepErr)
		assert.Equal(t, StepExtract, stepErr.Step)
		assert.Len(t, client.requests, 1, "no automatic retry")
	})
}

func sessionDocument() *types.ResumeDocument {
	doc := types.NewResumeDocument()
	doc.Profile = types.Profile{Name: "Jane", Summary: strings.Repeat("s", 5000), Avatar: "data:image/jpeg;base64,SECRET"}
	doc.Experience = []types.ExperienceItem{
		{ID: "exp-1", Company: "Acme", Role: "Dev", Highlights: []string{"one", "two", "three"}},
		{ID: "exp-2", Company: "Globex", Role: "Lead", Highlights: []string{"four"}},
	}
	doc.Education = []types.EducationItem{{ID: "edu-1", School: "MIT"}}
	doc.Skills = []string{"Go"}
	return doc
}

func TestTailor_PreservesIdentityAndBoundsPrompt(t *testing.T) {
	client := &fakeClient{replies: []fakeReply{{text: `{
		"language": "fr",
		"profile": {"summary": "Développeuse Go"},
		"experience": [
			{"company": "Acme", "role": "Dev", "highlights": ["un", "deux", "trois"]},
			{"company": "Globex", "role": "Lead", "highlights": ["quatre"]}
		],
		"skills": ["Go", "Kubernetes"]
	}`}}}
	doc := sessionDocument()

	got, err := newTestAgent(client, nil).Tailor(context.Background(), doc, strings.Repeat("j", 9000), types.LanguageFrench)
	require.NoError(t, err)

	assert.Equal(t, "exp-1", got.Experience[0].ID)
	assert.Equal(t, "exp-2", got.Experience[1].ID)
	assert.Equal(t, "edu-1", got.Education[0].ID)
	assert.Equal(t, types.LanguageFrench, got.Language)
	assert.Equal(t, doc.Profile.Avatar, got.Profile.Avatar)
	assert.Equal(t, types.LanguageEnglish, doc.Language, "input document untouched")

	req := client.requests[0]
	assert.Equal(t, prompts.Resume(prompts.KeyWriterSystem), req.System)
	content := req.Messages[0].Content
	assert.NotContains(t, content, "SECRET")
	assert.Contains(t, content, strings.Repeat("s", 1200)+"...")
	assert.NotContains(t, content, strings.Repeat("s", 1201))
	assert.Contains(t, content, strings.Repeat("j", 8000)+"...")
	assert.NotContains(t, content, strings.Repeat("j", 8001))
	assert.Contains(t, content, "fr")
}

func TestTailor_KeepsRecordsBeyondPromptCaps(t *testing.T) {
	client := &fakeClient{replies: []fakeReply{{text: `{"experience":[{"company":"Acme","role":"Dev"}]}`}}}
	limits := normalize.DefaultLimits
	limits.Experience = 1
	agent := NewAgent(client, WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))), WithLimits(limits))

	got, err := agent.Tailor(context.Background(), sessionDocument(), "Go engineer", types.LanguageEnglish)
	require.NoError(t, err)

	require.Len(t, got.Experience, 2)
	assert.Equal(t, "exp-1", got.Experience[0].ID)
	assert.Equal(t, "exp-2", got.Experience[1].ID)
	assert.NotContains(t, client.requests[0].Messages[0].Content, "Globex")
}

func TestTailor_EmptyJobDescription(t *testing.T) {
	client := &fakeClient{}

	_, err := newTestAgent(client, nil).Tailor(context.Background(), sessionDocument(), " \n ", types.LanguageEnglish)

	assert.ErrorIs(t, err, ErrEmptyJobDescription)
	assert.Empty(t, client.requests)
}

func TestTailor_TransportError(t *testing.T) {
	client := &fakeClient{replies: []fakeReply{{err: &llm.TransportError{StatusCode: 401, Body: "bad key"}}}}

	got, err := newTestAgent(client, nil).Tailor(context.Background(), sessionDocument(), "Go engineer", "")

	assert.Nil(t, got)
	var transport *llm.TransportError
	require.ErrorAs(t, err, &transport)
	assert.Equal(t, 401, transport.StatusCode)
}

func TestOptimizeExperience(t *testing.T) {
	item := types.ExperienceItem{ID: "exp-1", Company: "Acme", Role: "Dev", Description: "Did things", Highlights: []string{"Did a thing"}}

	t.Run("rewrites", func(t *testing.T) {
		client := &fakeClient{replies: []fakeReply{{text: `{"highlights":["Shipped X, cutting latency 40%"],"description":"Backend lead"}`}}}
		got, err := newTestAgent(client, nil).OptimizeExperience(context.Background(), item)
		require.NoError(t, err)

		assert.Equal(t, "exp-1", got.ID)
		assert.Equal(t, []string{"Shipped X, cutting latency 40%"}, got.Highlights)
		assert.Equal(t, "Backend lead", got.Description)
		assert.Contains(t, client.requests[0].Messages[0].Content, `["Did a thing"]`)
		assert.False(t, client.requests[0].Structured)
	})

	t.Run("empty highlights fall back", func(t *testing.T) {
		client := &fakeClient{replies: []fakeReply{{text: `{"highlights":[]}`}}}
		got, err := newTestAgent(client, nil).OptimizeExperience(context.Background(), item)
		require.NoError(t, err)
		assert.Equal(t, item, got)
	})

	t.Run("failure returns item", func(t *testing.T) {
		client := &fakeClient{replies: []fakeReply{{err: &llm.EmptyResponseError{Provider: llm.ProviderDeepSeek}}}}
		got, err := newTestAgent(client, nil).OptimizeExperience(context.Background(), item)
		assert.Error(t, err)
		assert.Equal(t, item, got)
	})
}
