package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseObject(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantKey string
	}{
		{name: "plain object", input: `{"skills":["Go"]}`, wantKey: "skills"},
		{name: "surrounding whitespace", input: "\n  {\"skills\":[]}  \n", wantKey: "skills"},
		{name: "json fence", input: "```json\n{\"profile\":{}}\n```", wantKey: "profile"},
		{name: "bare fence", input: "```\n{\"education\":[]}\n```", wantKey: "education"},
		{name: "prose around fence", input: "Here you go:\n```json\n{\"language\":\"en\"}\n```\nThanks!", wantKey: "language"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := ParseObject(tt.input)
			require.NoError(t, err)
			assert.Contains(t, obj, tt.wantKey)
		})
	}
}

func TestParseObject_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "prose", input: "I could not parse this resume."},
		{name: "empty", input: ""},
		{name: "broken fence", input: "```json\n{\"skills\": [\n```"},
		{name: "array root", input: `["Go","Rust"]`},
		{name: "string root", input: `"hello"`},
		{name: "trailing garbage", input: `{"skills":[]} and more`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := ParseObject(tt.input)
			assert.Nil(t, obj)

			var malformed *MalformedResponseError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, tt.input, malformed.Raw)
			assert.Contains(t, err.Error(), "invalid JSON response")
		})
	}
}

func TestParseObject_FencedEqualsUnwrapped(t *testing.T) {
	body := `{"language":"fr","skills":"Go, Rust","experience":[{"company":"Acme","role":"Dev","highlights":"a; b; c"}]}`

	useIDs(t, "fixed", "fixed")

	plain, err := Extract(body)
	require.NoError(t, err)
	useIDs(t, "fixed", "fixed")
	fenced, err := Extract("```json\n" + body + "\n```")
	require.NoError(t, err)

	assert.Equal(t, plain, fenced)
}

func TestParseObject_NumbersKeepPrecision(t *testing.T) {
	obj, err := ParseObject(`{"year": 2021}`)
	require.NoError(t, err)
	assert.Equal(t, "2021", Text(obj["year"]))
}

func TestMarshal_NoHTMLEscaping(t *testing.T) {
	out, err := Marshal(map[string]string{"role": "R&D <lead>"})
	require.NoError(t, err)
	assert.Equal(t, `{"role":"R&D <lead>"}`, out)
}
