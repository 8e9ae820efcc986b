package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/resume-studio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"type": "object",
	"required": ["name"],
	"properties": {"name": {"type": "string"}, "age": {"type": "integer"}}
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateJSON(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.json", testSchema)

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateJSON(schemaPath, writeFile(t, dir, "ok.json", `{"name":"Jane","age":30}`)))
	})

	t.Run("missing field", func(t *testing.T) {
		err := ValidateJSON(schemaPath, writeFile(t, dir, "missing.json", `{"age":30}`))
		validationErr, ok := err.(*ValidationError)
		require.True(t, ok, "error should be ValidationError type")
		assert.Equal(t, "(root)", validationErr.Errors[0].Field)
	})

	t.Run("wrong type", func(t *testing.T) {
		err := ValidateJSON(schemaPath, writeFile(t, dir, "type.json", `{"name":"Jane","age":"old"}`))
		validationErr, ok := err.(*ValidationError)
		require.True(t, ok, "error should be ValidationError type")
		assert.Equal(t, "age", validationErr.Errors[0].Field)
	})

	t.Run("missing files", func(t *testing.T) {
		assert.ErrorContains(t, ValidateJSON(filepath.Join(dir, "nope.json"), schemaPath), "not found")
		assert.ErrorContains(t, ValidateJSON(schemaPath, filepath.Join(dir, "nope.json")), "not found")
	})
}

func TestValidateJSONString(t *testing.T) {
	assert.NoError(t, ValidateJSONString(testSchema, `{"name":"x"}`))

	err := ValidateJSONString(testSchema, `{}`)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "validation failed")

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, ValidateJSONString(`{ invalid`, `{}`), &loadErr)
}

func TestResumeDocumentSchema_IsValidJSON(t *testing.T) {
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(ResumeDocumentSchema), &v))
	assert.Equal(t, "ResumeDocument", v["title"])
}

func TestResumeDocumentSchema_EnumsMatchTypes(t *testing.T) {
	var schema struct {
		Properties struct {
			Language struct {
				Enum []string `json:"enum"`
			} `json:"language"`
			Template struct {
				Enum []string `json:"enum"`
			} `json:"template"`
		} `json:"properties"`
	}
	require.NoError(t, json.Unmarshal([]byte(ResumeDocumentSchema), &schema))

	var langs, templates []string
	for _, l := range types.SupportedLanguages {
		langs = append(langs, string(l))
	}
	for _, tpl := range types.Templates {
		templates = append(templates, string(tpl))
	}
	assert.Equal(t, langs, schema.Properties.Language.Enum)
	assert.Equal(t, templates, schema.Properties.Template.Enum)
}

func TestValidateDocument_AcceptsMarshalledDocument(t *testing.T) {
	doc := types.NewResumeDocument()
	doc.Profile.Name = "Jane"
	doc.Experience = []types.ExperienceItem{{ID: "exp-1", Company: "Acme", Highlights: []string{"Built"}}}
	doc.Education = []types.EducationItem{{ID: "edu-1", School: "MIT"}}
	doc.Skills = []string{"Go"}

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	assert.NoError(t, ValidateDocument(data))
}

func TestDecodeDocument(t *testing.T) {
	t.Run("defaults language and template", func(t *testing.T) {
		doc, err := DecodeDocument([]byte(`{"profile":{"name":"Jane"},"experience":[],"education":[],"skills":["Go"]}`))
		require.NoError(t, err)
		assert.Equal(t, types.LanguageEnglish, doc.Language)
		assert.Equal(t, types.TemplateModern, doc.Template)
		assert.Equal(t, "Jane", doc.Profile.Name)
	})

	t.Run("schema violation", func(t *testing.T) {
		_, err := DecodeDocument([]byte(`{"profile":{},"experience":[{"company":"Acme"}],"education":[],"skills":[]}`))
		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("unknown template", func(t *testing.T) {
		_, err := DecodeDocument([]byte(`{"template":"neon","profile":{},"experience":[],"education":[],"skills":[]}`))
		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("duplicate ids", func(t *testing.T) {
		_, err := DecodeDocument([]byte(`{"profile":{},"experience":[{"id":"a"},{"id":"a"}],"education":[],"skills":[]}`))
		var docErr *types.DocumentError
		assert.ErrorAs(t, err, &docErr)
	})
}

func TestLoadDocument(t *testing.T) {
	path := writeFile(t, t.TempDir(), "resume.json", `{"language":"zh","profile":{},"experience":[],"education":[],"skills":[]}`)

	doc, err := LoadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, types.LanguageChinese, doc.Language)

	_, err = LoadDocument(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to read document")
}
