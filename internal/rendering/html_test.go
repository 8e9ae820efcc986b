package rendering

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/resume-studio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() *types.ResumeDocument {
	doc := types.NewResumeDocument()
	doc.Profile = types.Profile{Name: "Jane <Doe>", Email: "jane@example.com", Summary: "Go engineer"}
	doc.Experience = []types.ExperienceItem{{
		ID: "exp-1", Company: "Acme", Role: "Dev", StartDate: "2020", EndDate: "Present",
		Highlights: []string{"Built API", "Cut costs 30%"},
	}}
	doc.Education = []types.EducationItem{{ID: "edu-1", School: "MIT", Degree: "BSc", Year: "2015"}}
	doc.Skills = []string{"Go", "SQL"}
	return doc
}

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	page, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return page
}

func TestRenderHTML_Static(t *testing.T) {
	html, err := RenderHTML(sampleDocument(), Options{})
	require.NoError(t, err)
	page := parse(t, html)

	assert.Equal(t, "Jane <Doe>", page.Find("h1").Text())
	assert.NotContains(t, html, "<Doe>", "text is escaped")
	assert.Equal(t, 0, page.Find("[contenteditable]").Length())
	assert.Equal(t, 0, page.Find("script").Length())
	assert.Equal(t, 2, page.Find(".experience li").Length())
	assert.Equal(t, "ltr", page.Find("html").AttrOr("dir", ""))
	assert.True(t, page.Find("body").HasClass("tpl-modern"))
}

func TestRenderHTML_Editable(t *testing.T) {
	html, err := RenderHTML(sampleDocument(), Options{Editable: true, CommitURL: "/commit"})
	require.NoError(t, err)
	page := parse(t, html)

	paths := page.Find("[data-field]").Map(func(_ int, s *goquery.Selection) string {
		return s.AttrOr("data-field", "")
	})
	assert.Contains(t, paths, "profile.name")
	assert.Contains(t, paths, "profile.phone", "empty fields stay reachable while editing")
	assert.Contains(t, paths, "experience.exp-1.company")
	assert.Contains(t, paths, "experience.exp-1.highlights.1")
	assert.Contains(t, paths, "education.edu-1.year")
	assert.Contains(t, paths, "skills.0")

	second := page.Find(`[data-field="experience.exp-1.highlights.1"]`)
	assert.Equal(t, "Cut costs 30%", second.AttrOr("data-value", ""))
	assert.Equal(t, "true", second.AttrOr("contenteditable", ""))
	assert.Contains(t, page.Find("script").Text(), "commit")
}

func TestRenderHTML_ArabicIsRTL(t *testing.T) {
	doc := sampleDocument()
	doc.Language = types.LanguageArabic
	doc.Template = types.TemplateSwiss

	html, err := RenderHTML(doc, Options{})
	require.NoError(t, err)
	page := parse(t, html)

	assert.Equal(t, "rtl", page.Find("html").AttrOr("dir", ""))
	assert.Equal(t, "ar", page.Find("html").AttrOr("lang", ""))
	assert.True(t, page.Find("body").HasClass("tpl-swiss"))
}

func TestRenderHTML_UnknownTemplateFallsBack(t *testing.T) {
	doc := sampleDocument()
	doc.Template = "neon"

	html, err := RenderHTML(doc, Options{})
	require.NoError(t, err)

	assert.True(t, parse(t, html).Find("body").HasClass("tpl-modern"))
	assert.Equal(t, types.TemplateID("neon"), doc.Template, "input untouched")
}

func TestRenderHTML_Avatar(t *testing.T) {
	doc := sampleDocument()
	doc.Profile.Avatar = "data:image/jpeg;base64,AAAA"
	html, err := RenderHTML(doc, Options{})
	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,AAAA", parse(t, html).Find("header img").AttrOr("src", ""))

	doc.Profile.Avatar = "javascript:alert(1)"
	html, err = RenderHTML(doc, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, parse(t, html).Find("header img").Length())
}

func TestRenderHTML_NilDocument(t *testing.T) {
	_, err := RenderHTML(nil, Options{})
	var renderErr *RenderError
	assert.ErrorAs(t, err, &renderErr)
}
