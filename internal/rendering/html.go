package rendering

import (
	"embed"
	"html/template"
	"regexp"
	"strings"

	"github.com/jonathan/resume-studio/internal/types"
)

// DefaultCommitURL is where the editable surface posts field commits
const DefaultCommitURL = "/api/document/fields"

//go:embed templates/resume.html.tmpl
var templateFiles embed.FS

var resumeTemplate = template.Must(template.New("resume.html.tmpl").Funcs(template.FuncMap{
	"field":          newFieldView,
	"avatar":         avatarURL,
	"contactFields":  contactFields,
	"profilePath":    ProfilePath,
	"experiencePath": ExperiencePath,
	"highlightPath":  HighlightPath,
	"educationPath":  EducationPath,
	"skillPath":      SkillPath,
}).ParseFS(templateFiles, "templates/resume.html.tmpl"))

var imageDataURL = regexp.MustCompile(`^data:image/(?:jpeg|png|gif|webp|svg\+xml);base64,[A-Za-z0-9+/=]+$`)

// Options controls how a document is rendered
type Options struct {
	// Editable turns every leaf text field into a focusable region that
	// posts its new value to CommitURL on blur
	Editable  bool
	CommitURL string
}

type pageView struct {
	Doc       *types.ResumeDocument
	Editable  bool
	CommitURL string
	Lang      string
	Dir       string
}

type fieldView struct {
	Editable bool
	Path     string
	Value    string
}

type contactField struct {
	Name  string
	Value string
}

// RenderHTML renders doc as a standalone A4 HTML page. The template id only
// selects a CSS class; Arabic documents are laid out right-to-left.
func RenderHTML(doc *types.ResumeDocument, opts Options) (string, error) {
	if doc == nil {
		return "", &RenderError{Message: "document is required"}
	}
	view := pageView{
		Doc:       doc,
		Editable:  opts.Editable,
		CommitURL: opts.CommitURL,
		Lang:      string(doc.Language),
		Dir:       "ltr",
	}
	if view.CommitURL == "" {
		view.CommitURL = DefaultCommitURL
	}
	if doc.Language.RTL() {
		view.Dir = "rtl"
	}
	if !doc.Template.Valid() {
		view.Doc = doc.Clone()
		view.Doc.Template = types.TemplateModern
	}

	var out strings.Builder
	if err := resumeTemplate.ExecuteTemplate(&out, "resume.html.tmpl", view); err != nil {
		return "", &TemplateError{Message: "failed to execute template", Cause: err}
	}
	return out.String(), nil
}

func newFieldView(editable bool, path, value string) fieldView {
	return fieldView{Editable: editable, Path: path, Value: value}
}

func contactFields(p types.Profile) []contactField {
	return []contactField{
		{Name: "email", Value: p.Email},
		{Name: "phone", Value: p.Phone},
		{Name: "location", Value: p.Location},
		{Name: "linkedin", Value: p.LinkedIn},
		{Name: "website", Value: p.Website},
	}
}

// avatarURL passes only inline image data URLs through to the page
func avatarURL(s string) template.URL {
	if !imageDataURL.MatchString(s) {
		return ""
	}
	return template.URL(s) //nolint:gosec // matched against an image data URL pattern
}
