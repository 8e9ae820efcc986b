// Package types provides type definitions for structured data used throughout the resume-studio system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
)

// Language is a supported resume locale code
type Language string

// Supported languages
const (
	LanguageEnglish    Language = "en"
	LanguageFrench     Language = "fr"
	LanguagePortuguese Language = "pt"
	LanguageArabic     Language = "ar"
	LanguageChinese    Language = "zh"
)

// SupportedLanguages lists every language a document may carry
var SupportedLanguages = []Language{
	LanguageEnglish, LanguageFrench, LanguagePortuguese, LanguageArabic, LanguageChinese,
}

// Valid reports whether l is one of the supported language codes
func (l Language) Valid() bool {
	for _, s := range SupportedLanguages {
		if l == s {
			return true
		}
	}
	return false
}

// RTL reports whether the language is written right-to-left
func (l Language) RTL() bool {
	return l == LanguageArabic
}

// TemplateID selects a visual layout variant. It has no structural effect on the document.
type TemplateID string

// Template identifiers
const (
	TemplateModern     TemplateID = "modern"
	TemplateClassic    TemplateID = "classic"
	TemplateMinimalist TemplateID = "minimalist"
	TemplateCreative   TemplateID = "creative"
	TemplateExecutive  TemplateID = "executive"
	TemplateAcademic   TemplateID = "academic"
	TemplateBold       TemplateID = "bold"
	TemplateTech       TemplateID = "tech"
	TemplateElegant    TemplateID = "elegant"
	TemplateSwiss      TemplateID = "swiss"
	TemplateGlacial    TemplateID = "glacial"
	TemplateCompact    TemplateID = "compact"
	TemplateCentric    TemplateID = "centric"
)

// Templates lists every known template identifier in display order
var Templates = []TemplateID{
	TemplateModern, TemplateClassic, TemplateMinimalist, TemplateCreative, TemplateExecutive,
	TemplateAcademic, TemplateBold, TemplateTech, TemplateElegant, TemplateSwiss,
	TemplateGlacial, TemplateCompact, TemplateCentric,
}

// Valid reports whether t is a known template identifier
func (t TemplateID) Valid() bool {
	for _, s := range Templates {
		if t == s {
			return true
		}
	}
	return false
}

// Profile is the singleton personal-details record of a resume
type Profile struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Summary  string `json:"summary"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
	Avatar   string `json:"avatar,omitempty"` // data URL
}

// ExperienceItem is one job entry
type ExperienceItem struct {
	ID          string   `json:"id" validate:"required"`
	Company     string   `json:"company"`
	Role        string   `json:"role"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Location    string   `json:"location,omitempty"`
	Description string   `json:"description"`
	Highlights  []string `json:"highlights"`
	Tags        []string `json:"tags,omitempty"`
}

// Clone returns a deep copy of the item
func (e ExperienceItem) Clone() ExperienceItem {
	e.Highlights = cloneStrings(e.Highlights)
	e.Tags = cloneStrings(e.Tags)
	return e
}

// EducationItem is one education entry
type EducationItem struct {
	ID     string `json:"id" validate:"required"`
	School string `json:"school"`
	Degree string `json:"degree"`
	Year   string `json:"year"`
}

// ResumeDocument is the root aggregate of a resume session
type ResumeDocument struct {
	Language   Language         `json:"language" validate:"required,oneof=en fr pt ar zh"`
	Template   TemplateID       `json:"template" validate:"required"`
	Profile    Profile          `json:"profile"`
	Education  []EducationItem  `json:"education" validate:"dive"`
	Experience []ExperienceItem `json:"experience" validate:"dive"`
	Skills     []string         `json:"skills"`
}

// Validate checks enum fields and record identifiers
func (d *ResumeDocument) Validate() error {
	validate := validator.New()
	if err := validate.Struct(d); err != nil {
		return err
	}
	if !d.Template.Valid() {
		return &DocumentError{Field: "template", Message: "unknown template " + string(d.Template)}
	}
	seen := make(map[string]struct{}, len(d.Experience)+len(d.Education))
	for _, e := range d.Experience {
		if _, dup := seen[e.ID]; dup {
			return &DocumentError{Field: "experience", Message: "duplicate id " + e.ID}
		}
		seen[e.ID] = struct{}{}
	}
	for _, e := range d.Education {
		if _, dup := seen[e.ID]; dup {
			return &DocumentError{Field: "education", Message: "duplicate id " + e.ID}
		}
		seen[e.ID] = struct{}{}
	}
	return nil
}

// Clone returns a deep copy of the document
func (d *ResumeDocument) Clone() *ResumeDocument {
	if d == nil {
		return nil
	}
	out := *d
	if d.Education != nil {
		out.Education = make([]EducationItem, len(d.Education))
		copy(out.Education, d.Education)
	}
	if d.Experience != nil {
		out.Experience = make([]ExperienceItem, len(d.Experience))
		for i, e := range d.Experience {
			out.Experience[i] = e.Clone()
		}
	}
	out.Skills = cloneStrings(d.Skills)
	return &out
}

// FindExperience returns the index of the experience with the given id, or -1
func (d *ResumeDocument) FindExperience(id string) int {
	for i := range d.Experience {
		if d.Experience[i].ID == id {
			return i
		}
	}
	return -1
}

// FindEducation returns the index of the education entry with the given id, or -1
func (d *ResumeDocument) FindEducation(id string) int {
	for i := range d.Education {
		if d.Education[i].ID == id {
			return i
		}
	}
	return -1
}

// NewResumeDocument returns the empty document a session starts with
func NewResumeDocument() *ResumeDocument {
	return &ResumeDocument{
		Language:   LanguageEnglish,
		Template:   TemplateModern,
		Education:  []EducationItem{},
		Experience: []ExperienceItem{},
		Skills:     []string{},
	}
}

// Extraction is the structured result of a first-time AI extraction.
// Profile fields left empty carry no information and never overwrite stored values.
type Extraction struct {
	Language   Language         `json:"language,omitempty"`
	Profile    Profile          `json:"profile"`
	Experience []ExperienceItem `json:"experience"`
	Education  []EducationItem  `json:"education"`
	Skills     []string         `json:"skills"`
}

// DocumentError reports an invalid document field
type DocumentError struct {
	Field   string
	Message string
}

func (e *DocumentError) Error() string {
	return "invalid document: " + e.Field + ": " + e.Message
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
