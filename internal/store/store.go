package store

import (
	"strings"
	"sync"

	"github.com/jonathan/resume-studio/internal/normalize"
	"github.com/jonathan/resume-studio/internal/types"
)

// Section names the part of the document a write replaced
type Section string

// Sections
const (
	SectionDocument   Section = "document"
	SectionLanguage   Section = "language"
	SectionTemplate   Section = "template"
	SectionProfile    Section = "profile"
	SectionExperience Section = "experience"
	SectionEducation  Section = "education"
	SectionSkills     Section = "skills"
)

// Defaults for a manually added education entry
const (
	NewSchool = "New University"
	NewDegree = "Degree"
	NewYear   = "2025"
)

// Change describes one committed write
type Change struct {
	Version uint64
	Section Section
}

// Hook is called after every committed write, outside the store lock
type Hook func(Change)

// Store holds the current document. Readers get deep copies, so a snapshot
// never changes under them.
type Store struct {
	mu      sync.RWMutex
	doc     *types.ResumeDocument
	version uint64
	hooks   []Hook
}

// New returns a store holding the initial empty document
func New() *Store {
	return &Store{doc: types.NewResumeDocument()}
}

// OnChange registers a hook
func (s *Store) OnChange(h Hook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, h)
}

// Snapshot returns a deep copy of the current document
func (s *Store) Snapshot() *types.ResumeDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Version returns the number of committed writes
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Update runs fn against a copy of the document. The copy replaces the stored
// document only when fn reports a change and returns no error.
func (s *Store) Update(section Section, fn func(doc *types.ResumeDocument) (bool, error)) (bool, error) {
	s.mu.Lock()
	next := s.doc.Clone()
	changed, err := fn(next)
	if err != nil || !changed {
		s.mu.Unlock()
		return false, err
	}
	s.doc = next
	s.version++
	change := Change{Version: s.version, Section: section}
	hooks := append([]Hook(nil), s.hooks...)
	s.mu.Unlock()

	for _, h := range hooks {
		h(change)
	}
	return true, nil
}

func (s *Store) write(section Section, fn func(doc *types.ResumeDocument)) {
	_, _ = s.Update(section, func(doc *types.ResumeDocument) (bool, error) {
		fn(doc)
		return true, nil
	})
}

// Replace swaps in a whole document after validating it
func (s *Store) Replace(doc *types.ResumeDocument) error {
	if doc == nil {
		return &ValidationError{Message: "document is required"}
	}
	next := doc.Clone()
	if next.Experience == nil {
		next.Experience = []types.ExperienceItem{}
	}
	if next.Education == nil {
		next.Education = []types.EducationItem{}
	}
	if next.Skills == nil {
		next.Skills = []string{}
	}
	if err := next.Validate(); err != nil {
		return &ValidationError{Message: "invalid document", Cause: err}
	}
	s.write(SectionDocument, func(d *types.ResumeDocument) { *d = *next })
	return nil
}

// Reset restores the initial empty document
func (s *Store) Reset() {
	s.write(SectionDocument, func(d *types.ResumeDocument) { *d = *types.NewResumeDocument() })
}

// SetLanguage changes the document language
func (s *Store) SetLanguage(lang types.Language) error {
	if !lang.Valid() {
		return &ValidationError{Message: "unsupported language " + string(lang)}
	}
	s.write(SectionLanguage, func(d *types.ResumeDocument) { d.Language = lang })
	return nil
}

// SetTemplate changes the layout variant
func (s *Store) SetTemplate(t types.TemplateID) error {
	if !t.Valid() {
		return &ValidationError{Message: "unknown template " + string(t)}
	}
	s.write(SectionTemplate, func(d *types.ResumeDocument) { d.Template = t })
	return nil
}

// SetProfile replaces the profile
func (s *Store) SetProfile(p types.Profile) {
	s.write(SectionProfile, func(d *types.ResumeDocument) { d.Profile = p })
}

// SetExperience replaces the experience section
func (s *Store) SetExperience(items []types.ExperienceItem) {
	next := make([]types.ExperienceItem, len(items))
	for i, e := range items {
		next[i] = e.Clone()
	}
	s.write(SectionExperience, func(d *types.ResumeDocument) { d.Experience = next })
}

// SetEducation replaces the education section
func (s *Store) SetEducation(items []types.EducationItem) {
	next := append([]types.EducationItem{}, items...)
	s.write(SectionEducation, func(d *types.ResumeDocument) { d.Education = next })
}

// SetSkills replaces the skill list
func (s *Store) SetSkills(skills []string) {
	next := append([]string{}, skills...)
	s.write(SectionSkills, func(d *types.ResumeDocument) { d.Skills = next })
}

// SetSkillsText replaces the skill list from comma separated text, dropping
// blank entries
func (s *Store) SetSkillsText(text string) {
	var skills []string
	for _, part := range strings.Split(text, ",") {
		if p := strings.TrimSpace(part); p != "" {
			skills = append(skills, p)
		}
	}
	s.SetSkills(skills)
}

// MergeExtraction folds a first-time extraction into the document.
// Records are appended after existing ones, skills are unioned keeping first
// occurrence order, and only non-empty profile fields overwrite.
func (s *Store) MergeExtraction(ext *types.Extraction) {
	if ext == nil {
		return
	}
	s.write(SectionDocument, func(d *types.ResumeDocument) {
		if ext.Language.Valid() {
			d.Language = ext.Language
		}
		d.Profile = normalize.OverlayProfile(d.Profile, ext.Profile)
		for _, e := range ext.Experience {
			d.Experience = append(d.Experience, e.Clone())
		}
		d.Education = append(d.Education, ext.Education...)
		d.Skills = unionSkills(d.Skills, ext.Skills)
	})
}

// ReplaceExperienceItem swaps the record with item.ID for item
func (s *Store) ReplaceExperienceItem(item types.ExperienceItem) error {
	_, err := s.Update(SectionExperience, func(d *types.ResumeDocument) (bool, error) {
		i := d.FindExperience(item.ID)
		if i < 0 {
			return false, &NotFoundError{Section: SectionExperience, ID: item.ID}
		}
		d.Experience[i] = item.Clone()
		return true, nil
	})
	return err
}

// AddExperience prepends an empty experience record and returns it
func (s *Store) AddExperience() types.ExperienceItem {
	item := types.ExperienceItem{ID: normalize.NewID(), Highlights: []string{}}
	s.write(SectionExperience, func(d *types.ResumeDocument) {
		d.Experience = append([]types.ExperienceItem{item.Clone()}, d.Experience...)
	})
	return item
}

// DeleteExperience removes the record with the given id
func (s *Store) DeleteExperience(id string) error {
	_, err := s.Update(SectionExperience, func(d *types.ResumeDocument) (bool, error) {
		i := d.FindExperience(id)
		if i < 0 {
			return false, &NotFoundError{Section: SectionExperience, ID: id}
		}
		d.Experience = append(d.Experience[:i:i], d.Experience[i+1:]...)
		return true, nil
	})
	return err
}

// AddEducation prepends a placeholder education entry and returns it
func (s *Store) AddEducation() types.EducationItem {
	item := types.EducationItem{ID: normalize.NewID(), School: NewSchool, Degree: NewDegree, Year: NewYear}
	s.write(SectionEducation, func(d *types.ResumeDocument) {
		d.Education = append([]types.EducationItem{item}, d.Education...)
	})
	return item
}

// ReplaceEducationItem swaps the entry with item.ID for item
func (s *Store) ReplaceEducationItem(item types.EducationItem) error {
	_, err := s.Update(SectionEducation, func(d *types.ResumeDocument) (bool, error) {
		i := d.FindEducation(item.ID)
		if i < 0 {
			return false, &NotFoundError{Section: SectionEducation, ID: item.ID}
		}
		d.Education[i] = item
		return true, nil
	})
	return err
}

// DeleteEducation removes the entry with the given id
func (s *Store) DeleteEducation(id string) error {
	_, err := s.Update(SectionEducation, func(d *types.ResumeDocument) (bool, error) {
		i := d.FindEducation(id)
		if i < 0 {
			return false, &NotFoundError{Section: SectionEducation, ID: id}
		}
		d.Education = append(d.Education[:i:i], d.Education[i+1:]...)
		return true, nil
	})
	return err
}

func unionSkills(existing, incoming []string) []string {
	out := make([]string, 0, len(existing)+len(incoming))
	seen := make(map[string]struct{}, cap(out))
	for _, list := range [][]string{existing, incoming} {
		for _, s := range list {
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
