package rendering

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/resume-studio/internal/store"
	"github.com/jonathan/resume-studio/internal/types"
)

// Field paths address one editable leaf of a document:
//
//	profile.<field>
//	experience.<id>.<field>
//	experience.<id>.highlights.<index>
//	education.<id>.<field>
//	skills.<index>
const (
	sectionProfile    = "profile"
	sectionExperience = "experience"
	sectionEducation  = "education"
	sectionSkills     = "skills"
	highlightsField   = "highlights"
)

// ProfilePath addresses a profile field
func ProfilePath(field string) string {
	return sectionProfile + "." + field
}

// ExperiencePath addresses a scalar field of an experience record
func ExperiencePath(id, field string) string {
	return sectionExperience + "." + id + "." + field
}

// HighlightPath addresses one highlight line of an experience record
func HighlightPath(id string, index int) string {
	return ExperiencePath(id, highlightsField) + "." + strconv.Itoa(index)
}

// EducationPath addresses a field of an education entry
func EducationPath(id, field string) string {
	return sectionEducation + "." + id + "." + field
}

// SkillPath addresses one skill
func SkillPath(index int) string {
	return sectionSkills + "." + strconv.Itoa(index)
}

// Commit writes value into the field at path. Nothing is written when value
// equals the stored value; the returned bool reports whether a write happened.
// List fields are edited by index: only that entry changes, siblings and
// order are kept.
func Commit(s *store.Store, path, value string) (bool, error) {
	parts := strings.Split(path, ".")
	if len(parts) < 2 {
		return false, &FieldError{Path: path, Message: "expected <section>.<field>"}
	}

	switch parts[0] {
	case sectionProfile:
		if len(parts) != 2 {
			return false, &FieldError{Path: path, Message: "expected profile.<field>"}
		}
		return s.Update(store.SectionProfile, func(doc *types.ResumeDocument) (bool, error) {
			return setProfileField(path, &doc.Profile, parts[1], value)
		})

	case sectionSkills:
		if len(parts) != 2 {
			return false, &FieldError{Path: path, Message: "expected skills.<index>"}
		}
		return s.Update(store.SectionSkills, func(doc *types.ResumeDocument) (bool, error) {
			return setIndexed(path, doc.Skills, parts[1], value)
		})

	case sectionExperience:
		id, field, index, err := splitRecordPath(path, parts)
		if err != nil {
			return false, err
		}
		return s.Update(store.SectionExperience, func(doc *types.ResumeDocument) (bool, error) {
			i := doc.FindExperience(id)
			if i < 0 {
				return false, &store.NotFoundError{Section: store.SectionExperience, ID: id}
			}
			if index != "" {
				if field != highlightsField {
					return false, &FieldError{Path: path, Message: "only highlights are indexed"}
				}
				return setIndexed(path, doc.Experience[i].Highlights, index, value)
			}
			return setExperienceField(path, &doc.Experience[i], field, value)
		})

	case sectionEducation:
		id, field, index, err := splitRecordPath(path, parts)
		if err != nil {
			return false, err
		}
		if index != "" {
			return false, &FieldError{Path: path, Message: "education fields are not indexed"}
		}
		return s.Update(store.SectionEducation, func(doc *types.ResumeDocument) (bool, error) {
			i := doc.FindEducation(id)
			if i < 0 {
				return false, &store.NotFoundError{Section: store.SectionEducation, ID: id}
			}
			return setEducationField(path, &doc.Education[i], field, value)
		})
	}

	return false, &FieldError{Path: path, Message: fmt.Sprintf("unknown section %q", parts[0])}
}

// splitRecordPath splits <section>.<id>.<field>[.<index>]. Identifiers may
// themselves contain dots.
func splitRecordPath(path string, parts []string) (id, field, index string, err error) {
	if len(parts) < 3 {
		return "", "", "", &FieldError{Path: path, Message: "expected <section>.<id>.<field>"}
	}
	last := parts[len(parts)-1]
	if _, convErr := strconv.Atoi(last); convErr == nil && len(parts) >= 4 {
		return strings.Join(parts[1:len(parts)-2], "."), parts[len(parts)-2], last, nil
	}
	return strings.Join(parts[1:len(parts)-1], "."), last, "", nil
}

func setIndexed(path string, list []string, index, value string) (bool, error) {
	i, err := strconv.Atoi(index)
	if err != nil || i < 0 || i >= len(list) {
		return false, &FieldError{Path: path, Message: "index out of range"}
	}
	return assign(&list[i], value), nil
}

func setProfileField(path string, p *types.Profile, field, value string) (bool, error) {
	var target *string
	switch field {
	case "name":
		target = &p.Name
	case "email":
		target = &p.Email
	case "phone":
		target = &p.Phone
	case "summary":
		target = &p.Summary
	case "location":
		target = &p.Location
	case "linkedin":
		target = &p.LinkedIn
	case "website":
		target = &p.Website
	default:
		return false, &FieldError{Path: path, Message: "not an editable profile field"}
	}
	return assign(target, value), nil
}

func setExperienceField(path string, e *types.ExperienceItem, field, value string) (bool, error) {
	var target *string
	switch field {
	case "company":
		target = &e.Company
	case "role":
		target = &e.Role
	case "startDate":
		target = &e.StartDate
	case "endDate":
		target = &e.EndDate
	case "location":
		target = &e.Location
	case "description":
		target = &e.Description
	default:
		return false, &FieldError{Path: path, Message: "not an editable experience field"}
	}
	return assign(target, value), nil
}

func setEducationField(path string, e *types.EducationItem, field, value string) (bool, error) {
	var target *string
	switch field {
	case "school":
		target = &e.School
	case "degree":
		target = &e.Degree
	case "year":
		target = &e.Year
	default:
		return false, &FieldError{Path: path, Message: "not an editable education field"}
	}
	return assign(target, value), nil
}

func assign(target *string, value string) bool {
	if *target == value {
		return false
	}
	*target = value
	return true
}
