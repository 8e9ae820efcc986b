package normalize

import (
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/resume-studio/internal/types"
)

// NewID mints a fresh record identifier
var NewID = uuid.NewString

// Extract parses a first-time extraction response. Every experience and education
// record gets a fresh identifier; identifiers present in the response are ignored.
func Extract(raw string) (*types.Extraction, error) {
	obj, err := ParseObject(raw)
	if err != nil {
		return nil, err
	}
	return ExtractionFromObject(obj), nil
}

// ExtractionFromObject coerces a decoded response object. It never fails.
func ExtractionFromObject(obj Object) *types.Extraction {
	out := &types.Extraction{
		Language:   Language(obj["language"]),
		Profile:    ProfileFromValue(obj["profile"]),
		Experience: []types.ExperienceItem{},
		Education:  []types.EducationItem{},
		Skills:     Skills(obj["skills"]),
	}
	for _, rec := range objects(obj["experience"]) {
		item := ExperienceFromObject(rec)
		item.ID = NewID()
		out.Experience = append(out.Experience, item)
	}
	for _, rec := range objects(obj["education"]) {
		item := EducationFromObject(rec)
		item.ID = NewID()
		out.Education = append(out.Education, item)
	}
	return out
}

// Language returns the supported language code in v, or "" when v is not one
func Language(v any) types.Language {
	lang := types.Language(strings.ToLower(Text(v)))
	if lang.Valid() {
		return lang
	}
	return ""
}

// ProfileFromValue coerces a profile object. Avatar data is never taken from a response.
func ProfileFromValue(v any) types.Profile {
	obj, ok := v.(map[string]any)
	if !ok {
		return types.Profile{}
	}
	return types.Profile{
		Name:     FirstText(obj, Keys("name", "fullName")),
		Email:    FirstText(obj, Keys("email")),
		Phone:    FirstText(obj, Keys("phone")),
		Summary:  FirstText(obj, Keys("summary", "about")),
		Location: FirstText(obj, Keys("location")),
		LinkedIn: FirstText(obj, Keys("linkedin", "linkedIn")),
		Website:  FirstText(obj, Keys("website", "url")),
	}
}

// ExperienceFromObject coerces one experience record, leaving ID empty
func ExperienceFromObject(obj Object) types.ExperienceItem {
	item := types.ExperienceItem{
		Company:     FirstText(obj, companyAccessors),
		Role:        FirstText(obj, roleAccessors),
		StartDate:   FirstText(obj, startDateAccessors),
		EndDate:     FirstText(obj, endDateAccessors),
		Location:    FirstText(obj, locationAccessors),
		Description: FirstText(obj, descriptionAccessors),
		Highlights:  PickHighlights(obj),
	}
	if tags := FirstList(obj, tagAccessors); len(tags) > 0 {
		item.Tags = tags
	}
	return item
}

// EducationFromObject coerces one education record, leaving ID empty
func EducationFromObject(obj Object) types.EducationItem {
	return types.EducationItem{
		School: FirstText(obj, schoolAccessors),
		Degree: FirstText(obj, degreeAccessors),
		Year:   FirstText(obj, yearAccessors),
	}
}
