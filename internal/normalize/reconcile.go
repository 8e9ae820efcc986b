package normalize

import (
	"github.com/jonathan/resume-studio/internal/types"
)

// Reconciler applies a tailoring response to an existing document
type Reconciler struct {
	Matcher Matcher
	// Limits must match the caps used to build the prompt. Records and skills
	// beyond them were never sent and are carried over unchanged. Zero caps
	// mean everything was sent.
	Limits Limits
}

// NewReconciler returns a Reconciler using positional matching and DefaultLimits
func NewReconciler() *Reconciler {
	return &Reconciler{Matcher: PositionalMatcher{}, Limits: DefaultLimits}
}

// Tailor parses a tailoring response and returns the rewritten document.
// existing is not modified.
func (r *Reconciler) Tailor(existing *types.ResumeDocument, raw string) (*types.ResumeDocument, error) {
	obj, err := ParseObject(raw)
	if err != nil {
		return nil, err
	}
	return r.Apply(existing, obj), nil
}

// Apply merges a decoded tailoring response into a copy of existing.
// Sections the response leaves out or empties are kept; records continuing an
// old record inherit its identifier and any field the response left empty.
// Records the prompt left out are appended after the rewritten ones. Beyond
// that, records are never created here, and the template is never changed.
func (r *Reconciler) Apply(existing *types.ResumeDocument, obj Object) *types.ResumeDocument {
	if existing == nil {
		existing = types.NewResumeDocument()
	}
	out := existing.Clone()
	matcher := r.Matcher
	if matcher == nil {
		matcher = PositionalMatcher{}
	}

	if lang := Language(obj["language"]); lang != "" {
		out.Language = lang
	}
	if v, ok := obj["profile"]; ok {
		out.Profile = OverlayProfile(out.Profile, ProfileFromValue(v))
	}

	if recs := objects(obj["experience"]); len(recs) > 0 {
		incoming := make([]types.ExperienceItem, len(recs))
		for i, rec := range recs {
			incoming[i] = ExperienceFromObject(rec)
		}
		sent := sentCount(len(existing.Experience), r.Limits.Experience)
		pairs := pairing(matcher, experienceRefs(existing.Experience[:sent]), experienceRefs(incoming))
		for i := range incoming {
			if j := pairs[i]; j >= 0 {
				incoming[i] = fillExperience(incoming[i], existing.Experience[j])
			} else {
				incoming[i].ID = NewID()
			}
		}
		for _, e := range existing.Experience[sent:] {
			incoming = append(incoming, e.Clone())
		}
		out.Experience = incoming
	}

	if recs := objects(obj["education"]); len(recs) > 0 {
		incoming := make([]types.EducationItem, len(recs))
		for i, rec := range recs {
			incoming[i] = EducationFromObject(rec)
		}
		sent := sentCount(len(existing.Education), r.Limits.Education)
		pairs := pairing(matcher, educationRefs(existing.Education[:sent]), educationRefs(incoming))
		for i := range incoming {
			if j := pairs[i]; j >= 0 {
				incoming[i] = fillEducation(incoming[i], existing.Education[j])
			} else {
				incoming[i].ID = NewID()
			}
		}
		out.Education = append(incoming, existing.Education[sent:]...)
	}

	if skills := Skills(obj["skills"]); len(skills) > 0 {
		seen := make(map[string]bool, len(skills))
		for _, sk := range skills {
			seen[sk] = true
		}
		for _, sk := range existing.Skills[sentCount(len(existing.Skills), r.Limits.Skills):] {
			if !seen[sk] {
				seen[sk] = true
				skills = append(skills, sk)
			}
		}
		out.Skills = skills
	}
	return out
}

// sentCount is how many of n items fit under limit; a non-positive limit sends all
func sentCount(n, limit int) int {
	if limit <= 0 || n <= limit {
		return n
	}
	return limit
}

// Optimize parses a single-record rewrite of item. Empty highlights or description in
// the response fall back to the existing values; the identifier never changes.
// On a malformed response item is returned unchanged together with the error.
func Optimize(item types.ExperienceItem, raw string) (types.ExperienceItem, error) {
	out := item.Clone()
	obj, err := ParseObject(raw)
	if err != nil {
		return out, err
	}
	if highlights := StringList(obj["highlights"]); len(highlights) > 0 {
		out.Highlights = highlights
	}
	if desc := Text(obj["description"]); desc != "" {
		out.Description = desc
	}
	return out, nil
}

// OverlayProfile returns base with every non-empty field of update applied.
// The avatar always stays as it is in base.
func OverlayProfile(base, update types.Profile) types.Profile {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&base.Name, update.Name)
	set(&base.Email, update.Email)
	set(&base.Phone, update.Phone)
	set(&base.Summary, update.Summary)
	set(&base.Location, update.Location)
	set(&base.LinkedIn, update.LinkedIn)
	set(&base.Website, update.Website)
	return base
}

func fillExperience(next, prev types.ExperienceItem) types.ExperienceItem {
	next.ID = prev.ID
	keep := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	keep(&next.Company, prev.Company)
	keep(&next.Role, prev.Role)
	keep(&next.StartDate, prev.StartDate)
	keep(&next.EndDate, prev.EndDate)
	keep(&next.Location, prev.Location)
	keep(&next.Description, prev.Description)
	if len(next.Highlights) == 0 {
		next.Highlights = append([]string{}, prev.Highlights...)
	}
	if len(next.Tags) == 0 && len(prev.Tags) > 0 {
		next.Tags = append([]string(nil), prev.Tags...)
	}
	return next
}

func fillEducation(next, prev types.EducationItem) types.EducationItem {
	next.ID = prev.ID
	if next.School == "" {
		next.School = prev.School
	}
	if next.Degree == "" {
		next.Degree = prev.Degree
	}
	if next.Year == "" {
		next.Year = prev.Year
	}
	return next
}
