package normalize

import (
	"strings"

	"github.com/jonathan/resume-studio/internal/types"
)

// TruncationMarker is appended to text cut by ClampText
const TruncationMarker = "..."

// Limits bounds the size of outbound prompt payloads
type Limits struct {
	ResumeText     int
	JobDescription int
	Summary        int
	Description    int
	TextField      int
	Highlight      int
	Highlights     int
	Experience     int
	Education      int
	Skills         int
}

// DefaultLimits are the budgets applied before prompting
var DefaultLimits = Limits{
	ResumeText:     40000,
	JobDescription: 8000,
	Summary:        1200,
	Description:    1200,
	TextField:      200,
	Highlight:      360,
	Highlights:     6,
	Experience:     12,
	Education:      8,
	Skills:         60,
}

// ClampText trims s and cuts it to limit characters, appending TruncationMarker when cut
func ClampText(s string, limit int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + TruncationMarker
}

// SanitizeForTailor returns a bounded copy of doc for the tailoring prompt.
// The avatar is stripped, free text is clamped and every list is capped.
func (l Limits) SanitizeForTailor(doc *types.ResumeDocument) *types.ResumeDocument {
	out := &types.ResumeDocument{
		Language: doc.Language,
		Template: doc.Template,
		Profile: types.Profile{
			Name:     ClampText(doc.Profile.Name, l.TextField),
			Email:    ClampText(doc.Profile.Email, l.TextField),
			Phone:    ClampText(doc.Profile.Phone, l.TextField),
			Location: ClampText(doc.Profile.Location, l.TextField),
			LinkedIn: ClampText(doc.Profile.LinkedIn, l.TextField),
			Website:  ClampText(doc.Profile.Website, l.TextField),
			Summary:  ClampText(doc.Profile.Summary, l.Summary),
		},
		Experience: make([]types.ExperienceItem, 0, min(len(doc.Experience), l.Experience)),
		Education:  make([]types.EducationItem, 0, min(len(doc.Education), l.Education)),
		Skills:     make([]string, 0, min(len(doc.Skills), l.Skills)),
	}

	for _, e := range capped(doc.Experience, l.Experience) {
		out.Experience = append(out.Experience, l.ClampExperience(e))
	}
	for _, e := range capped(doc.Education, l.Education) {
		out.Education = append(out.Education, types.EducationItem{
			ID:     e.ID,
			School: ClampText(e.School, l.TextField),
			Degree: ClampText(e.Degree, l.TextField),
			Year:   ClampText(e.Year, l.TextField),
		})
	}
	for _, s := range capped(doc.Skills, l.Skills) {
		out.Skills = append(out.Skills, ClampText(s, l.TextField))
	}
	return out
}

// ClampExperience returns a bounded copy of one experience record
func (l Limits) ClampExperience(e types.ExperienceItem) types.ExperienceItem {
	out := types.ExperienceItem{
		ID:          e.ID,
		Company:     ClampText(e.Company, l.TextField),
		Role:        ClampText(e.Role, l.TextField),
		StartDate:   ClampText(e.StartDate, l.TextField),
		EndDate:     ClampText(e.EndDate, l.TextField),
		Location:    ClampText(e.Location, l.TextField),
		Description: ClampText(e.Description, l.Description),
		Highlights:  make([]string, 0, l.Highlights),
	}
	for _, h := range e.Highlights {
		if len(out.Highlights) == l.Highlights {
			break
		}
		if strings.TrimSpace(h) == "" {
			continue
		}
		out.Highlights = append(out.Highlights, ClampText(h, l.Highlight))
	}
	if len(e.Tags) > 0 {
		out.Tags = append([]string(nil), e.Tags...)
	}
	return out
}

func capped[T any](in []T, n int) []T {
	if len(in) > n {
		return in[:n]
	}
	return in
}
