package normalize

import "github.com/jonathan/resume-studio/internal/types"

// RecordRef is the identifying view of a record offered to a Matcher
type RecordRef struct {
	ID    string
	Label string
}

// Matcher pairs records returned by a rewrite with the records that were sent.
// Match returns, for each incoming record, the index into old it continues, or -1
// when it is a new record.
type Matcher interface {
	Match(old, incoming []RecordRef) []int
}

// PositionalMatcher pairs the Nth incoming record with the Nth old record.
// Reordering, insertion or removal by the model breaks identity under this strategy.
type PositionalMatcher struct{}

// Match implements Matcher
func (PositionalMatcher) Match(old, incoming []RecordRef) []int {
	out := make([]int, len(incoming))
	for i := range incoming {
		if i < len(old) {
			out[i] = i
		} else {
			out[i] = -1
		}
	}
	return out
}

// pairing runs m and discards out-of-range or repeated old indexes so no
// identifier is ever handed to two records
func pairing(m Matcher, old, incoming []RecordRef) []int {
	pairs := m.Match(old, incoming)
	out := make([]int, len(incoming))
	used := make(map[int]bool, len(old))
	for i := range out {
		out[i] = -1
		if i >= len(pairs) {
			continue
		}
		j := pairs[i]
		if j < 0 || j >= len(old) || used[j] || old[j].ID == "" {
			continue
		}
		used[j] = true
		out[i] = j
	}
	return out
}

func experienceRefs(items []types.ExperienceItem) []RecordRef {
	out := make([]RecordRef, len(items))
	for i, e := range items {
		out[i] = RecordRef{ID: e.ID, Label: e.Company + " / " + e.Role}
	}
	return out
}

func educationRefs(items []types.EducationItem) []RecordRef {
	out := make([]RecordRef, len(items))
	for i, e := range items {
		out[i] = RecordRef{ID: e.ID, Label: e.School + " / " + e.Degree}
	}
	return out
}
