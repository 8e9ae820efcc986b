package rendering

import (
	"testing"

	"github.com/jonathan/resume-studio/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(t *testing.T) (*store.Store, *int) {
	t.Helper()
	s := store.New()
	require.NoError(t, s.Replace(sampleDocument()))
	writes := 0
	s.OnChange(func(store.Change) { writes++ })
	return s, &writes
}

func TestCommit_UnchangedValueDoesNotWrite(t *testing.T) {
	s, writes := seededStore(t)
	version := s.Version()

	for _, path := range []string{"profile.name", "experience.exp-1.role", "experience.exp-1.highlights.0", "education.edu-1.school", "skills.1"} {
		before := s.Snapshot()
		value := map[string]string{
			"profile.name":                  before.Profile.Name,
			"experience.exp-1.role":         before.Experience[0].Role,
			"experience.exp-1.highlights.0": before.Experience[0].Highlights[0],
			"education.edu-1.school":        before.Education[0].School,
			"skills.1":                      before.Skills[1],
		}[path]

		changed, err := Commit(s, path, value)
		require.NoError(t, err, path)
		assert.False(t, changed, path)
	}

	assert.Equal(t, 0, *writes)
	assert.Equal(t, version, s.Version())
}

func TestCommit_ProfileField(t *testing.T) {
	s, writes := seededStore(t)

	changed, err := Commit(s, ProfilePath("summary"), "Staff engineer")
	require.NoError(t, err)

	assert.True(t, changed)
	assert.Equal(t, 1, *writes)
	assert.Equal(t, "Staff engineer", s.Snapshot().Profile.Summary)
}

func TestCommit_HighlightByIndex(t *testing.T) {
	s, _ := seededStore(t)

	_, err := Commit(s, HighlightPath("exp-1", 1), "Cut costs 45%")
	require.NoError(t, err)

	assert.Equal(t, []string{"Built API", "Cut costs 45%"}, s.Snapshot().Experience[0].Highlights)
}

func TestCommit_SkillByIndex(t *testing.T) {
	s, _ := seededStore(t)

	_, err := Commit(s, SkillPath(0), "Golang")
	require.NoError(t, err)

	assert.Equal(t, []string{"Golang", "SQL"}, s.Snapshot().Skills)
}

func TestCommit_RecordFields(t *testing.T) {
	s, _ := seededStore(t)

	_, err := Commit(s, ExperiencePath("exp-1", "endDate"), "2024")
	require.NoError(t, err)
	_, err = Commit(s, EducationPath("edu-1", "degree"), "MSc")
	require.NoError(t, err)

	doc := s.Snapshot()
	assert.Equal(t, "2024", doc.Experience[0].EndDate)
	assert.Equal(t, "MSc", doc.Education[0].Degree)
}

func TestCommit_DottedIdentifier(t *testing.T) {
	s := store.New()
	doc := sampleDocument()
	doc.Experience[0].ID = "exp.v2"
	require.NoError(t, s.Replace(doc))

	_, err := Commit(s, HighlightPath("exp.v2", 0), "Rebuilt API")
	require.NoError(t, err)
	_, err = Commit(s, ExperiencePath("exp.v2", "company"), "Acme Corp")
	require.NoError(t, err)

	got := s.Snapshot().Experience[0]
	assert.Equal(t, "Rebuilt API", got.Highlights[0])
	assert.Equal(t, "Acme Corp", got.Company)
}

func TestCommit_Errors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "no field", path: "profile"},
		{name: "unknown section", path: "awards.1"},
		{name: "unknown profile field", path: "profile.avatar"},
		{name: "unknown experience field", path: "experience.exp-1.id"},
		{name: "index out of range", path: "experience.exp-1.highlights.5"},
		{name: "indexed scalar", path: "experience.exp-1.role.0"},
		{name: "skill index not numeric", path: "skills.first"},
		{name: "indexed education", path: "education.edu-1.school.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, writes := seededStore(t)
			_, err := Commit(s, tt.path, "x")

			var fieldErr *FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.path, fieldErr.Path)
			assert.Equal(t, 0, *writes)
		})
	}
}

func TestCommit_UnknownRecord(t *testing.T) {
	s, _ := seededStore(t)

	_, err := Commit(s, ExperiencePath("missing", "role"), "x")

	var notFound *store.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.ID)
}
