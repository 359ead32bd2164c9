package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeportfolio/backend/internal/models"
)

func strPtr(v string) *string { return &v }

func emptySnapshot() *Snapshot {
	return &Snapshot{Portfolio: &models.Portfolio{}}
}

func completeSnapshot() *Snapshot {
	return &Snapshot{
		Portfolio: &models.Portfolio{
			DisplayName: strPtr("Jane Doe"),
			Tagline:     strPtr("Go разработчик"),
		},
		Projects: []models.Project{{Title: "Demo"}},
		Skills:   []models.Skill{{Name: "Go"}, {Name: "SQL"}, {Name: "Docker"}},
	}
}

func TestCompletion_EmptyPortfolio(t *testing.T) {
	c := emptySnapshot().Completion()

	assert.False(t, c.Profile)
	assert.False(t, c.Projects)
	assert.False(t, c.Skills)
	// У темы обязательных полей нет: раздел полон всегда.
	assert.True(t, c.Theme)
	assert.False(t, c.AllComplete())
}

func TestCompletion_WhitespaceIsBlank(t *testing.T) {
	s := &Snapshot{Portfolio: &models.Portfolio{
		DisplayName: strPtr("   "),
		Tagline:     strPtr("готово"),
	}}

	assert.False(t, s.Completion().Profile)
}

func TestCompletion_SkillsBoundary(t *testing.T) {
	s := emptySnapshot()
	s.Skills = []models.Skill{{Name: "Go"}, {Name: "SQL"}}
	assert.False(t, s.Completion().Skills)

	s.Skills = append(s.Skills, models.Skill{Name: "Docker"})
	assert.True(t, s.Completion().Skills)
}

func TestCompletion_AllComplete(t *testing.T) {
	assert.True(t, completeSnapshot().Completion().AllComplete())
}

func TestCanTransition_BackwardAlwaysAllowed(t *testing.T) {
	s := emptySnapshot()

	assert.NoError(t, s.CanTransition(SectionSkills, SectionProfile))
	assert.NoError(t, s.CanTransition(SectionTheme, SectionProjects))
	assert.NoError(t, s.CanTransition(SectionProfile, SectionProfile))
}

func TestCanTransition_ForwardBlockedByIncompleteSection(t *testing.T) {
	s := emptySnapshot()

	err := s.CanTransition(SectionProfile, SectionProjects)

	require.Error(t, err)
	transErr, ok := err.(*TransitionError)
	require.True(t, ok)
	assert.Equal(t, SectionProfile, transErr.From)
	assert.Equal(t, []string{"display_name", "tagline"}, transErr.MissingFields)
}

func TestCanTransition_NamesOnlyBlankFields(t *testing.T) {
	s := &Snapshot{Portfolio: &models.Portfolio{
		DisplayName: strPtr("Jane"),
	}}

	err := s.CanTransition(SectionProfile, SectionSkills)

	require.Error(t, err)
	transErr := err.(*TransitionError)
	assert.Equal(t, []string{"tagline"}, transErr.MissingFields)
}

func TestCanTransition_ForwardAllowedWhenComplete(t *testing.T) {
	s := completeSnapshot()

	assert.NoError(t, s.CanTransition(SectionProfile, SectionProjects))
	assert.NoError(t, s.CanTransition(SectionProjects, SectionSkills))
	assert.NoError(t, s.CanTransition(SectionSkills, SectionTheme))
}

func TestCanTransition_ForwardBlockedFromProjects(t *testing.T) {
	s := emptySnapshot()
	s.Portfolio.DisplayName = strPtr("Jane")
	s.Portfolio.Tagline = strPtr("dev")

	err := s.CanTransition(SectionProjects, SectionSkills)

	require.Error(t, err)
}

func TestCanTransition_UnknownSection(t *testing.T) {
	s := completeSnapshot()

	assert.Error(t, s.CanTransition(Section("misc"), SectionTheme))
}
