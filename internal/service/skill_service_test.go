package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeportfolio/backend/internal/models"
	"github.com/codeportfolio/backend/internal/pkg/apperror"
	"github.com/codeportfolio/backend/internal/repository"
)

// fakeSkillRepo — in-memory замена SkillRepository.
type fakeSkillRepo struct {
	skills map[uuid.UUID]*models.Skill
}

func newFakeSkillRepo() *fakeSkillRepo {
	return &fakeSkillRepo{skills: make(map[uuid.UUID]*models.Skill)}
}

func (f *fakeSkillRepo) Create(ctx context.Context, s *models.Skill) error {
	s.ID = uuid.New()
	f.skills[s.ID] = s
	return nil
}

func (f *fakeSkillRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	if s, ok := f.skills[id]; ok {
		return s, nil
	}
	return nil, repository.ErrSkillNotFound
}

func (f *fakeSkillRepo) ListByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]models.Skill, error) {
	var result []models.Skill
	for _, s := range f.skills {
		if s.PortfolioID == portfolioID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (f *fakeSkillRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.skills[id]; !ok {
		return repository.ErrSkillNotFound
	}
	delete(f.skills, id)
	return nil
}

func newSkillFixture() (*SkillService, *fakeSkillRepo, uuid.UUID, uuid.UUID) {
	repo := newFakeSkillRepo()
	portfolioID, ownerID := uuid.New(), uuid.New()
	svc := NewSkillService(repo, &fakeOwnership{portfolioID: portfolioID, ownerID: ownerID})
	return svc, repo, portfolioID, ownerID
}

func TestAddSkill_EmptyNameRejected(t *testing.T) {
	svc, repo, portfolioID, ownerID := newSkillFixture()

	_, err := svc.AddSkill(context.Background(), portfolioID, ownerID, "   ", nil)

	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Empty(t, repo.skills)
}

func TestAddSkill_DuplicatesAllowed(t *testing.T) {
	svc, repo, portfolioID, ownerID := newSkillFixture()

	first, err := svc.AddSkill(context.Background(), portfolioID, ownerID, "Go", nil)
	require.NoError(t, err)
	second, err := svc.AddSkill(context.Background(), portfolioID, ownerID, "Go", nil)
	require.NoError(t, err)

	// Повтор не схлопывается: две самостоятельные записи.
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, repo.skills, 2)
}

func TestAddSkill_TrimsNameAndCategory(t *testing.T) {
	svc, _, portfolioID, ownerID := newSkillFixture()

	category := "  backend  "
	skill, err := svc.AddSkill(context.Background(), portfolioID, ownerID, "  Go  ", &category)

	require.NoError(t, err)
	assert.Equal(t, "Go", skill.Name)
	require.NotNil(t, skill.Category)
	assert.Equal(t, "backend", *skill.Category)
}

func TestDeleteSkill_ForeignLooksLikeMissing(t *testing.T) {
	svc, repo, portfolioID, ownerID := newSkillFixture()

	skill, err := svc.AddSkill(context.Background(), portfolioID, ownerID, "Go", nil)
	require.NoError(t, err)

	err = svc.DeleteSkill(context.Background(), skill.ID, uuid.New())

	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Len(t, repo.skills, 1)
}

func TestDeleteSkill_Unconditional(t *testing.T) {
	svc, repo, portfolioID, ownerID := newSkillFixture()

	skill, err := svc.AddSkill(context.Background(), portfolioID, ownerID, "Go", nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSkill(context.Background(), skill.ID, ownerID))
	assert.Empty(t, repo.skills)
}
