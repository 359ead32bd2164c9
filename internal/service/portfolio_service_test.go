package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeportfolio/backend/internal/models"
	"github.com/codeportfolio/backend/internal/pkg/apperror"
	"github.com/codeportfolio/backend/internal/repository"
)

// fakePortfolioRepo — in-memory замена PortfolioRepository для тестов.
type fakePortfolioRepo struct {
	mu sync.Mutex

	existsCalls    int
	taken          map[string]bool
	created        []*models.Portfolio
	createErr      error
	published      map[string]*models.Portfolio
	toggleResult   bool
	incrementCalls int
}

func newFakePortfolioRepo() *fakePortfolioRepo {
	return &fakePortfolioRepo{
		taken:     make(map[string]bool),
		published: make(map[string]*models.Portfolio),
	}
}

func (f *fakePortfolioRepo) Create(ctx context.Context, p *models.Portfolio) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	p.ID = uuid.New()
	f.created = append(f.created, p)
	return nil
}

func (f *fakePortfolioRepo) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*models.Portfolio, error) {
	return nil, repository.ErrPortfolioNotFound
}

func (f *fakePortfolioRepo) GetPublishedByUsername(ctx context.Context, username string) (*models.Portfolio, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.published[username]; ok {
		return p, nil
	}
	return nil, repository.ErrPortfolioNotFound
}

func (f *fakePortfolioRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.existsCalls++
	return f.taken[username], nil
}

func (f *fakePortfolioRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Portfolio, error) {
	return nil, nil
}

func (f *fakePortfolioRepo) UpdateProfile(ctx context.Context, id, ownerID uuid.UUID, fields models.ProfileFields) error {
	return nil
}

func (f *fakePortfolioRepo) TogglePublished(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toggleResult = !f.toggleResult
	return f.toggleResult, nil
}

func (f *fakePortfolioRepo) IncrementViews(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.incrementCalls++
	return nil
}

func (f *fakePortfolioRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	return nil
}

func (f *fakePortfolioRepo) increments() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.incrementCalls
}

type emptyProjectLister struct{}

func (emptyProjectLister) ListByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]models.Project, error) {
	return nil, nil
}

type emptySkillLister struct{}

func (emptySkillLister) ListByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]models.Skill, error) {
	return nil, nil
}

func newPortfolioService(repo *fakePortfolioRepo) *PortfolioService {
	return NewPortfolioService(repo, emptyProjectLister{}, emptySkillLister{})
}

func TestCheckAvailability_ShortCandidateNeutral(t *testing.T) {
	repo := newFakePortfolioRepo()
	svc := newPortfolioService(repo)

	availability, err := svc.CheckAvailability(context.Background(), "ab")

	require.NoError(t, err)
	assert.Equal(t, AvailabilityUnknown, availability)
	// Короткий кандидат не порождает запросов к хранилищу.
	assert.Equal(t, 0, repo.existsCalls)
}

func TestCheckAvailability_SanitizedBelowMinimum(t *testing.T) {
	repo := newFakePortfolioRepo()
	svc := newPortfolioService(repo)

	// После нормализации "J.D!" остаётся "jd" — меньше трёх символов.
	availability, err := svc.CheckAvailability(context.Background(), "J.D!")

	require.NoError(t, err)
	assert.Equal(t, AvailabilityUnknown, availability)
	assert.Equal(t, 0, repo.existsCalls)
}

func TestCheckAvailability_TakenAndFree(t *testing.T) {
	repo := newFakePortfolioRepo()
	repo.taken["janedoe"] = true
	svc := newPortfolioService(repo)

	taken, err := svc.CheckAvailability(context.Background(), "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, AvailabilityTaken, taken)

	free, err := svc.CheckAvailability(context.Background(), "johndoe")
	require.NoError(t, err)
	assert.Equal(t, AvailabilityFree, free)
}

func TestCreatePortfolio_SanitizesAndStartsUnpublished(t *testing.T) {
	repo := newFakePortfolioRepo()
	svc := newPortfolioService(repo)

	p, err := svc.CreatePortfolio(context.Background(), uuid.New(), "Jane Doe-99", "")

	require.NoError(t, err)
	assert.Equal(t, "janedoe-99", p.Username)
	assert.False(t, p.IsPublished)
	assert.Equal(t, models.TemplateMinimal, p.TemplateID)
}

func TestCreatePortfolio_DuplicateUsername(t *testing.T) {
	repo := newFakePortfolioRepo()
	repo.createErr = repository.ErrUsernameTaken
	svc := newPortfolioService(repo)

	_, err := svc.CreatePortfolio(context.Background(), uuid.New(), "janedoe", "")

	require.Error(t, err)
	assert.True(t, apperror.IsDuplicateUsername(err))
}

func TestCreatePortfolio_InvalidAfterSanitize(t *testing.T) {
	repo := newFakePortfolioRepo()
	svc := newPortfolioService(repo)

	_, err := svc.CreatePortfolio(context.Background(), uuid.New(), "!!", "")

	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Empty(t, repo.created)
}

func TestTogglePublish_FlipsState(t *testing.T) {
	repo := newFakePortfolioRepo()
	svc := newPortfolioService(repo)

	first, err := svc.TogglePublish(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.True(t, first)

	second, err := svc.TogglePublish(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.False(t, second)
}

func TestResolvePublic_UnpublishedLooksLikeMissing(t *testing.T) {
	repo := newFakePortfolioRepo()
	svc := newPortfolioService(repo)

	// Несуществующее имя и неопубликованное портфолио дают одну и ту же
	// ошибку: по ответу нельзя отличить одно от другого.
	_, errMissing := svc.ResolvePublic(context.Background(), "ghost")
	_, errUnpublished := svc.ResolvePublic(context.Background(), "draft-owner")

	assert.True(t, apperror.IsNotFound(errMissing))
	assert.True(t, apperror.IsNotFound(errUnpublished))
	assert.Equal(t, errMissing, errUnpublished)
}

func TestResolvePublic_EmptyCollectionsAndViewCount(t *testing.T) {
	repo := newFakePortfolioRepo()
	repo.published["janedoe"] = &models.Portfolio{
		ID:          uuid.New(),
		Username:    "janedoe",
		IsPublished: true,
	}
	svc := newPortfolioService(repo)

	view, err := svc.ResolvePublic(context.Background(), "janedoe")

	require.NoError(t, err)
	assert.NotNil(t, view.Projects)
	assert.NotNil(t, view.Skills)
	assert.Len(t, view.Projects, 0)
	assert.Len(t, view.Skills, 0)

	// Счётчик просмотров инкрементится асинхронно.
	assert.Eventually(t, func() bool {
		return repo.increments() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestUpdateProfile_RejectsBadColor(t *testing.T) {
	repo := newFakePortfolioRepo()
	svc := newPortfolioService(repo)

	bad := "red"
	err := svc.UpdateProfile(context.Background(), uuid.New(), uuid.New(), models.ProfileFields{
		PrimaryColor: &bad,
	})

	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestUpdateProfile_RejectsBadURL(t *testing.T) {
	repo := newFakePortfolioRepo()
	svc := newPortfolioService(repo)

	bad := "javascript:alert(1)"
	err := svc.UpdateProfile(context.Background(), uuid.New(), uuid.New(), models.ProfileFields{
		GithubURL: &bad,
	})

	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}
