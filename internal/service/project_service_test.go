package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeportfolio/backend/internal/models"
	"github.com/codeportfolio/backend/internal/pkg/apperror"
	"github.com/codeportfolio/backend/internal/repository"
)

// fakeProjectRepo — in-memory замена ProjectRepository.
type fakeProjectRepo struct {
	projects map[uuid.UUID]*models.Project
	orders   map[uuid.UUID]int

	missingOnReorder map[uuid.UUID]bool
	failOnReorder    map[uuid.UUID]error
	reorderCalls     []uuid.UUID
	updateCalls      int
	updateErr        error
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{
		projects:         make(map[uuid.UUID]*models.Project),
		orders:           make(map[uuid.UUID]int),
		missingOnReorder: make(map[uuid.UUID]bool),
		failOnReorder:    make(map[uuid.UUID]error),
	}
}

func (f *fakeProjectRepo) Create(ctx context.Context, p *models.Project) error {
	p.ID = uuid.New()
	p.DisplayOrder = len(f.projects)
	f.projects[p.ID] = p
	return nil
}

func (f *fakeProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	if p, ok := f.projects[id]; ok {
		return p, nil
	}
	return nil, repository.ErrProjectNotFound
}

func (f *fakeProjectRepo) ListByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]models.Project, error) {
	var result []models.Project
	for _, p := range f.projects {
		if p.PortfolioID == portfolioID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (f *fakeProjectRepo) Update(ctx context.Context, p *models.Project) error {
	f.updateCalls++
	if f.updateErr != nil {
		return f.updateErr
	}
	f.projects[p.ID] = p
	return nil
}

func (f *fakeProjectRepo) SetDisplayOrder(ctx context.Context, projectID, portfolioID uuid.UUID, order int) error {
	f.reorderCalls = append(f.reorderCalls, projectID)
	if err, ok := f.failOnReorder[projectID]; ok {
		return err
	}
	if f.missingOnReorder[projectID] {
		return repository.ErrProjectNotFound
	}
	f.orders[projectID] = order
	return nil
}

func (f *fakeProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.projects, id)
	return nil
}

// fakeOwnership отдаёт портфолио одному владельцу.
type fakeOwnership struct {
	portfolioID uuid.UUID
	ownerID     uuid.UUID
}

func (f *fakeOwnership) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*models.Portfolio, error) {
	if id == f.portfolioID && ownerID == f.ownerID {
		return &models.Portfolio{ID: id, OwnerID: ownerID}, nil
	}
	return nil, repository.ErrPortfolioNotFound
}

func newProjectFixture() (*ProjectService, *fakeProjectRepo, uuid.UUID, uuid.UUID) {
	repo := newFakeProjectRepo()
	portfolioID, ownerID := uuid.New(), uuid.New()
	svc := NewProjectService(repo, &fakeOwnership{portfolioID: portfolioID, ownerID: ownerID})
	return svc, repo, portfolioID, ownerID
}

func TestAddProject_RequiresTitle(t *testing.T) {
	svc, _, portfolioID, ownerID := newProjectFixture()

	_, err := svc.AddProject(context.Background(), portfolioID, ownerID, models.ProjectFields{Title: "   "})

	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestAddProject_ForeignPortfolioLooksLikeMissing(t *testing.T) {
	svc, _, _, _ := newProjectFixture()

	_, err := svc.AddProject(context.Background(), uuid.New(), uuid.New(), models.ProjectFields{Title: "Demo"})

	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestAddProject_DedupesTechStack(t *testing.T) {
	svc, _, portfolioID, ownerID := newProjectFixture()

	p, err := svc.AddProject(context.Background(), portfolioID, ownerID, models.ProjectFields{
		Title:     "Demo",
		TechStack: []string{"Go", "Postgres", "Go", " Postgres "},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Postgres"}, p.TechStack)
}

func TestReorder_AssignsSequentialIndexes(t *testing.T) {
	svc, repo, portfolioID, ownerID := newProjectFixture()

	a, b, c := uuid.New(), uuid.New(), uuid.New()
	err := svc.Reorder(context.Background(), portfolioID, ownerID, []uuid.UUID{c, a, b})

	require.NoError(t, err)
	assert.Equal(t, 0, repo.orders[c])
	assert.Equal(t, 1, repo.orders[a])
	assert.Equal(t, 2, repo.orders[b])
}

func TestReorder_SkipsConcurrentlyDeleted(t *testing.T) {
	svc, repo, portfolioID, ownerID := newProjectFixture()

	a, gone, b := uuid.New(), uuid.New(), uuid.New()
	repo.missingOnReorder[gone] = true

	err := svc.Reorder(context.Background(), portfolioID, ownerID, []uuid.UUID{a, gone, b})

	// Удалённая параллельно запись пропускается, остальные получают индексы.
	require.NoError(t, err)
	assert.Equal(t, 0, repo.orders[a])
	assert.Equal(t, 2, repo.orders[b])
	_, wrote := repo.orders[gone]
	assert.False(t, wrote)
}

func TestReorder_StorageErrorAborts(t *testing.T) {
	svc, repo, portfolioID, ownerID := newProjectFixture()

	a, broken, c := uuid.New(), uuid.New(), uuid.New()
	repo.failOnReorder[broken] = errors.New("connection reset")

	err := svc.Reorder(context.Background(), portfolioID, ownerID, []uuid.UUID{a, broken, c})

	require.Error(t, err)
	// До ошибки успели записать только первый; третий не трогали.
	assert.Equal(t, []uuid.UUID{a, broken}, repo.reorderCalls)
}

func TestAddImages_BatchOverCapacityRejectedWhole(t *testing.T) {
	svc, repo, portfolioID, ownerID := newProjectFixture()

	p, err := svc.AddProject(context.Background(), portfolioID, ownerID, models.ProjectFields{
		Title:     "Demo",
		ImageURLs: []string{"a.png", "b.png", "c.png", "d.png"},
	})
	require.NoError(t, err)

	updatesBefore := repo.updateCalls
	_, err = svc.AddImages(context.Background(), p.ID, ownerID, []string{"e.png", "f.png"})

	require.Error(t, err)
	assert.True(t, apperror.IsCapacity(err))
	// Последовательность не изменилась, запись не выполнялась.
	assert.Equal(t, updatesBefore, repo.updateCalls)
	assert.Len(t, repo.projects[p.ID].ImageURLs, 4)
}

func TestAddImages_BatchFitsExactly(t *testing.T) {
	svc, repo, portfolioID, ownerID := newProjectFixture()

	p, err := svc.AddProject(context.Background(), portfolioID, ownerID, models.ProjectFields{
		Title:     "Demo",
		ImageURLs: []string{"a.png", "b.png", "c.png"},
	})
	require.NoError(t, err)

	updated, err := svc.AddImages(context.Background(), p.ID, ownerID, []string{"d.png", "e.png"})

	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "b.png", "c.png", "d.png", "e.png"}, updated.ImageURLs)
	assert.Len(t, repo.projects[p.ID].ImageURLs, models.MaxProjectImages)
}

func TestRemoveImage_PreservesOrder(t *testing.T) {
	svc, _, portfolioID, ownerID := newProjectFixture()

	p, err := svc.AddProject(context.Background(), portfolioID, ownerID, models.ProjectFields{
		Title:     "Demo",
		ImageURLs: []string{"a.png", "b.png", "c.png"},
	})
	require.NoError(t, err)

	updated, err := svc.RemoveImage(context.Background(), p.ID, ownerID, "b.png")

	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "c.png"}, updated.ImageURLs)

	// Обложка сместилась на следующий элемент.
	cover, ok := updated.CoverImage()
	assert.True(t, ok)
	assert.Equal(t, "a.png", cover)
}

func TestRemoveImage_MissingURLIsNoop(t *testing.T) {
	svc, repo, portfolioID, ownerID := newProjectFixture()

	p, err := svc.AddProject(context.Background(), portfolioID, ownerID, models.ProjectFields{
		Title:     "Demo",
		ImageURLs: []string{"a.png"},
	})
	require.NoError(t, err)

	updatesBefore := repo.updateCalls
	updated, err := svc.RemoveImage(context.Background(), p.ID, ownerID, "ghost.png")

	require.NoError(t, err)
	assert.Equal(t, []string{"a.png"}, updated.ImageURLs)
	assert.Equal(t, updatesBefore, repo.updateCalls)
}

func TestDeleteProject_LeavesGapsInOrder(t *testing.T) {
	svc, repo, portfolioID, ownerID := newProjectFixture()

	first, err := svc.AddProject(context.Background(), portfolioID, ownerID, models.ProjectFields{Title: "first"})
	require.NoError(t, err)
	second, err := svc.AddProject(context.Background(), portfolioID, ownerID, models.ProjectFields{Title: "second"})
	require.NoError(t, err)
	third, err := svc.AddProject(context.Background(), portfolioID, ownerID, models.ProjectFields{Title: "third"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProject(context.Background(), second.ID, ownerID))

	// Оставшиеся не перенумеровываются: 0 и 2, дырка на месте удалённого.
	assert.Equal(t, 0, repo.projects[first.ID].DisplayOrder)
	assert.Equal(t, 2, repo.projects[third.ID].DisplayOrder)
}
