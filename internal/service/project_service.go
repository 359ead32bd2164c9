package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/codeportfolio/backend/internal/logger"
	"github.com/codeportfolio/backend/internal/models"
	"github.com/codeportfolio/backend/internal/pkg/apperror"
	"github.com/codeportfolio/backend/internal/repository"
	"github.com/codeportfolio/backend/internal/validation"
)

// ProjectRepository описывает взаимодействие сервиса с хранилищем проектов.
type ProjectRepository interface {
	Create(ctx context.Context, p *models.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	ListByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]models.Project, error)
	Update(ctx context.Context, p *models.Project) error
	SetDisplayOrder(ctx context.Context, projectID, portfolioID uuid.UUID, order int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PortfolioOwnership проверяет принадлежность портфолио пользователю.
type PortfolioOwnership interface {
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*models.Portfolio, error)
}

// ProjectService управляет упорядоченной коллекцией проектов портфолио.
type ProjectService struct {
	repo       ProjectRepository
	portfolios PortfolioOwnership
}

// NewProjectService создаёт новый сервис проектов.
func NewProjectService(repo ProjectRepository, portfolios PortfolioOwnership) *ProjectService {
	return &ProjectService{repo: repo, portfolios: portfolios}
}

// AddProject добавляет проект в конец коллекции (display_order = max + 1,
// для пустой коллекции 0 — это считает сам INSERT).
func (s *ProjectService) AddProject(ctx context.Context, portfolioID, ownerID uuid.UUID, fields models.ProjectFields) (*models.Project, error) {
	if _, err := s.ownPortfolio(ctx, portfolioID, ownerID); err != nil {
		return nil, err
	}

	if err := s.validateFields(&fields); err != nil {
		return nil, err
	}

	p := &models.Project{
		PortfolioID: portfolioID,
		Title:       strings.TrimSpace(fields.Title),
		Description: normalizeOptional(fields.Description),
		ImageURLs:   fields.ImageURLs,
		DemoURL:     normalizeOptional(fields.DemoURL),
		GithubURL:   normalizeOptional(fields.GithubURL),
		TechStack:   dedupeTechStack(fields.TechStack),
	}
	if p.ImageURLs == nil {
		p.ImageURLs = []string{}
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodePersistence, "не удалось создать проект")
	}

	return p, nil
}

// UpdateProject целиком заменяет редактируемые поля. display_order не меняется.
func (s *ProjectService) UpdateProject(ctx context.Context, projectID, ownerID uuid.UUID, fields models.ProjectFields) (*models.Project, error) {
	p, err := s.ownProject(ctx, projectID, ownerID)
	if err != nil {
		return nil, err
	}

	if err := s.validateFields(&fields); err != nil {
		return nil, err
	}

	p.Title = strings.TrimSpace(fields.Title)
	p.Description = normalizeOptional(fields.Description)
	p.ImageURLs = fields.ImageURLs
	p.DemoURL = normalizeOptional(fields.DemoURL)
	p.GithubURL = normalizeOptional(fields.GithubURL)
	p.TechStack = dedupeTechStack(fields.TechStack)
	if p.ImageURLs == nil {
		p.ImageURLs = []string{}
	}

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return nil, apperror.ErrProjectNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodePersistence, "не удалось обновить проект")
	}

	return p, nil
}

// DeleteProject удаляет проект. Соседи не перенумеровываются: дырки в
// display_order допустимы, относительный порядок оставшихся не меняется.
func (s *ProjectService) DeleteProject(ctx context.Context, projectID, ownerID uuid.UUID) error {
	if _, err := s.ownProject(ctx, projectID, ownerID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, projectID); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return apperror.ErrProjectNotFound
		}
		return apperror.Wrap(err, apperror.ErrCodePersistence, "не удалось удалить проект")
	}

	return nil
}

// Reorder применяет полный порядок, заданный пользователем на drag-end:
// display_order = индекс в списке. Последовательность по-записных UPDATE
// не атомарна. Запись, удалённую параллельно, пропускаем и идём дальше;
// настоящая ошибка хранилища прерывает цикл — вызывающая сторона
// восстанавливает прежний порядок у себя, частичные записи не откатываются
// (порядок косметический и выправится следующим перетаскиванием).
func (s *ProjectService) Reorder(ctx context.Context, portfolioID, ownerID uuid.UUID, orderedIDs []uuid.UUID) error {
	if _, err := s.ownPortfolio(ctx, portfolioID, ownerID); err != nil {
		return err
	}

	for idx, projectID := range orderedIDs {
		err := s.repo.SetDisplayOrder(ctx, projectID, portfolioID, idx)
		if err == nil {
			continue
		}
		if errors.Is(err, repository.ErrProjectNotFound) {
			if logger.Log != nil {
				logger.Log.WithFields(logrus.Fields{
					"project_id":   projectID,
					"portfolio_id": portfolioID,
				}).Debug("reorder: проект уже удалён, пропускаем")
			}
			continue
		}
		return apperror.Wrap(err, apperror.ErrCodePersistence, "не удалось сохранить порядок проектов")
	}

	return nil
}

// ListProjects возвращает проекты портфолио владельцу.
func (s *ProjectService) ListProjects(ctx context.Context, portfolioID, ownerID uuid.UUID) ([]models.Project, error) {
	if _, err := s.ownPortfolio(ctx, portfolioID, ownerID); err != nil {
		return nil, err
	}

	items, err := s.repo.ListByPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodePersistence, "не удалось получить проекты")
	}
	return items, nil
}

// AddImages дописывает ссылки в конец последовательности картинок.
// Потолок в 5 картинок проверяется на весь батч: либо помещаются все,
// либо CapacityError и последовательность не меняется — слот обложки
// (индекс 0) не может незаметно сменить владельца.
func (s *ProjectService) AddImages(ctx context.Context, projectID, ownerID uuid.UUID, urls []string) (*models.Project, error) {
	p, err := s.ownProject(ctx, projectID, ownerID)
	if err != nil {
		return nil, err
	}

	if len(urls) == 0 {
		return p, nil
	}

	if len(p.ImageURLs)+len(urls) > models.MaxProjectImages {
		return nil, apperror.New(apperror.ErrCodeCapacity,
			fmt.Sprintf("у проекта может быть не более %d картинок", models.MaxProjectImages))
	}

	p.ImageURLs = append(p.ImageURLs, urls...)

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodePersistence, "не удалось сохранить картинки")
	}

	return p, nil
}

// RemoveImage убирает картинку по значению, сохраняя относительный порядок
// остальных. Удаление несуществующей ссылки — no-op.
func (s *ProjectService) RemoveImage(ctx context.Context, projectID, ownerID uuid.UUID, url string) (*models.Project, error) {
	p, err := s.ownProject(ctx, projectID, ownerID)
	if err != nil {
		return nil, err
	}

	kept := make([]string, 0, len(p.ImageURLs))
	for _, existing := range p.ImageURLs {
		if existing != url {
			kept = append(kept, existing)
		}
	}

	if len(kept) == len(p.ImageURLs) {
		return p, nil
	}

	p.ImageURLs = kept

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodePersistence, "не удалось сохранить картинки")
	}

	return p, nil
}

func (s *ProjectService) validateFields(fields *models.ProjectFields) error {
	if err := validation.ValidateNonEmpty("название проекта", fields.Title); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLength("название проекта", strings.TrimSpace(fields.Title), 0, validation.MaxProjectTitleLength); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if fields.Description != nil {
		if err := validation.ValidateLength("описание проекта", *fields.Description, 0, validation.MaxDescriptionLength); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}
	for _, link := range []struct {
		name  string
		value *string
	}{
		{"demo_url", fields.DemoURL},
		{"github_url", fields.GithubURL},
	} {
		if err := validation.ValidateOptionalURL(link.name, link.value); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}
	if len(fields.ImageURLs) > models.MaxProjectImages {
		return apperror.New(apperror.ErrCodeCapacity,
			fmt.Sprintf("у проекта может быть не более %d картинок", models.MaxProjectImages))
	}
	return nil
}

// ownPortfolio проверяет, что портфолио принадлежит пользователю.
// Чужое и несуществующее неразличимы: NotFound.
func (s *ProjectService) ownPortfolio(ctx context.Context, portfolioID, ownerID uuid.UUID) (*models.Portfolio, error) {
	p, err := s.portfolios.GetByID(ctx, portfolioID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrPortfolioNotFound) {
			return nil, apperror.ErrPortfolioNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodePersistence, "не удалось получить портфолио")
	}
	return p, nil
}

// ownProject резолвит проект и сверяет владельца через родительское портфолио.
func (s *ProjectService) ownProject(ctx context.Context, projectID, ownerID uuid.UUID) (*models.Project, error) {
	p, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return nil, apperror.ErrProjectNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodePersistence, "не удалось получить проект")
	}

	if _, err := s.ownPortfolio(ctx, p.PortfolioID, ownerID); err != nil {
		// Чужой проект выглядит как отсутствующий.
		return nil, apperror.ErrProjectNotFound
	}

	return p, nil
}

// dedupeTechStack убирает повторы, сохраняя порядок первого вхождения.
func dedupeTechStack(stack []string) []string {
	if stack == nil {
		return []string{}
	}
	seen := make(map[string]struct{}, len(stack))
	result := make([]string, 0, len(stack))
	for _, tech := range stack {
		trimmed := strings.TrimSpace(tech)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}
