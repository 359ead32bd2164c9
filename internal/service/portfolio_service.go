package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/codeportfolio/backend/internal/goroutine"
	"github.com/codeportfolio/backend/internal/logger"
	"github.com/codeportfolio/backend/internal/models"
	"github.com/codeportfolio/backend/internal/pkg/apperror"
	"github.com/codeportfolio/backend/internal/repository"
	"github.com/codeportfolio/backend/internal/validation"
)

// Availability — итог проверки доступности username.
type Availability string

const (
	// AvailabilityUnknown — кандидат слишком короткий, проверка не выполнялась.
	AvailabilityUnknown Availability = "unknown"
	AvailabilityFree    Availability = "available"
	AvailabilityTaken   Availability = "taken"
)

// PortfolioRepository описывает взаимодействие сервиса с хранилищем портфолио.
type PortfolioRepository interface {
	Create(ctx context.Context, p *models.Portfolio) error
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*models.Portfolio, error)
	GetPublishedByUsername(ctx context.Context, username string) (*models.Portfolio, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Portfolio, error)
	UpdateProfile(ctx context.Context, id, ownerID uuid.UUID, fields models.ProfileFields) error
	TogglePublished(ctx context.Context, id, ownerID uuid.UUID) (bool, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

// ProjectLister и SkillLister нужны сервису для сборки снапшотов.
type ProjectLister interface {
	ListByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]models.Project, error)
}

type SkillLister interface {
	ListByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]models.Skill, error)
}

// PortfolioService содержит бизнес-логику портфолио: реестр username,
// хранилище профиля, публикация и публичная выдача.
type PortfolioService struct {
	repo     PortfolioRepository
	projects ProjectLister
	skills   SkillLister
}

// PublicView — read-only полезная нагрузка публичной страницы.
type PublicView struct {
	Portfolio *models.Portfolio `json:"portfolio"`
	Projects  []models.Project  `json:"projects"`
	Skills    []models.Skill    `json:"skills"`
}

// NewPortfolioService создаёт новый сервис портфолио.
func NewPortfolioService(repo PortfolioRepository, projects ProjectLister, skills SkillLister) *PortfolioService {
	return &PortfolioService{repo: repo, projects: projects, skills: skills}
}

// CheckAvailability проверяет доступность username-кандидата.
// Кандидат сначала нормализуется; короче 3 символов — нейтральный результат
// без единого запроса к хранилищу, чтобы не шуметь во время набора.
func (s *PortfolioService) CheckAvailability(ctx context.Context, candidate string) (Availability, error) {
	sanitized := validation.SanitizeUsername(candidate)
	if len(sanitized) < validation.MinUsernameLength {
		return AvailabilityUnknown, nil
	}

	exists, err := s.repo.UsernameExists(ctx, sanitized)
	if err != nil {
		return AvailabilityUnknown, apperror.Wrap(err, apperror.ErrCodePersistence, "не удалось проверить имя")
	}

	if exists {
		return AvailabilityTaken, nil
	}
	return AvailabilityFree, nil
}

// CreatePortfolio создаёт пустое портфолио: только владелец, username и шаблон.
// is_published всегда false. Финальный арбитр уникальности — constraint базы:
// проверка доступности в UI не даёт резервации.
func (s *PortfolioService) CreatePortfolio(ctx context.Context, ownerID uuid.UUID, username, templateID string) (*models.Portfolio, error) {
	sanitized := validation.SanitizeUsername(username)
	if err := validation.ValidateUsername(sanitized); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	if templateID == "" {
		templateID = models.TemplateMinimal
	}

	p := &models.Portfolio{
		OwnerID:    ownerID,
		Username:   sanitized,
		TemplateID: templateID,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil, apperror.ErrDuplicateUsername
		}
		return nil, apperror.Wrap(err, apperror.ErrCodePersistence, "не удалось создать портфолио")
	}

	return p, nil
}

// GetPortfolio возвращает портфолио владельца.
func (s *PortfolioService) GetPortfolio(ctx context.Context, id, ownerID uuid.UUID) (*models.Portfolio, error) {
	p, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrPortfolioNotFound) {
			return nil, apperror.ErrPortfolioNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodePersistence, "не удалось получить портфолио")
	}
	return p, nil
}

// ListPortfolios возвращает портфолио пользователя для дашборда.
func (s *PortfolioService) ListPortfolios(ctx context.Context, ownerID uuid.UUID) ([]models.Portfolio, error) {
	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodePersistence, "не удалось получить список портфолио")
	}
	return items, nil
}

// UpdateProfile выполняет частичное обновление полей профиля и темы.
// Цвета проверяются, если присланы; ссылки — если присланы.
func (s *PortfolioService) UpdateProfile(ctx context.Context, id, ownerID uuid.UUID, fields models.ProfileFields) error {
	for _, color := range []struct {
		name  string
		value *string
	}{
		{"primary_color", fields.PrimaryColor},
		{"secondary_color", fields.SecondaryColor},
		{"accent_color", fields.AccentColor},
	} {
		if color.value != nil {
			if err := validation.ValidateHexColor(color.name, *color.value); err != nil {
				return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
			}
		}
	}

	for _, link := range []struct {
		name  string
		value *string
	}{
		{"cta_url", fields.CTAURL},
		{"github_url", fields.GithubURL},
		{"linkedin_url", fields.LinkedinURL},
		{"twitter_url", fields.TwitterURL},
	} {
		if err := validation.ValidateOptionalURL(link.name, link.value); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}

	if err := s.repo.UpdateProfile(ctx, id, ownerID, fields); err != nil {
		if errors.Is(err, repository.ErrPortfolioNotFound) {
			return apperror.ErrPortfolioNotFound
		}
		return apperror.Wrap(err, apperror.ErrCodePersistence, "не удалось сохранить профиль")
	}

	return nil
}

// TogglePublish переключает флаг публикации и возвращает новое состояние.
// Публикация не завязана на полноту разделов: неполное портфолио
// публикуется и просто рендерится скудно.
func (s *PortfolioService) TogglePublish(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	published, err := s.repo.TogglePublished(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrPortfolioNotFound) {
			return false, apperror.ErrPortfolioNotFound
		}
		return false, apperror.Wrap(err, apperror.ErrCodePersistence, "не удалось переключить публикацию")
	}
	return published, nil
}

// DeletePortfolio удаляет портфолио вместе с проектами и навыками.
// Необратимо; подтверждение — забота вызывающей стороны.
func (s *PortfolioService) DeletePortfolio(ctx context.Context, id, ownerID uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		if errors.Is(err, repository.ErrPortfolioNotFound) {
			return apperror.ErrPortfolioNotFound
		}
		return apperror.Wrap(err, apperror.ErrCodePersistence, "не удалось удалить портфолио")
	}
	return nil
}

// ResolvePublic собирает полезную нагрузку публичной страницы. Портфолио
// резолвится только по точному совпадению уже нормализованного username
// и is_published = true. Несуществующее и неопубликованное снаружи
// неразличимы — оба дают NotFound одинаковой формы.
func (s *PortfolioService) ResolvePublic(ctx context.Context, username string) (*PublicView, error) {
	p, err := s.repo.GetPublishedByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrPortfolioNotFound) {
			return nil, apperror.ErrPortfolioNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodePersistence, "не удалось получить портфолио")
	}

	projects, err := s.projects.ListByPortfolio(ctx, p.ID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodePersistence, "не удалось получить проекты")
	}

	skills, err := s.skills.ListByPortfolio(ctx, p.ID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodePersistence, "не удалось получить навыки")
	}

	if projects == nil {
		projects = []models.Project{}
	}
	if skills == nil {
		skills = []models.Skill{}
	}

	// Счётчик просмотров — fire-and-forget: ошибка логируется
	// и никогда не валит рендер страницы.
	portfolioID := p.ID
	goroutine.SafeGo(func() {
		if err := s.repo.IncrementViews(context.Background(), portfolioID); err != nil {
			if logger.Log != nil {
				logger.Log.WithFields(logrus.Fields{
					"portfolio_id": portfolioID,
					"error":        err.Error(),
				}).Warn("не удалось увеличить счётчик просмотров")
			}
		}
	})

	return &PublicView{Portfolio: p, Projects: projects, Skills: skills}, nil
}

// normalizeOptional обрезает пробелы и превращает пустую строку в nil.
func normalizeOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
