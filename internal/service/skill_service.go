package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/codeportfolio/backend/internal/models"
	"github.com/codeportfolio/backend/internal/pkg/apperror"
	"github.com/codeportfolio/backend/internal/repository"
	"github.com/codeportfolio/backend/internal/validation"
)

// SkillRepository описывает взаимодействие сервиса с хранилищем навыков.
type SkillRepository interface {
	Create(ctx context.Context, s *models.Skill) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Skill, error)
	ListByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]models.Skill, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SkillService управляет навыками портфолио.
type SkillService struct {
	repo       SkillRepository
	portfolios PortfolioOwnership
}

// NewSkillService создаёт новый сервис навыков.
func NewSkillService(repo SkillRepository, portfolios PortfolioOwnership) *SkillService {
	return &SkillService{repo: repo, portfolios: portfolios}
}

// AddSkill добавляет навык. Дубликаты имён не отсекаются и не нормализуются —
// свободное тегирование.
func (s *SkillService) AddSkill(ctx context.Context, portfolioID, ownerID uuid.UUID, name string, category *string) (*models.Skill, error) {
	if _, err := s.portfolios.GetByID(ctx, portfolioID, ownerID); err != nil {
		if errors.Is(err, repository.ErrPortfolioNotFound) {
			return nil, apperror.ErrPortfolioNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodePersistence, "не удалось получить портфолио")
	}

	if err := validation.ValidateSkillName(name); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	skill := &models.Skill{
		PortfolioID: portfolioID,
		Name:        strings.TrimSpace(name),
		Category:    normalizeOptional(category),
	}

	if err := s.repo.Create(ctx, skill); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodePersistence, "не удалось создать навык")
	}

	return skill, nil
}

// DeleteSkill безусловно удаляет навык владельца. Подтверждение не требуется —
// ставки ниже, чем при удалении проекта.
func (s *SkillService) DeleteSkill(ctx context.Context, skillID, ownerID uuid.UUID) error {
	skill, err := s.repo.GetByID(ctx, skillID)
	if err != nil {
		if errors.Is(err, repository.ErrSkillNotFound) {
			return apperror.ErrSkillNotFound
		}
		return apperror.Wrap(err, apperror.ErrCodePersistence, "не удалось получить навык")
	}

	if _, err := s.portfolios.GetByID(ctx, skill.PortfolioID, ownerID); err != nil {
		// Чужой навык выглядит как отсутствующий.
		return apperror.ErrSkillNotFound
	}

	if err := s.repo.Delete(ctx, skillID); err != nil {
		if errors.Is(err, repository.ErrSkillNotFound) {
			return apperror.ErrSkillNotFound
		}
		return apperror.Wrap(err, apperror.ErrCodePersistence, "не удалось удалить навык")
	}

	return nil
}

// ListSkills возвращает навыки портфолио владельцу.
func (s *SkillService) ListSkills(ctx context.Context, portfolioID, ownerID uuid.UUID) ([]models.Skill, error) {
	if _, err := s.portfolios.GetByID(ctx, portfolioID, ownerID); err != nil {
		if errors.Is(err, repository.ErrPortfolioNotFound) {
			return nil, apperror.ErrPortfolioNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodePersistence, "не удалось получить портфолио")
	}

	items, err := s.repo.ListByPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodePersistence, "не удалось получить навыки")
	}
	return items, nil
}
