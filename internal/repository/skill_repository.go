package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/codeportfolio/backend/internal/models"
)

// ErrSkillNotFound возвращается, когда навык не найден.
var ErrSkillNotFound = errors.New("skill not found")

// SkillRepository отвечает за работу с навыками.
type SkillRepository struct {
	db *sqlx.DB
}

// NewSkillRepository создаёт экземпляр репозитория.
func NewSkillRepository(db *sqlx.DB) *SkillRepository {
	return &SkillRepository{db: db}
}

// Create вставляет навык. Дубликаты имён не отсекаются.
func (r *SkillRepository) Create(ctx context.Context, s *models.Skill) error {
	query := `
		INSERT INTO skills (portfolio_id, name, category)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(ctx, query, s.PortfolioID, s.Name, s.Category).Scan(&s.ID, &s.CreatedAt); err != nil {
		return fmt.Errorf("skill repository: insert %w", err)
	}

	return nil
}

// GetByID возвращает навык по идентификатору.
func (r *SkillRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	var s models.Skill
	err := r.db.GetContext(ctx, &s, `SELECT id, portfolio_id, name, category, created_at FROM skills WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSkillNotFound
		}
		return nil, fmt.Errorf("skill repository: get by id %w", err)
	}
	return &s, nil
}

// ListByPortfolio возвращает навыки портфолио.
func (r *SkillRepository) ListByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]models.Skill, error) {
	query := `SELECT id, portfolio_id, name, category, created_at FROM skills WHERE portfolio_id = $1 ORDER BY created_at`

	var items []models.Skill
	if err := r.db.SelectContext(ctx, &items, query, portfolioID); err != nil {
		return nil, fmt.Errorf("skill repository: list %w", err)
	}
	return items, nil
}

// Delete удаляет навык без дополнительных проверок.
func (r *SkillRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM skills WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("skill repository: delete %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("skill repository: delete rows affected %w", err)
	}
	if affected == 0 {
		return ErrSkillNotFound
	}

	return nil
}
