package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/codeportfolio/backend/internal/models"
)

// ErrProjectNotFound возвращается, когда проект не найден.
var ErrProjectNotFound = errors.New("project not found")

// ProjectRepository отвечает за работу с проектами портфолио.
type ProjectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository создаёт экземпляр репозитория.
func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create вставляет проект с display_order = max + 1 (0 для пустой коллекции).
// COALESCE считается в том же запросе, отдельного SELECT не нужно.
func (r *ProjectRepository) Create(ctx context.Context, p *models.Project) error {
	query := `
		INSERT INTO projects (portfolio_id, title, description, image_urls, demo_url, github_url, tech_stack, display_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
			COALESCE((SELECT MAX(display_order) + 1 FROM projects WHERE portfolio_id = $1), 0))
		RETURNING id, display_order, created_at
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		p.PortfolioID,
		p.Title,
		p.Description,
		pq.Array(p.ImageURLs),
		p.DemoURL,
		p.GithubURL,
		pq.Array(p.TechStack),
	).Scan(&p.ID, &p.DisplayOrder, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("project repository: insert %w", err)
	}

	return nil
}

// GetByID возвращает проект по идентификатору.
func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := `
		SELECT id, portfolio_id, title, description, image_urls, demo_url, github_url, tech_stack, display_order, created_at
		FROM projects
		WHERE id = $1
	`

	var p models.Project
	var imageURLs, techStack pq.StringArray

	err := r.db.QueryRowxContext(ctx, query, id).Scan(
		&p.ID,
		&p.PortfolioID,
		&p.Title,
		&p.Description,
		&imageURLs,
		&p.DemoURL,
		&p.GithubURL,
		&techStack,
		&p.DisplayOrder,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("project repository: get by id %w", err)
	}

	p.ImageURLs = []string(imageURLs)
	p.TechStack = []string(techStack)
	return &p, nil
}

// ListByPortfolio возвращает проекты в порядке display_order.
// Дырки в нумерации допустимы: важен только относительный порядок.
func (r *ProjectRepository) ListByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]models.Project, error) {
	query := `
		SELECT id, portfolio_id, title, description, image_urls, demo_url, github_url, tech_stack, display_order, created_at
		FROM projects
		WHERE portfolio_id = $1
		ORDER BY display_order, created_at
	`

	rows, err := r.db.QueryxContext(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("project repository: list query %w", err)
	}
	defer rows.Close()

	var items []models.Project
	for rows.Next() {
		var p models.Project
		var imageURLs, techStack pq.StringArray

		if err := rows.Scan(
			&p.ID,
			&p.PortfolioID,
			&p.Title,
			&p.Description,
			&imageURLs,
			&p.DemoURL,
			&p.GithubURL,
			&techStack,
			&p.DisplayOrder,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("project repository: list scan %w", err)
		}

		p.ImageURLs = []string(imageURLs)
		p.TechStack = []string(techStack)
		items = append(items, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("project repository: list rows %w", err)
	}

	return items, nil
}

// Update заменяет редактируемые поля проекта целиком. display_order не трогает.
func (r *ProjectRepository) Update(ctx context.Context, p *models.Project) error {
	query := `
		UPDATE projects
		SET title = $1,
		    description = $2,
		    image_urls = $3,
		    demo_url = $4,
		    github_url = $5,
		    tech_stack = $6
		WHERE id = $7
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		p.Title,
		p.Description,
		pq.Array(p.ImageURLs),
		p.DemoURL,
		p.GithubURL,
		pq.Array(p.TechStack),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("project repository: update %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("project repository: update rows affected %w", err)
	}
	if affected == 0 {
		return ErrProjectNotFound
	}

	return nil
}

// SetDisplayOrder выставляет позицию одной записи. Отсутствующая запись —
// no-op: вернётся ErrProjectNotFound, вызывающий решает, прерываться ли.
func (r *ProjectRepository) SetDisplayOrder(ctx context.Context, projectID, portfolioID uuid.UUID, order int) error {
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE projects SET display_order = $1 WHERE id = $2 AND portfolio_id = $3`,
		order, projectID, portfolioID,
	)
	if err != nil {
		return fmt.Errorf("project repository: set display order %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("project repository: set display order rows affected %w", err)
	}
	if affected == 0 {
		return ErrProjectNotFound
	}

	return nil
}

// Delete удаляет проект. Оставшиеся записи не перенумеровываются.
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("project repository: delete %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("project repository: delete rows affected %w", err)
	}
	if affected == 0 {
		return ErrProjectNotFound
	}

	return nil
}
