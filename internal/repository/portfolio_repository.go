package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/codeportfolio/backend/internal/models"
)

// Ошибки уровня хранилища.
var (
	ErrPortfolioNotFound = errors.New("portfolio not found")
	ErrUsernameTaken     = errors.New("username already taken")
)

// Код unique_violation в PostgreSQL.
const pgUniqueViolation = "23505"

// PortfolioRepository отвечает за работу с портфолио.
type PortfolioRepository struct {
	db *sqlx.DB
}

// NewPortfolioRepository создаёт экземпляр репозитория.
func NewPortfolioRepository(db *sqlx.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

const portfolioColumns = `
	id, owner_id, username, display_name, tagline, bio, avatar_url,
	hero_title, hero_subtitle, cta_text, cta_url,
	github_url, linkedin_url, twitter_url, email,
	primary_color, secondary_color, accent_color,
	template_id, is_published, views_count, created_at, updated_at
`

// Create вставляет новое портфолио. Нарушение уникальности username
// транслируется в ErrUsernameTaken.
func (r *PortfolioRepository) Create(ctx context.Context, p *models.Portfolio) error {
	query := `
		INSERT INTO portfolios (owner_id, username, template_id, is_published)
		VALUES ($1, $2, $3, FALSE)
		RETURNING ` + portfolioColumns

	err := r.db.QueryRowxContext(ctx, query, p.OwnerID, p.Username, p.TemplateID).StructScan(p)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return ErrUsernameTaken
		}
		return fmt.Errorf("portfolio repository: insert %w", err)
	}

	return nil
}

// GetByID возвращает портфолио по идентификатору с проверкой владельца.
func (r *PortfolioRepository) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*models.Portfolio, error) {
	query := `SELECT ` + portfolioColumns + ` FROM portfolios WHERE id = $1 AND owner_id = $2`

	var p models.Portfolio
	if err := r.db.GetContext(ctx, &p, query, id, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPortfolioNotFound
		}
		return nil, fmt.Errorf("portfolio repository: get by id %w", err)
	}

	return &p, nil
}

// GetPublishedByUsername возвращает опубликованное портфолио по точному
// совпадению username. Неопубликованное и несуществующее неразличимы:
// оба дают ErrPortfolioNotFound.
func (r *PortfolioRepository) GetPublishedByUsername(ctx context.Context, username string) (*models.Portfolio, error) {
	query := `SELECT ` + portfolioColumns + ` FROM portfolios WHERE username = $1 AND is_published = TRUE`

	var p models.Portfolio
	if err := r.db.GetContext(ctx, &p, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPortfolioNotFound
		}
		return nil, fmt.Errorf("portfolio repository: get published %w", err)
	}

	return &p, nil
}

// UsernameExists проверяет занятость нормализованного username.
// Режим maybeSingle: отсутствие строки — не ошибка.
func (r *PortfolioRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM portfolios WHERE username = $1)`, username)
	if err != nil {
		return false, fmt.Errorf("portfolio repository: username exists %w", err)
	}
	return exists, nil
}

// ListByOwner возвращает все портфолио пользователя.
func (r *PortfolioRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Portfolio, error) {
	query := `SELECT ` + portfolioColumns + ` FROM portfolios WHERE owner_id = $1 ORDER BY created_at DESC`

	var items []models.Portfolio
	if err := r.db.SelectContext(ctx, &items, query, ownerID); err != nil {
		return nil, fmt.Errorf("portfolio repository: list %w", err)
	}
	return items, nil
}

// UpdateProfile выполняет частичное обновление полей профиля и темы.
// Трогает только переданные поля: автосейв и публикация не затирают
// записи друг друга. Username, owner_id и views_count не обновляются.
func (r *PortfolioRepository) UpdateProfile(ctx context.Context, id, ownerID uuid.UUID, fields models.ProfileFields) error {
	set := make([]string, 0, 17)
	args := make([]interface{}, 0, 19)

	appendField := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	appendField("display_name", fields.DisplayName)
	appendField("tagline", fields.Tagline)
	appendField("bio", fields.Bio)
	appendField("avatar_url", fields.AvatarURL)
	appendField("hero_title", fields.HeroTitle)
	appendField("hero_subtitle", fields.HeroSubtitle)
	appendField("cta_text", fields.CTAText)
	appendField("cta_url", fields.CTAURL)
	appendField("github_url", fields.GithubURL)
	appendField("linkedin_url", fields.LinkedinURL)
	appendField("twitter_url", fields.TwitterURL)
	appendField("email", fields.Email)
	appendField("primary_color", fields.PrimaryColor)
	appendField("secondary_color", fields.SecondaryColor)
	appendField("accent_color", fields.AccentColor)
	appendField("template_id", fields.TemplateID)

	if len(set) == 0 {
		return nil
	}

	set = append(set, "updated_at = NOW()")

	args = append(args, id)
	idArg := len(args)
	args = append(args, ownerID)
	ownerArg := len(args)

	query := fmt.Sprintf(
		`UPDATE portfolios SET %s WHERE id = $%d AND owner_id = $%d`,
		strings.Join(set, ", "), idArg, ownerArg,
	)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("portfolio repository: update profile %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("portfolio repository: update profile rows affected %w", err)
	}
	if affected == 0 {
		return ErrPortfolioNotFound
	}

	return nil
}

// TogglePublished переключает флаг публикации и возвращает новое значение.
// Один UPDATE с инверсией: повторный вызов возвращает исходное состояние.
func (r *PortfolioRepository) TogglePublished(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	var published bool
	query := `
		UPDATE portfolios
		SET is_published = NOT is_published, updated_at = NOW()
		WHERE id = $1 AND owner_id = $2
		RETURNING is_published
	`

	if err := r.db.GetContext(ctx, &published, query, id, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrPortfolioNotFound
		}
		return false, fmt.Errorf("portfolio repository: toggle published %w", err)
	}

	return published, nil
}

// IncrementViews увеличивает счётчик просмотров.
func (r *PortfolioRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE portfolios SET views_count = views_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("portfolio repository: increment views %w", err)
	}
	return nil
}

// Delete удаляет портфолио. Проекты и навыки уходят каскадом по FK.
func (r *PortfolioRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM portfolios WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("portfolio repository: delete %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("portfolio repository: delete rows affected %w", err)
	}
	if affected == 0 {
		return ErrPortfolioNotFound
	}

	return nil
}
