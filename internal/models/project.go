package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxProjectImages — потолок картинок у одного проекта. Первая картинка
// последовательности считается обложкой.
const MaxProjectImages = 5

// Project — работа внутри портфолио. Позиция задаётся display_order:
// значения сравниваются только относительно, дырки после удалений допустимы.
type Project struct {
	ID           uuid.UUID `db:"id" json:"id"`
	PortfolioID  uuid.UUID `db:"portfolio_id" json:"portfolio_id"`
	Title        string    `db:"title" json:"title"`
	Description  *string   `db:"description" json:"description"`
	ImageURLs    []string  `db:"-" json:"image_urls"`
	DemoURL      *string   `db:"demo_url" json:"demo_url"`
	GithubURL    *string   `db:"github_url" json:"github_url"`
	TechStack    []string  `db:"-" json:"tech_stack"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ProjectFields — редактируемые поля проекта. Полная замена при обновлении,
// display_order не входит: его меняет только reorder.
type ProjectFields struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	ImageURLs   []string `json:"image_urls"`
	DemoURL     *string  `json:"demo_url"`
	GithubURL   *string  `json:"github_url"`
	TechStack   []string `json:"tech_stack"`
}

// CoverImage возвращает обложку проекта (первый элемент последовательности).
func (p *Project) CoverImage() (string, bool) {
	if len(p.ImageURLs) == 0 {
		return "", false
	}
	return p.ImageURLs[0], true
}
