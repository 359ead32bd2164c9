package models

import (
	"time"

	"github.com/google/uuid"
)

// Skill — навык в портфолио. Дубликаты имён не схлопываются: свободное
// тегирование, проверки уникальности на уровне хранилища нет.
type Skill struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PortfolioID uuid.UUID `db:"portfolio_id" json:"portfolio_id"`
	Name        string    `db:"name" json:"name"`
	Category    *string   `db:"category" json:"category"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
