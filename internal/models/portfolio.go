package models

import (
	"time"

	"github.com/google/uuid"
)

// Идентификаторы шаблонов оформления.
const (
	TemplateMinimal  = "minimal"
	TemplateModern   = "modern"
	TemplateCreative = "creative"
)

// Дефолтные цвета темы нового портфолио.
const (
	DefaultPrimaryColor   = "#3b82f6"
	DefaultSecondaryColor = "#1e40af"
	DefaultAccentColor    = "#f59e0b"
)

// Portfolio — публичная страница пользователя. У одного владельца может быть
// несколько портфолио, username уникален глобально.
type Portfolio struct {
	ID             uuid.UUID `db:"id" json:"id"`
	OwnerID        uuid.UUID `db:"owner_id" json:"owner_id"`
	Username       string    `db:"username" json:"username"`
	DisplayName    *string   `db:"display_name" json:"display_name"`
	Tagline        *string   `db:"tagline" json:"tagline"`
	Bio            *string   `db:"bio" json:"bio"`
	AvatarURL      *string   `db:"avatar_url" json:"avatar_url"`
	HeroTitle      *string   `db:"hero_title" json:"hero_title"`
	HeroSubtitle   *string   `db:"hero_subtitle" json:"hero_subtitle"`
	CTAText        *string   `db:"cta_text" json:"cta_text"`
	CTAURL         *string   `db:"cta_url" json:"cta_url"`
	GithubURL      *string   `db:"github_url" json:"github_url"`
	LinkedinURL    *string   `db:"linkedin_url" json:"linkedin_url"`
	TwitterURL     *string   `db:"twitter_url" json:"twitter_url"`
	Email          *string   `db:"email" json:"email"`
	PrimaryColor   string    `db:"primary_color" json:"primary_color"`
	SecondaryColor string    `db:"secondary_color" json:"secondary_color"`
	AccentColor    string    `db:"accent_color" json:"accent_color"`
	TemplateID     string    `db:"template_id" json:"template_id"`
	IsPublished    bool      `db:"is_published" json:"is_published"`
	ViewsCount     int       `db:"views_count" json:"views_count"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// ProfileFields — частичное обновление полей профиля и темы. Nil означает
// "поле не трогать". Username, owner_id и views_count сюда не входят намеренно:
// их обновляют только отдельные операции.
type ProfileFields struct {
	DisplayName    *string `json:"display_name"`
	Tagline        *string `json:"tagline"`
	Bio            *string `json:"bio"`
	AvatarURL      *string `json:"avatar_url"`
	HeroTitle      *string `json:"hero_title"`
	HeroSubtitle   *string `json:"hero_subtitle"`
	CTAText        *string `json:"cta_text"`
	CTAURL         *string `json:"cta_url"`
	GithubURL      *string `json:"github_url"`
	LinkedinURL    *string `json:"linkedin_url"`
	TwitterURL     *string `json:"twitter_url"`
	Email          *string `json:"email"`
	PrimaryColor   *string `json:"primary_color"`
	SecondaryColor *string `json:"secondary_color"`
	AccentColor    *string `json:"accent_color"`
	TemplateID     *string `json:"template_id"`
}

// IsEmpty сообщает, все ли переданные поля пустые. Используется автосейвом,
// чтобы не записывать полностью пустой черновик при первом открытии редактора.
func (f *ProfileFields) IsEmpty() bool {
	for _, v := range []*string{
		f.DisplayName, f.Tagline, f.Bio, f.AvatarURL,
		f.HeroTitle, f.HeroSubtitle, f.CTAText, f.CTAURL,
		f.GithubURL, f.LinkedinURL, f.TwitterURL, f.Email,
		f.PrimaryColor, f.SecondaryColor, f.AccentColor, f.TemplateID,
	} {
		if v != nil && *v != "" {
			return false
		}
	}
	return true
}

// Merge накладывает более свежие правки поверх накопленных. Последняя запись
// каждого поля побеждает.
func (f *ProfileFields) Merge(in ProfileFields) {
	if in.DisplayName != nil {
		f.DisplayName = in.DisplayName
	}
	if in.Tagline != nil {
		f.Tagline = in.Tagline
	}
	if in.Bio != nil {
		f.Bio = in.Bio
	}
	if in.AvatarURL != nil {
		f.AvatarURL = in.AvatarURL
	}
	if in.HeroTitle != nil {
		f.HeroTitle = in.HeroTitle
	}
	if in.HeroSubtitle != nil {
		f.HeroSubtitle = in.HeroSubtitle
	}
	if in.CTAText != nil {
		f.CTAText = in.CTAText
	}
	if in.CTAURL != nil {
		f.CTAURL = in.CTAURL
	}
	if in.GithubURL != nil {
		f.GithubURL = in.GithubURL
	}
	if in.LinkedinURL != nil {
		f.LinkedinURL = in.LinkedinURL
	}
	if in.TwitterURL != nil {
		f.TwitterURL = in.TwitterURL
	}
	if in.Email != nil {
		f.Email = in.Email
	}
	if in.PrimaryColor != nil {
		f.PrimaryColor = in.PrimaryColor
	}
	if in.SecondaryColor != nil {
		f.SecondaryColor = in.SecondaryColor
	}
	if in.AccentColor != nil {
		f.AccentColor = in.AccentColor
	}
	if in.TemplateID != nil {
		f.TemplateID = in.TemplateID
	}
}
