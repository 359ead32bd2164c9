package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinUsernameLength     = 3
	MaxUsernameLength     = 30
	MaxDisplayNameLength  = 100
	MaxTaglineLength      = 200
	MaxBioLength          = 2000
	MaxProjectTitleLength = 200
	MaxDescriptionLength  = 2000
	MaxSkillNameLength    = 50
	MaxCategoryLength     = 50
	MaxURLLength          = 500
)

var (
	usernameRegex = regexp.MustCompile(`^[a-z0-9-]+$`)
	hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// SanitizeUsername приводит кандидата к канонической форме: нижний регистр,
// все символы вне [a-z0-9-] отбрасываются.
func SanitizeUsername(candidate string) string {
	lowered := strings.ToLower(strings.TrimSpace(candidate))
	var b strings.Builder
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateUsername проверяет уже нормализованное имя портфолио.
func ValidateUsername(username string) error {
	if err := ValidateLength("имя пользователя", username, MinUsernameLength, MaxUsernameLength); err != nil {
		return err
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("имя пользователя может содержать только строчные буквы, цифры и дефис")
	}
	return nil
}

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая после обрезки пробелов.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateHexColor проверяет цвет темы в формате #rrggbb.
func ValidateHexColor(fieldName, value string) error {
	if !hexColorRegex.MatchString(value) {
		return fmt.Errorf("%s должен быть hex-цветом вида #rrggbb", fieldName)
	}
	return nil
}

// ValidateOptionalURL проверяет ссылку, если она задана.
func ValidateOptionalURL(fieldName string, value *string) error {
	if value == nil || *value == "" {
		return nil
	}
	if err := ValidateLength(fieldName, *value, 0, MaxURLLength); err != nil {
		return err
	}
	parsed, err := url.Parse(*value)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%s должен быть корректным http(s) адресом", fieldName)
	}
	return nil
}

// ValidateSkillName проверяет имя навыка.
func ValidateSkillName(name string) error {
	if err := ValidateNonEmpty("название навыка", name); err != nil {
		return err
	}
	return ValidateLength("название навыка", strings.TrimSpace(name), 0, MaxSkillNameLength)
}
