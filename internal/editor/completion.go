package editor

import (
	"fmt"
	"strings"

	"github.com/codeportfolio/backend/internal/models"
)

// Section — вкладка редактора. Порядок фиксированный:
// profile → projects → skills → theme.
type Section string

const (
	SectionProfile  Section = "profile"
	SectionProjects Section = "projects"
	SectionSkills   Section = "skills"
	SectionTheme    Section = "theme"
)

// sectionOrder задаёт последовательность вкладок для гейтинга.
var sectionOrder = []Section{SectionProfile, SectionProjects, SectionSkills, SectionTheme}

// MinSkills — минимум навыков для полноты раздела skills.
const MinSkills = 3

// Snapshot — состояние редактора, загруженное одним запросом:
// портфолио, проекты и навыки.
type Snapshot struct {
	Portfolio *models.Portfolio `json:"portfolio"`
	Projects  []models.Project  `json:"projects"`
	Skills    []models.Skill    `json:"skills"`
}

// Completion — производные флаги полноты разделов. Чистая функция от
// текущего снапшота, своего персистентного состояния нет.
type Completion struct {
	Profile  bool `json:"profile"`
	Projects bool `json:"projects"`
	Skills   bool `json:"skills"`
	Theme    bool `json:"theme"`
}

// Completion вычисляет полноту разделов:
// profile — display_name и tagline непустые после trim;
// projects — хотя бы один проект;
// skills — хотя бы три навыка;
// theme — обязательных полей нет, всегда полон.
func (s *Snapshot) Completion() Completion {
	return Completion{
		Profile:  nonBlank(s.Portfolio.DisplayName) && nonBlank(s.Portfolio.Tagline),
		Projects: len(s.Projects) >= 1,
		Skills:   len(s.Skills) >= MinSkills,
		Theme:    true,
	}
}

// Complete сообщает полноту конкретного раздела.
func (c Completion) Complete(s Section) bool {
	switch s {
	case SectionProfile:
		return c.Profile
	case SectionProjects:
		return c.Projects
	case SectionSkills:
		return c.Skills
	case SectionTheme:
		return c.Theme
	}
	return false
}

// AllComplete сообщает, полны ли все разделы.
func (c Completion) AllComplete() bool {
	return c.Profile && c.Projects && c.Skills && c.Theme
}

// TransitionError описывает отклонённый переход: пользователь остаётся на
// месте, поля с проблемами перечислены для подсветки.
type TransitionError struct {
	From          Section  `json:"from"`
	To            Section  `json:"to"`
	MissingFields []string `json:"missing_fields"`
}

func (e *TransitionError) Error() string {
	return "раздел " + string(e.From) + " не завершён: " + strings.Join(e.MissingFields, ", ")
}

// CanTransition проверяет переход между вкладками. Назад — всегда можно.
// Вперёд — только если текущий раздел полон на момент перехода; иначе
// переход отклоняется целиком, частичных переходов нет. Публикацию гейтинг
// не затрагивает: она разрешена из любого раздела.
func (s *Snapshot) CanTransition(from, to Section) error {
	fromIdx, toIdx := sectionIndex(from), sectionIndex(to)
	if fromIdx < 0 || toIdx < 0 {
		return &TransitionError{From: from, To: to, MissingFields: []string{"неизвестный раздел"}}
	}

	if toIdx <= fromIdx {
		return nil
	}

	if s.Completion().Complete(from) {
		return nil
	}

	return &TransitionError{From: from, To: to, MissingFields: s.missingFields(from)}
}

func sectionIndex(s Section) int {
	for i, candidate := range sectionOrder {
		if candidate == s {
			return i
		}
	}
	return -1
}

// missingFields называет, чего именно не хватает разделу.
func (s *Snapshot) missingFields(section Section) []string {
	switch section {
	case SectionProfile:
		var missing []string
		if !nonBlank(s.Portfolio.DisplayName) {
			missing = append(missing, "display_name")
		}
		if !nonBlank(s.Portfolio.Tagline) {
			missing = append(missing, "tagline")
		}
		return missing
	case SectionProjects:
		return []string{"нужен хотя бы один проект"}
	case SectionSkills:
		left := MinSkills - len(s.Skills)
		return []string{fmt.Sprintf("не хватает навыков: %d", left)}
	}
	return nil
}

func nonBlank(v *string) bool {
	return v != nil && strings.TrimSpace(*v) != ""
}
