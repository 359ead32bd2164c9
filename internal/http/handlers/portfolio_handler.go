package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/codeportfolio/backend/internal/editor"
	"github.com/codeportfolio/backend/internal/http/handlers/common"
	"github.com/codeportfolio/backend/internal/http/response"
	"github.com/codeportfolio/backend/internal/models"
	"github.com/codeportfolio/backend/internal/pkg/apperror"
	"github.com/codeportfolio/backend/internal/service"
	"github.com/codeportfolio/backend/internal/storage"
	"github.com/codeportfolio/backend/internal/ws"
)

// PortfolioHandler обслуживает CRUD портфолио, редактор и публикацию.
type PortfolioHandler struct {
	portfolios *service.PortfolioService
	projects   *service.ProjectService
	skills     *service.SkillService
	autosaver  *editor.Autosaver
	notifier   *ws.EditorNotifier
	storage    *storage.ImageStorage
}

// NewPortfolioHandler создаёт хэндлер.
func NewPortfolioHandler(
	portfolios *service.PortfolioService,
	projects *service.ProjectService,
	skills *service.SkillService,
	autosaver *editor.Autosaver,
	notifier *ws.EditorNotifier,
	store *storage.ImageStorage,
) *PortfolioHandler {
	return &PortfolioHandler{
		portfolios: portfolios,
		projects:   projects,
		skills:     skills,
		autosaver:  autosaver,
		notifier:   notifier,
		storage:    store,
	}
}

// Create обрабатывает POST /api/portfolios.
func (h *PortfolioHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	var req struct {
		Username   string `json:"username" binding:"required"`
		TemplateID string `json:"template_id"`
	}
	if err := common.BindAndValidate(c, &req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	portfolio, err := h.portfolios.CreatePortfolio(c.Request.Context(), userID, req.Username, req.TemplateID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, portfolio)
}

// List обрабатывает GET /api/portfolios.
func (h *PortfolioHandler) List(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	portfolios, err := h.portfolios.ListPortfolios(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, portfolios)
}

// Get обрабатывает GET /api/portfolios/:id.
func (h *PortfolioHandler) Get(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	portfolioID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	portfolio, err := h.portfolios.GetPortfolio(c.Request.Context(), portfolioID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, portfolio)
}

// CheckUsername обрабатывает GET /api/portfolios/username-check?u=...
// Короткий кандидат даёт нейтральный ответ без запроса к базе.
func (h *PortfolioHandler) CheckUsername(c *gin.Context) {
	candidate := c.Query("u")
	if candidate == "" {
		candidate = c.Query("username")
	}

	availability, err := h.portfolios.CheckAvailability(c.Request.Context(), candidate)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"availability": availability})
}

// Editor обрабатывает GET /api/portfolios/:id/editor.
// Возвращает снапшот редактора одним запросом: портфолио, проекты,
// навыки и производные флаги полноты разделов.
func (h *PortfolioHandler) Editor(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	portfolioID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	snapshot, err := h.loadSnapshot(c, portfolioID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{
		"portfolio":  snapshot.Portfolio,
		"projects":   snapshot.Projects,
		"skills":     snapshot.Skills,
		"completion": snapshot.Completion(),
	})
}

// Transition обрабатывает POST /api/portfolios/:id/editor/transition.
// Назад — всегда можно; вперёд — только из завершённого раздела. Отклонённый
// переход возвращает список полей, которых не хватает.
func (h *PortfolioHandler) Transition(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	portfolioID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var req struct {
		From string `json:"from" binding:"required"`
		To   string `json:"to" binding:"required"`
	}
	if err := common.BindAndValidate(c, &req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	snapshot, err := h.loadSnapshot(c, portfolioID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := snapshot.CanTransition(editor.Section(req.From), editor.Section(req.To)); err != nil {
		var transErr *editor.TransitionError
		if errors.As(err, &transErr) {
			response.ErrorWithDetails(c, http.StatusUnprocessableEntity, apperror.ErrCodeValidation, transErr.Error(), transErr)
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"allowed": true})
}

// UpdateProfile обрабатывает PATCH /api/portfolios/:id.
// Немедленное частичное обновление в обход дебаунса (явное сохранение).
func (h *PortfolioHandler) UpdateProfile(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	portfolioID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var fields models.ProfileFields
	if err := common.BindAndValidate(c, &fields); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.portfolios.UpdateProfile(c.Request.Context(), portfolioID, userID, fields); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "профиль обновлён"})
}

// Draft обрабатывает POST /api/portfolios/:id/draft.
// Правка попадает в дебаунс-очередь автосейва, ответ не ждёт коммита.
func (h *PortfolioHandler) Draft(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	portfolioID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// Проверяем владение до постановки в очередь: чужой черновик не копим.
	if _, err := h.portfolios.GetPortfolio(c.Request.Context(), portfolioID, userID); err != nil {
		response.Error(c, err)
		return
	}

	var fields models.ProfileFields
	if err := common.BindAndValidate(c, &fields); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	h.autosaver.Schedule(portfolioID, userID, fields)
	c.JSON(http.StatusAccepted, response.Response{Success: true, Data: gin.H{"scheduled": true}})
}

// DiscardDraft обрабатывает DELETE /api/portfolios/:id/draft.
// Снимает отложенный коммит без записи: закрытие редактора черновик не доливает.
func (h *PortfolioHandler) DiscardDraft(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	portfolioID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if _, err := h.portfolios.GetPortfolio(c.Request.Context(), portfolioID, userID); err != nil {
		response.Error(c, err)
		return
	}

	h.autosaver.Cancel(portfolioID)
	response.Success(c, gin.H{"cancelled": true})
}

// TogglePublish обрабатывает POST /api/portfolios/:id/publish.
// Публикация не гейтится полнотой разделов: кнопка доступна всегда.
func (h *PortfolioHandler) TogglePublish(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	portfolioID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	published, err := h.portfolios.TogglePublish(c.Request.Context(), portfolioID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.notifier != nil {
		h.notifier.NotifyPublishChanged(userID, portfolioID, published)
	}

	response.Success(c, gin.H{"is_published": published})
}

// Delete обрабатывает DELETE /api/portfolios/:id.
func (h *PortfolioHandler) Delete(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	portfolioID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// Собираем ссылки на файлы до удаления записей: после каскада их
	// уже не перечислить.
	var orphaned []string
	if snapshot, err := h.loadSnapshot(c, portfolioID, userID); err == nil {
		if snapshot.Portfolio.AvatarURL != nil {
			orphaned = append(orphaned, *snapshot.Portfolio.AvatarURL)
		}
		for _, p := range snapshot.Projects {
			orphaned = append(orphaned, p.ImageURLs...)
		}
	}

	if err := h.portfolios.DeletePortfolio(c.Request.Context(), portfolioID, userID); err != nil {
		response.Error(c, err)
		return
	}

	h.autosaver.Cancel(portfolioID)

	// Файлы подчищаем best-effort: записи уже удалены.
	for _, url := range orphaned {
		if rel := h.storage.RelativePath(url); rel != "" {
			_ = h.storage.Delete(c.Request.Context(), rel)
		}
	}

	c.Status(http.StatusNoContent)
}

// loadSnapshot собирает состояние редактора из трёх источников.
func (h *PortfolioHandler) loadSnapshot(c *gin.Context, portfolioID, userID uuid.UUID) (*editor.Snapshot, error) {
	ctx := c.Request.Context()

	portfolio, err := h.portfolios.GetPortfolio(ctx, portfolioID, userID)
	if err != nil {
		return nil, err
	}

	projects, err := h.projects.ListProjects(ctx, portfolioID, userID)
	if err != nil {
		return nil, err
	}

	skills, err := h.skills.ListSkills(ctx, portfolioID, userID)
	if err != nil {
		return nil, err
	}

	return &editor.Snapshot{
		Portfolio: portfolio,
		Projects:  projects,
		Skills:    skills,
	}, nil
}
