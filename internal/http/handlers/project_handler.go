package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/codeportfolio/backend/internal/http/handlers/common"
	"github.com/codeportfolio/backend/internal/http/response"
	"github.com/codeportfolio/backend/internal/models"
	"github.com/codeportfolio/backend/internal/service"
	"github.com/codeportfolio/backend/internal/storage"
	"github.com/codeportfolio/backend/internal/ws"
)

// ProjectHandler обслуживает проекты внутри портфолио: CRUD, порядок, картинки.
type ProjectHandler struct {
	projects *service.ProjectService
	storage  *storage.ImageStorage
	notifier *ws.EditorNotifier
}

// NewProjectHandler создаёт хэндлер.
func NewProjectHandler(projects *service.ProjectService, store *storage.ImageStorage, notifier *ws.EditorNotifier) *ProjectHandler {
	return &ProjectHandler{projects: projects, storage: store, notifier: notifier}
}

// Add обрабатывает POST /api/portfolios/:id/projects.
// Новый проект встаёт в хвост: display_order = max + 1.
func (h *ProjectHandler) Add(c *gin.Context) {
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

	var fields models.ProjectFields
	if err := common.BindAndValidate(c, &fields); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projects.AddProject(c.Request.Context(), portfolioID, userID, fields)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, project)
}

// List обрабатывает GET /api/portfolios/:id/projects.
func (h *ProjectHandler) List(c *gin.Context) {
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

	projects, err := h.projects.ListProjects(c.Request.Context(), portfolioID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, projects)
}

// Update обрабатывает PUT /api/projects/:id.
// Полная замена редактируемых полей; display_order не трогается.
func (h *ProjectHandler) Update(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	projectID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var fields models.ProjectFields
	if err := common.BindAndValidate(c, &fields); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projects.UpdateProject(c.Request.Context(), projectID, userID, fields)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, project)
}

// Delete обрабатывает DELETE /api/projects/:id.
// Остальные проекты не перенумеровываются: дырки в display_order допустимы.
func (h *ProjectHandler) Delete(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	projectID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.projects.DeleteProject(c.Request.Context(), projectID, userID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Reorder обрабатывает PUT /api/portfolios/:id/projects/order.
// Тело — полный список id проектов в новом порядке.
func (h *ProjectHandler) Reorder(c *gin.Context) {
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
		ProjectIDs []uuid.UUID `json:"project_ids" binding:"required"`
	}
	if err := common.BindAndValidate(c, &req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.projects.Reorder(c.Request.Context(), portfolioID, userID, req.ProjectIDs); err != nil {
		response.Error(c, err)
		return
	}

	if h.notifier != nil {
		h.notifier.NotifyProjectsReordered(userID, portfolioID, req.ProjectIDs)
	}

	response.Success(c, gin.H{"message": "порядок сохранён"})
}

// AddImages обрабатывает POST /api/projects/:id/images.
// Партия принимается целиком или отклоняется целиком: сверх пяти картинок
// на проект не добавляется ничего.
func (h *ProjectHandler) AddImages(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	projectID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var req struct {
		URLs []string `json:"urls" binding:"required"`
	}
	if err := common.BindAndValidate(c, &req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projects.AddImages(c.Request.Context(), projectID, userID, req.URLs)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, project)
}

// RemoveImage обрабатывает DELETE /api/projects/:id/images.
// Картинка удаляется по значению URL, порядок остальных сохраняется.
func (h *ProjectHandler) RemoveImage(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	projectID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := common.BindAndValidate(c, &req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projects.RemoveImage(c.Request.Context(), projectID, userID, req.URL)
	if err != nil {
		response.Error(c, err)
		return
	}

	// Файл в хранилище подчищаем best-effort: ссылка из проекта уже снята.
	if rel := h.storage.RelativePath(req.URL); rel != "" {
		_ = h.storage.Delete(c.Request.Context(), rel)
	}

	response.Success(c, project)
}
