package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeportfolio/backend/internal/http/handlers/common"
	"github.com/codeportfolio/backend/internal/http/response"
	"github.com/codeportfolio/backend/internal/service"
)

// SkillHandler обслуживает навыки портфолио.
type SkillHandler struct {
	skills *service.SkillService
}

// NewSkillHandler создаёт хэндлер.
func NewSkillHandler(skills *service.SkillService) *SkillHandler {
	return &SkillHandler{skills: skills}
}

// Add обрабатывает POST /api/portfolios/:id/skills.
// Дубликаты имён допускаются: список остаётся разрешительным.
func (h *SkillHandler) Add(c *gin.Context) {
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
		Name     string  `json:"name" binding:"required"`
		Category *string `json:"category"`
	}
	if err := common.BindAndValidate(c, &req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	skill, err := h.skills.AddSkill(c.Request.Context(), portfolioID, userID, req.Name, req.Category)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, skill)
}

// List обрабатывает GET /api/portfolios/:id/skills.
func (h *SkillHandler) List(c *gin.Context) {
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

	skills, err := h.skills.ListSkills(c.Request.Context(), portfolioID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, skills)
}

// Delete обрабатывает DELETE /api/skills/:id.
func (h *SkillHandler) Delete(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	skillID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.skills.DeleteSkill(c.Request.Context(), skillID, userID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
