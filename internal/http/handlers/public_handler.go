package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/codeportfolio/backend/internal/http/response"
	"github.com/codeportfolio/backend/internal/pkg/apperror"
	"github.com/codeportfolio/backend/internal/service"
)

// PublicHandler обслуживает публичные страницы портфолио без авторизации.
type PublicHandler struct {
	portfolios *service.PortfolioService
}

// NewPublicHandler создаёт хэндлер.
func NewPublicHandler(portfolios *service.PortfolioService) *PublicHandler {
	return &PublicHandler{portfolios: portfolios}
}

// Resolve обрабатывает GET /u/:username.
// Страница существует только при is_published = true. Неопубликованное и
// несуществующее портфолио дают байт-в-байт одинаковый 404: по ответу
// нельзя перечислить занятые имена.
func (h *PublicHandler) Resolve(c *gin.Context) {
	view, err := h.portfolios.ResolvePublic(c.Request.Context(), c.Param("username"))
	if err != nil {
		if apperror.IsNotFound(err) {
			response.NotFound(c, "портфолио не найдено")
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, view)
}
