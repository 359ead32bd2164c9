package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPortfolioHandler_Create_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &PortfolioHandler{}
	r.POST("/portfolios", handler.Create)

	body := strings.NewReader(`{"username":"janedoe"}`)
	req, _ := http.NewRequest("POST", "/portfolios", body)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPortfolioHandler_Get_InvalidID_WithAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	userID := uuid.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID) // Используем правильный ключ и тип uuid.UUID
		c.Next()
	})
	handler := &PortfolioHandler{}
	r.GET("/portfolios/:id", handler.Get)

	req, _ := http.NewRequest("GET", "/portfolios/invalid-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPortfolioHandler_Draft_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &PortfolioHandler{}
	r.POST("/portfolios/:id/draft", handler.Draft)

	portfolioID := uuid.New()
	body := strings.NewReader(`{"display_name":"Jane"}`)
	req, _ := http.NewRequest("POST", "/portfolios/"+portfolioID.String()+"/draft", body)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPortfolioHandler_TogglePublish_InvalidID_WithAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	userID := uuid.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	handler := &PortfolioHandler{}
	r.POST("/portfolios/:id/publish", handler.TogglePublish)

	req, _ := http.NewRequest("POST", "/portfolios/invalid-uuid/publish", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjectHandler_Reorder_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ProjectHandler{}
	r.PUT("/portfolios/:id/projects/order", handler.Reorder)

	portfolioID := uuid.New()
	body := strings.NewReader(`{"project_ids":[]}`)
	req, _ := http.NewRequest("PUT", "/portfolios/"+portfolioID.String()+"/projects/order", body)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSkillHandler_Delete_InvalidID_WithAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	userID := uuid.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	handler := &SkillHandler{}
	r.DELETE("/skills/:id", handler.Delete)

	req, _ := http.NewRequest("DELETE", "/skills/invalid-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
