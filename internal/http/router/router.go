package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeportfolio/backend/internal/config"
	"github.com/codeportfolio/backend/internal/http/handlers"
	"github.com/codeportfolio/backend/internal/http/middleware"
	"github.com/codeportfolio/backend/internal/service"
)

// SetupRouter собирает все маршруты приложения.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	portfolioHandler *handlers.PortfolioHandler,
	projectHandler *handlers.ProjectHandler,
	skillHandler *handlers.SkillHandler,
	mediaHandler *handlers.MediaHandler,
	publicHandler *handlers.PublicHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.StaticFS(cfg.MediaPublicBase, http.Dir(cfg.MediaStoragePath))

	// Публичная страница портфолио. Rate limit прикрывает перебор имён.
	publicRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	r.GET("/u/:username", publicRateLimit, publicHandler.Resolve)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authRateLimit := middleware.RateLimitMiddleware(5, cfg.RateLimitPeriod)
	authGroup.Use(authRateLimit)
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	api.GET("/ws", wsHandler.Handle)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/portfolios", portfolioHandler.List)
		protected.POST("/portfolios", portfolioHandler.Create)
		// Проверка доступности дёргается на каждый ввод символа.
		checkRateLimit := middleware.RateLimitMiddleware(60, cfg.RateLimitPeriod)
		protected.GET("/portfolios/username-check", checkRateLimit, portfolioHandler.CheckUsername)
		protected.GET("/portfolios/:id", middleware.UUIDValidator("id"), portfolioHandler.Get)
		protected.PATCH("/portfolios/:id", middleware.UUIDValidator("id"), portfolioHandler.UpdateProfile)
		protected.DELETE("/portfolios/:id", middleware.UUIDValidator("id"), portfolioHandler.Delete)

		protected.GET("/portfolios/:id/editor", middleware.UUIDValidator("id"), portfolioHandler.Editor)
		protected.POST("/portfolios/:id/editor/transition", middleware.UUIDValidator("id"), portfolioHandler.Transition)
		protected.POST("/portfolios/:id/draft", middleware.UUIDValidator("id"), portfolioHandler.Draft)
		protected.DELETE("/portfolios/:id/draft", middleware.UUIDValidator("id"), portfolioHandler.DiscardDraft)
		protected.POST("/portfolios/:id/publish", middleware.UUIDValidator("id"), portfolioHandler.TogglePublish)

		protected.GET("/portfolios/:id/projects", middleware.UUIDValidator("id"), projectHandler.List)
		protected.POST("/portfolios/:id/projects", middleware.UUIDValidator("id"), projectHandler.Add)
		protected.PUT("/portfolios/:id/projects/order", middleware.UUIDValidator("id"), projectHandler.Reorder)
		protected.PUT("/projects/:id", middleware.UUIDValidator("id"), projectHandler.Update)
		protected.DELETE("/projects/:id", middleware.UUIDValidator("id"), projectHandler.Delete)
		protected.POST("/projects/:id/images", middleware.UUIDValidator("id"), projectHandler.AddImages)
		protected.DELETE("/projects/:id/images", middleware.UUIDValidator("id"), projectHandler.RemoveImage)

		protected.GET("/portfolios/:id/skills", middleware.UUIDValidator("id"), skillHandler.List)
		protected.POST("/portfolios/:id/skills", middleware.UUIDValidator("id"), skillHandler.Add)
		protected.DELETE("/skills/:id", middleware.UUIDValidator("id"), skillHandler.Delete)

		protected.POST("/media/images", mediaHandler.UploadImages)
		protected.DELETE("/media/images", mediaHandler.DeleteImage)
	}

	return r
}
