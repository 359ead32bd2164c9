package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/codeportfolio/backend/internal/config"
	"github.com/codeportfolio/backend/internal/db"
	"github.com/codeportfolio/backend/internal/editor"
	httpHandlers "github.com/codeportfolio/backend/internal/http/handlers"
	httpRouter "github.com/codeportfolio/backend/internal/http/router"
	"github.com/codeportfolio/backend/internal/logger"
	"github.com/codeportfolio/backend/internal/repository"
	"github.com/codeportfolio/backend/internal/service"
	"github.com/codeportfolio/backend/internal/storage"
	"github.com/codeportfolio/backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Инициализируем вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	imageStorage, err := storage.NewImageStorage(cfg.MediaStoragePath, cfg.MediaPublicBase, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	portfolioRepo := repository.NewPortfolioRepository(dbConn)
	projectRepo := repository.NewProjectRepository(dbConn)
	skillRepo := repository.NewSkillRepository(dbConn)

	// Сервисы.
	authService := service.NewAuthService(userRepo, tokenManager)
	portfolioService := service.NewPortfolioService(portfolioRepo, projectRepo, skillRepo)
	projectService := service.NewProjectService(projectRepo, portfolioRepo)
	skillService := service.NewSkillService(skillRepo, portfolioRepo)

	// Вебсокеты: события редактора для остальных вкладок пользователя.
	hub := ws.NewHub(ctx)
	go hub.Run()
	notifier := ws.NewEditorNotifier(hub)

	// Дебаунс-автосейв черновика профиля.
	autosaver := editor.NewAutosaver(portfolioService, notifier, cfg.AutosaveDebounce)
	defer autosaver.Stop()

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	portfolioHandler := httpHandlers.NewPortfolioHandler(portfolioService, projectService, skillService, autosaver, notifier, imageStorage)
	projectHandler := httpHandlers.NewProjectHandler(projectService, imageStorage, notifier)
	skillHandler := httpHandlers.NewSkillHandler(skillService)
	mediaHandler := httpHandlers.NewMediaHandler(imageStorage)
	publicHandler := httpHandlers.NewPublicHandler(portfolioService)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, authHandler, portfolioHandler, projectHandler, skillHandler, mediaHandler, publicHandler, wsHandler, healthHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
