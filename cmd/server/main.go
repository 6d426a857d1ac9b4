package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/superfix/superfix-backend/internal/config"
	"github.com/superfix/superfix-backend/internal/db"
	httpHandlers "github.com/superfix/superfix-backend/internal/http/handlers"
	"github.com/superfix/superfix-backend/internal/http/middleware"
	httpRouter "github.com/superfix/superfix-backend/internal/http/router"
	"github.com/superfix/superfix-backend/internal/infrastructure/persistence"
	missionHandler "github.com/superfix/superfix-backend/internal/interface/http/handler"
	"github.com/superfix/superfix-backend/internal/logger"
	"github.com/superfix/superfix-backend/internal/repository"
	"github.com/superfix/superfix-backend/internal/service"
	"github.com/superfix/superfix-backend/internal/storage"
	"github.com/superfix/superfix-backend/internal/usecase/mission"
	"github.com/superfix/superfix-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Get().Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}
	log := logger.WithComponent("main")

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("ошибка подключения к базе")
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, db.Migrations()); err != nil {
		log.WithError(err).Fatal("ошибка миграций")
	}

	cache := newCache(ctx, cfg)
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)

	uploader, localRoot, err := newUploader(cfg)
	if err != nil {
		log.WithError(err).Fatal("не удалось подготовить хранилище медиа")
	}
	evidence := storage.NewEvidenceStore(uploader, cfg.MaxUploadSizeMB<<20)

	// Репозитории.
	heroRepo := repository.NewHeroRepository(dbConn)
	adminRepo := repository.NewAdminRepository(dbConn)
	reviewRepo := repository.NewReviewRepository(dbConn)
	appRepo := repository.NewApplicationRepository(dbConn)
	categoryRepo := repository.NewCategoryRepository(dbConn)
	missionRepo := persistence.NewMissionRepositoryAdapter(dbConn)

	// Сервисы.
	authService := service.NewAuthService(adminRepo, heroRepo, tokenManager)
	if err := authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.WithError(err).Fatal("не удалось создать администратора")
	}
	trustService := service.NewTrustService(missionRepo, reviewRepo, heroRepo, cache)
	heroService := service.NewHeroService(heroRepo, reviewRepo, cache, cfg.CacheTTL)
	reviewService := service.NewReviewService(reviewRepo, heroRepo, trustService)
	appService := service.NewApplicationService(appRepo, cache)
	categoryService := service.NewCategoryService(categoryRepo, heroRepo, cache, cfg.CacheTTL)

	// Вебсокеты.
	hub := ws.NewHub()
	go hub.Run(ctx)

	// Use cases заявок.
	missions := missionHandler.NewMissionHandler(
		mission.NewCreateMissionUseCase(missionRepo, heroRepo, hub),
		mission.NewUpdateStatusUseCase(missionRepo, evidence, trustService, hub),
		mission.NewAdminUpdateStatusUseCase(missionRepo, trustService, hub),
		mission.NewListMyMissionsUseCase(missionRepo),
		mission.NewListMissionsUseCase(missionRepo),
		mission.NewGetMissionUseCase(missionRepo),
		heroRepo,
	)

	engine := httpRouter.SetupRouter(cfg, httpRouter.Handlers{
		Auth:         httpHandlers.NewAuthHandler(authService),
		Heroes:       httpHandlers.NewHeroHandler(heroService),
		Reviews:      httpHandlers.NewReviewHandler(reviewService),
		Applications: httpHandlers.NewApplicationHandler(appService),
		Categories:   httpHandlers.NewCategoryHandler(categoryService),
		Media:        httpHandlers.NewMediaHandler(uploader, cfg.MaxUploadSizeMB, cfg.MaxVideoSizeMB),
		WS:           httpHandlers.NewWSHandler(hub, tokenManager, cfg.AllowedOrigins),
		Health:       httpHandlers.NewHealthHandler(dbConn),
		Missions:     missions,
	}, tokenManager, middleware.NewRateLimiter(cfg.RateLimitLimit, cfg.RateLimitPeriod), localRoot)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("ошибка остановки http сервера")
		}
	}()

	log.WithField("port", cfg.HTTPPort).Info("HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("сервер завершился с ошибкой")
	}
}

// newCache выбирает Redis, если он настроен и доступен, иначе память процесса.
func newCache(ctx context.Context, cfg *config.Config) service.Cache {
	if cfg.RedisURL != "" {
		rc, err := service.NewRedisCache(ctx, cfg.RedisURL)
		if err == nil {
			go func() {
				<-ctx.Done()
				_ = rc.Close()
			}()
			return rc
		}
		logger.WithComponent("main").WithError(err).Warn("redis недоступен, используем кэш в памяти")
	}
	return service.NewMemoryCache(ctx)
}

// newUploader возвращает Cloudinary, если он настроен, иначе локальный диск.
// Второе значение - корень для раздачи /media, пустой для CDN.
func newUploader(cfg *config.Config) (storage.Uploader, string, error) {
	if cfg.Cloudinary.Enabled() {
		cs, err := storage.NewCloudinaryStore(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret, cfg.Cloudinary.UploadPreset)
		if err != nil {
			return nil, "", err
		}
		return cs, "", nil
	}
	maxMB := cfg.MaxUploadSizeMB
	if cfg.MaxVideoSizeMB > maxMB {
		maxMB = cfg.MaxVideoSizeMB
	}
	ls, err := storage.NewLocalStore(cfg.MediaStoragePath, cfg.MediaPublicURL, maxMB)
	if err != nil {
		return nil, "", err
	}
	return ls, ls.Root(), nil
}

// safeClose закрывает соединение с базой.
func safeClose(conn *sqlx.DB) {
	if err := conn.Close(); err != nil {
		logger.WithComponent("main").WithError(err).Warn("ошибка закрытия базы")
	}
}
