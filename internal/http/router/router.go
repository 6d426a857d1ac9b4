package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/superfix/superfix-backend/internal/config"
	"github.com/superfix/superfix-backend/internal/http/handlers"
	"github.com/superfix/superfix-backend/internal/http/middleware"
	missionHandler "github.com/superfix/superfix-backend/internal/interface/http/handler"
	"github.com/superfix/superfix-backend/internal/models"
)

// Handlers - всё, что монтируется на /api.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Heroes       *handlers.HeroHandler
	Reviews      *handlers.ReviewHandler
	Applications *handlers.ApplicationHandler
	Categories   *handlers.CategoryHandler
	Media        *handlers.MediaHandler
	WS           *handlers.WSHandler
	Health       *handlers.HealthHandler
	Missions     *missionHandler.MissionHandler
}

// SetupRouter собирает gin.Engine. localMediaRoot непустой, когда файлы
// хранятся на диске и их надо раздавать по /media.
func SetupRouter(cfg *config.Config, h Handlers, tokens middleware.TokenParser, limiter *middleware.RateLimiter, localMediaRoot string) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	if localMediaRoot != "" {
		r.StaticFS("/media", http.Dir(localMediaRoot))
	}

	api := r.Group("/api")
	api.GET("/health", h.Health.Health)

	authGroup := api.Group("/auth")
	authGroup.Use(limiter.Middleware("auth"))
	{
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/hero-login", h.Auth.HeroLogin)
	}

	// Публичная часть сайта
	api.GET("/heroes", h.Heroes.List)
	api.GET("/heroes/:id", h.Heroes.Get)
	api.GET("/heroes/:id/reviews", h.Reviews.ListHeroReviews)
	api.GET("/categories", h.Categories.List)
	bodyLimit := middleware.BodyLimit(middleware.JSONBodyLimit(cfg.MaxUploadSizeMB))
	api.POST("/request", limiter.Middleware("request"), bodyLimit, h.Missions.CreateRequest)
	api.POST("/reviews", limiter.Middleware("reviews"), h.Reviews.CreateReview)
	api.POST("/apply-hero", limiter.Middleware("apply"), h.Applications.Apply)
	api.POST("/hero/public-submit-update", limiter.Middleware("onboarding"), h.Heroes.Onboarding)

	// Токен приходит в ?token=, хэндлер проверяет его сам.
	api.GET("/ws", h.WS.Handle)

	auth := middleware.AuthMiddleware(tokens)

	hero := api.Group("")
	hero.Use(auth, middleware.RequireRole(models.RoleHero))
	{
		hero.GET("/hero/my-missions", h.Missions.MyMissions)
		hero.PUT("/missions/:id/status", middleware.UUIDValidator("id"), bodyLimit, h.Missions.UpdateStatus)
	}

	admin := api.Group("")
	admin.Use(auth, middleware.RequireRole(models.RoleAdmin))
	{
		admin.POST("/heroes", h.Heroes.Create)
		admin.PUT("/heroes/:id", h.Heroes.Update)
		admin.DELETE("/heroes/:id", h.Heroes.Delete)

		admin.GET("/request", h.Missions.ListRequests)
		admin.PUT("/admin/requests/:id/status", middleware.UUIDValidator("id"), bodyLimit, h.Missions.AdminUpdateStatus)
		admin.GET("/admin/requests/:id/dossier", middleware.UUIDValidator("id"), h.Missions.Dossier)

		admin.GET("/admin/applications", h.Applications.List)
		admin.DELETE("/admin/applications/:id", h.Applications.Reject)
		admin.POST("/admin/applications/:id/accept", h.Applications.Accept)

		admin.POST("/categories", h.Categories.Add)
		admin.DELETE("/categories/:name", h.Categories.Remove)

		admin.POST("/media/upload", h.Media.Upload)
	}

	return r
}
