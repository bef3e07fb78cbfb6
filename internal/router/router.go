package router

import (
	"net/http"
	"time"

	"github.com/finprep/certquiz-backend/internal/config"
	"github.com/finprep/certquiz-backend/internal/handler"
	"github.com/finprep/certquiz-backend/internal/middleware"
	"github.com/finprep/certquiz-backend/internal/response"
	"github.com/finprep/certquiz-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	QuizType *handler.QuizTypeHandler
	Session  *handler.SessionHandler
	User     *handler.UserHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/signup", handlers.Auth.Signup)
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireJWT(authService), handlers.Auth.Logout)
		auth.GET("/me",
			middleware.RequireJWT(authService),
			middleware.CheckActiveToken(authService),
			handlers.Auth.Me)
	}

	// ─── 2. Quiz Group (JWT + Token Registry) ──────────────────────────
	api := router.Group("/api/v1")
	api.Use(
		middleware.RequireJWT(authService),
		middleware.CheckActiveToken(authService),
	)
	{
		api.GET("/quiz-types", handlers.QuizType.List)
		api.GET("/quiz-types/:id", handlers.QuizType.Get)

		api.POST("/sessions", handlers.Session.Create)
		api.GET("/sessions/:id/block", handlers.Session.Block)
		api.POST("/sessions/:id/answers", handlers.Session.SubmitAnswer)
		api.POST("/sessions/:id/finish", handlers.Session.Finish)
		api.GET("/sessions/:id/results", handlers.Session.Results)

		api.GET("/users/me/history", handlers.User.History)
		api.GET("/users/me/progress", handlers.User.Progress)
	}

	return router
}
