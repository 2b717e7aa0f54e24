package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "harbor-backend/internal/auth"
	"harbor-backend/internal/checkins"
	"harbor-backend/internal/services/health"
	"harbor-backend/internal/shared/config"
	"harbor-backend/internal/shared/metrics"
	"harbor-backend/internal/shared/server/middleware"
	"harbor-backend/internal/shared/server/respond"
	"harbor-backend/internal/users"
)

// RouterDeps holds the handlers mounted under /api/v1. Nil handlers are skipped.
type RouterDeps struct {
	Config         config.Config
	CheckInHandler *checkins.Handler
	UserHandler    *users.Handler
	GoogleAuth     *googleauth.GoogleService
	Health         *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(),
		middleware.RateLimit(rateLimitConfig(deps.Config)),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService(deps.Config.Env)
	}
	healthSvc.RegisterRoutes(api)
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	if deps.CheckInHandler != nil {
		deps.CheckInHandler.RegisterRoutes(api)
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "Route not found", nil)
	})

	return r
}

func rateLimitConfig(cfg config.Config) middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT": middleware.WindowRule(cfg.RateLimitWindow, cfg.RateLimitMaxRequests),
			"AUTH":    middleware.WindowRule(cfg.RateLimitWindow, cfg.AuthRateLimitMax),
		},
		GroupFor: middleware.AuthGroup,
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":5000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
