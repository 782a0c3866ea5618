package router

import (
	"time"

	"github.com/Payphone-Digital/demonlist/config"
	"github.com/Payphone-Digital/demonlist/internal/handler"
	"github.com/Payphone-Digital/demonlist/internal/middleware"
	"github.com/Payphone-Digital/demonlist/pkg/metrics"
	"github.com/gin-gonic/gin"
)

type Router struct {
	recordHandler *handler.RecordHandler
	playerHandler *handler.PlayerHandler
	authHandler   *handler.AuthHandler
	healthHandler *handler.HealthHandler

	validMw     *middleware.ValidationMiddleware
	jwtMw       *middleware.JWTMiddleware
	globalLimit *middleware.RateLimiter
	loginLimit  *middleware.RateLimiter
	metrics     *metrics.Metrics
	Config      *config.Config
}

func NewRouter(
	record *handler.RecordHandler,
	player *handler.PlayerHandler,
	auth *handler.AuthHandler,
	health *handler.HealthHandler,

	validMw *middleware.ValidationMiddleware,
	jwtMw *middleware.JWTMiddleware,
	globalLimit *middleware.RateLimiter,
	loginLimit *middleware.RateLimiter,
	m *metrics.Metrics,
	config *config.Config,
) *Router {
	return &Router{
		recordHandler: record,
		playerHandler: player,
		authHandler:   auth,
		healthHandler: health,

		validMw:     validMw,
		jwtMw:       jwtMw,
		globalLimit: globalLimit,
		loginLimit:  loginLimit,
		metrics:     m,
		Config:      config,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestContext())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics(r.metrics))
	router.Use(middleware.CORS())

	if r.metrics != nil {
		router.GET("/metrics", gin.WrapH(r.metrics.Handler()))
	}

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.HealthCheck)
		api.GET("/health/live", r.healthHandler.BasicHealth)

		v1 := api.Group("/v1")
		{
			if r.globalLimit != nil {
				v1.Use(r.globalLimit.Middleware())
			} else {
				v1.Use(middleware.RateLimit(r.Config.RateLimit.Request, time.Duration(r.Config.RateLimit.Duration)*time.Second))
			}
			v1.Use(middleware.RequestTimeout(r.Config.App.Timeout))

			r.authRoutes(v1)
			r.recordRoutes(v1)
			r.playerRoutes(v1)
		}
	}

	return router
}
