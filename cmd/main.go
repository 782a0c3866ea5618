package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	configs "github.com/Payphone-Digital/demonlist/config"
	"github.com/Payphone-Digital/demonlist/internal/constants"
	"github.com/Payphone-Digital/demonlist/internal/handler"
	"github.com/Payphone-Digital/demonlist/internal/middleware"
	"github.com/Payphone-Digital/demonlist/internal/repository"
	"github.com/Payphone-Digital/demonlist/internal/router"
	"github.com/Payphone-Digital/demonlist/internal/service"
	"github.com/Payphone-Digital/demonlist/pkg/circuit"
	"github.com/Payphone-Digital/demonlist/pkg/database"
	"github.com/Payphone-Digital/demonlist/pkg/logger"
	"github.com/Payphone-Digital/demonlist/pkg/metrics"
	"github.com/Payphone-Digital/demonlist/pkg/pagination"
	"github.com/Payphone-Digital/demonlist/pkg/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	if config.App.Environment == constants.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
		zap.String("version", constants.AppVersion),
	)

	db, err := database.NewPostgresDB(database.Config{
		Host:            config.Database.Host,
		Port:            config.Database.Port,
		User:            config.Database.User,
		Password:        config.Database.Password,
		Database:        config.Database.Name,
		SSLMode:         config.Database.SSLMode,
		Environment:     config.App.Environment,
		MaxIdleConns:    config.Database.MaxIdleConns,
		MaxOpenConns:    config.Database.MaxOpenConns,
		ConnMaxLifetime: config.Database.ConnMaxLifetime,
		ConnMaxIdleTime: config.Database.ConnMaxIdleTime,
		SlowQuery:       config.Database.SlowQuery,
	}, logger.GetLogger())
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if config.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
		}
		logger.GetLogger().Info("Database migrated successfully")
	}
	database.KeysetIndexes(db, logger.GetLogger())

	if config.App.SeedAdmin {
		if err := database.Seed(db); err != nil {
			logger.GetLogger().Error("Failed to seed database", zap.Error(err))
		} else {
			logger.GetLogger().Info("Database seeded successfully")
		}
	}

	m := metrics.New()

	redisClient, err := redis.NewClient(config)
	if err != nil {
		// rate limits degrade to per-process windows
		logger.GetLogger().Warn("Redis unavailable at startup", zap.Error(err))
		redisClient = redis.Disabled()
	}
	defer redisClient.Close()

	redisBreaker := circuit.NewBreaker("redis", circuit.DefaultConfig(), logger.GetLogger())
	redisBreaker.OnStateChange(func(name string, from, to circuit.State) {
		m.SetBreakerState(name, int(to))
	})
	m.SetBreakerState("redis", int(redisBreaker.State()))

	limits := pagination.Limits{
		Default: config.Pagination.DefaultLimit,
		Max:     config.Pagination.MaxLimit,
	}

	// Repositories
	recordRepo := repository.NewRecordRepository(db)
	playerRepo := repository.NewPlayerRepository(db)
	memberRepo := repository.NewMemberRepository(db)

	if config.Database.CheckPlans {
		planCtx, planCancel := context.WithTimeout(context.Background(), 30*time.Second)
		database.CheckPlans(planCtx, logger.GetLogger(), repository.PlanChecks(recordRepo, playerRepo, limits.Default)...)
		planCancel()
	}

	// Services
	jwtService := service.NewJWTService(config.JWT.Secret, config.JWT.Issuer, config.JWT.ExpirationTime)
	recordService := service.NewRecordService(recordRepo, limits, m)
	playerService := service.NewPlayerService(playerRepo, limits, m)
	authService := service.NewAuthService(memberRepo, jwtService)

	// Handlers
	links, err := handler.NewLinks(config.App.BaseURL)
	if err != nil {
		logger.GetLogger().Fatal("Invalid APP_BASE_URL", zap.Error(err))
	}
	recordHandler := handler.NewRecordHandler(recordService, links)
	playerHandler := handler.NewPlayerHandler(playerService, links)
	authHandler := handler.NewAuthHandler(authService)
	healthHandler := handler.NewHealthHandler(db, redisClient, redisBreaker)

	// Middleware
	if err := middleware.RegisterValidators(); err != nil {
		logger.GetLogger().Fatal("Failed to register validators", zap.Error(err))
	}
	validationMiddleware, err := middleware.NewValidationMiddleware()
	if err != nil {
		logger.GetLogger().Fatal("Failed to build validation middleware", zap.Error(err))
	}
	jwtMiddleware := middleware.NewJWTMiddleware(authService)
	globalLimit := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Scope:     "global",
		KeyPrefix: constants.KeyRateLimitGlobal,
		Limit:     config.RateLimit.Request,
		Window:    time.Duration(config.RateLimit.Duration) * time.Second,
	}, redisClient, redisBreaker, m)
	loginLimit := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Scope:     "login",
		KeyPrefix: constants.KeyRateLimitLogin,
		Limit:     config.RateLimit.LoginRequest,
		Window:    time.Duration(config.RateLimit.LoginDuration) * time.Second,
	}, redisClient, redisBreaker, m)

	r := router.NewRouter(
		recordHandler,
		playerHandler,
		authHandler,
		healthHandler,

		validationMiddleware,
		jwtMiddleware,
		globalLimit,
		loginLimit,
		m,
		config,
	).SetupRoutes()

	srv := &http.Server{
		Addr:              ":" + config.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.GetLogger().Error("Server forced to shutdown", zap.Error(err))
	}
}
