package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/atelier116/fashionweek-api/api/swagger"
	"github.com/atelier116/fashionweek-api/internal/handler"
	"github.com/atelier116/fashionweek-api/internal/middleware"
	"github.com/atelier116/fashionweek-api/internal/models"
	"github.com/atelier116/fashionweek-api/internal/repository"
	"github.com/atelier116/fashionweek-api/internal/scheduling"
	"github.com/atelier116/fashionweek-api/internal/service"
	"github.com/atelier116/fashionweek-api/pkg/cache"
	"github.com/atelier116/fashionweek-api/pkg/config"
	"github.com/atelier116/fashionweek-api/pkg/database"
	"github.com/atelier116/fashionweek-api/pkg/logger"
	corsmiddleware "github.com/atelier116/fashionweek-api/pkg/middleware/cors"
	reqidmiddleware "github.com/atelier116/fashionweek-api/pkg/middleware/requestid"
	"github.com/atelier116/fashionweek-api/pkg/notify"
	"github.com/atelier116/fashionweek-api/pkg/storage"
)

// @title Fashion Week Console API
// @version 1.0.0
// @description Admin console backend for venue meeting planning during fashion week.
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	var cacheRepo *repository.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close() //nolint:errcheck
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	areaRepo := repository.NewAreaRepository(db)
	marketRepo := repository.NewMarketRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	accountRepo := repository.NewExternalAccountRepository(db)

	metricsService := service.NewMetricsService()

	var notificationService *service.NotificationService
	if cfg.Telegram.Enabled {
		notifier := notify.NewTelegramNotifier(notify.TelegramConfig{
			BotToken: cfg.Telegram.BotToken,
			ChatID:   cfg.Telegram.ChatID,
			Timeout:  cfg.Telegram.Timeout,
		})
		notificationService = service.NewNotificationService(notifier, true, logr)
	} else {
		notificationService = service.NewNotificationService(nil, false, logr)
	}

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	userService := service.NewUserService(userRepo, notificationService, validate, logr)
	areaService := service.NewAreaService(areaRepo, cacheRepo, cfg.Cache.DefaultTTL, validate, logr)
	marketService := service.NewMarketService(marketRepo, cacheRepo, cfg.Cache.DefaultTTL, validate, logr)
	accountService := service.NewExternalAccountService(accountRepo, validate, logr)
	meetingService := service.NewMeetingService(meetingRepo, areaRepo, userRepo, notificationService, cacheRepo, validate, logr)
	meetingService.SetMetrics(metricsService)
	calendarService := service.NewCalendarService(meetingRepo, cacheRepo, scheduling.GroupingKey(cfg.Calendar.GroupBy), cfg.Calendar.CacheTTL, logr)

	var exportService *service.ExportService
	if cfg.Exports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportService = service.NewExportService(meetingRepo, store, signer, service.ExportServiceConfig{
			Workers:         cfg.Exports.WorkerConcurrency,
			Retries:         cfg.Exports.WorkerRetries,
			CleanupInterval: cfg.Exports.CleanupInterval,
			FileTTL:         cfg.Exports.SignedURLTTL,
		}, logr)
		exportService.SetMetrics(metricsService)
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notificationService.Start(rootCtx)
	defer notificationService.Stop()
	if exportService != nil {
		exportService.Start(rootCtx)
		defer exportService.Stop()
	}

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	areaHandler := handler.NewAreaHandler(areaService)
	marketHandler := handler.NewMarketHandler(marketService)
	accountHandler := handler.NewExternalAccountHandler(accountService)
	meetingHandler := handler.NewMeetingHandler(meetingService)
	calendarHandler := handler.NewCalendarHandler(calendarService)
	healthHandler := handler.NewHealthHandler(db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metricsService.Registry(), promhttp.HandlerOpts{})))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.GET("", middleware.JWT(authService), authHandler.Me)
		auth.POST("/logout", middleware.JWT(authService), authHandler.Logout)
		auth.PUT("/password", middleware.JWT(authService), authHandler.ChangePassword)
	}

	secured := api.Group("", middleware.JWT(authService))
	{
		users := secured.Group("/users")
		{
			users.GET("", userHandler.List)
			users.GET("/search", userHandler.Search)
			users.GET("/:id", userHandler.Get)
			users.POST("", userHandler.Create)
			users.PUT("/:id", middleware.AdminOnly(), userHandler.Update)
			users.DELETE("/:id", middleware.AdminOnly(), userHandler.Delete)
		}

		areas := secured.Group("/areas")
		{
			areas.GET("", areaHandler.List)
			areas.GET("/policies", areaHandler.Policies)
			areas.GET("/:id", areaHandler.Get)
			areas.POST("", middleware.AdminOnly(), areaHandler.Create)
			areas.PUT("/:id", middleware.AdminOnly(), areaHandler.Update)
		}

		markets := secured.Group("/markets")
		{
			markets.GET("", marketHandler.List)
			markets.GET("/:id", marketHandler.Get)
			markets.POST("", middleware.AdminOnly(), marketHandler.Create)
		}

		accounts := secured.Group("/external-account")
		{
			accounts.GET("", accountHandler.List)
			accounts.GET("/small", accountHandler.ListSmall)
			accounts.GET("/:id", accountHandler.Get)
			accounts.POST("", accountHandler.Create)
			accounts.PUT("/:id", accountHandler.Update)
			accounts.DELETE("/:id", middleware.AdminOnly(), accountHandler.Delete)
		}

		meetings := secured.Group("/meetings")
		{
			meetings.GET("", meetingHandler.List)
			meetings.GET("/calendar", calendarHandler.Calendar)
			meetings.GET("/disabled-hours", calendarHandler.DisabledHours)
			meetings.POST("/booking-check", calendarHandler.BookingCheck)
			meetings.GET("/:code", meetingHandler.Get)
			meetings.POST("", meetingHandler.Create)
			meetings.PUT("/:code", meetingHandler.Update)
			meetings.POST("/:code/accept", middleware.AdminOnly(), meetingHandler.Accept)
			meetings.POST("/:code/reject", middleware.AdminOnly(), meetingHandler.Reject)
			meetings.DELETE("/:code", middleware.RequireRoles(models.RoleAdmin, models.RoleSalesManager), meetingHandler.Delete)
		}

		if exportService != nil {
			exportHandler := handler.NewExportHandler(exportService)
			exports := secured.Group("/exports")
			{
				exports.POST("/day-sheet", exportHandler.Request)
				exports.GET("/:id", exportHandler.Status)
			}
			api.GET("/exports/download", exportHandler.Download)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-rootCtx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
