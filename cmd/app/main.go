package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"github.com/amfitom1ne123-maker/UV/internal/common/config"
	"github.com/amfitom1ne123-maker/UV/internal/common/logger"
	"github.com/amfitom1ne123-maker/UV/internal/common/middleware"
	profileHTTP "github.com/amfitom1ne123-maker/UV/internal/features/profile/delivery/http"
	profileRepo "github.com/amfitom1ne123-maker/UV/internal/features/profile/repository/redis"
	profileService "github.com/amfitom1ne123-maker/UV/internal/features/profile/service"
	requestHTTP "github.com/amfitom1ne123-maker/UV/internal/features/request/delivery/http"
	requestRepo "github.com/amfitom1ne123-maker/UV/internal/features/request/repository/redis"
	requestService "github.com/amfitom1ne123-maker/UV/internal/features/request/service"
	"github.com/amfitom1ne123-maker/UV/internal/platform/redis"
)

func main() {
	// Конфигурация и логгер
	cfg := config.Load()
	logger.Init("uv-backend", cfg.Debug)

	logger.Info().
		Bool("debug", cfg.Debug).
		Int("port", cfg.Server.Port).
		Msg("Starting UV backend")

	// Redis
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	redisClient, err := redis.New(ctx, cfg)
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	logger.Info().Msg("Redis connection established")

	// Репозитории и сервисы
	profiles := profileRepo.NewProfileRepository(redisClient)
	staff := profileRepo.NewStaffRepository(redisClient)
	requests := requestRepo.NewRequestRepository(redisClient)
	messages := requestRepo.NewMessageRepository(redisClient)

	profileSvc := profileService.NewProfileService(profiles, staff, cfg.AllowedLanguages())
	requestSvc := requestService.NewRequestService(requests, messages, staff)

	// Gin
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept", "X-Telegram-Init-Data", "init_data"}
	router.Use(cors.New(corsConfig))

	setupRoutes(router, cfg, redisClient, profileSvc, requestSvc)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

func setupRoutes(router *gin.Engine, cfg *config.Config, redisClient *goredis.Client, profileSvc profileService.ProfileService, requestSvc requestService.RequestService) {
	api := router.Group("/api")

	// Диагностика без авторизации: клиент дёргает её best-effort
	api.GET("/_diag/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		redisOK := redisClient.Ping(ctx).Err() == nil
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"redis":     redisOK,
			"timestamp": time.Now().UTC(),
			"service":   "uv-backend",
		})
	})

	authed := api.Group("")
	authed.Use(middleware.TelegramInitData(cfg.Telegram.BotToken, cfg.Telegram.DevUserID))
	{
		profileHTTP.NewProfileHandler(profileSvc).RegisterRoutes(authed)
		requestHTTP.NewRequestHandler(requestSvc).RegisterRoutes(authed)
	}
}
