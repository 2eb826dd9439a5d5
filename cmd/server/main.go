// Package main runs the webinar registration HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sra-webinar/backend/config"
	"github.com/sra-webinar/backend/internal/middleware"
	"github.com/sra-webinar/backend/internal/registrations"
	"github.com/sra-webinar/backend/internal/zoom"
	"github.com/sra-webinar/backend/pkg/database"
	"github.com/sra-webinar/backend/pkg/queue"
	"github.com/sra-webinar/backend/pkg/redis"
	"github.com/sra-webinar/backend/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	tokenIssuer := zoom.NewTokenIssuer(cfg.Zoom.APIKey, cfg.Zoom.APISecret)
	zoomClient := zoom.NewClient(zoom.ClientConfig{
		BaseURL:           cfg.Zoom.BaseURL,
		RequestsPerSecond: cfg.Zoom.RequestsPerSecond,
		Timeout:           time.Duration(cfg.Zoom.HTTPTimeoutSec) * time.Second,
		LogCalls:          !cfg.App.Production(),
	}, logger)

	jobQueue := queue.NewQueue(rdb.Client, logger)

	registrationRepo := registrations.NewRepository(pool)
	registrationService := registrations.NewService(
		registrationRepo,
		tokenIssuer,
		zoomClient,
		jobQueue,
		time.Duration(cfg.Zoom.TokenTTLSeconds)*time.Second,
		logger,
	)
	registrationHandler := registrations.NewHandler(registrationService, logger)

	if cfg.App.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })
	router.GET("/r/:id", registrationHandler.Describe)
	router.POST("/r/:id", registrationHandler.Register)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
