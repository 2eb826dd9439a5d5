// Package main runs the background job worker (confirmation emails).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sra-webinar/backend/config"
	"github.com/sra-webinar/backend/internal/emaillogs"
	"github.com/sra-webinar/backend/internal/worker"
	"github.com/sra-webinar/backend/pkg/database"
	"github.com/sra-webinar/backend/pkg/queue"
	"github.com/sra-webinar/backend/pkg/redis"
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

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	jobQueue := queue.NewQueue(rdb.Client, logger)
	logRepo := emaillogs.NewRepository(pool)
	sender := worker.NewLogSender(logger)
	processor := worker.NewEmailProcessor(logRepo, sender, jobQueue, logger)

	runCtx, cancel := context.WithCancel(ctx)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		cancel()
	}()

	logger.Info("email worker started")
	processor.Run(runCtx)
	logger.Info("worker stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
