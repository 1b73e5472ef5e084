package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"partshop-bot/internal/bot"
	"partshop-bot/internal/config"
	"partshop-bot/pkg/api"
	"partshop-bot/pkg/logger"
	"partshop-bot/pkg/redis"
)

// ENTRY POINT

func main() {
	zapLogger, err := logger.New()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLogger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	redisClient := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = 2 * time.Minute
	retryPolicy.MaxInterval = 15 * time.Second

	zapLogger.Info("Connecting to Redis...")
	err = backoff.RetryNotify(
		func() error {
			return redisClient.Ping(ctx)
		},
		retryPolicy,
		func(err error, duration time.Duration) {
			zapLogger.Warn("Redis connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", duration))
		},
	)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Redis after retries", zap.Error(err))
	}

	apiClient := api.NewClient(cfg.APIBaseURL, cfg.APIServiceToken, cfg.HTTPRequestTimeout, zapLogger)

	sessions := bot.NewSessionStore(redisClient, cfg.SessionTTL)

	tgBot, err := bot.New(cfg, apiClient, sessions, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to create bot", zap.Error(err))
	}

	if err := tgBot.Start(ctx); err != nil {
		zapLogger.Fatal("Bot stopped with error", zap.Error(err))
	}

	zapLogger.Info("Bot shutdown gracefully")
}
