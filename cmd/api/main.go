package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cookmate/backend/config"
	"github.com/cookmate/backend/internal/database"
	"github.com/cookmate/backend/internal/logging"
	"github.com/cookmate/backend/internal/server"
	"github.com/cookmate/backend/internal/service"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	redisClient, err := connectRedis(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}

	imageService, err := buildImageService(cfg, logger)
	if err != nil {
		logger.Fatal("failed to set up image storage", zap.Error(err))
	}

	srv := server.New(cfg, db, redisClient, imageService, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("received signal", zap.String("signal", sig.String()))
	}

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}

// connectRedis is optional: with no address configured, rate limiting is
// simply disabled.
func connectRedis(cfg *config.Config, logger *zap.Logger) (*redis.Client, error) {
	if cfg.Redis.Addr == "" && cfg.Redis.URL == "" {
		logger.Info("redis not configured, rate limiting disabled")
		return nil, nil
	}
	client, err := database.NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to redis")
	return client, nil
}

// buildImageService is optional: with no bucket configured, image uploads
// return 503.
func buildImageService(cfg *config.Config, logger *zap.Logger) (*service.ImageService, error) {
	if cfg.Storage.Bucket == "" {
		logger.Info("object storage not configured, image uploads disabled")
		return nil, nil
	}
	svc, err := service.NewImageService(context.Background(), cfg.Storage)
	if err != nil {
		return nil, err
	}
	logger.Info("image storage ready", zap.String("bucket", cfg.Storage.Bucket))
	return svc, nil
}
