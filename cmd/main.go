package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-social-network/config"
	"github.com/oksasatya/go-social-network/internal/application"
	"github.com/oksasatya/go-social-network/internal/container"
	"github.com/oksasatya/go-social-network/internal/infrastructure/cache"
	"github.com/oksasatya/go-social-network/internal/infrastructure/search"
	"github.com/oksasatya/go-social-network/internal/infrastructure/storage"
	"github.com/oksasatya/go-social-network/internal/router"
	"github.com/oksasatya/go-social-network/pkg/helpers"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)

	jwtManager, err := helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		logger.Fatalf("jwt: %v", err)
	}

	ctx := context.Background()

	// Store: no request is served until it is up
	c, closeStore, err := container.Open(ctx, cfg, logger, jwtManager)
	if err != nil {
		logger.Fatalf("failed to open store: %v", err)
	}
	defer closeStore()

	if cfg.SeedOnStart {
		if _, err := application.Seed(ctx, c.Users, c.Posts, logger); err != nil {
			logger.WithError(err).Error("seed failed")
		}
	}

	// Redis user cache
	if cfg.RedisAddr != "" {
		rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.WithError(err).Warn("redis unavailable, user cache disabled")
		} else {
			defer func() { _ = rdb.Close() }()
			c.Users = cache.NewUserRepository(c.Users, rdb, cfg.UserCacheTTL, logger)
		}
	}

	// RabbitMQ event publisher
	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEventsQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable, email events disabled")
		} else {
			defer pub.Close()
			c.Events = pub
		}
	}

	// Elasticsearch user search
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch client init failed, search disabled")
		} else {
			c.Index = search.NewUserIndex(es, cfg.ESUsersIndex)
		}
	}

	// GCS avatar storage
	if cfg.GCSBucket != "" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.WithError(err).Warn("gcs client init failed, avatar upload disabled")
		} else {
			defer func() { _ = gcsClient.Close() }()
			c.Avatars = storage.NewGCSAvatarStore(gcsClient, cfg.GCSBucket)
		}
	}

	logIntegrations(logger, c)

	r := router.NewEngine(c)
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
		return
	}
	logger.Info("server exited properly")
}

func logIntegrations(logger *logrus.Logger, c *container.Container) {
	logger.WithFields(logrus.Fields{
		"storage": c.Config.StorageDriver,
		"search":  c.Index != nil,
		"events":  c.Events != nil,
		"avatars": c.Avatars != nil,
	}).Info("integrations configured")
}
