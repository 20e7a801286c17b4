package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/nekogravitycat/shareit-backend/internal/app"
	"github.com/nekogravitycat/shareit-backend/internal/config"
	"github.com/nekogravitycat/shareit-backend/internal/db"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/events"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/logger"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/ratelimit"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/storage"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	log := logger.New(logger.Options{
		Level: cfg.LogLevel,
		JSON:  cfg.IsProduction,
		File:  cfg.LogFile,
	})

	// Connect DB
	var pool *pgxpool.Pool
	if cfg.StorageDriver == config.DriverPostgres {
		pool, err = db.NewPool(ctx, cfg.DBDSN, cfg.DBMaxConns)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to db")
		}
		defer pool.Close()

		if err := db.EnsureSchema(ctx, pool); err != nil {
			log.WithError(err).Fatal("failed to apply schema")
		}
	}

	// Booking events
	var publisher events.Publisher = events.Nop{}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to rabbitmq")
		}
		publisher = amqpPublisher
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.WithError(err).Warn("failed to close event publisher")
		}
	}()

	// Shared rate limit counters
	var redisClient *redis.Client
	if cfg.RateLimit != "" && cfg.RedisURL != "" {
		redisClient, err = ratelimit.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to redis")
		}
		defer redisClient.Close()
	}

	// Photo storage
	photoStore, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		log.WithError(err).Fatal("failed to prepare upload directory")
	}

	container, err := app.NewContainer(app.Config{
		IsProduction:    cfg.IsProduction,
		ProdOrigins:     cfg.ProdOrigins,
		TrustedProxies:  cfg.TrustedProxies,
		StorageDriver:   cfg.StorageDriver,
		DBPool:          pool,
		JWTSecret:       cfg.JWTSecret,
		JWTTTL:          cfg.JWTAccessTokenTTL,
		Logger:          log,
		Clock:           clock.System{},
		Publisher:       publisher,
		RateLimit:       cfg.RateLimit,
		RedisClient:     redisClient,
		Storage:         photoStore,
		UploadMaxBytes:  cfg.UploadMaxBytes,
		RejectOverlap:   cfg.BookingRejectOverlap,
		StrictForbidden: cfg.StrictForbiddenStatus,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to build application")
	}

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           container.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server in separate goroutine
	go func() {
		log.WithFields(logrus.Fields{
			"addr":    cfg.HTTPAddr,
			"storage": cfg.StorageDriver,
		}).Info("server running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	log.Info("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}

	log.Info("server exited gracefully")
}
