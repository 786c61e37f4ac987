// @title           Forum Service API
// @version         1.0
// @description     토픽, 스레드, 댓글, 답글을 다루는 실시간 포럼 API

// @host      localhost:8000
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/vuongngo/reactive-forum-api/docs" // Swagger docs import

	"github.com/vuongngo/reactive-forum-api/internal/client"
	"github.com/vuongngo/reactive-forum-api/internal/config"
	"github.com/vuongngo/reactive-forum-api/internal/database"
	"github.com/vuongngo/reactive-forum-api/internal/job"
	"github.com/vuongngo/reactive-forum-api/internal/metrics"
	"github.com/vuongngo/reactive-forum-api/internal/middleware"
	"github.com/vuongngo/reactive-forum-api/internal/notify"
	"github.com/vuongngo/reactive-forum-api/internal/repository"
	"github.com/vuongngo/reactive-forum-api/internal/router"
	"github.com/vuongngo/reactive-forum-api/internal/service"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting Forum Service",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("base_path", cfg.Server.BasePath),
	)

	// Database
	db, err := database.NewWithRetry(database.Config{
		DSN:             cfg.Database.GetDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, 5, 3*time.Second, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	logger.Info("Database connected successfully")

	if cfg.Database.AutoMigrate {
		if err := database.SafeAutoMigrateWithRetry(db, logger, 3); err != nil {
			logger.Fatal("Failed to run database migrations", zap.Error(err))
		}
	}

	// Metrics
	m := metrics.NewWithLogger(logger)
	if err := database.RegisterMetricsCallbacks(db, m); err != nil {
		logger.Warn("Failed to register database metrics callbacks", zap.Error(err))
	}
	dbStatsDone := database.StartDBStatsCollector(db, m, 15*time.Second)
	collector := metrics.NewBusinessMetricsCollector(db, m, logger, time.Minute)
	collector.Start()

	// Notifications: local websocket hub, optionally fanned out through redis
	hub := notify.NewHub(logger, m, originChecker(cfg.CORS.AllowedOrigins))

	var (
		redisClient *redis.Client
		relay       *notify.RedisRelay
		sinks       notify.Fanout
	)
	if cfg.Redis.Enabled() {
		redisClient, err = database.NewRedis(cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis unavailable, notifications stay on this instance", zap.Error(err))
		}
	}
	if redisClient != nil {
		relay = notify.NewRedisRelay(redisClient, cfg.Redis.Channel, hub, logger)
		if err := relay.Start(context.Background()); err != nil {
			logger.Fatal("Failed to subscribe to notification channel", zap.Error(err))
		}
		sinks = append(sinks, notify.NewRedisSink(redisClient, cfg.Redis.Channel))
	} else {
		sinks = append(sinks, hub)
	}
	if cfg.Notify.WebhookURL != "" {
		sinks = append(sinks, notify.NewWebhookSink(cfg.Notify.WebhookURL, cfg.Notify.WebhookAPIKey, cfg.Notify.WebhookTimeout, logger))
		logger.Info("Webhook notifications enabled", zap.String("url", cfg.Notify.WebhookURL))
	}
	dispatcher := notify.NewDispatcher(sinks, "events", cfg.Notify.Workers, cfg.Notify.QueueSize, m, logger)

	// S3 (optional)
	var s3Client client.S3ClientInterface
	if cfg.S3.Bucket != "" && cfg.S3.Region != "" {
		s3, err := client.NewS3Client(&cfg.S3)
		if err != nil {
			logger.Warn("Failed to initialize S3 client, image uploads disabled", zap.Error(err))
		} else {
			s3Client = s3
			logger.Info("S3 client initialized",
				zap.String("bucket", cfg.S3.Bucket),
				zap.String("region", cfg.S3.Region),
			)
		}
	} else {
		logger.Warn("S3 configuration incomplete, image uploads disabled")
	}

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimit, m)
	}

	// Periodic jobs
	scheduler := job.NewScheduler(logger)
	sessionJob := job.NewSessionCleanupJob(repository.NewUserRepository(db), service.NewTokenManager(cfg.JWT), logger)
	if err := scheduler.Register(cfg.Jobs.SessionCleanupSchedule, sessionJob); err != nil {
		logger.Fatal("Failed to schedule session cleanup", zap.Error(err))
	}
	scheduler.Start()

	r := router.Setup(router.Config{
		DB:          db,
		Redis:       redisClient,
		Logger:      logger,
		Metrics:     m,
		BasePath:    cfg.Server.BasePath,
		JWT:         cfg.JWT,
		Auth:        cfg.Auth,
		CORSOrigins: cfg.CORS.AllowedOrigins,
		RateLimiter: rateLimiter,
		Sink:        dispatcher,
		Hub:         hub,
		S3Client:    s3Client,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("Forum Service started successfully",
			zap.String("address", srv.Addr),
			zap.String("swagger", fmt.Sprintf("http://localhost:%s/swagger/index.html", cfg.Server.Port)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// producers first, then consumers
	scheduler.Stop()
	if rateLimiter != nil {
		rateLimiter.Stop()
	}
	dispatcher.Close()
	if relay != nil {
		relay.Stop()
	}
	hub.Close()
	collector.Stop()
	close(dbStatsDone)

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Warn("Failed to close redis", zap.Error(err))
		}
	}
	if err := database.Close(db); err != nil {
		logger.Warn("Failed to close database", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// originChecker accepts websocket handshakes from the CORS origins; "*" accepts all
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, origin := range allowed {
		set[origin] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set["*"] || set[origin]
	}
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return zapConfig.Build()
}
