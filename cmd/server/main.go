package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/audit"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/di"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/domain"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/middleware"
	"github.com/randy-rebucas/localpro-pos-sub001/migrations"
	"github.com/randy-rebucas/localpro-pos-sub001/pkg/config"
	"github.com/randy-rebucas/localpro-pos-sub001/pkg/database"
	"github.com/randy-rebucas/localpro-pos-sub001/pkg/logger"
	"github.com/randy-rebucas/localpro-pos-sub001/pkg/telemetry"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:       levelFor(cfg),
		ServiceName: cfg.App.Name,
		Development: cfg.App.Debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
	})
	if err != nil {
		log.Fatal("failed to initialize telemetry", zap.Error(err))
	}

	db, err := database.NewPostgresDB(ctx, &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        int32(cfg.Database.MaxConns),
		MinConns:        int32(cfg.Database.MinConns),
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		MaxRetries:      3,
		RetryInterval:   2 * time.Second,
	})
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := runMigrations(cfg); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:        cfg.Redis.Addr(),
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		PoolSize:    cfg.Redis.PoolSize,
		DialTimeout: cfg.Redis.DialTimeout,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn("redis unavailable, tenant cache disabled", zap.Error(err))
		redisClient = nil
	} else {
		defer func() { _ = redisClient.Close() }()
	}

	var publisher audit.Publisher
	if cfg.Kafka.Enabled {
		kafkaPublisher, err := audit.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
		if err != nil {
			log.Warn("kafka unavailable, audit publication disabled", zap.Error(err))
		} else {
			publisher = kafkaPublisher
			defer kafkaPublisher.Close()
		}
	}

	container := di.NewContainer(&di.ContainerConfig{
		Config:         cfg,
		DB:             db,
		Redis:          redisClient,
		AuditPublisher: publisher,
		Logger:         log.Logger,
	})
	defer container.Close()

	router := setupRouter(cfg, container, log)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("server starting",
			zap.String("addr", server.Addr),
			zap.String("environment", cfg.App.Environment))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	if err := tel.Shutdown(shutdownCtx); err != nil {
		log.Error("telemetry shutdown failed", zap.Error(err))
	}
}

func setupRouter(cfg *config.Config, container *di.Container, log *logger.Logger) *gin.Engine {
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics, err := middleware.NewTenancyMetrics()
	if err != nil {
		log.Warn("failed to register tenancy metrics", zap.Error(err))
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", container.HealthHandler.Health)
	router.GET("/ready", container.HealthHandler.Ready)

	router.Use(middleware.TenantMiddleware(container.Guard, middleware.TenantConfig{
		TenantHeader: cfg.Tenancy.TenantHeader,
		SkipPaths:    []string{"/health", "/ready"},
	}, metrics, log.Logger))
	router.Use(middleware.AuditMiddleware(container.Recorder, middleware.DefaultAuditMiddlewareConfig()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/tenants", container.TenantHandler.Signup)
		v1.POST("/auth/login", container.AuthHandler.Login)
		v1.GET("/auth/whoami", container.AuthHandler.Whoami)
		v1.GET("/tenant", container.TenantHandler.GetCurrent)
		v1.PATCH("/tenant/settings",
			middleware.RequireRole(domain.RoleAdmin),
			container.TenantHandler.UpdateSettings)
		v1.GET("/audit",
			middleware.RequireRole(domain.RoleManager),
			container.AuditHandler.List)
	}

	return router
}

func runMigrations(cfg *config.Config) error {
	sqlDB, err := sql.Open("pgx", cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(sqlDB, ".")
}

func levelFor(cfg *config.Config) string {
	if cfg.App.Debug {
		return "debug"
	}
	return "info"
}
