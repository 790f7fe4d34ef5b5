package di

import (
	"github.com/randy-rebucas/localpro-pos-sub001/internal/audit"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/auth"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/cache"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/handler"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/repository"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/service"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/tenancy"
	"github.com/randy-rebucas/localpro-pos-sub001/pkg/config"
	"github.com/randy-rebucas/localpro-pos-sub001/pkg/database"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Container holds all wired dependencies for the server
type Container struct {
	// Infrastructure
	DB    *database.PostgresDB
	Redis *redis.Client

	// Repositories
	TenantRepo repository.TenantRepository
	UserRepo   repository.UserRepository
	AuditRepo  repository.AuditRepository

	// Core
	Resolver *tenancy.Resolver
	Verifier *auth.Verifier
	Guard    *tenancy.Guard
	Recorder *audit.Recorder

	// Services
	TokenService  *auth.TokenService
	LoginService  *auth.LoginService
	TenantService service.TenantService

	// Handlers
	HealthHandler *handler.HealthHandler
	AuthHandler   *handler.AuthHandler
	TenantHandler *handler.TenantHandler
	AuditHandler  *handler.AuditHandler
}

// ContainerConfig contains external dependencies for building the container
type ContainerConfig struct {
	Config         *config.Config
	DB             *database.PostgresDB
	Redis          *redis.Client
	AuditPublisher audit.Publisher
	Logger         *zap.Logger
}

// NewContainer wires the dependency graph
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:    cfg.DB,
		Redis: cfg.Redis,
	}

	pool := cfg.DB.Pool()

	var tenantRepo repository.TenantRepository = repository.NewPostgresTenantRepository(pool)
	if cfg.Redis != nil {
		tenantRepo = cache.NewCachedTenantRepository(tenantRepo, cfg.Redis, cfg.Config.Redis.TenantTTL, cfg.Logger)
	}
	c.TenantRepo = tenantRepo
	c.UserRepo = repository.NewPostgresUserRepository(pool)
	c.AuditRepo = repository.NewPostgresAuditRepository(pool)

	c.Resolver = tenancy.NewResolver(c.TenantRepo, tenancy.ResolverConfig{
		BaseDomain:        cfg.Config.Tenancy.BaseDomain,
		DefaultTenantSlug: cfg.Config.Tenancy.DefaultTenantSlug,
	}, cfg.Logger)
	c.Verifier = auth.NewVerifier(cfg.Config.JWT.Secret, c.UserRepo, cfg.Logger)
	c.Guard = tenancy.NewGuard(c.Resolver, c.Verifier, c.TenantRepo, cfg.Logger)

	c.Recorder = audit.NewRecorder(audit.Config{
		BufferSize:        cfg.Config.Audit.BufferSize,
		FlushInterval:     cfg.Config.Audit.FlushInterval,
		BatchSize:         cfg.Config.Audit.BatchSize,
		DefaultTenantSlug: cfg.Config.Tenancy.DefaultTenantSlug,
	}, c.AuditRepo, c.TenantRepo, cfg.AuditPublisher, cfg.Logger)

	c.TokenService = auth.NewTokenService(auth.TokenConfig{
		Secret: cfg.Config.JWT.Secret,
		TTL:    cfg.Config.JWT.AccessTokenTTL,
		Issuer: cfg.Config.JWT.Issuer,
	})
	c.LoginService = auth.NewLoginService(c.UserRepo, c.TokenService)
	c.TenantService = service.NewTenantService(c.TenantRepo)

	c.HealthHandler = handler.NewHealthHandler(cfg.DB)
	c.AuthHandler = handler.NewAuthHandler(c.LoginService)
	c.TenantHandler = handler.NewTenantHandler(c.TenantService)
	c.AuditHandler = handler.NewAuditHandler(c.AuditRepo)

	return c
}

// Close releases the container's background resources
func (c *Container) Close() {
	if c.Recorder != nil {
		_ = c.Recorder.Close()
	}
}
