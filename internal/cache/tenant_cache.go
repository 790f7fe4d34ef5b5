package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/randy-rebucas/localpro-pos-sub001/internal/domain"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CachedTenantRepository is a read-through Redis cache in front of a
// TenantRepository. Tenant records are small and read on every request, so
// lookups by slug, domain, subdomain and id are cached with a short TTL.
// Negative lookups are not cached. Any cache failure degrades to the
// underlying repository.
type CachedTenantRepository struct {
	repo   repository.TenantRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedTenantRepository creates a new CachedTenantRepository
func NewCachedTenantRepository(repo repository.TenantRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedTenantRepository {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CachedTenantRepository{
		repo:   repo,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Create creates a tenant through the underlying repository
func (c *CachedTenantRepository) Create(ctx context.Context, tenant *domain.Tenant) error {
	return c.repo.Create(ctx, tenant)
}

// GetByID retrieves a tenant by ID, consulting the cache first
func (c *CachedTenantRepository) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	return c.lookup(ctx, "tenant:id:"+id, func(ctx context.Context) (*domain.Tenant, error) {
		return c.repo.GetByID(ctx, id)
	})
}

// GetBySlug retrieves a tenant by slug, consulting the cache first
func (c *CachedTenantRepository) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	return c.lookup(ctx, "tenant:slug:"+slug, func(ctx context.Context) (*domain.Tenant, error) {
		return c.repo.GetBySlug(ctx, slug)
	})
}

// GetByDomain retrieves an active tenant by custom domain, consulting the cache first
func (c *CachedTenantRepository) GetByDomain(ctx context.Context, domainName string) (*domain.Tenant, error) {
	return c.lookup(ctx, "tenant:domain:"+domainName, func(ctx context.Context) (*domain.Tenant, error) {
		return c.repo.GetByDomain(ctx, domainName)
	})
}

// GetBySubdomain retrieves an active tenant by subdomain, consulting the cache first
func (c *CachedTenantRepository) GetBySubdomain(ctx context.Context, subdomain string) (*domain.Tenant, error) {
	return c.lookup(ctx, "tenant:subdomain:"+subdomain, func(ctx context.Context) (*domain.Tenant, error) {
		return c.repo.GetBySubdomain(ctx, subdomain)
	})
}

// Update updates a tenant and invalidates its cached lookups
func (c *CachedTenantRepository) Update(ctx context.Context, tenant *domain.Tenant) error {
	if err := c.repo.Update(ctx, tenant); err != nil {
		return err
	}
	c.invalidate(ctx, tenant)
	return nil
}

// Deactivate marks a tenant inactive and invalidates its cached lookups
func (c *CachedTenantRepository) Deactivate(ctx context.Context, id string) error {
	tenant, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := c.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	if tenant != nil {
		c.invalidate(ctx, tenant)
	}
	return nil
}

// ExistsBySlug checks slug existence through the underlying repository
func (c *CachedTenantRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	return c.repo.ExistsBySlug(ctx, slug)
}

func (c *CachedTenantRepository) lookup(ctx context.Context, key string, load func(context.Context) (*domain.Tenant, error)) (*domain.Tenant, error) {
	if c.client != nil {
		data, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			tenant := &domain.Tenant{}
			if err := json.Unmarshal(data, tenant); err == nil {
				return tenant, nil
			}
			// Corrupt entry; drop it and fall through to the repository
			c.client.Del(ctx, key)
		} else if !errors.Is(err, redis.Nil) {
			c.logger.Debug("tenant cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	tenant, err := load(ctx)
	if err != nil || tenant == nil {
		return tenant, err
	}

	if c.client != nil {
		if data, err := json.Marshal(tenant); err == nil {
			if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
				c.logger.Debug("tenant cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
	}

	return tenant, nil
}

func (c *CachedTenantRepository) invalidate(ctx context.Context, tenant *domain.Tenant) {
	if c.client == nil {
		return
	}
	keys := []string{
		"tenant:id:" + tenant.ID,
		"tenant:slug:" + tenant.Slug,
	}
	if tenant.Domain != "" {
		keys = append(keys, "tenant:domain:"+tenant.Domain)
	}
	if tenant.Subdomain != "" {
		keys = append(keys, "tenant:subdomain:"+tenant.Subdomain)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Debug("tenant cache invalidation failed", zap.Error(err))
	}
}
