package repository

import (
	"context"

	"github.com/randy-rebucas/localpro-pos-sub001/internal/domain"
)

// TenantRepository defines the interface for tenant data access. Lookup
// methods return (nil, nil) when no tenant matches.
type TenantRepository interface {
	// Create creates a new tenant
	Create(ctx context.Context, tenant *domain.Tenant) error
	// GetByID retrieves a tenant by internal ID
	GetByID(ctx context.Context, id string) (*domain.Tenant, error)
	// GetBySlug retrieves a tenant by slug
	GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
	// GetByDomain retrieves an active tenant by custom domain
	GetByDomain(ctx context.Context, domainName string) (*domain.Tenant, error)
	// GetBySubdomain retrieves an active tenant by subdomain
	GetBySubdomain(ctx context.Context, subdomain string) (*domain.Tenant, error)
	// Update updates a tenant's mutable fields
	Update(ctx context.Context, tenant *domain.Tenant) error
	// Deactivate marks a tenant inactive; tenants are never hard-deleted
	Deactivate(ctx context.Context, id string) error
	// ExistsBySlug checks if a tenant exists with the given slug
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}
