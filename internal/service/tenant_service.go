package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/domain"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/dto"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/repository"
)

var (
	ErrTenantAlreadyExists = errors.New("tenant with this slug already exists")
	ErrTenantNotFound      = errors.New("tenant not found")
)

// TenantService defines the interface for tenant lifecycle operations
type TenantService interface {
	// Create creates a new store tenant at signup
	Create(ctx context.Context, req *dto.CreateTenantRequest) (*dto.TenantResponse, error)
	// GetByID retrieves a tenant by ID
	GetByID(ctx context.Context, id string) (*dto.TenantResponse, error)
	// UpdateSettings applies a tenant-settings update
	UpdateSettings(ctx context.Context, id string, req *dto.UpdateTenantSettingsRequest) (*dto.TenantResponse, error)
	// Deactivate marks a tenant inactive
	Deactivate(ctx context.Context, id string) error
}

// tenantService implements TenantService
type tenantService struct {
	tenantRepo repository.TenantRepository
}

// NewTenantService creates a new TenantService
func NewTenantService(tenantRepo repository.TenantRepository) TenantService {
	return &tenantService{
		tenantRepo: tenantRepo,
	}
}

// Create creates a new store tenant
func (s *tenantService) Create(ctx context.Context, req *dto.CreateTenantRequest) (*dto.TenantResponse, error) {
	if valid, errMsg := req.ValidateSlug(); !valid {
		return nil, errors.New(errMsg)
	}

	exists, err := s.tenantRepo.ExistsBySlug(ctx, req.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrTenantAlreadyExists
	}

	now := time.Now()
	tenant := &domain.Tenant{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Slug:      req.Slug,
		Domain:    req.Domain,
		Subdomain: req.Subdomain,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Settings != nil {
		tenant.Settings = *req.Settings
	}
	if tenant.Subdomain == "" {
		tenant.Subdomain = tenant.Slug
	}

	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, err
	}

	return toTenantResponse(tenant), nil
}

// GetByID retrieves a tenant by ID
func (s *tenantService) GetByID(ctx context.Context, id string) (*dto.TenantResponse, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, ErrTenantNotFound
	}
	return toTenantResponse(tenant), nil
}

// UpdateSettings applies a tenant-settings update
func (s *tenantService) UpdateSettings(ctx context.Context, id string, req *dto.UpdateTenantSettingsRequest) (*dto.TenantResponse, error) {
	if valid, errMsg := req.Validate(); !valid {
		return nil, errors.New(errMsg)
	}

	tenant, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, ErrTenantNotFound
	}

	if req.Name != nil {
		tenant.Name = *req.Name
	}
	if req.Domain != nil {
		tenant.Domain = *req.Domain
	}
	if req.Settings != nil {
		tenant.Settings = *req.Settings
	}

	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}

	return toTenantResponse(tenant), nil
}

// Deactivate marks a tenant inactive
func (s *tenantService) Deactivate(ctx context.Context, id string) error {
	if err := s.tenantRepo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			return ErrTenantNotFound
		}
		return err
	}
	return nil
}

func toTenantResponse(tenant *domain.Tenant) *dto.TenantResponse {
	return &dto.TenantResponse{
		ID:        tenant.ID,
		Name:      tenant.Name,
		Slug:      tenant.Slug,
		Domain:    tenant.Domain,
		Subdomain: tenant.Subdomain,
		Settings:  tenant.Settings,
		IsActive:  tenant.IsActive,
		CreatedAt: tenant.CreatedAt.Format(time.RFC3339),
		UpdatedAt: tenant.UpdatedAt.Format(time.RFC3339),
	}
}
