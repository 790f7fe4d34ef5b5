package dto

import (
	"regexp"

	"github.com/randy-rebucas/localpro-pos-sub001/internal/domain"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9-]+$`)

// reservedSlugs are slugs that collide with internal route segments and can
// never name a store.
var reservedSlugs = map[string]bool{
	"api":    true,
	"admin":  true,
	"login":  true,
	"signup": true,
}

// CreateTenantRequest represents a signup request for a new store tenant
type CreateTenantRequest struct {
	Name      string                 `json:"name" binding:"required,min=2,max=255"`
	Slug      string                 `json:"slug" binding:"required,min=2,max=100"`
	Domain    string                 `json:"domain" binding:"omitempty,max=255"`
	Subdomain string                 `json:"subdomain" binding:"omitempty,max=100"`
	Settings  *domain.TenantSettings `json:"settings" binding:"omitempty"`
}

// ValidateSlug validates slug format (lowercase alphanumeric and hyphens only)
func (r *CreateTenantRequest) ValidateSlug() (bool, string) {
	if !slugRegex.MatchString(r.Slug) {
		return false, "Slug must contain only lowercase letters, numbers, and hyphens"
	}
	if len(r.Slug) < 2 {
		return false, "Slug must be at least 2 characters"
	}
	if len(r.Slug) > 100 {
		return false, "Slug must not exceed 100 characters"
	}
	if reservedSlugs[r.Slug] {
		return false, "Slug is reserved"
	}
	return true, ""
}

// UpdateTenantSettingsRequest represents a tenant-settings update
type UpdateTenantSettingsRequest struct {
	Name     *string                `json:"name" binding:"omitempty,min=2,max=255"`
	Domain   *string                `json:"domain" binding:"omitempty,max=255"`
	Settings *domain.TenantSettings `json:"settings" binding:"omitempty"`
}

// Validate checks that at least one field is provided
func (r *UpdateTenantSettingsRequest) Validate() (bool, string) {
	if r.Name == nil && r.Domain == nil && r.Settings == nil {
		return false, "At least one field must be provided for update"
	}
	return true, ""
}

// TenantResponse represents tenant data in responses
type TenantResponse struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	Slug      string                `json:"slug"`
	Domain    string                `json:"domain,omitempty"`
	Subdomain string                `json:"subdomain,omitempty"`
	Settings  domain.TenantSettings `json:"settings"`
	IsActive  bool                  `json:"is_active"`
	CreatedAt string                `json:"created_at"`
	UpdatedAt string                `json:"updated_at"`
}
