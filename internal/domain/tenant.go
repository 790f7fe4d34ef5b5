package domain

import (
	"time"
)

// TenantSettings holds per-store presentation and locale configuration.
type TenantSettings struct {
	Currency string                 `json:"currency,omitempty"`
	Timezone string                 `json:"timezone,omitempty"`
	Language string                 `json:"language,omitempty"`
	Branding map[string]interface{} `json:"branding,omitempty"`
}

// Tenant represents a store organization in the multi-tenant platform.
// Tenants are never hard-deleted; deactivation flips IsActive.
type Tenant struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Slug      string         `json:"slug"`
	Domain    string         `json:"domain,omitempty"`
	Subdomain string         `json:"subdomain,omitempty"`
	Settings  TenantSettings `json:"settings"`
	IsActive  bool           `json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
