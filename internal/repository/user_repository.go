package repository

import (
	"context"

	"github.com/randy-rebucas/localpro-pos-sub001/internal/domain"
)

// UserRepository defines the interface for user data access. Lookup methods
// return (nil, nil) when no user matches.
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *domain.User) error
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByEmail retrieves a user by email within a tenant
	GetByEmail(ctx context.Context, tenantID, email string) (*domain.User, error)
}
