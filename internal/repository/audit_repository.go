package repository

import (
	"context"

	"github.com/randy-rebucas/localpro-pos-sub001/internal/domain"
)

// AuditRepository defines the interface for audit log persistence. Entries
// are append-only; there is no update or delete.
type AuditRepository interface {
	// Insert writes a single audit entry
	Insert(ctx context.Context, entry *domain.AuditEntry) error
	// InsertBatch writes a batch of audit entries
	InsertBatch(ctx context.Context, entries []*domain.AuditEntry) error
	// ListByTenant retrieves a tenant's audit entries, newest first
	ListByTenant(ctx context.Context, tenantID string, page, limit int) ([]*domain.AuditEntry, int, error)
}
