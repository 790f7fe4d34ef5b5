package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/domain"
)

const auditInsertQuery = `
	INSERT INTO audit_logs (id, tenant_id, user_id, action, entity_type, entity_id, changes, metadata, ip_address, user_agent, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

// PostgresAuditRepository implements AuditRepository using PostgreSQL
type PostgresAuditRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAuditRepository creates a new PostgresAuditRepository
func NewPostgresAuditRepository(pool *pgxpool.Pool) *PostgresAuditRepository {
	return &PostgresAuditRepository{pool: pool}
}

// Insert writes a single audit entry
func (r *PostgresAuditRepository) Insert(ctx context.Context, entry *domain.AuditEntry) error {
	_, err := r.pool.Exec(ctx, auditInsertQuery, auditArgs(entry)...)
	return err
}

// InsertBatch writes a batch of audit entries in one round trip
func (r *PostgresAuditRepository) InsertBatch(ctx context.Context, entries []*domain.AuditEntry) error {
	if len(entries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, entry := range entries {
		batch.Queue(auditInsertQuery, auditArgs(entry)...)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range entries {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// ListByTenant retrieves a tenant's audit entries, newest first
func (r *PostgresAuditRepository) ListByTenant(ctx context.Context, tenantID string, page, limit int) ([]*domain.AuditEntry, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var totalCount int
	countQuery := `SELECT COUNT(*) FROM audit_logs WHERE tenant_id = $1`
	if err := r.pool.QueryRow(ctx, countQuery, tenantID).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, tenant_id, user_id, action, entity_type, entity_id,
		       COALESCE(changes, '{}'::jsonb) as changes, COALESCE(metadata, '{}'::jsonb) as metadata,
		       COALESCE(ip_address, '') as ip_address, COALESCE(user_agent, '') as user_agent, created_at
		FROM audit_logs
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, tenantID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := make([]*domain.AuditEntry, 0)
	for rows.Next() {
		entry := &domain.AuditEntry{}
		err := rows.Scan(
			&entry.ID,
			&entry.TenantID,
			&entry.UserID,
			&entry.Action,
			&entry.EntityType,
			&entry.EntityID,
			&entry.Changes,
			&entry.Metadata,
			&entry.IPAddress,
			&entry.UserAgent,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return entries, totalCount, nil
}

func auditArgs(entry *domain.AuditEntry) []interface{} {
	return []interface{}{
		entry.ID,
		entry.TenantID,
		entry.UserID,
		string(entry.Action),
		entry.EntityType,
		entry.EntityID,
		jsonbOrNil(entry.Changes),
		jsonbOrNil(entry.Metadata),
		nullStringOrValue(entry.IPAddress),
		nullStringOrValue(entry.UserAgent),
		entry.CreatedAt,
	}
}

// jsonbOrNil marshals a map for a jsonb column, storing NULL for empty maps
func jsonbOrNil(m map[string]interface{}) interface{} {
	if len(m) == 0 {
		return nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return b
}
