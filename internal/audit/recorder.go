package audit

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/domain"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/repository"
	"github.com/randy-rebucas/localpro-pos-sub001/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Publisher sends audit entries to an external event stream, best effort.
type Publisher interface {
	Publish(ctx context.Context, entry *domain.AuditEntry) error
}

// Draft is the audit data a caller can provide; the Recorder resolves the
// tenant and fills defaults.
type Draft struct {
	// TenantID, when set, wins over every other tenant source.
	TenantID string
	// Identity supplies the second-priority tenant source and the user id.
	Identity *domain.Identity
	// Path is the request path, used as a last-ditch tenant heuristic for
	// non-API paths whose first segment is a tenant slug.
	Path       string
	Action     domain.AuditAction
	EntityType string
	EntityID   string
	Changes    map[string]interface{}
	Metadata   map[string]interface{}
	IPAddress  string
	UserAgent  string
}

// Config holds Recorder settings.
type Config struct {
	// BufferSize is the size of the async entry buffer (default 1000).
	BufferSize int
	// FlushInterval is how often buffered entries are flushed (default 5s).
	FlushInterval time.Duration
	// BatchSize is the maximum entries per batch insert (default 100).
	BatchSize int
	// DefaultTenantSlug names the tenant used when no other source resolves.
	DefaultTenantSlug string
}

// Recorder persists tenant-scoped audit entries through an async buffered
// worker. Record never fails the caller: entries whose tenant cannot be
// resolved are dropped with a local log line, and every persistence or
// publish error is absorbed here.
type Recorder struct {
	cfg       Config
	repo      repository.AuditRepository
	tenants   repository.TenantRepository
	publisher Publisher
	logger    *zap.Logger

	buffer    chan *domain.AuditEntry
	drops     *telemetry.Counter
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	// For testing: collect entries instead of writing them out.
	testMode    bool
	testEntries []*domain.AuditEntry
	testMu      sync.Mutex
}

// NewRecorder creates a Recorder and starts its background worker.
// publisher may be nil.
func NewRecorder(cfg Config, repo repository.AuditRepository, tenants repository.TenantRepository, publisher Publisher, logger *zap.Logger) *Recorder {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1000
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}

	ctx, cancel := context.WithCancel(context.Background())

	r := &Recorder{
		cfg:       cfg,
		repo:      repo,
		tenants:   tenants,
		publisher: publisher,
		logger:    logger,
		buffer:    make(chan *domain.AuditEntry, cfg.BufferSize),
		ctx:       ctx,
		cancel:    cancel,
	}

	drops, err := telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "audit_entries_dropped_total",
		Description: "Audit entries dropped before persistence",
		Unit:        "{entry}",
	})
	if err == nil {
		r.drops = drops
	}

	r.wg.Add(1)
	go r.worker()

	return r
}

// Record resolves the entry's tenant and enqueues it. It never returns an
// error and never blocks on a full buffer.
func (r *Recorder) Record(ctx context.Context, draft *Draft) {
	tenantID := r.resolveTenantID(ctx, draft)
	if tenantID == "" {
		r.logger.Warn("audit entry dropped: no resolvable tenant",
			zap.String("action", string(draft.Action)),
			zap.String("entity_type", draft.EntityType),
			zap.String("path", draft.Path))
		r.countDrop(ctx, "unresolvable_tenant")
		return
	}

	entry := &domain.AuditEntry{
		ID:         uuid.New().String(),
		TenantID:   tenantID,
		Action:     draft.Action,
		EntityType: draft.EntityType,
		Changes:    draft.Changes,
		Metadata:   draft.Metadata,
		IPAddress:  draft.IPAddress,
		UserAgent:  draft.UserAgent,
		CreatedAt:  time.Now(),
	}
	if draft.Identity != nil {
		userID := draft.Identity.UserID
		entry.UserID = &userID
	}
	if draft.EntityID != "" {
		entityID := draft.EntityID
		entry.EntityID = &entityID
	}

	select {
	case r.buffer <- entry:
	default:
		r.logger.Warn("audit buffer full, entry dropped",
			zap.String("tenant_id", tenantID),
			zap.String("action", string(draft.Action)))
		r.countDrop(ctx, "buffer_full")
	}
}

func (r *Recorder) countDrop(ctx context.Context, reason string) {
	if r.drops != nil {
		r.drops.Inc(ctx, attribute.String("reason", reason))
	}
}

// resolveTenantID applies the tenant resolution order for audit entries:
// explicit id, identity, path-segment heuristic, default tenant.
func (r *Recorder) resolveTenantID(ctx context.Context, draft *Draft) string {
	if draft.TenantID != "" {
		return draft.TenantID
	}
	if draft.Identity != nil && draft.Identity.TenantID != "" {
		return draft.Identity.TenantID
	}

	if slug := pathSlug(draft.Path); slug != "" {
		tenant, err := r.tenants.GetBySlug(ctx, slug)
		if err != nil {
			r.logger.Warn("audit tenant lookup failed", zap.String("slug", slug), zap.Error(err))
		} else if tenant != nil {
			return tenant.ID
		}
	}

	if r.cfg.DefaultTenantSlug != "" {
		tenant, err := r.tenants.GetBySlug(ctx, r.cfg.DefaultTenantSlug)
		if err != nil {
			r.logger.Warn("audit default tenant lookup failed", zap.Error(err))
		} else if tenant != nil {
			return tenant.ID
		}
	}

	return ""
}

// Close flushes buffered entries and stops the worker.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		r.cancel()
		close(r.buffer)
		r.wg.Wait()
	})
	return nil
}

// SetTestMode enables test mode, collecting entries instead of writing them.
func (r *Recorder) SetTestMode(enabled bool) {
	r.testMu.Lock()
	defer r.testMu.Unlock()
	r.testMode = enabled
	if enabled {
		r.testEntries = make([]*domain.AuditEntry, 0)
	}
}

// TestEntries returns collected entries (test mode only).
func (r *Recorder) TestEntries() []*domain.AuditEntry {
	r.testMu.Lock()
	defer r.testMu.Unlock()
	result := make([]*domain.AuditEntry, len(r.testEntries))
	copy(result, r.testEntries)
	return result
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.FlushInterval)
	defer ticker.Stop()

	batch := make([]*domain.AuditEntry, 0, r.cfg.BatchSize)

	for {
		select {
		case entry, ok := <-r.buffer:
			if !ok {
				r.flush(batch)
				return
			}
			batch = append(batch, entry)
			if len(batch) >= r.cfg.BatchSize {
				r.flush(batch)
				batch = make([]*domain.AuditEntry, 0, r.cfg.BatchSize)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				r.flush(batch)
				batch = make([]*domain.AuditEntry, 0, r.cfg.BatchSize)
			}
		case <-r.ctx.Done():
			r.flush(batch)
			// Drain anything already buffered before exiting.
			for entry := range r.buffer {
				r.flush([]*domain.AuditEntry{entry})
			}
			return
		}
	}
}

func (r *Recorder) flush(entries []*domain.AuditEntry) {
	if len(entries) == 0 {
		return
	}

	r.testMu.Lock()
	if r.testMode {
		r.testEntries = append(r.testEntries, entries...)
		r.testMu.Unlock()
		return
	}
	r.testMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if r.repo != nil {
		if err := r.repo.InsertBatch(ctx, entries); err != nil {
			r.logger.Warn("audit batch insert failed", zap.Int("entries", len(entries)), zap.Error(err))
		}
	}

	if r.publisher != nil {
		for _, entry := range entries {
			if err := r.publisher.Publish(ctx, entry); err != nil {
				r.logger.Warn("audit publish failed", zap.String("entry_id", entry.ID), zap.Error(err))
			}
		}
	}
}

// pathSlug extracts a candidate tenant slug from a request path's first
// segment. API and other internal routes never carry tenant slugs there.
func pathSlug(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return ""
	}
	segment := trimmed
	if idx := strings.Index(trimmed, "/"); idx >= 0 {
		segment = trimmed[:idx]
	}
	switch {
	case segment == "api", segment == "admin", segment == "login", segment == "signup":
		return ""
	case strings.HasPrefix(segment, "_"):
		return ""
	}
	return segment
}
