package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/randy-rebucas/localpro-pos-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTenantRepo struct {
	bySlug map[string]*domain.Tenant
	err    error
}

func (f *fakeTenantRepo) Create(ctx context.Context, tenant *domain.Tenant) error { return nil }

func (f *fakeTenantRepo) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	return nil, nil
}

func (f *fakeTenantRepo) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bySlug[slug], nil
}

func (f *fakeTenantRepo) GetByDomain(ctx context.Context, domainName string) (*domain.Tenant, error) {
	return nil, nil
}

func (f *fakeTenantRepo) GetBySubdomain(ctx context.Context, subdomain string) (*domain.Tenant, error) {
	return nil, nil
}

func (f *fakeTenantRepo) Update(ctx context.Context, tenant *domain.Tenant) error { return nil }

func (f *fakeTenantRepo) Deactivate(ctx context.Context, id string) error { return nil }

func (f *fakeTenantRepo) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	return f.bySlug[slug] != nil, nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditEntry
	err     error
}

func (f *fakeAuditRepo) Insert(ctx context.Context, entry *domain.AuditEntry) error {
	return f.InsertBatch(ctx, []*domain.AuditEntry{entry})
}

func (f *fakeAuditRepo) InsertBatch(ctx context.Context, entries []*domain.AuditEntry) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeAuditRepo) ListByTenant(ctx context.Context, tenantID string, page, limit int) ([]*domain.AuditEntry, int, error) {
	return nil, 0, nil
}

func (f *fakeAuditRepo) all() []*domain.AuditEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*domain.AuditEntry, len(f.entries))
	copy(result, f.entries)
	return result
}

type fakePublisher struct {
	mu        sync.Mutex
	published []*domain.AuditEntry
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, entry *domain.AuditEntry) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, entry)
	return nil
}

func testTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{bySlug: map[string]*domain.Tenant{
		"acme-store": {ID: "tenant-acme", Slug: "acme-store", IsActive: true},
		"default":    {ID: "tenant-default", Slug: "default", IsActive: true},
	}}
}

func newTestRecorder(repo *fakeAuditRepo, tenants *fakeTenantRepo, publisher Publisher) *Recorder {
	return NewRecorder(Config{
		BufferSize:        16,
		FlushInterval:     10 * time.Millisecond,
		BatchSize:         4,
		DefaultTenantSlug: "default",
	}, repo, tenants, publisher, zap.NewNop())
}

func TestRecorderTenantResolution(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		draft    *Draft
		expected string // expected tenant id, "" means dropped
	}{
		{
			name:     "explicit tenant id wins",
			draft:    &Draft{TenantID: "tenant-explicit", Identity: &domain.Identity{TenantID: "tenant-acme"}, Action: domain.AuditActionCreate},
			expected: "tenant-explicit",
		},
		{
			name:     "identity tenant second",
			draft:    &Draft{Identity: &domain.Identity{UserID: "user-1", TenantID: "tenant-acme"}, Action: domain.AuditActionUpdate},
			expected: "tenant-acme",
		},
		{
			name:     "path slug heuristic third",
			draft:    &Draft{Path: "/acme-store/checkout", Action: domain.AuditActionCreate},
			expected: "tenant-acme",
		},
		{
			name:     "api path skips heuristic, default wins",
			draft:    &Draft{Path: "/api/v1/orders", Action: domain.AuditActionCreate},
			expected: "tenant-default",
		},
		{
			name:     "unknown path slug falls to default",
			draft:    &Draft{Path: "/ghost/checkout", Action: domain.AuditActionCreate},
			expected: "tenant-default",
		},
		{
			name:     "no source at all falls to default",
			draft:    &Draft{Action: domain.AuditActionCreate},
			expected: "tenant-default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := newTestRecorder(&fakeAuditRepo{}, testTenantRepo(), nil)
			recorder.SetTestMode(true)

			recorder.Record(ctx, tt.draft)
			require.NoError(t, recorder.Close())

			entries := recorder.TestEntries()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.expected, entries[0].TenantID)
		})
	}
}

func TestRecorderDropsUnresolvable(t *testing.T) {
	ctx := context.Background()

	tenants := &fakeTenantRepo{bySlug: map[string]*domain.Tenant{}}
	recorder := NewRecorder(Config{
		DefaultTenantSlug: "default",
		FlushInterval:     10 * time.Millisecond,
	}, &fakeAuditRepo{}, tenants, nil, zap.NewNop())
	recorder.SetTestMode(true)

	recorder.Record(ctx, &Draft{Path: "/ghost/page", Action: domain.AuditActionCreate})
	require.NoError(t, recorder.Close())

	assert.Empty(t, recorder.TestEntries())
}

func TestRecorderNeverFailsCaller(t *testing.T) {
	ctx := context.Background()

	t.Run("insert failure is absorbed", func(t *testing.T) {
		repo := &fakeAuditRepo{err: errors.New("insert failed")}
		recorder := newTestRecorder(repo, testTenantRepo(), nil)

		// Record must not panic or block even though every flush fails.
		recorder.Record(ctx, &Draft{TenantID: "tenant-acme", Action: domain.AuditActionCreate})
		require.NoError(t, recorder.Close())
	})

	t.Run("publish failure is absorbed", func(t *testing.T) {
		repo := &fakeAuditRepo{}
		recorder := newTestRecorder(repo, testTenantRepo(), &fakePublisher{err: errors.New("broker down")})

		recorder.Record(ctx, &Draft{TenantID: "tenant-acme", Action: domain.AuditActionCreate})
		require.NoError(t, recorder.Close())

		assert.Len(t, repo.all(), 1)
	})

	t.Run("tenant lookup failure drops the entry", func(t *testing.T) {
		tenants := testTenantRepo()
		tenants.err = errors.New("db down")
		recorder := newTestRecorder(&fakeAuditRepo{}, tenants, nil)
		recorder.SetTestMode(true)

		recorder.Record(ctx, &Draft{Path: "/acme-store/checkout", Action: domain.AuditActionCreate})
		require.NoError(t, recorder.Close())

		assert.Empty(t, recorder.TestEntries())
	})
}

func TestRecorderPersistsAndPublishes(t *testing.T) {
	ctx := context.Background()

	repo := &fakeAuditRepo{}
	publisher := &fakePublisher{}
	recorder := newTestRecorder(repo, testTenantRepo(), publisher)

	identity := &domain.Identity{UserID: "user-1", TenantID: "tenant-acme", Role: domain.RoleManager}
	for i := 0; i < 10; i++ {
		recorder.Record(ctx, &Draft{
			Identity:   identity,
			Action:     domain.AuditActionUpdate,
			EntityType: "product",
			EntityID:   "42",
		})
	}
	require.NoError(t, recorder.Close())

	entries := repo.all()
	require.Len(t, entries, 10)
	for _, entry := range entries {
		assert.Equal(t, "tenant-acme", entry.TenantID)
		require.NotNil(t, entry.UserID)
		assert.Equal(t, "user-1", *entry.UserID)
		require.NotNil(t, entry.EntityID)
		assert.Equal(t, "42", *entry.EntityID)
		assert.NotEmpty(t, entry.ID)
		assert.False(t, entry.CreatedAt.IsZero())
	}

	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	assert.Len(t, publisher.published, 10)
}

func TestRecorderCloseIdempotent(t *testing.T) {
	recorder := newTestRecorder(&fakeAuditRepo{}, testTenantRepo(), nil)
	require.NoError(t, recorder.Close())
	require.NoError(t, recorder.Close())
}

func TestPathSlug(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/acme-store/checkout", "acme-store"},
		{"/acme-store", "acme-store"},
		{"/api/v1/orders", ""},
		{"/admin/users", ""},
		{"/login", ""},
		{"/signup", ""},
		{"/_next/static", ""},
		{"/", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, pathSlug(tt.path))
		})
	}
}
