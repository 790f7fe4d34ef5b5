package tenancy

import (
	"context"
	"errors"
	"testing"

	"github.com/randy-rebucas/localpro-pos-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeVerifier returns a fixed identity, or anonymous when nil.
type fakeVerifier struct {
	identity *domain.Identity
	err      error
}

func (f *fakeVerifier) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	if token == "" {
		return nil, nil
	}
	return f.identity, nil
}

func newTestGuard(repo *fakeTenantRepo, verifier *fakeVerifier) *Guard {
	return NewGuard(newTestResolver(repo), verifier, repo, zap.NewNop())
}

func TestResolveRequestTenantAnonymous(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous request uses the resolver chain", func(t *testing.T) {
		guard := newTestGuard(testTenants(), &fakeVerifier{})

		res, err := guard.ResolveRequestTenant(ctx, Signals{Host: "acme-store.pos.example.com"}, "")
		require.NoError(t, err)
		assert.Equal(t, "11111111-1111-1111-1111-111111111111", res.TenantID)
		assert.Equal(t, SourceHost, res.Source)
		assert.False(t, res.Authenticated())
	})

	t.Run("anonymous request falls back to default", func(t *testing.T) {
		guard := newTestGuard(testTenants(), &fakeVerifier{})

		res, err := guard.ResolveRequestTenant(ctx, Signals{Host: "localhost"}, "")
		require.NoError(t, err)
		require.NotNil(t, res.Tenant)
		assert.Equal(t, "default", res.Tenant.Slug)
		assert.Equal(t, SourceDefault, res.Source)
	})

	t.Run("anonymous declared tenant is honored, not a violation", func(t *testing.T) {
		guard := newTestGuard(testTenants(), &fakeVerifier{})

		res, err := guard.ResolveRequestTenant(ctx, Signals{Host: "localhost", QueryTenant: "bravo"}, "")
		require.NoError(t, err)
		require.NotNil(t, res.Tenant)
		assert.Equal(t, "bravo", res.Tenant.Slug)
	})

	t.Run("unresolvable is a hard failure", func(t *testing.T) {
		guard := newTestGuard(&fakeTenantRepo{}, &fakeVerifier{})

		_, err := guard.ResolveRequestTenant(ctx, Signals{Host: "localhost"}, "")
		assert.ErrorIs(t, err, domain.ErrTenantUnresolvable)
	})
}

func TestResolveRequestTenantAuthenticated(t *testing.T) {
	ctx := context.Background()

	identity := &domain.Identity{
		UserID:   "user-1",
		TenantID: "11111111-1111-1111-1111-111111111111", // acme-store
		Email:    "staff@acme.test",
		Role:     domain.RoleCashier,
	}

	t.Run("identity tenant is authoritative", func(t *testing.T) {
		guard := newTestGuard(testTenants(), &fakeVerifier{identity: identity})

		res, err := guard.ResolveRequestTenant(ctx, Signals{Host: "localhost"}, "token")
		require.NoError(t, err)
		assert.Equal(t, identity.TenantID, res.TenantID)
		assert.Equal(t, SourceIdentity, res.Source)
		require.NotNil(t, res.Tenant)
		assert.Equal(t, "acme-store", res.Tenant.Slug)
		assert.True(t, res.Authenticated())
	})

	t.Run("matching declared tenant passes", func(t *testing.T) {
		guard := newTestGuard(testTenants(), &fakeVerifier{identity: identity})

		res, err := guard.ResolveRequestTenant(ctx,
			Signals{Host: "localhost", QueryTenant: "acme-store"}, "token")
		require.NoError(t, err)
		assert.Equal(t, identity.TenantID, res.TenantID)
		assert.Equal(t, SourceIdentity, res.Source)
	})

	t.Run("conflicting declared tenant is a violation", func(t *testing.T) {
		guard := newTestGuard(testTenants(), &fakeVerifier{identity: identity})

		_, err := guard.ResolveRequestTenant(ctx,
			Signals{Host: "localhost", QueryTenant: "bravo"}, "token")
		v, ok := domain.IsAccessViolation(err)
		require.True(t, ok)
		assert.Equal(t, "bravo", v.DeclaredSlug)
		assert.Equal(t, "/bravo/forbidden", v.RedirectPath())
	})

	t.Run("conflicting header id is a violation", func(t *testing.T) {
		guard := newTestGuard(testTenants(), &fakeVerifier{identity: identity})

		_, err := guard.ResolveRequestTenant(ctx,
			Signals{Host: "localhost", HeaderTenant: "22222222-2222-2222-2222-222222222222"}, "token")
		v, ok := domain.IsAccessViolation(err)
		require.True(t, ok)
		assert.Equal(t, "bravo", v.DeclaredSlug)
	})

	t.Run("conflicting referer is a violation", func(t *testing.T) {
		guard := newTestGuard(testTenants(), &fakeVerifier{identity: identity})

		_, err := guard.ResolveRequestTenant(ctx,
			Signals{Host: "localhost", Referer: "https://pos.example.com/bravo/cart"}, "token")
		_, ok := domain.IsAccessViolation(err)
		assert.True(t, ok)
	})

	t.Run("declared tenant without a record is still a violation", func(t *testing.T) {
		guard := newTestGuard(testTenants(), &fakeVerifier{identity: identity})

		_, err := guard.ResolveRequestTenant(ctx,
			Signals{Host: "localhost", QueryTenant: "ghost"}, "token")
		v, ok := domain.IsAccessViolation(err)
		require.True(t, ok)
		assert.Equal(t, "ghost", v.DeclaredSlug)
	})

	t.Run("conflicting host is not a violation", func(t *testing.T) {
		// Host is a connection signal, not a client declaration; the
		// identity simply wins.
		guard := newTestGuard(testTenants(), &fakeVerifier{identity: identity})

		res, err := guard.ResolveRequestTenant(ctx,
			Signals{Host: "bravo.pos.example.com"}, "token")
		require.NoError(t, err)
		assert.Equal(t, identity.TenantID, res.TenantID)
		assert.Equal(t, SourceIdentity, res.Source)
	})

	t.Run("invalid credential degrades to anonymous", func(t *testing.T) {
		guard := newTestGuard(testTenants(), &fakeVerifier{identity: nil})

		res, err := guard.ResolveRequestTenant(ctx,
			Signals{Host: "localhost", QueryTenant: "bravo"}, "garbage")
		require.NoError(t, err)
		require.NotNil(t, res.Tenant)
		assert.Equal(t, "bravo", res.Tenant.Slug)
		assert.False(t, res.Authenticated())
	})

	t.Run("verifier storage error propagates", func(t *testing.T) {
		guard := newTestGuard(testTenants(), &fakeVerifier{err: errors.New("db down")})

		_, err := guard.ResolveRequestTenant(ctx, Signals{Host: "localhost"}, "token")
		assert.Error(t, err)
	})
}
