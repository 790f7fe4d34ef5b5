package tenancy

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/domain"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/repository"
	"go.uber.org/zap"
)

// Source identifies which signal a tenant was resolved from.
type Source string

const (
	SourceHost     Source = "host"
	SourceReferer  Source = "referer"
	SourceQuery    Source = "query"
	SourceHeader   Source = "header"
	SourceDefault  Source = "default"
	SourceIdentity Source = "identity"
)

// Declared reports whether the source is a client-declared request parameter
// rather than a connection-level or derived signal.
func (s Source) Declared() bool {
	return s == SourceQuery || s == SourceHeader || s == SourceReferer
}

// reservedSegments are path segments that must never be treated as tenant
// slugs when parsed from a referer. Segments prefixed with "_" are also
// reserved.
var reservedSegments = map[string]bool{
	"api":    true,
	"admin":  true,
	"login":  true,
	"signup": true,
}

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Signals carries the unauthenticated request signals tenant resolution
// reads. It is built once per request by the HTTP boundary.
type Signals struct {
	// Host is the request's Host header, possibly including a port.
	Host string
	// Referer is the raw Referer header.
	Referer string
	// QueryTenant is the value of the tenant query parameter.
	QueryTenant string
	// HeaderTenant is the value of the custom tenant header; it may carry a
	// slug or an internal tenant id.
	HeaderTenant string
}

// ResolverConfig holds tenant resolution settings.
type ResolverConfig struct {
	// BaseDomain is the platform's shared domain; subdomains of it map to
	// tenants (e.g. acme.pos.example.com with BaseDomain pos.example.com).
	BaseDomain string
	// DefaultTenantSlug names the tenant used when no signal matches.
	DefaultTenantSlug string
}

// Resolver resolves a candidate tenant from unauthenticated request signals
// using an ordered strategy chain: host, referer, query, header, default.
// Strategies are evaluated short-circuit; the first match wins.
type Resolver struct {
	tenants    repository.TenantRepository
	cfg        ResolverConfig
	logger     *zap.Logger
	strategies []strategy
}

type strategy struct {
	source  Source
	resolve func(ctx context.Context, sig Signals) (*domain.Tenant, error)
}

// NewResolver creates a new Resolver
func NewResolver(tenants repository.TenantRepository, cfg ResolverConfig, logger *zap.Logger) *Resolver {
	r := &Resolver{
		tenants: tenants,
		cfg:     cfg,
		logger:  logger,
	}
	r.strategies = []strategy{
		{SourceHost, r.fromHost},
		{SourceReferer, r.fromReferer},
		{SourceQuery, r.fromQuery},
		{SourceHeader, r.fromHeader},
		{SourceDefault, r.fromDefault},
	}
	return r
}

// Resolve runs the full strategy chain. It returns ErrTenantUnresolvable
// (wrapped) only when even the default tenant lookup fails; callers must
// treat that as a hard failure.
func (r *Resolver) Resolve(ctx context.Context, sig Signals) (*domain.Tenant, Source, error) {
	for _, s := range r.strategies {
		tenant, err := s.resolve(ctx, sig)
		if err != nil {
			return nil, s.source, err
		}
		if tenant != nil {
			if s.source == SourceDefault {
				r.logger.Debug("request resolved to default tenant",
					zap.String("slug", tenant.Slug),
					zap.String("host", sig.Host))
			}
			return tenant, s.source, nil
		}
	}
	return nil, SourceDefault, domain.ErrTenantUnresolvable
}

// Declared inspects only the client-declared parameter signals, in the order
// query, header, referer, and never falls back to the default tenant. It
// returns the declared slug (looked up when the header carried an id), the
// matching tenant when one exists, and whether any tenant was declared at
// all. A declared slug with no matching tenant record still counts as a
// declaration.
func (r *Resolver) Declared(ctx context.Context, sig Signals) (string, *domain.Tenant, bool, error) {
	if slug := strings.TrimSpace(sig.QueryTenant); slug != "" {
		tenant, err := r.activeBySlug(ctx, slug)
		if err != nil {
			return "", nil, false, err
		}
		return slug, tenant, true, nil
	}

	if value := strings.TrimSpace(sig.HeaderTenant); value != "" {
		if _, err := uuid.Parse(value); err == nil {
			tenant, err := r.tenants.GetByID(ctx, value)
			if err != nil {
				return "", nil, false, err
			}
			if tenant != nil {
				return tenant.Slug, tenant, true, nil
			}
			// Unknown id: declared, but resolvable only to its raw form.
			return value, nil, true, nil
		}
		tenant, err := r.activeBySlug(ctx, value)
		if err != nil {
			return "", nil, false, err
		}
		return value, tenant, true, nil
	}

	if slug := refererSlug(sig.Referer); slug != "" {
		tenant, err := r.activeBySlug(ctx, slug)
		if err != nil {
			return "", nil, false, err
		}
		return slug, tenant, true, nil
	}

	return "", nil, false, nil
}

// fromHost matches the Host header against tenant subdomains of the base
// domain, or against a tenant's custom domain.
func (r *Resolver) fromHost(ctx context.Context, sig Signals) (*domain.Tenant, error) {
	host := normalizeHost(sig.Host)
	if host == "" || host == "localhost" {
		return nil, nil
	}

	if r.cfg.BaseDomain != "" {
		if host == r.cfg.BaseDomain {
			return nil, nil
		}
		if suffix := "." + r.cfg.BaseDomain; strings.HasSuffix(host, suffix) {
			subdomain := strings.TrimSuffix(host, suffix)
			if subdomain == "" || strings.Contains(subdomain, ".") {
				return nil, nil
			}
			return r.tenants.GetBySubdomain(ctx, subdomain)
		}
	}

	return r.tenants.GetByDomain(ctx, host)
}

// fromReferer matches the first path segment of the Referer URL, excluding
// reserved segments so internal routes are never misread as tenant slugs.
func (r *Resolver) fromReferer(ctx context.Context, sig Signals) (*domain.Tenant, error) {
	slug := refererSlug(sig.Referer)
	if slug == "" {
		return nil, nil
	}
	return r.activeBySlug(ctx, slug)
}

// fromQuery matches the explicit tenant query parameter.
func (r *Resolver) fromQuery(ctx context.Context, sig Signals) (*domain.Tenant, error) {
	slug := strings.TrimSpace(sig.QueryTenant)
	if slug == "" {
		return nil, nil
	}
	return r.activeBySlug(ctx, slug)
}

// fromHeader matches the custom tenant header, which may carry a slug or an
// internal id.
func (r *Resolver) fromHeader(ctx context.Context, sig Signals) (*domain.Tenant, error) {
	value := strings.TrimSpace(sig.HeaderTenant)
	if value == "" {
		return nil, nil
	}
	if _, err := uuid.Parse(value); err == nil {
		tenant, err := r.tenants.GetByID(ctx, value)
		if err != nil {
			return nil, err
		}
		if tenant != nil && tenant.IsActive {
			return tenant, nil
		}
		return nil, nil
	}
	return r.activeBySlug(ctx, value)
}

// fromDefault looks up the configured default tenant.
func (r *Resolver) fromDefault(ctx context.Context, sig Signals) (*domain.Tenant, error) {
	if r.cfg.DefaultTenantSlug == "" {
		return nil, nil
	}
	return r.tenants.GetBySlug(ctx, r.cfg.DefaultTenantSlug)
}

func (r *Resolver) activeBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	if !slugPattern.MatchString(slug) {
		return nil, nil
	}
	tenant, err := r.tenants.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if tenant == nil || !tenant.IsActive {
		return nil, nil
	}
	return tenant, nil
}

// refererSlug extracts a candidate tenant slug from a referer URL's first
// path segment. Reserved segments and anything prefixed "_" yield "".
func refererSlug(referer string) string {
	if referer == "" {
		return ""
	}
	u, err := url.Parse(referer)
	if err != nil {
		return ""
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return ""
	}
	segment := path
	if idx := strings.Index(path, "/"); idx >= 0 {
		segment = path[:idx]
	}
	if reservedSegments[segment] || strings.HasPrefix(segment, "_") {
		return ""
	}
	if !slugPattern.MatchString(segment) {
		return ""
	}
	return segment
}

// normalizeHost lowercases a Host header value and strips any port.
func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if idx := strings.LastIndex(host, ":"); idx >= 0 && !strings.Contains(host[idx:], "]") {
		host = host[:idx]
	}
	return strings.TrimSuffix(host, ".")
}
