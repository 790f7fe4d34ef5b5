package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/domain"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/tenancy"
	"github.com/randy-rebucas/localpro-pos-sub001/pkg/response"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Context keys for the resolved tenant and identity. Tenant state is
// request-scoped only; nothing here is process-global.
const (
	ContextKeyTenantID = "tenant_id"
	ContextKeyTenant   = "tenant"
	ContextKeyIdentity = "identity"
	ContextKeySource   = "tenant_source"
)

// TenantConfig holds settings for the tenant middleware
type TenantConfig struct {
	// TenantHeader is the custom header carrying a declared tenant slug or id
	TenantHeader string
	// SkipPaths lists paths that bypass tenant resolution entirely
	SkipPaths []string
}

// TenantMiddleware resolves the authoritative tenant for every request via
// the AccessGuard and stores it in the request context. A cross-tenant
// violation is answered with 403 and a redirect hint for the declared
// tenant's forbidden page; a hard resolution failure with 503.
func TenantMiddleware(guard *tenancy.Guard, cfg TenantConfig, metrics *TenancyMetrics, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, path := range cfg.SkipPaths {
			if c.Request.URL.Path == path {
				c.Next()
				return
			}
		}

		sig := tenancy.Signals{
			Host:         c.Request.Host,
			Referer:      c.GetHeader("Referer"),
			QueryTenant:  c.Query("tenant"),
			HeaderTenant: c.GetHeader(cfg.TenantHeader),
		}

		resolution, err := guard.ResolveRequestTenant(c.Request.Context(), sig, bearerToken(c))
		if err != nil {
			if violation, ok := domain.IsAccessViolation(err); ok {
				if metrics != nil {
					metrics.Violations.Inc(c.Request.Context())
				}
				c.AbortWithStatusJSON(http.StatusForbidden, response.TenantAccessViolation(violation.RedirectPath()))
				return
			}
			logger.Error("tenant resolution failed",
				zap.String("host", sig.Host),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				response.Error(response.ErrCodeTenantUnresolvable, "Store could not be determined"))
			return
		}

		if metrics != nil {
			metrics.Resolutions.Inc(c.Request.Context(),
				attribute.String("source", string(resolution.Source)))
		}

		c.Set(ContextKeyTenantID, resolution.TenantID)
		c.Set(ContextKeySource, string(resolution.Source))
		if resolution.Tenant != nil {
			c.Set(ContextKeyTenant, resolution.Tenant)
		}
		if resolution.Identity != nil {
			c.Set(ContextKeyIdentity, resolution.Identity)
		}

		c.Next()
	}
}

// bearerToken extracts the credential from the Authorization header, or ""
// when absent or malformed. A malformed header is treated as anonymous.
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return ""
	}
	return authHeader[len(bearerPrefix):]
}

// GetTenantID extracts the resolved tenant id from the gin context
func GetTenantID(c *gin.Context) (string, bool) {
	tenantID, exists := c.Get(ContextKeyTenantID)
	if !exists {
		return "", false
	}
	id, ok := tenantID.(string)
	return id, ok
}

// GetTenant extracts the resolved tenant record from the gin context
func GetTenant(c *gin.Context) (*domain.Tenant, bool) {
	value, exists := c.Get(ContextKeyTenant)
	if !exists {
		return nil, false
	}
	tenant, ok := value.(*domain.Tenant)
	return tenant, ok
}

// GetIdentity extracts the authenticated identity from the gin context
func GetIdentity(c *gin.Context) (*domain.Identity, bool) {
	value, exists := c.Get(ContextKeyIdentity)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*domain.Identity)
	return identity, ok
}
