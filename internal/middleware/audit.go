package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/audit"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/domain"
)

// Context keys handlers can use to refine their audit entry
const (
	ContextKeyAuditEntityType = "audit_entity_type"
	ContextKeyAuditEntityID   = "audit_entity_id"
	ContextKeyAuditChanges    = "audit_changes"
	ContextKeyAuditSkip       = "audit_skip"
)

// AuditMiddlewareConfig holds settings for the audit middleware
type AuditMiddlewareConfig struct {
	// SkipPaths lists paths to skip auditing
	SkipPaths []string
	// SkipMethods lists HTTP methods to skip (default: GET, HEAD, OPTIONS)
	SkipMethods []string
	// ActionMapper maps method + path to the audit action
	ActionMapper func(method, path string) domain.AuditAction
	// EntityExtractor extracts entity type and id from the path
	EntityExtractor func(path string) (entityType string, entityID string)
}

// DefaultAuditMiddlewareConfig returns the default audit middleware settings
func DefaultAuditMiddlewareConfig() AuditMiddlewareConfig {
	return AuditMiddlewareConfig{
		SkipPaths:       []string{"/health", "/ready", "/metrics"},
		SkipMethods:     []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		ActionMapper:    defaultActionMapper,
		EntityExtractor: defaultEntityExtractor,
	}
}

// AuditMiddleware builds an audit draft from every tracked request and hands
// it to the Recorder after the handler runs. The recorder is best effort;
// nothing here can fail the request, and the entry is written whether the
// business action succeeded or not.
func AuditMiddleware(recorder *audit.Recorder, cfg AuditMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, path := range cfg.SkipPaths {
			if c.Request.URL.Path == path {
				c.Next()
				return
			}
		}
		for _, method := range cfg.SkipMethods {
			if c.Request.Method == method {
				c.Next()
				return
			}
		}

		c.Next()

		if skip, exists := c.Get(ContextKeyAuditSkip); exists && skip.(bool) {
			return
		}

		draft := &audit.Draft{
			Path:      c.Request.URL.Path,
			IPAddress: clientIP(c),
			UserAgent: c.GetHeader("User-Agent"),
			Metadata: map[string]interface{}{
				"method": c.Request.Method,
				"status": c.Writer.Status(),
			},
		}

		if tenantID, ok := GetTenantID(c); ok {
			draft.TenantID = tenantID
		}
		if identity, ok := GetIdentity(c); ok {
			draft.Identity = identity
		}

		if cfg.ActionMapper != nil {
			draft.Action = cfg.ActionMapper(c.Request.Method, c.Request.URL.Path)
		}
		if cfg.EntityExtractor != nil {
			draft.EntityType, draft.EntityID = cfg.EntityExtractor(c.Request.URL.Path)
		}

		// Handler-provided values win over path-derived ones.
		if et, exists := c.Get(ContextKeyAuditEntityType); exists {
			if s, ok := et.(string); ok && s != "" {
				draft.EntityType = s
			}
		}
		if eid, exists := c.Get(ContextKeyAuditEntityID); exists {
			if s, ok := eid.(string); ok && s != "" {
				draft.EntityID = s
			}
		}
		if changes, exists := c.Get(ContextKeyAuditChanges); exists {
			if m, ok := changes.(map[string]interface{}); ok {
				draft.Changes = m
			}
		}

		recorder.Record(c.Request.Context(), draft)
	}
}

// SetAuditEntity sets the entity type and id for the current request's
// audit entry.
func SetAuditEntity(c *gin.Context, entityType, entityID string) {
	c.Set(ContextKeyAuditEntityType, entityType)
	c.Set(ContextKeyAuditEntityID, entityID)
}

// SetAuditChanges attaches a change set to the current request's audit entry.
func SetAuditChanges(c *gin.Context, changes map[string]interface{}) {
	c.Set(ContextKeyAuditChanges, changes)
}

// SkipAudit marks the current request to skip audit logging.
func SkipAudit(c *gin.Context) {
	c.Set(ContextKeyAuditSkip, true)
}

// defaultActionMapper maps HTTP method and path to an audit action
func defaultActionMapper(method, path string) domain.AuditAction {
	pathLower := strings.ToLower(path)
	if strings.Contains(pathLower, "/login") {
		return domain.AuditActionLogin
	}
	if strings.Contains(pathLower, "/logout") {
		return domain.AuditActionLogout
	}

	switch method {
	case http.MethodPost:
		return domain.AuditActionCreate
	case http.MethodPut, http.MethodPatch:
		return domain.AuditActionUpdate
	case http.MethodDelete:
		return domain.AuditActionDelete
	default:
		return domain.AuditActionView
	}
}

// defaultEntityExtractor extracts entity type and id from a request path.
// Example: /api/v1/products/123 -> ("product", "123")
func defaultEntityExtractor(path string) (entityType string, entityID string) {
	parts := strings.Split(strings.Trim(path, "/"), "/")

	startIdx := len(parts)
	for i, part := range parts {
		if part == "api" || isVersionSegment(part) {
			continue
		}
		startIdx = i
		break
	}

	if startIdx >= len(parts) {
		return "unknown", ""
	}

	entityType = strings.TrimSuffix(parts[startIdx], "s")

	if startIdx+1 < len(parts) {
		entityID = parts[startIdx+1]
		if !isValidID(entityID) {
			entityID = ""
		}
	}

	return entityType, entityID
}

// isVersionSegment matches API version segments like "v1" or "v2"
func isVersionSegment(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, c := range s[1:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// isValidID checks whether a path segment looks like a UUID or numeric id
func isValidID(s string) bool {
	if _, err := uuid.Parse(s); err == nil {
		return true
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// clientIP extracts the client IP from forwarding headers or the connection
func clientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}
	if xri := c.GetHeader("X-Real-IP"); xri != "" {
		return xri
	}
	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return ip
}
