package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/dto"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/middleware"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/repository"
	"github.com/randy-rebucas/localpro-pos-sub001/pkg/response"
)

// AuditHandler serves the compliance read side of the audit trail
type AuditHandler struct {
	auditRepo repository.AuditRepository
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditRepo repository.AuditRepository) *AuditHandler {
	return &AuditHandler{auditRepo: auditRepo}
}

// List returns the resolved tenant's audit entries, newest first.
// GET /api/v1/audit
func (h *AuditHandler) List(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		c.JSON(http.StatusServiceUnavailable, response.ServiceUnavailable(""))
		return
	}

	var query dto.ListAuditQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}
	query.SetDefaults()

	entries, total, err := h.auditRepo.ListByTenant(c.Request.Context(), tenantID, query.Page, query.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.InternalError(""))
		return
	}

	results := make([]*dto.AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp := &dto.AuditEntryResponse{
			ID:         entry.ID,
			TenantID:   entry.TenantID,
			Action:     string(entry.Action),
			EntityType: entry.EntityType,
			Changes:    entry.Changes,
			Metadata:   entry.Metadata,
			IPAddress:  entry.IPAddress,
			UserAgent:  entry.UserAgent,
			CreatedAt:  entry.CreatedAt.Format(time.RFC3339),
		}
		if entry.UserID != nil {
			resp.UserID = *entry.UserID
		}
		if entry.EntityID != nil {
			resp.EntityID = *entry.EntityID
		}
		results = append(results, resp)
	}

	c.JSON(http.StatusOK, response.Paginated(results, query.Page, query.Limit, int64(total)))
}
