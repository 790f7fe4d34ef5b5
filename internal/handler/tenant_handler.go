package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/dto"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/middleware"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/service"
	"github.com/randy-rebucas/localpro-pos-sub001/pkg/response"
)

// TenantHandler handles tenant lifecycle HTTP requests
type TenantHandler struct {
	tenantService service.TenantService
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenantService service.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// Signup handles store tenant creation
// POST /api/v1/tenants
func (h *TenantHandler) Signup(c *gin.Context) {
	var req dto.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	if valid, msg := req.ValidateSlug(); !valid {
		c.JSON(http.StatusBadRequest, response.Error("INVALID_SLUG", msg))
		return
	}

	result, err := h.tenantService.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrTenantAlreadyExists) {
			c.JSON(http.StatusConflict, response.Error("TENANT_EXISTS", "Tenant with this slug already exists"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	middleware.SetAuditEntity(c, "tenant", result.ID)
	c.JSON(http.StatusCreated, response.Success(result))
}

// GetCurrent returns the tenant resolved for this request
// GET /api/v1/tenant
func (h *TenantHandler) GetCurrent(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		c.JSON(http.StatusServiceUnavailable, response.ServiceUnavailable(""))
		return
	}

	result, err := h.tenantService.GetByID(c.Request.Context(), tenantID)
	if err != nil {
		if errors.Is(err, service.ErrTenantNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Tenant not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// UpdateSettings applies a settings update to the request's resolved tenant.
// The tenant id comes from the resolution, never from the request body.
// PATCH /api/v1/tenant/settings
func (h *TenantHandler) UpdateSettings(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		c.JSON(http.StatusServiceUnavailable, response.ServiceUnavailable(""))
		return
	}

	var req dto.UpdateTenantSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	result, err := h.tenantService.UpdateSettings(c.Request.Context(), tenantID, &req)
	if err != nil {
		if errors.Is(err, service.ErrTenantNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Tenant not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	middleware.SetAuditEntity(c, "tenant", tenantID)
	c.JSON(http.StatusOK, response.Success(result))
}
