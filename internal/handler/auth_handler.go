package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/auth"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/dto"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/middleware"
	"github.com/randy-rebucas/localpro-pos-sub001/pkg/response"
)

// AuthHandler handles login and identity echo requests
type AuthHandler struct {
	loginService *auth.LoginService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(loginService *auth.LoginService) *AuthHandler {
	return &AuthHandler{loginService: loginService}
}

// Login authenticates a user within the request's resolved tenant and
// issues a credential.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		c.JSON(http.StatusServiceUnavailable, response.ServiceUnavailable(""))
		return
	}

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	result, err := h.loginService.Login(c.Request.Context(), tenantID, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, response.Unauthorized("Invalid email or password"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(""))
		return
	}

	resp := dto.LoginResponse{
		AccessToken: result.Token,
		ExpiresAt:   result.ExpiresAt.Format(time.RFC3339),
	}
	resp.User.ID = result.User.ID
	resp.User.Email = result.User.Email
	resp.User.Name = result.User.Name
	resp.User.Role = string(result.User.Role)

	middleware.SetAuditEntity(c, "session", result.User.ID)
	c.JSON(http.StatusOK, response.Success(resp))
}

// Whoami echoes the request's resolved tenant and identity.
// GET /api/v1/auth/whoami
func (h *AuthHandler) Whoami(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		c.JSON(http.StatusServiceUnavailable, response.ServiceUnavailable(""))
		return
	}

	resp := dto.WhoamiResponse{TenantID: tenantID}
	if source, exists := c.Get(middleware.ContextKeySource); exists {
		resp.Source, _ = source.(string)
	}
	if identity, ok := middleware.GetIdentity(c); ok {
		resp.UserID = identity.UserID
		resp.Email = identity.Email
		resp.Role = string(identity.Role)
	}

	c.JSON(http.StatusOK, response.Success(resp))
}
