package dto

// LoginRequest represents a login attempt within the resolved tenant
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginResponse carries the issued credential
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   string `json:"expires_at"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name,omitempty"`
		Role  string `json:"role"`
	} `json:"user"`
}

// WhoamiResponse echoes the resolved tenant and identity for a request
type WhoamiResponse struct {
	TenantID string `json:"tenant_id"`
	Source   string `json:"source"`
	UserID   string `json:"user_id,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}
