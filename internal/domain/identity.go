package domain

// Identity is the verified claim set derived from a request's credential.
// It is transient: built per request and re-validated against the live user
// record, never stored.
type Identity struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}
