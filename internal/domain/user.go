package domain

import (
	"time"
)

// Role is a store staff role. Roles form a strict hierarchy; a higher role
// always satisfies a requirement stated in terms of a lower one.
type Role string

const (
	RoleViewer  Role = "viewer"
	RoleCashier Role = "cashier"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// roleLevels orders the hierarchy: viewer < cashier < manager < admin.
var roleLevels = map[Role]int{
	RoleViewer:  1,
	RoleCashier: 2,
	RoleManager: 3,
	RoleAdmin:   4,
}

// Level returns the role's position in the hierarchy, or 0 for unknown roles.
func (r Role) Level() int {
	return roleLevels[r]
}

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return roleLevels[r] > 0
}

// Satisfies reports whether this role meets the minimum level among the
// required roles. The check is monotonic: admin satisfies anything viewer
// would satisfy, never the converse. Unknown roles satisfy nothing, and an
// empty requirement is satisfied by any valid role.
func (r Role) Satisfies(required ...Role) bool {
	level := r.Level()
	if level == 0 {
		return false
	}
	if len(required) == 0 {
		return true
	}
	min := 0
	for _, req := range required {
		if l := req.Level(); l > 0 && (min == 0 || l < min) {
			min = l
		}
	}
	if min == 0 {
		return false
	}
	return level >= min
}

// User represents a staff account belonging to exactly one tenant.
type User struct {
	ID           string    `json:"id"`
	TenantID     string    `json:"tenant_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name,omitempty"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
