package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTenantNotFound is returned when no tenant matches a lookup.
	ErrTenantNotFound = errors.New("tenant not found")
	// ErrTenantUnresolvable is returned when even the default tenant lookup
	// fails; callers must treat this as a hard failure, not as an
	// unauthenticated default.
	ErrTenantUnresolvable = errors.New("tenant could not be resolved")
	// ErrForbidden is returned when an authenticated user's role does not
	// satisfy the required role for an operation.
	ErrForbidden = errors.New("insufficient role")
)

// TenantAccessViolationError signals that an authenticated identity's tenant
// conflicts with a tenant the client declared via request parameters. It
// carries only the declared slug so the boundary can redirect to
// "/{slug}/forbidden" without revealing the authoritative tenant.
type TenantAccessViolationError struct {
	DeclaredSlug string
}

func (e *TenantAccessViolationError) Error() string {
	return fmt.Sprintf("access violation: declared tenant %q conflicts with authenticated tenant", e.DeclaredSlug)
}

// RedirectPath returns the forbidden-page path for the declared tenant.
func (e *TenantAccessViolationError) RedirectPath() string {
	return "/" + e.DeclaredSlug + "/forbidden"
}

// IsAccessViolation reports whether err is a TenantAccessViolationError and
// returns it if so.
func IsAccessViolation(err error) (*TenantAccessViolationError, bool) {
	var v *TenantAccessViolationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
