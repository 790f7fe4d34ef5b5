package domain

import (
	"testing"
)

func TestRoleLevel(t *testing.T) {
	tests := []struct {
		role     Role
		expected int
	}{
		{RoleViewer, 1},
		{RoleCashier, 2},
		{RoleManager, 3},
		{RoleAdmin, 4},
		{Role("superuser"), 0},
		{Role(""), 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := tt.role.Level(); got != tt.expected {
				t.Errorf("expected level %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestRoleValid(t *testing.T) {
	for _, role := range []Role{RoleViewer, RoleCashier, RoleManager, RoleAdmin} {
		if !role.Valid() {
			t.Errorf("expected %s to be valid", role)
		}
	}
	for _, role := range []Role{Role(""), Role("owner"), Role("Admin")} {
		if role.Valid() {
			t.Errorf("expected %q to be invalid", role)
		}
	}
}

func TestRoleSatisfies(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		required []Role
		expected bool
	}{
		{"admin satisfies admin", RoleAdmin, []Role{RoleAdmin}, true},
		{"admin satisfies viewer", RoleAdmin, []Role{RoleViewer}, true},
		{"viewer does not satisfy admin", RoleViewer, []Role{RoleAdmin}, false},
		{"cashier does not satisfy manager", RoleCashier, []Role{RoleManager}, false},
		{"manager satisfies cashier", RoleManager, []Role{RoleCashier}, true},
		{"exact match", RoleCashier, []Role{RoleCashier}, true},
		{"minimum of listed roles wins", RoleCashier, []Role{RoleAdmin, RoleCashier}, true},
		{"below minimum of listed roles", RoleViewer, []Role{RoleAdmin, RoleManager}, false},
		{"empty requirement satisfied by valid role", RoleViewer, nil, true},
		{"unknown role satisfies nothing", Role("owner"), []Role{RoleViewer}, false},
		{"unknown role fails even empty requirement", Role("owner"), nil, false},
		{"unknown required roles ignored", RoleManager, []Role{Role("owner"), RoleCashier}, true},
		{"only unknown required roles", RoleAdmin, []Role{Role("owner")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.role.Satisfies(tt.required...); got != tt.expected {
				t.Errorf("Satisfies(%v) = %v, expected %v", tt.required, got, tt.expected)
			}
		})
	}
}

// Monotonicity: every role satisfies everything a lower role satisfies.
func TestRoleSatisfiesMonotonic(t *testing.T) {
	roles := []Role{RoleViewer, RoleCashier, RoleManager, RoleAdmin}

	for i, lower := range roles {
		for _, higher := range roles[i:] {
			for _, required := range roles {
				if lower.Satisfies(required) && !higher.Satisfies(required) {
					t.Errorf("%s satisfies %s but %s does not", lower, required, higher)
				}
			}
		}
	}
}
