// Package tenancy holds the request principal, the static role policy and the
// tenant scope guard that every resource service goes through.
package tenancy

import (
	"fmt"

	"schoolerp/internal/common"

	"github.com/google/uuid"
)

// Role is the closed set of roles a user can hold.
type Role string

const (
	RoleSuperAdmin  Role = "super_admin"
	RoleSchoolAdmin Role = "school_admin"
	RoleTeacher     Role = "teacher"
	RoleStudent     Role = "student"
	RoleParent      Role = "parent"
)

// Roles lists every defined role.
var Roles = []Role{RoleSuperAdmin, RoleSchoolAdmin, RoleTeacher, RoleStudent, RoleParent}

// ParseRole returns the Role named by s, or false when s is not a defined role.
func ParseRole(s string) (Role, bool) {
	for _, r := range Roles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// Principal is the authenticated caller for one request. It is built by the
// resolver and passed by value into every service call.
type Principal struct {
	UserID   uuid.UUID  `json:"user_id"`
	Role     Role       `json:"role"`
	TenantID *uuid.UUID `json:"tenant_id,omitempty"`
}

// NewPrincipal checks the tenant invariant: super_admin carries no tenant and
// every other role carries exactly one.
func NewPrincipal(userID uuid.UUID, role Role, tenantID *uuid.UUID) (Principal, error) {
	if userID == uuid.Nil {
		return Principal{}, fmt.Errorf("%w: missing user id", common.ErrUnauthenticated)
	}
	if _, ok := ParseRole(string(role)); !ok {
		return Principal{}, fmt.Errorf("%w: unknown role %q", common.ErrUnauthenticated, role)
	}

	if role == RoleSuperAdmin {
		return Principal{UserID: userID, Role: role}, nil
	}
	if tenantID == nil || *tenantID == uuid.Nil {
		return Principal{}, fmt.Errorf("%w: role %s requires a tenant", common.ErrUnauthenticated, role)
	}

	tid := *tenantID
	return Principal{UserID: userID, Role: role, TenantID: &tid}, nil
}

// IsSuperAdmin reports whether p is the platform-wide administrator.
func (p Principal) IsSuperAdmin() bool {
	return p.Role == RoleSuperAdmin
}

// Tenant returns the principal's tenant and whether it has one.
func (p Principal) Tenant() (uuid.UUID, bool) {
	if p.TenantID == nil {
		return uuid.Nil, false
	}
	return *p.TenantID, true
}
