package access

import (
	"fmt"
	"strings"

	"github.com/billadmin/backend/internal/domain/shared"
)

// Role is the principal's role
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// IsValid returns true if the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// String returns the string representation
func (r Role) String() string {
	return string(r)
}

// IsAdministrative returns true for admin and super_admin
func (r Role) IsAdministrative() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// ParseRole maps s onto a known role. Unknown values resolve to RoleUser,
// the most restrictive role, together with an UNKNOWN_ROLE error.
func ParseRole(s string) (Role, error) {
	r := Role(strings.TrimSpace(s))
	if r.IsValid() {
		return r, nil
	}
	return RoleUser, shared.NewDomainError(shared.CodeUnknownRole, fmt.Sprintf("unknown role %q", s))
}

// Principal is the authenticated caller
type Principal struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
	Name string `json:"name,omitempty"`
}

// NewPrincipal builds a principal from raw claims; unknown roles fail closed
func NewPrincipal(id, role, name string) (Principal, error) {
	r, err := ParseRole(role)
	return Principal{ID: id, Role: r, Name: name}, err
}
