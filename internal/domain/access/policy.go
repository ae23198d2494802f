package access

import (
	"github.com/billadmin/backend/internal/domain/listing"
)

// Policy resolves the visibility predicate for one screen. It is resolved
// once per request so role checks never leak into individual predicates.
type Policy[T any] struct {
	// Owned reports whether rec belongs to the principal, directly or
	// through the account ownership chain.
	Owned func(principalID string, rec T) bool
	// Admin optionally narrows what an admin sees on this screen.
	Admin func(p Principal) listing.Predicate[T]
	// User optionally replaces the owned predicate for user scope.
	User func(p Principal) listing.Predicate[T]
}

// Scope returns the predicate for p. super_admin sees everything, admin sees
// everything unless the screen injects an override, and user as well as any
// unrecognized role only sees owned records.
func (pol Policy[T]) Scope(p Principal) listing.Predicate[T] {
	switch p.Role {
	case RoleSuperAdmin:
		return listing.All[T]()
	case RoleAdmin:
		if pol.Admin != nil {
			return pol.Admin(p)
		}
		return listing.All[T]()
	default:
		return pol.userScope(p)
	}
}

func (pol Policy[T]) userScope(p Principal) listing.Predicate[T] {
	if p.ID == "" {
		return listing.None[T]()
	}
	if pol.User != nil {
		return pol.User(p)
	}
	if pol.Owned == nil {
		return listing.None[T]()
	}
	owned := pol.Owned
	id := p.ID
	return func(rec T) bool { return owned(id, rec) }
}
