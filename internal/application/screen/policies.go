package screen

import (
	"github.com/billadmin/backend/internal/domain/access"
	"github.com/billadmin/backend/internal/domain/customer"
	"github.com/billadmin/backend/internal/domain/listing"
)

// AccountPolicy limits users to the accounts they own
func AccountPolicy() access.Policy[AccountRow] {
	return access.Policy[AccountRow]{
		Owned: func(id string, r AccountRow) bool { return r.IsOwnedBy(id) },
	}
}

// ProfilePolicy limits users to profiles reached through their accounts
// and profiles they created themselves
func ProfilePolicy(own *customer.Ownership) access.Policy[ProfileRow] {
	return access.Policy[ProfileRow]{
		Owned: func(id string, r ProfileRow) bool {
			return own.OwnsProfile(id, r.ID) || (r.CreatedBy != "" && r.CreatedBy == id)
		},
	}
}

// PlanPolicy filters plans by the role they are offered to. Users see user
// plans; admins also see admin plans that are shared or created for them.
// Admin plans created for another admin stay hidden from admins on purpose;
// only superadmins see every plan.
func PlanPolicy() access.Policy[PlanRow] {
	return access.Policy[PlanRow]{
		User: func(access.Principal) listing.Predicate[PlanRow] {
			return func(r PlanRow) bool { return r.IsAssignedTo(string(access.RoleUser)) }
		},
		Admin: func(p access.Principal) listing.Predicate[PlanRow] {
			return func(r PlanRow) bool {
				if r.IsAssignedTo(string(access.RoleUser)) {
					return true
				}
				if !r.IsAssignedTo(string(access.RoleAdmin)) {
					return false
				}
				return r.CreatedForAdmin == "" || r.CreatedForAdmin == p.ID
			}
		},
	}
}

// ServicePolicy limits users to services on accounts they own
func ServicePolicy() access.Policy[ServiceRow] {
	return access.Policy[ServiceRow]{
		Owned: func(id string, r ServiceRow) bool { return r.OwnerID != "" && r.OwnerID == id },
	}
}

// InvoicePolicy limits users to invoices of accounts they own
func InvoicePolicy(own *customer.Ownership) access.Policy[InvoiceRow] {
	return access.Policy[InvoiceRow]{
		Owned: func(id string, r InvoiceRow) bool { return own.OwnsAccount(id, r.AccountID) },
	}
}
