package customer

// Ownership indexes the account ownership chain of one accounts snapshot:
// account -> owning user, user -> profiles reached through owned accounts.
// It is immutable once built.
type Ownership struct {
	accountOwner    map[string]string
	accountProfile  map[string]string
	profileOwners   map[string]map[string]struct{}
	profileAccounts map[string]int
}

// NewOwnership builds the index from an accounts snapshot
func NewOwnership(accounts []Account) *Ownership {
	o := &Ownership{
		accountOwner:    make(map[string]string, len(accounts)),
		accountProfile:  make(map[string]string, len(accounts)),
		profileOwners:   make(map[string]map[string]struct{}),
		profileAccounts: make(map[string]int),
	}
	for _, a := range accounts {
		o.accountOwner[a.ID] = a.UserID
		o.accountProfile[a.ID] = a.ProfileID
		if a.ProfileID == "" {
			continue
		}
		o.profileAccounts[a.ProfileID]++
		if a.UserID == "" {
			continue
		}
		owners, ok := o.profileOwners[a.ProfileID]
		if !ok {
			owners = make(map[string]struct{})
			o.profileOwners[a.ProfileID] = owners
		}
		owners[a.UserID] = struct{}{}
	}
	return o
}

// OwnsAccount reports whether userID owns accountID
func (o *Ownership) OwnsAccount(userID, accountID string) bool {
	if o == nil || userID == "" {
		return false
	}
	owner, ok := o.accountOwner[accountID]
	return ok && owner == userID
}

// OwnsProfile reports whether userID owns at least one account of profileID
func (o *Ownership) OwnsProfile(userID, profileID string) bool {
	if o == nil || userID == "" {
		return false
	}
	_, ok := o.profileOwners[profileID][userID]
	return ok
}

// OwnerOf returns the user owning accountID
func (o *Ownership) OwnerOf(accountID string) (string, bool) {
	if o == nil {
		return "", false
	}
	owner, ok := o.accountOwner[accountID]
	return owner, ok
}

// ProfileOf returns the profile linked to accountID
func (o *Ownership) ProfileOf(accountID string) (string, bool) {
	if o == nil {
		return "", false
	}
	p, ok := o.accountProfile[accountID]
	return p, ok && p != ""
}

// AccountCount returns the number of accounts linked to profileID
func (o *Ownership) AccountCount(profileID string) int {
	if o == nil {
		return 0
	}
	return o.profileAccounts[profileID]
}
