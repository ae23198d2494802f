package listing

import "maps"

// SearchTermField is the criteria key holding the free-text search term
const SearchTermField = "searchTerm"

// AllValue is the enum sentinel meaning "no constraint"
const AllValue = "all"

// Criteria maps a filter field name to its value.
// An absent field and a field holding "" are different criteria.
type Criteria map[string]string

// Get returns the value of field and whether it is present
func (c Criteria) Get(field string) (string, bool) {
	v, ok := c[field]
	return v, ok
}

// Clone returns a deep copy of the criteria
func (c Criteria) Clone() Criteria {
	if c == nil {
		return Criteria{}
	}
	return maps.Clone(c)
}

// Equal compares field by field, independent of construction order
func (c Criteria) Equal(other Criteria) bool {
	return maps.Equal(c, other)
}

// IsDirty reports whether the draft differs from the applied snapshot
func IsDirty(draft, applied Criteria) bool {
	return !draft.Equal(applied)
}

// Commit returns the snapshot that becomes the applied criteria
func Commit(draft Criteria) Criteria {
	return draft.Clone()
}
