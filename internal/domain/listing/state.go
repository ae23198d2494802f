package listing

// FilterState holds the draft and applied criteria of one screen instance.
// Editing touches only the draft; the applied snapshot changes through
// Commit or Clear. Not safe for concurrent use.
type FilterState struct {
	defaults Criteria
	draft    Criteria
	applied  Criteria
}

// NewFilterState creates a state where draft and applied both equal defaults
func NewFilterState(defaults Criteria) *FilterState {
	return &FilterState{
		defaults: defaults.Clone(),
		draft:    defaults.Clone(),
		applied:  defaults.Clone(),
	}
}

// Set edits one draft field
func (s *FilterState) Set(field, value string) {
	s.draft[field] = value
}

// Unset removes a draft field
func (s *FilterState) Unset(field string) {
	delete(s.draft, field)
}

// Commit copies the draft into the applied snapshot
func (s *FilterState) Commit() Criteria {
	s.applied = Commit(s.draft)
	return s.applied.Clone()
}

// Clear resets both draft and applied to the defaults
func (s *FilterState) Clear() {
	s.draft = s.defaults.Clone()
	s.applied = s.defaults.Clone()
}

// IsDirty reports whether there are uncommitted draft edits
func (s *FilterState) IsDirty() bool {
	return IsDirty(s.draft, s.applied)
}

// Draft returns a copy of the draft criteria
func (s *FilterState) Draft() Criteria {
	return s.draft.Clone()
}

// Applied returns a copy of the applied criteria
func (s *FilterState) Applied() Criteria {
	return s.applied.Clone()
}

// Defaults returns a copy of the default criteria
func (s *FilterState) Defaults() Criteria {
	return s.defaults.Clone()
}
