// Package listing implements the generic list engine shared by every admin screen.
//
// A screen declares a Schema (search fields, filter fields, sort keys, default
// sort) and the engine turns it into:
//   - a staged filter state (draft vs applied criteria)
//   - a compiled predicate over the applied criteria
//   - a stable comparator for the active sort spec
//   - a clamped page window with navigation guards
//
// Role visibility is not part of this package; callers pass a scope predicate
// resolved once per request by the access package.
package listing
