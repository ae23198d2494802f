package listing

import "github.com/billadmin/backend/internal/domain/shared"

// Status is the control state handed to the rendering layer
type Status struct {
	IsDirty     bool `json:"is_dirty"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
	TotalPages  int  `json:"total_pages"`
	PageNumber  int  `json:"page"`
}

// Snapshot is one rendered state of a view
type Snapshot[T any] struct {
	Page     Page[T]
	Sort     SortSpec
	Draft    Criteria
	Applied  Criteria
	Status   Status
	Warnings []error
}

// View is the mutable list state owned by a single screen instance:
// the draft and applied filters, the sort spec and the page cursor.
// It is not safe for concurrent use.
type View[T shared.Record] struct {
	engine   *Engine[T]
	filters  *FilterState
	sort     SortSpec
	page     int
	pageSize int
	last     Status
}

// SetFilter edits one draft field; the list does not change until Apply
func (v *View[T]) SetFilter(field, value string) {
	v.filters.Set(field, value)
	v.last.IsDirty = v.filters.IsDirty()
}

// Apply commits the draft and resets the page cursor to 1
func (v *View[T]) Apply() Criteria {
	applied := v.filters.Commit()
	v.page = 1
	v.last.IsDirty = false
	return applied
}

// Clear resets draft and applied filters to the defaults and the page to 1
func (v *View[T]) Clear() {
	v.filters.Clear()
	v.page = 1
	v.last.IsDirty = false
}

// SortBy toggles the sort spec for field
func (v *View[T]) SortBy(field string) SortSpec {
	v.sort = Toggle(v.sort, field)
	return v.sort
}

// SetPageSize changes the page size and resets the page to 1
func (v *View[T]) SetPageSize(size int) {
	v.pageSize = size
	v.page = 1
}

// Next advances one page when the last render allowed it
func (v *View[T]) Next() bool {
	if !v.last.HasNext {
		return false
	}
	v.page++
	v.last.HasNext = false
	return true
}

// Previous goes back one page unless already on the first page
func (v *View[T]) Previous() bool {
	if v.page <= 1 {
		return false
	}
	v.page--
	return true
}

// GoTo moves the cursor; out of range values are clamped on the next render
func (v *View[T]) GoTo(page int) {
	v.page = page
}

// IsDirty reports whether the draft has uncommitted edits
func (v *View[T]) IsDirty() bool {
	return v.filters.IsDirty()
}

// Sort returns the current sort spec
func (v *View[T]) Sort() SortSpec {
	return v.sort
}

// PageNumber returns the current page cursor
func (v *View[T]) PageNumber() int {
	return v.page
}

// Render runs the applied criteria over records and records the
// navigation guards for the next Next call.
func (v *View[T]) Render(records []T, scope Predicate[T]) Snapshot[T] {
	res := v.engine.Run(records, scope, Query{
		Criteria: v.filters.Applied(),
		Sort:     v.sort,
		Page:     v.page,
		PageSize: v.pageSize,
	})

	v.page = res.Page.PageNumber
	v.sort = res.Sort
	v.last = Status{
		IsDirty:     v.filters.IsDirty(),
		HasNext:     res.Page.HasNext,
		HasPrevious: res.Page.HasPrevious,
		TotalPages:  res.Page.TotalPages,
		PageNumber:  res.Page.PageNumber,
	}

	return Snapshot[T]{
		Page:     res.Page,
		Sort:     res.Sort,
		Draft:    v.filters.Draft(),
		Applied:  res.Criteria,
		Status:   v.last,
		Warnings: res.Warnings,
	}
}
