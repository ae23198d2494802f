package listing

import (
	"github.com/billadmin/backend/internal/domain/shared"
)

// Query is one list request against an engine
type Query struct {
	Criteria Criteria
	Sort     SortSpec
	Page     int
	PageSize int
}

// Result is the outcome of running a query
type Result[T any] struct {
	Page     Page[T]
	Sort     SortSpec
	Criteria Criteria
	// Warnings collects degradations that did not stop the query:
	// unknown enum values and clamped pages.
	Warnings []error
}

// Engine runs the scope, filter, sort and paginate pipeline for one screen.
// It holds no per-request state and may be shared across goroutines.
type Engine[T shared.Record] struct {
	schema   Schema[T]
	pageSize int
}

// NewEngine creates an engine for schema. A non-positive pageSize falls back
// to DefaultPageSize.
func NewEngine[T shared.Record](schema Schema[T], pageSize int) *Engine[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Engine[T]{schema: schema, pageSize: pageSize}
}

// Schema returns the engine's schema
func (e *Engine[T]) Schema() Schema[T] {
	return e.schema
}

// PageSize returns the engine's default page size
func (e *Engine[T]) PageSize() int {
	return e.pageSize
}

// Run filters records by scope and the query criteria, sorts them stably and
// returns the requested page. A nil scope matches nothing. The input slice is
// never modified.
func (e *Engine[T]) Run(records []T, scope Predicate[T], q Query) Result[T] {
	if scope == nil {
		scope = None[T]()
	}
	criteria := q.Criteria
	if criteria == nil {
		criteria = e.schema.Defaults()
	}

	filtered := Filter(records, And(scope, e.schema.Compile(criteria)))

	spec := e.schema.ResolveSort(q.Sort)
	e.schema.Sort(filtered, spec)

	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = e.pageSize
	}
	pageNumber := q.Page
	if pageNumber == 0 {
		pageNumber = 1
	}
	page := Paginate(filtered, pageSize, pageNumber)

	var warnings []error
	if err := e.schema.Check(criteria); err != nil {
		warnings = append(warnings, err)
	}
	if err := page.RangeError(); err != nil {
		warnings = append(warnings, err)
	}

	return Result[T]{
		Page:     page,
		Sort:     spec,
		Criteria: criteria.Clone(),
		Warnings: warnings,
	}
}

// NewView creates the per-instance state for one displayed list
func (e *Engine[T]) NewView() *View[T] {
	return &View[T]{
		engine:  e,
		filters: NewFilterState(e.schema.Defaults()),
		sort:    e.schema.ResolveSort(SortSpec{}),
		page:    1,
	}
}
