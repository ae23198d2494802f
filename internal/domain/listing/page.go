package listing

import (
	"fmt"

	"github.com/billadmin/backend/internal/domain/shared"
)

// DefaultPageSize is used when no positive page size is supplied
const DefaultPageSize = 10

// Page is a window over a filtered and sorted sequence
type Page[T any] struct {
	Items         []T  `json:"items"`
	PageNumber    int  `json:"page"`
	PageSize      int  `json:"page_size"`
	TotalCount    int  `json:"total"`
	TotalPages    int  `json:"total_pages"`
	FirstIndex    int  `json:"first_index"`
	LastIndex     int  `json:"last_index"`
	HasNext       bool `json:"has_next"`
	HasPrevious   bool `json:"has_previous"`
	RequestedPage int  `json:"-"`
}

// Paginate cuts the requested page out of items. The page number is clamped
// into [1, TotalPages]; TotalPages is at least 1 even for an empty sequence.
func Paginate[T any](items []T, pageSize, pageNumber int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	page := min(max(pageNumber, 1), totalPages)
	first := (page - 1) * pageSize
	last := min(first+pageSize, total)

	window := make([]T, 0, last-first)
	if first < total {
		window = append(window, items[first:last]...)
	}

	return Page[T]{
		Items:         window,
		PageNumber:    page,
		PageSize:      pageSize,
		TotalCount:    total,
		TotalPages:    totalPages,
		FirstIndex:    first,
		LastIndex:     last,
		HasNext:       page*pageSize < total,
		HasPrevious:   page > 1,
		RequestedPage: pageNumber,
	}
}

// Clamped reports whether the requested page had to be moved into range
func (p Page[T]) Clamped() bool {
	return p.RequestedPage != p.PageNumber
}

// RangeError returns a PAGE_OUT_OF_RANGE error when the page was clamped.
// It is informational; the page itself is always usable.
func (p Page[T]) RangeError() error {
	if !p.Clamped() {
		return nil
	}
	return shared.NewDomainError(shared.CodePageOutOfRange,
		fmt.Sprintf("page %d is out of range, showing page %d of %d", p.RequestedPage, p.PageNumber, p.TotalPages))
}

// Showing renders the "Showing X to Y of N" label
func (p Page[T]) Showing() string {
	if p.TotalCount == 0 {
		return "Showing 0 to 0 of 0"
	}
	return fmt.Sprintf("Showing %d to %d of %d", p.FirstIndex+1, p.LastIndex, p.TotalCount)
}
