package listing

import (
	"slices"
	"strings"

	"github.com/billadmin/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction is the sort direction
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection maps s onto a direction, falling back to fallback
func ParseDirection(s string, fallback Direction) Direction {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Asc:
		return Asc
	case Desc:
		return Desc
	default:
		return fallback
	}
}

// SortSpec is the active sort field and direction
type SortSpec struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// DefaultSortSpec orders most recent first
var DefaultSortSpec = SortSpec{Field: "createdAt", Direction: Desc}

// Toggle returns the spec after the user selects field: the same field
// sorted ascending flips to descending, anything else starts ascending.
func Toggle(current SortSpec, field string) SortSpec {
	if current.Field == field && current.Direction == Asc {
		return SortSpec{Field: field, Direction: Desc}
	}
	return SortSpec{Field: field, Direction: Asc}
}

// KeyKind selects the comparison used by a sort key
type KeyKind int

const (
	StringKey KeyKind = iota
	NumberKey
	TimeKey
)

// SortKey extracts one sortable value from a record
type SortKey[T any] struct {
	Name   string
	Kind   KeyKind
	String func(T) string
	Number func(T) decimal.Decimal
	Time   func(T) shared.Date
}

// ByString declares a locale-aware string key
func ByString[T any](name string, fn func(T) string) SortKey[T] {
	return SortKey[T]{Name: name, Kind: StringKey, String: fn}
}

// ByNumber declares a numeric key
func ByNumber[T any](name string, fn func(T) decimal.Decimal) SortKey[T] {
	return SortKey[T]{Name: name, Kind: NumberKey, Number: fn}
}

// ByTime declares a date key; invalid dates sort as the earliest instant
func ByTime[T any](name string, fn func(T) shared.Date) SortKey[T] {
	return SortKey[T]{Name: name, Kind: TimeKey, Time: fn}
}

// HasSortKey reports whether the schema declares a key named field
func (s Schema[T]) HasSortKey(field string) bool {
	_, ok := s.sortKey(field)
	return ok
}

// ResolveSort returns the spec the comparator actually uses: an unknown
// field falls back to the default sort field and an empty direction to asc.
func (s Schema[T]) ResolveSort(spec SortSpec) SortSpec {
	if spec.Field == "" {
		return s.defaultSort()
	}
	if _, ok := s.sortKey(spec.Field); !ok {
		spec.Field = s.defaultSort().Field
	}
	if spec.Direction != Desc {
		spec.Direction = Asc
	}
	return spec
}

// Comparator returns a three-way comparator for spec. The returned func
// holds its own collator and must not be shared across goroutines.
func (s Schema[T]) Comparator(spec SortSpec) func(a, b T) int {
	spec = s.ResolveSort(spec)
	key, ok := s.sortKey(spec.Field)
	if !ok {
		return func(a, b T) int { return 0 }
	}

	var cmp func(a, b T) int
	switch key.Kind {
	case NumberKey:
		cmp = func(a, b T) int { return key.Number(a).Cmp(key.Number(b)) }
	case TimeKey:
		cmp = func(a, b T) int {
			return key.Time(a).Instant().Compare(key.Time(b).Instant())
		}
	default:
		col := collate.New(s.locale())
		cmp = func(a, b T) int { return col.CompareString(key.String(a), key.String(b)) }
	}

	if spec.Direction == Desc {
		return func(a, b T) int { return -cmp(a, b) }
	}
	return cmp
}

// Sort orders records in place with a stable sort
func (s Schema[T]) Sort(records []T, spec SortSpec) {
	slices.SortStableFunc(records, s.Comparator(spec))
}

func (s Schema[T]) sortKey(field string) (SortKey[T], bool) {
	for _, k := range s.SortKeys {
		if k.Name == field {
			return k, true
		}
	}
	return SortKey[T]{}, false
}

func (s Schema[T]) defaultSort() SortSpec {
	if s.DefaultSort.Field == "" {
		return DefaultSortSpec
	}
	return s.DefaultSort
}

func (s Schema[T]) locale() language.Tag {
	if s.Locale == language.Und {
		return language.English
	}
	return s.Locale
}
