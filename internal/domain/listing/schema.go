package listing

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/billadmin/backend/internal/domain/shared"
	"golang.org/x/text/language"
)

// FieldKind selects how a filter field constrains records
type FieldKind int

const (
	// Text is a case-insensitive substring match, active when non-empty
	Text FieldKind = iota
	// Enum is an exact match against a known option, "all" means no constraint.
	// An enum without Options is open: any value is matched exactly.
	Enum
	// Exact is an exact match, active when non-empty
	Exact
	// Contains is a case-sensitive substring match for ids and phone numbers
	Contains
)

// String returns the kind name
func (k FieldKind) String() string {
	switch k {
	case Text:
		return "text"
	case Enum:
		return "enum"
	case Exact:
		return "exact"
	case Contains:
		return "contains"
	default:
		return "unknown"
	}
}

// SearchField is one field taking part in searchTerm matching.
// Raw fields are compared case-sensitively on their string form, which is
// how numeric amounts and phone numbers are matched.
type SearchField[T any] struct {
	Name  string
	Value func(T) string
	Raw   bool
}

// Field is a named filter constraint
type Field[T any] struct {
	Name    string
	Kind    FieldKind
	Value   func(T) string
	Options []string
	// Match overrides the default comparison for Enum fields whose options
	// do not map one to one onto a record value (e.g. paid/unpaid).
	Match func(rec T, value string) bool
}

// Schema declares how one screen filters and sorts its records
type Schema[T shared.Record] struct {
	Name        string
	Search      []SearchField[T]
	Fields      []Field[T]
	SortKeys    []SortKey[T]
	DefaultSort SortSpec
	Locale      language.Tag
}

// Defaults returns the no-op criteria: an empty search term, "all" for enum
// fields and "" for every other field.
func (s Schema[T]) Defaults() Criteria {
	c := Criteria{}
	if len(s.Search) > 0 {
		c[SearchTermField] = ""
	}
	for _, f := range s.Fields {
		if f.Kind == Enum {
			c[f.Name] = AllValue
		} else {
			c[f.Name] = ""
		}
	}
	return c
}

// WithSearchFields narrows the search field list to the named fields.
// An empty list keeps the schema unchanged; unknown names are ignored.
func (s Schema[T]) WithSearchFields(names []string) Schema[T] {
	if len(names) == 0 {
		return s
	}
	narrowed := make([]SearchField[T], 0, len(names))
	for _, f := range s.Search {
		if slices.Contains(names, f.Name) {
			narrowed = append(narrowed, f)
		}
	}
	s.Search = narrowed
	return s
}

// HasField reports whether name is a declared filter field or the search term
func (s Schema[T]) HasField(name string) bool {
	if name == SearchTermField {
		return len(s.Search) > 0
	}
	return slices.ContainsFunc(s.Fields, func(f Field[T]) bool { return f.Name == name })
}

// FieldNames lists the criteria keys the schema understands
func (s Schema[T]) FieldNames() []string {
	names := make([]string, 0, len(s.Fields)+1)
	if len(s.Search) > 0 {
		names = append(names, SearchTermField)
	}
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}
	return names
}

// Compile builds the predicate for the applied criteria. All active
// constraints are ANDed; default criteria compile to the always-true
// predicate. An enum value outside the known options imposes no constraint.
func (s Schema[T]) Compile(applied Criteria) Predicate[T] {
	preds := make([]Predicate[T], 0, len(s.Fields)+1)

	if term, ok := applied[SearchTermField]; ok && term != "" && len(s.Search) > 0 {
		preds = append(preds, s.searchPredicate(term))
	}

	for _, f := range s.Fields {
		value, ok := applied[f.Name]
		if !ok {
			continue
		}
		if p := f.compile(value); p != nil {
			preds = append(preds, p)
		}
	}

	return And(preds...)
}

// Check reports criteria values the schema cannot honor. Compile degrades
// them to no constraint; Check exists so callers can log them.
func (s Schema[T]) Check(applied Criteria) error {
	var errs []error
	for _, f := range s.Fields {
		if f.Kind != Enum {
			continue
		}
		value, ok := applied[f.Name]
		if !ok || value == "" || value == AllValue || len(f.Options) == 0 {
			continue
		}
		if !slices.Contains(f.Options, value) {
			errs = append(errs, shared.NewDomainError(
				shared.CodeInvalidFilterCriteria,
				fmt.Sprintf("%s: unknown value %q for field %s", s.Name, value, f.Name),
			))
		}
	}
	return errors.Join(errs...)
}

func (s Schema[T]) searchPredicate(term string) Predicate[T] {
	lowered := strings.ToLower(term)
	fields := s.Search
	return func(rec T) bool {
		for _, f := range fields {
			v := f.Value(rec)
			if f.Raw {
				if strings.Contains(v, term) {
					return true
				}
				continue
			}
			if strings.Contains(strings.ToLower(v), lowered) {
				return true
			}
		}
		return false
	}
}

func (f Field[T]) compile(value string) Predicate[T] {
	switch f.Kind {
	case Enum:
		if value == "" || value == AllValue {
			return nil
		}
		if len(f.Options) > 0 && !slices.Contains(f.Options, value) {
			return nil
		}
		if f.Match != nil {
			return func(rec T) bool { return f.Match(rec, value) }
		}
		return func(rec T) bool { return f.Value(rec) == value }
	case Exact:
		if value == "" {
			return nil
		}
		if f.Match != nil {
			return func(rec T) bool { return f.Match(rec, value) }
		}
		return func(rec T) bool { return f.Value(rec) == value }
	case Contains:
		if value == "" {
			return nil
		}
		return func(rec T) bool { return strings.Contains(f.Value(rec), value) }
	default:
		if value == "" {
			return nil
		}
		lowered := strings.ToLower(value)
		return func(rec T) bool {
			return strings.Contains(strings.ToLower(f.Value(rec)), lowered)
		}
	}
}
