package listing

// Predicate reports whether a record is kept
type Predicate[T any] func(T) bool

// All accepts every record
func All[T any]() Predicate[T] {
	return func(T) bool { return true }
}

// None rejects every record
func None[T any]() Predicate[T] {
	return func(T) bool { return false }
}

// And combines predicates with logical AND. Nil predicates are skipped;
// an empty list accepts everything.
func And[T any](preds ...Predicate[T]) Predicate[T] {
	active := make([]Predicate[T], 0, len(preds))
	for _, p := range preds {
		if p != nil {
			active = append(active, p)
		}
	}
	switch len(active) {
	case 0:
		return All[T]()
	case 1:
		return active[0]
	}
	return func(rec T) bool {
		for _, p := range active {
			if !p(rec) {
				return false
			}
		}
		return true
	}
}

// Or combines predicates with logical OR. An empty list rejects everything.
func Or[T any](preds ...Predicate[T]) Predicate[T] {
	return func(rec T) bool {
		for _, p := range preds {
			if p != nil && p(rec) {
				return true
			}
		}
		return false
	}
}

// Filter returns the records accepted by pred as a new slice
func Filter[T any](records []T, pred Predicate[T]) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}
