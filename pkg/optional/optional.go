// Package optional provides an explicit present/absent value, used where
// "nothing was found" must stay distinguishable from "found, but empty".
package optional

// Value holds either a T or nothing. The zero Value is absent.
type Value[T any] struct {
	v  T
	ok bool
}

// Some returns a present Value wrapping v.
func Some[T any](v T) Value[T] {
	return Value[T]{v: v, ok: true}
}

// None returns an absent Value.
func None[T any]() Value[T] {
	return Value[T]{}
}

// NonEmpty wraps a slice, treating nil and zero-length slices as absent.
func NonEmpty[T any](s []T) Value[[]T] {
	if len(s) == 0 {
		return None[[]T]()
	}
	return Some(s)
}

// NonBlank wraps a string, treating "" as absent.
func NonBlank(s string) Value[string] {
	if s == "" {
		return None[string]()
	}
	return Some(s)
}

// Get returns the wrapped value and whether it is present.
func (o Value[T]) Get() (T, bool) {
	return o.v, o.ok
}

// IsPresent reports whether a value is held.
func (o Value[T]) IsPresent() bool {
	return o.ok
}

// OrElse returns the wrapped value, or def when absent.
func (o Value[T]) OrElse(def T) T {
	if !o.ok {
		return def
	}
	return o.v
}

// Ptr returns a pointer to a copy of the value, or nil when absent.
func (o Value[T]) Ptr() *T {
	if !o.ok {
		return nil
	}
	v := o.v
	return &v
}
