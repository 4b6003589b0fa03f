package request

// Optional marks an override as set or unset. The zero value is unset, which
// keeps "not overridden" distinct from "overridden with the default value".
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns a set Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// Get returns the value and whether it was set.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether a value was provided.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// Or returns the value if set, else def.
func (o Optional[T]) Or(def T) T {
	if o.set {
		return o.value
	}
	return def
}
