package patch

// Optional is a tri-state field used to distinguish:
// - unspecified (omitted)
// - specified as null
// - specified with a value
type Optional[T any] struct {
	specified bool
	isNull    bool
	value     T
}

func Unspecified[T any]() Optional[T] { return Optional[T]{} }
func Null[T any]() Optional[T]        { return Optional[T]{specified: true, isNull: true} }
func Some[T any](v T) Optional[T]     { return Optional[T]{specified: true, value: v} }

func (o Optional[T]) IsSpecified() bool { return o.specified }
func (o Optional[T]) IsNull() bool      { return o.specified && o.isNull }
func (o Optional[T]) Value() T          { return o.value }

// HasValue reports whether o was specified with a non-null value.
func (o Optional[T]) HasValue() bool { return o.specified && !o.isNull }

// Apply writes the value into dst when one was given. Null and unspecified leave dst alone;
// callers that allow clearing check IsNull themselves.
func (o Optional[T]) Apply(dst *T) {
	if o.HasValue() {
		*dst = o.value
	}
}
