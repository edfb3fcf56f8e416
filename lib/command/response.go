package command

import "github.com/ValentinKolb/qkv/lib/kv"

// Response is the immutable result of a fetch-style command. A Response is
// always a success: "record absent" and "record unchanged" are valid
// outcomes distinguished by flags, not errors.
type Response[T any] struct {
	notFound  bool
	unchanged bool
	values    []T
	vclock    kv.VClock
}

func newResponse[T any](notFound, unchanged bool, values []T, vclock kv.VClock) *Response[T] {
	return &Response[T]{
		notFound:  notFound,
		unchanged: unchanged,
		values:    values,
		vclock:    vclock,
	}
}

// NotFound reports whether the requested record was absent.
func (r *Response[T]) NotFound() bool {
	return r.notFound
}

// Unchanged reports whether the server confirmed the record is unmodified
// relative to the version token supplied with the request. It is only
// meaningful when such a token was supplied.
func (r *Response[T]) Unchanged() bool {
	return r.unchanged
}

// Values returns the converted domain objects in the order the cluster
// returned them. Multiple values represent unresolved siblings; the slice
// may be empty.
func (r *Response[T]) Values() []T {
	return r.values
}

// HasValues reports whether the response carries at least one value.
func (r *Response[T]) HasValues() bool {
	return len(r.values) > 0
}

// HasVClock reports whether the response carries a version token.
func (r *Response[T]) HasVClock() bool {
	return !r.vclock.IsZero()
}

// VClock returns the version token, or a zero token if absent.
func (r *Response[T]) VClock() kv.VClock {
	return r.vclock
}
