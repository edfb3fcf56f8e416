package kv

// Object is the wire-level representation of a stored value. A fetch may
// return several Objects for one Location when the record holds unresolved
// sibling values.
type Object struct {
	// Value is the raw value body. It is nil for metadata-only (HEAD) fetches.
	Value []byte `json:"value,omitempty"`
	// ContentType describes the value body (e.g. "application/json").
	ContentType string `json:"content_type,omitempty"`
	// VTag is a short entity tag identifying this sibling.
	VTag string `json:"vtag,omitempty"`
	// LastModified is the server-side modification time in unix milliseconds.
	LastModified int64 `json:"last_modified,omitempty"`
	// Deleted marks a tombstone object.
	Deleted bool `json:"deleted,omitempty"`
}

// HasValue reports whether the object carries a value body.
func (o Object) HasValue() bool {
	return o.Value != nil
}
