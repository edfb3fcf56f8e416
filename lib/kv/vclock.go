package kv

import "encoding/base64"

// VClock is the opaque causality token returned by the store. Clients never
// inspect it, they only hand it back to detect conflicting or unmodified
// state (conditional fetches, conditional stores, deletes).
type VClock []byte

// Bytes returns the raw token. A nil VClock means "no causal context".
func (v VClock) Bytes() []byte {
	return v
}

// IsZero reports whether the token is absent.
func (v VClock) IsZero() bool {
	return len(v) == 0
}

// Equal compares two tokens byte-wise.
func (v VClock) Equal(other VClock) bool {
	if len(v) != len(other) {
		return false
	}
	for i := range v {
		if v[i] != other[i] {
			return false
		}
	}
	return true
}

// String returns a base64 rendering for logging and CLI output.
func (v VClock) String() string {
	return base64.StdEncoding.EncodeToString(v)
}

// ParseVClock decodes a base64 rendering produced by String.
func ParseVClock(s string) (VClock, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return b, nil
}
