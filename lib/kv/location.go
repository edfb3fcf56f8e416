package kv

import "fmt"

// Location identifies a single record in the store. It is composed of an
// optional type namespace, a bucket name and a key. A Location is an
// immutable value; key-addressed commands require Bucket and Key to be
// non-empty.
type Location struct {
	Namespace string `json:"namespace,omitempty"`
	Bucket    string `json:"bucket,omitempty"`
	Key       string `json:"key,omitempty"`
}

// NewLocation creates a Location without a type namespace.
func NewLocation(bucket, key string) Location {
	return Location{Bucket: bucket, Key: key}
}

// NewLocationWithNamespace creates a Location with a type namespace.
func NewLocationWithNamespace(namespace, bucket, key string) Location {
	return Location{Namespace: namespace, Bucket: bucket, Key: key}
}

// Validate checks that the Location addresses a record. The namespace is
// optional, bucket and key are not.
func (l Location) Validate() error {
	if l.Bucket == "" {
		return fmt.Errorf("location: bucket must not be empty")
	}
	if l.Key == "" {
		return fmt.Errorf("location: key must not be empty")
	}
	return nil
}

// String returns the canonical namespace/bucket/key representation.
func (l Location) String() string {
	if l.Namespace == "" {
		return fmt.Sprintf("%s/%s", l.Bucket, l.Key)
	}
	return fmt.Sprintf("%s/%s/%s", l.Namespace, l.Bucket, l.Key)
}
