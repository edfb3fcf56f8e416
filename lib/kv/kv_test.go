package kv

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// TestLocationValidate tests the required fields of a location
func TestLocationValidate(t *testing.T) {
	testCases := []struct {
		name        string
		location    Location
		expectError bool
	}{
		{
			name:        "Bucket and key",
			location:    NewLocation("users", "alice"),
			expectError: false,
		},
		{
			name:        "With namespace",
			location:    NewLocationWithNamespace("maps", "users", "alice"),
			expectError: false,
		},
		{
			name:        "Missing bucket",
			location:    Location{Key: "alice"},
			expectError: true,
		},
		{
			name:        "Missing key",
			location:    Location{Bucket: "users"},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.location.Validate()
			if tc.expectError && err == nil {
				t.Errorf("Expected error but got none")
			} else if !tc.expectError && err != nil {
				t.Errorf("Did not expect error but got: %v", err)
			}
		})
	}
}

// TestLocationString tests the canonical string representation
func TestLocationString(t *testing.T) {
	if s := NewLocation("users", "alice").String(); s != "users/alice" {
		t.Errorf("Expected users/alice, got %s", s)
	}
	if s := NewLocationWithNamespace("maps", "users", "alice").String(); s != "maps/users/alice" {
		t.Errorf("Expected maps/users/alice, got %s", s)
	}
}

// TestQuorumValues tests the reserved wire values of the symbolic quorums
func TestQuorumValues(t *testing.T) {
	testCases := []struct {
		quorum   Quorum
		expected uint32
		name     string
	}{
		{QuorumOne, 4294967294, "one"},
		{QuorumMajority, 4294967293, "quorum"},
		{QuorumAll, 4294967292, "all"},
		{QuorumDefault, 4294967291, "default"},
		{NewQuorum(3), 3, "3"},
	}

	for _, tc := range testCases {
		if tc.quorum.Uint32() != tc.expected {
			t.Errorf("Quorum %s: expected wire value %d, got %d", tc.name, tc.expected, tc.quorum.Uint32())
		}
		if tc.quorum.String() != tc.name {
			t.Errorf("Quorum %d: expected name %s, got %s", tc.quorum.Uint32(), tc.name, tc.quorum.String())
		}
	}
}

// TestParseQuorum tests that ParseQuorum is the inverse of String
func TestParseQuorum(t *testing.T) {
	for _, name := range []string{"one", "quorum", "all", "default", "2"} {
		q, err := ParseQuorum(name)
		if err != nil {
			t.Fatalf("Failed to parse quorum %s: %v", name, err)
		}
		if q.String() != name {
			t.Errorf("Round trip mismatch: %s != %s", q.String(), name)
		}
	}

	if _, err := ParseQuorum("most"); err == nil {
		t.Errorf("Expected error for invalid quorum name")
	}
}

// TestVClockRoundTrip tests the base64 rendering of version tokens
func TestVClockRoundTrip(t *testing.T) {
	original := VClock{1, 2, 3, 4}

	parsed, err := ParseVClock(original.String())
	if err != nil {
		t.Fatalf("Failed to parse vclock: %v", err)
	}
	if !parsed.Equal(original) {
		t.Errorf("Round trip mismatch: %v != %v", parsed, original)
	}

	if !VClock(nil).IsZero() {
		t.Errorf("Expected nil vclock to be zero")
	}
	if original.IsZero() {
		t.Errorf("Did not expect non-empty vclock to be zero")
	}
	if original.Equal(VClock{1, 2, 3}) {
		t.Errorf("Tokens of different length must not be equal")
	}
}

// TestConvertAll tests order preservation and error propagation of ConvertAll
func TestConvertAll(t *testing.T) {
	objs := []Object{
		{Value: []byte("a")},
		{Value: []byte("b")},
		{Value: []byte("c")},
	}

	// Order preserving conversion
	upper := ConverterFunc[string](func(obj Object) (string, error) {
		return strings.ToUpper(string(obj.Value)), nil
	})
	values, err := ConvertAll[string](upper, objs)
	if err != nil {
		t.Fatalf("Unexpected conversion error: %v", err)
	}
	if len(values) != 3 || values[0] != "A" || values[1] != "B" || values[2] != "C" {
		t.Errorf("Unexpected conversion result: %v", values)
	}

	// First failure aborts and is returned unchanged
	cause := errors.New("bad payload")
	failing := ConverterFunc[string](func(obj Object) (string, error) {
		if string(obj.Value) == "b" {
			return "", cause
		}
		return string(obj.Value), nil
	})
	if _, err := ConvertAll[string](failing, objs); !errors.Is(err, cause) {
		t.Errorf("Expected conversion failure %v, got %v", cause, err)
	}

	// Empty input yields empty output
	values, err = ConvertAll[string](upper, nil)
	if err != nil || len(values) != 0 {
		t.Errorf("Expected empty result, got %v (%v)", values, err)
	}
}

// TestPassThroughConverter tests that the default converter keeps the object unchanged
func TestPassThroughConverter(t *testing.T) {
	obj := Object{Value: []byte("payload"), ContentType: "text/plain", VTag: "a"}

	converted, err := NewPassThroughConverter().Convert(obj)
	if err != nil {
		t.Fatalf("Unexpected conversion error: %v", err)
	}
	if fmt.Sprintf("%v", converted) != fmt.Sprintf("%v", obj) {
		t.Errorf("Pass through changed the object: %v != %v", converted, obj)
	}
}
