package common

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/ValentinKolb/qkv/lib/cluster"
	"github.com/ValentinKolb/qkv/lib/kv"
)

var testLocation = kv.NewLocationWithNamespace("maps", "users", "alice")

// TestFetchOperationRoundTrip tests that encoding an operation as a request
// and decoding it again is lossless
func TestFetchOperationRoundTrip(t *testing.T) {
	op := cluster.NewFetchOperationBuilder(testLocation).
		WithR(kv.NewQuorum(2)).
		WithPR(kv.QuorumOne).
		WithBasicQuorum(true).
		WithNotFoundOK(false).
		WithSloppyQuorum(true).
		WithNVal(5).
		WithTimeout(2500 * time.Millisecond).
		WithHeadOnly(true).
		WithReturnDeletedVClock(true).
		WithIfModified(kv.VClock{1, 2, 3}).
		Build()

	decoded := NewFetchRequest(op).ToFetchOperation()
	if !reflect.DeepEqual(op, decoded) {
		t.Errorf("Round trip mismatch:\n%+v\n%+v", op, decoded)
	}
}

// TestFetchOperationRoundTripEmpty tests that an operation without options
// stays option-free across the wire
func TestFetchOperationRoundTripEmpty(t *testing.T) {
	op := cluster.NewFetchOperationBuilder(testLocation).Build()

	decoded := NewFetchRequest(op).ToFetchOperation()
	if decoded.Mask != 0 {
		t.Errorf("Expected empty mask, got %b", decoded.Mask)
	}
	if decoded.Location != testLocation {
		t.Errorf("Expected location %v, got %v", testLocation, decoded.Location)
	}
}

// TestStoreOperationRoundTrip tests the store request translation
func TestStoreOperationRoundTrip(t *testing.T) {
	op := cluster.NewStoreOperationBuilder(testLocation, kv.Object{
		Value:       []byte("payload"),
		ContentType: "text/plain",
	}).
		WithW(kv.QuorumMajority).
		WithPW(kv.NewQuorum(1)).
		WithDW(kv.QuorumAll).
		WithReturnBody(true).
		WithIfNotModified(true).
		WithVClock(kv.VClock{9}).
		Build()

	decoded := NewStoreRequest(op).ToStoreOperation()
	if !reflect.DeepEqual(op, decoded) {
		t.Errorf("Round trip mismatch:\n%+v\n%+v", op, decoded)
	}
}

// TestDeleteOperationRoundTrip tests the delete request translation
func TestDeleteOperationRoundTrip(t *testing.T) {
	op := cluster.NewDeleteOperationBuilder(testLocation).
		WithRW(kv.NewQuorum(2)).
		WithW(kv.QuorumAll).
		WithPW(kv.QuorumOne).
		WithDW(kv.QuorumMajority).
		WithSloppyQuorum(true).
		WithVClock(kv.VClock{4, 5}).
		Build()

	decoded := NewDeleteRequest(op).ToDeleteOperation()
	if !reflect.DeepEqual(op, decoded) {
		t.Errorf("Round trip mismatch:\n%+v\n%+v", op, decoded)
	}
}

// TestFetchIndexRoundTrip tests the search-index request and response
// translation
func TestFetchIndexRoundTrip(t *testing.T) {
	op := &cluster.FetchIndexOperation{Name: "famous"}
	if decoded := NewFetchIndexRequest(op).ToFetchIndexOperation(); decoded.Name != "famous" {
		t.Errorf("Expected index name famous, got %s", decoded.Name)
	}

	desc := &cluster.IndexDescription{Name: "famous", Schema: "_yz_default", NVal: 3}
	decoded := NewFetchIndexResponse(desc, nil).ToIndexDescription()
	if !reflect.DeepEqual(desc, decoded) {
		t.Errorf("Round trip mismatch:\n%+v\n%+v", desc, decoded)
	}
}

// TestFlagPresence tests that a boolean option set to false is carried as
// present-but-false, distinct from absent
func TestFlagPresence(t *testing.T) {
	op := cluster.NewFetchOperationBuilder(testLocation).
		WithNotFoundOK(false).
		Build()

	msg := NewFetchRequest(op)
	if !msg.Mask().Has(cluster.OptNotFoundOK) {
		t.Errorf("Expected presence bit to be set")
	}
	if msg.Flag(cluster.OptNotFoundOK) {
		t.Errorf("Expected flag value to be false")
	}

	decoded := msg.ToFetchOperation()
	if !decoded.Mask.Has(cluster.OptNotFoundOK) || decoded.NotFoundOK {
		t.Errorf("Expected present-but-false option, got %+v", decoded)
	}
}

// TestWireError tests error reconstruction from a response
func TestWireError(t *testing.T) {
	// Success responses carry no error
	if err := NewFetchResponse(&cluster.FetchResult{NotFound: true}, nil).WireError(); err != nil {
		t.Errorf("Did not expect an error, got %v", err)
	}

	// Generic errors survive as remote errors
	resp := NewStoreResponse(nil, errors.New("disk full"))
	if err := resp.WireError(); err == nil {
		t.Errorf("Expected an error")
	} else if errors.Is(err, cluster.ErrIndexNotFound) {
		t.Errorf("Did not expect a sentinel for a generic error")
	}

	// The index-not-found sentinel survives the wire round trip
	cause := fmt.Errorf("%w: %q", cluster.ErrIndexNotFound, "missing")
	resp = NewFetchIndexResponse(nil, cause)
	if resp.ErrCode != ErrCodeIndexNotFound {
		t.Fatalf("Expected index-not-found code, got %d", resp.ErrCode)
	}
	if err := resp.WireError(); !errors.Is(err, cluster.ErrIndexNotFound) {
		t.Errorf("Expected sentinel to be restored, got %v", err)
	}
}

// TestMessageTypeJSON tests the string rendering of message types in JSON
func TestMessageTypeJSON(t *testing.T) {
	for _, mt := range []MessageType{MsgTSuccess, MsgTError, MsgTKVFetch, MsgTKVStore, MsgTKVDelete, MsgTIdxFetch} {
		data, err := mt.MarshalJSON()
		if err != nil {
			t.Fatalf("Failed to marshal %s: %v", mt, err)
		}

		var decoded MessageType
		if err := decoded.UnmarshalJSON(data); err != nil {
			t.Fatalf("Failed to unmarshal %s: %v", data, err)
		}
		if decoded != mt {
			t.Errorf("Round trip mismatch: %s != %s", decoded, mt)
		}
	}

	var decoded MessageType
	if err := decoded.UnmarshalJSON([]byte(`"bogus"`)); err == nil {
		t.Errorf("Expected error for unknown message type")
	}
}
