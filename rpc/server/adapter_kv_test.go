package server

import (
	"errors"
	"testing"

	"github.com/ValentinKolb/qkv/lib/bucketstore"
	"github.com/ValentinKolb/qkv/lib/cluster"
	"github.com/ValentinKolb/qkv/lib/kv"
	"github.com/ValentinKolb/qkv/rpc/common"
)

var testLocation = kv.NewLocation("users", "alice")

// TestAdapterKVLifecycle tests a full store/fetch/delete cycle through the
// adapter against a real store
func TestAdapterKVLifecycle(t *testing.T) {
	adapter := NewKVServerAdapter()
	store := bucketstore.New()

	// Store a value, asking for the body back
	storeOp := cluster.NewStoreOperationBuilder(testLocation, kv.Object{
		Value:       []byte("hello"),
		ContentType: "text/plain",
	}).WithReturnBody(true).Build()

	resp := adapter.Handle(common.NewStoreRequest(storeOp), store)
	if err := resp.WireError(); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if len(resp.Objects) != 1 || string(resp.Objects[0].Value) != "hello" {
		t.Fatalf("Expected stored body in the response, got %v", resp.Objects)
	}
	if len(resp.VClock) == 0 {
		t.Fatalf("Expected a version token on the store response")
	}

	// Fetch it back
	fetchOp := cluster.NewFetchOperationBuilder(testLocation).Build()
	resp = adapter.Handle(common.NewFetchRequest(fetchOp), store)
	if err := resp.WireError(); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	result := resp.ToFetchResult()
	if result.NotFound || len(result.Objects) != 1 || string(result.Objects[0].Value) != "hello" {
		t.Fatalf("Unexpected fetch result: %+v", result)
	}

	// Delete it
	deleteOp := cluster.NewDeleteOperationBuilder(testLocation).
		WithVClock(result.VClock).
		Build()
	resp = adapter.Handle(common.NewDeleteRequest(deleteOp), store)
	if err := resp.WireError(); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	// A fetch now reports the record as absent
	resp = adapter.Handle(common.NewFetchRequest(fetchOp), store)
	if err := resp.WireError(); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !resp.ToFetchResult().NotFound {
		t.Errorf("Expected not-found after delete")
	}
}

// TestAdapterIndexFetch tests the search-index path including the sentinel
// error code on the wire
func TestAdapterIndexFetch(t *testing.T) {
	adapter := NewKVServerAdapter()
	store := bucketstore.New()

	req := common.NewFetchIndexRequest(&cluster.FetchIndexOperation{Name: "famous"})

	// Missing index: failure with the machine-readable code set
	resp := adapter.Handle(req, store)
	if resp.ErrCode != common.ErrCodeIndexNotFound {
		t.Fatalf("Expected index-not-found code, got %d (%s)", resp.ErrCode, resp.Err)
	}
	if err := resp.WireError(); !errors.Is(err, cluster.ErrIndexNotFound) {
		t.Errorf("Expected restorable sentinel, got %v", err)
	}

	// Registered index: description comes back
	store.PutIndex(cluster.IndexDescription{Name: "famous", Schema: "_yz_default", NVal: 3})
	resp = adapter.Handle(req, store)
	if err := resp.WireError(); err != nil {
		t.Fatalf("FetchIndex failed: %v", err)
	}
	desc := resp.ToIndexDescription()
	if desc.Name != "famous" || desc.Schema != "_yz_default" || desc.NVal != 3 {
		t.Errorf("Unexpected description: %+v", desc)
	}
}

// TestAdapterErrors tests the adapter failure paths
func TestAdapterErrors(t *testing.T) {
	adapter := NewKVServerAdapter()

	// Nil store
	resp := adapter.Handle(&common.Message{MsgType: common.MsgTKVFetch}, nil)
	if resp.MsgType != common.MsgTError || resp.WireError() == nil {
		t.Errorf("Expected error response for nil store, got %+v", resp)
	}

	// Unsupported message type
	resp = adapter.Handle(&common.Message{MsgType: common.MsgTSuccess}, bucketstore.New())
	if resp.MsgType != common.MsgTError || resp.WireError() == nil {
		t.Errorf("Expected error response for unsupported type, got %+v", resp)
	}
}
