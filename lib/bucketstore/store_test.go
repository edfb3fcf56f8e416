package bucketstore

import (
	"errors"
	"testing"

	"github.com/ValentinKolb/qkv/lib/cluster"
	"github.com/ValentinKolb/qkv/lib/kv"
)

var testLocation = kv.NewLocation("users", "alice")

func mustPut(t *testing.T, store *Store, op *cluster.StoreOperation) *cluster.StoreResult {
	t.Helper()
	result, err := store.Put(op)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	return result
}

// TestFetchAbsent tests that an absent key is a successful not-found result
func TestFetchAbsent(t *testing.T) {
	store := New()

	result, err := store.Fetch(cluster.NewFetchOperationBuilder(testLocation).Build())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !result.NotFound {
		t.Errorf("Expected not-found result")
	}
	if len(result.Objects) != 0 {
		t.Errorf("Did not expect objects, got %d", len(result.Objects))
	}
	if !result.VClock.IsZero() {
		t.Errorf("Did not expect a version token, got %v", result.VClock)
	}
}

// TestPutAndFetch tests the basic write-then-read cycle
func TestPutAndFetch(t *testing.T) {
	store := New()
	obj := kv.Object{Value: []byte("hello"), ContentType: "text/plain"}

	putResult := mustPut(t, store, cluster.NewStoreOperationBuilder(testLocation, obj).Build())
	if putResult.VClock.IsZero() {
		t.Fatalf("Expected a version token on the write result")
	}
	if putResult.Objects != nil {
		t.Errorf("Did not expect a body without return-body, got %v", putResult.Objects)
	}

	fetchResult, err := store.Fetch(cluster.NewFetchOperationBuilder(testLocation).Build())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if fetchResult.NotFound {
		t.Fatalf("Did not expect not-found after a write")
	}
	if len(fetchResult.Objects) != 1 || string(fetchResult.Objects[0].Value) != "hello" {
		t.Errorf("Unexpected objects: %v", fetchResult.Objects)
	}
	if fetchResult.Objects[0].LastModified == 0 {
		t.Errorf("Expected a last-modified timestamp")
	}
	if !fetchResult.VClock.Equal(putResult.VClock) {
		t.Errorf("Expected fetch token %v, got %v", putResult.VClock, fetchResult.VClock)
	}
}

// TestPutSiblings tests that writes without the current causal context
// accumulate siblings while a contextual write replaces them
func TestPutSiblings(t *testing.T) {
	store := New()

	mustPut(t, store, cluster.NewStoreOperationBuilder(testLocation, kv.Object{Value: []byte("v1")}).Build())
	// Concurrent write without causal context: sibling
	mustPut(t, store, cluster.NewStoreOperationBuilder(testLocation, kv.Object{Value: []byte("v2")}).Build())

	fetchResult, err := store.Fetch(cluster.NewFetchOperationBuilder(testLocation).Build())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(fetchResult.Objects) != 2 {
		t.Fatalf("Expected 2 siblings, got %d", len(fetchResult.Objects))
	}

	// Write with the current token resolves the siblings
	mustPut(t, store, cluster.NewStoreOperationBuilder(testLocation, kv.Object{Value: []byte("resolved")}).
		WithVClock(fetchResult.VClock).
		Build())

	fetchResult, err = store.Fetch(cluster.NewFetchOperationBuilder(testLocation).Build())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(fetchResult.Objects) != 1 || string(fetchResult.Objects[0].Value) != "resolved" {
		t.Errorf("Expected single resolved value, got %v", fetchResult.Objects)
	}
}

// TestPutStaleVClock tests that an outdated causal context creates a sibling
// instead of overwriting newer state
func TestPutStaleVClock(t *testing.T) {
	store := New()

	first := mustPut(t, store, cluster.NewStoreOperationBuilder(testLocation, kv.Object{Value: []byte("v1")}).Build())
	mustPut(t, store, cluster.NewStoreOperationBuilder(testLocation, kv.Object{Value: []byte("v2")}).
		WithVClock(first.VClock).
		Build())

	// first.VClock is now stale
	mustPut(t, store, cluster.NewStoreOperationBuilder(testLocation, kv.Object{Value: []byte("v3")}).
		WithVClock(first.VClock).
		Build())

	fetchResult, err := store.Fetch(cluster.NewFetchOperationBuilder(testLocation).Build())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(fetchResult.Objects) != 2 {
		t.Errorf("Expected stale write to create a sibling, got %v", fetchResult.Objects)
	}
}

// TestPutReturnBody tests the return-body option
func TestPutReturnBody(t *testing.T) {
	store := New()

	result := mustPut(t, store, cluster.NewStoreOperationBuilder(testLocation, kv.Object{Value: []byte("body")}).
		WithReturnBody(true).
		Build())
	if len(result.Objects) != 1 || string(result.Objects[0].Value) != "body" {
		t.Errorf("Expected stored body in the result, got %v", result.Objects)
	}
}

// TestPutIfNoneMatch tests that if-none-match refuses to overwrite
func TestPutIfNoneMatch(t *testing.T) {
	store := New()

	// First write on an absent record succeeds
	mustPut(t, store, cluster.NewStoreOperationBuilder(testLocation, kv.Object{Value: []byte("v1")}).
		WithIfNoneMatch(true).
		Build())

	// Second write must be refused
	_, err := store.Put(cluster.NewStoreOperationBuilder(testLocation, kv.Object{Value: []byte("v2")}).
		WithIfNoneMatch(true).
		Build())
	if err == nil {
		t.Errorf("Expected if-none-match to fail on an existing record")
	}
}

// TestPutIfNotModified tests that if-not-modified requires the current token
func TestPutIfNotModified(t *testing.T) {
	store := New()

	first := mustPut(t, store, cluster.NewStoreOperationBuilder(testLocation, kv.Object{Value: []byte("v1")}).Build())

	// Write with the current token succeeds
	second := mustPut(t, store, cluster.NewStoreOperationBuilder(testLocation, kv.Object{Value: []byte("v2")}).
		WithVClock(first.VClock).
		WithIfNotModified(true).
		Build())

	// The token from the first write is now outdated
	_, err := store.Put(cluster.NewStoreOperationBuilder(testLocation, kv.Object{Value: []byte("v3")}).
		WithVClock(first.VClock).
		WithIfNotModified(true).
		Build())
	if err == nil {
		t.Errorf("Expected if-not-modified to fail with an outdated token")
	}

	fetchResult, err := store.Fetch(cluster.NewFetchOperationBuilder(testLocation).Build())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !fetchResult.VClock.Equal(second.VClock) {
		t.Errorf("Expected record to stay at token %v, got %v", second.VClock, fetchResult.VClock)
	}
}

// TestFetchIfModified tests the conditional fetch short circuit
func TestFetchIfModified(t *testing.T) {
	store := New()

	putResult := mustPut(t, store, cluster.NewStoreOperationBuilder(testLocation, kv.Object{Value: []byte("v1")}).Build())

	// Matching token: no payload
	result, err := store.Fetch(cluster.NewFetchOperationBuilder(testLocation).
		WithIfModified(putResult.VClock).
		Build())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !result.Unchanged {
		t.Errorf("Expected unchanged result for a matching token")
	}
	if len(result.Objects) != 0 {
		t.Errorf("Did not expect objects on an unchanged result")
	}

	// Non-matching token: full payload
	result, err = store.Fetch(cluster.NewFetchOperationBuilder(testLocation).
		WithIfModified(kv.VClock{0xde, 0xad}).
		Build())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if result.Unchanged || len(result.Objects) != 1 {
		t.Errorf("Expected full result for a non-matching token, got %+v", result)
	}
}

// TestFetchHeadOnly tests that head-only fetches strip the value bodies but
// keep the metadata
func TestFetchHeadOnly(t *testing.T) {
	store := New()

	mustPut(t, store, cluster.NewStoreOperationBuilder(testLocation, kv.Object{
		Value:       []byte("large payload"),
		ContentType: "application/json",
	}).Build())

	result, err := store.Fetch(cluster.NewFetchOperationBuilder(testLocation).
		WithHeadOnly(true).
		Build())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(result.Objects) != 1 {
		t.Fatalf("Expected 1 object, got %d", len(result.Objects))
	}
	if result.Objects[0].Value != nil {
		t.Errorf("Expected value to be stripped, got %s", result.Objects[0].Value)
	}
	if result.Objects[0].ContentType != "application/json" {
		t.Errorf("Expected metadata to survive, got %+v", result.Objects[0])
	}
}

// TestDelete tests tombstoning and the deleted-vclock option
func TestDelete(t *testing.T) {
	store := New()

	mustPut(t, store, cluster.NewStoreOperationBuilder(testLocation, kv.Object{Value: []byte("v1")}).Build())

	if _, err := store.Delete(cluster.NewDeleteOperationBuilder(testLocation).Build()); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	// Plain fetch: not found, no token
	result, err := store.Fetch(cluster.NewFetchOperationBuilder(testLocation).Build())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !result.NotFound {
		t.Errorf("Expected not-found after delete")
	}
	if !result.VClock.IsZero() {
		t.Errorf("Did not expect a token without the deleted-vclock option")
	}

	// With the deleted-vclock option the tombstone token is observable
	result, err = store.Fetch(cluster.NewFetchOperationBuilder(testLocation).
		WithReturnDeletedVClock(true).
		Build())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !result.NotFound || result.VClock.IsZero() {
		t.Errorf("Expected tombstone token, got %+v", result)
	}
}

// TestDeleteAbsent tests that deleting an absent record succeeds
func TestDeleteAbsent(t *testing.T) {
	store := New()

	if _, err := store.Delete(cluster.NewDeleteOperationBuilder(testLocation).Build()); err != nil {
		t.Errorf("Expected delete of absent record to succeed, got %v", err)
	}
}

// TestPutAfterDelete tests that a write revives a tombstoned record
func TestPutAfterDelete(t *testing.T) {
	store := New()

	mustPut(t, store, cluster.NewStoreOperationBuilder(testLocation, kv.Object{Value: []byte("v1")}).Build())
	if _, err := store.Delete(cluster.NewDeleteOperationBuilder(testLocation).Build()); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	mustPut(t, store, cluster.NewStoreOperationBuilder(testLocation, kv.Object{Value: []byte("v2")}).Build())

	result, err := store.Fetch(cluster.NewFetchOperationBuilder(testLocation).Build())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if result.NotFound || len(result.Objects) != 1 || string(result.Objects[0].Value) != "v2" {
		t.Errorf("Expected revived record, got %+v", result)
	}
}

// TestFetchResultIsolation tests that mutating a fetch result does not leak
// into the stored state
func TestFetchResultIsolation(t *testing.T) {
	store := New()

	mustPut(t, store, cluster.NewStoreOperationBuilder(testLocation, kv.Object{Value: []byte("v1")}).Build())

	first, err := store.Fetch(cluster.NewFetchOperationBuilder(testLocation).Build())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	first.Objects[0].ContentType = "mutated"

	second, err := store.Fetch(cluster.NewFetchOperationBuilder(testLocation).Build())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if second.Objects[0].ContentType == "mutated" {
		t.Errorf("Fetch result mutation leaked into the store")
	}
}

// TestIndexRegistry tests the search index registry
func TestIndexRegistry(t *testing.T) {
	store := New()

	// Missing index is a failure with a detectable sentinel
	_, err := store.FetchIndex(&cluster.FetchIndexOperation{Name: "missing"})
	if !errors.Is(err, cluster.ErrIndexNotFound) {
		t.Fatalf("Expected ErrIndexNotFound, got %v", err)
	}

	store.PutIndex(cluster.IndexDescription{Name: "famous", Schema: "_yz_default", NVal: 3})

	desc, err := store.FetchIndex(&cluster.FetchIndexOperation{Name: "famous"})
	if err != nil {
		t.Fatalf("FetchIndex failed: %v", err)
	}
	if desc.Name != "famous" || desc.Schema != "_yz_default" || desc.NVal != 3 {
		t.Errorf("Unexpected description: %+v", desc)
	}

	// Re-registering replaces the description
	store.PutIndex(cluster.IndexDescription{Name: "famous", Schema: "custom"})
	desc, err = store.FetchIndex(&cluster.FetchIndexOperation{Name: "famous"})
	if err != nil {
		t.Fatalf("FetchIndex failed: %v", err)
	}
	if desc.Schema != "custom" {
		t.Errorf("Expected replaced schema, got %+v", desc)
	}
}
