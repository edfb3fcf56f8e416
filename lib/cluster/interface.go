package cluster

import "errors"

// ErrIndexNotFound is the failure cause reported when a search index does
// not exist. Unlike a missing key (which is a successful not-found fetch
// result), a missing index is a distinct failure condition; callers detect
// it with errors.Is on the wrapped cause.
var ErrIndexNotFound = errors.New("search index not found")

// ICluster is the opaque cluster handle the command layer submits
// operations to. Each submit method performs at most one network attempt
// and returns an asynchronous handle that resolves once the operation
// reaches a terminal state.
//
// Go interfaces cannot declare generic methods, so the single generic
// submit(operation) of the conceptual model is expressed as one typed
// submit method per operation kind, each returning a typed Future.
type ICluster interface {
	// Fetch submits a key-addressed read.
	Fetch(op *FetchOperation) *Future[*FetchResult]
	// Store submits a key-addressed write.
	Store(op *StoreOperation) *Future[*StoreResult]
	// Delete submits a key-addressed delete.
	Delete(op *DeleteOperation) *Future[*DeleteResult]
	// FetchIndex submits a search-index-description read.
	FetchIndex(op *FetchIndexOperation) *Future[*IndexDescription]
	// Close releases the cluster's resources. Operations submitted after
	// Close fail.
	Close() error
}
