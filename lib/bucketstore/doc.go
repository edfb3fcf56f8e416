// Package bucketstore provides the in-memory versioned object store backing
// the development server. It implements the server-side semantics of the
// wire operations: sibling values, version tokens, tombstones, conditional
// fetches and conditional stores, plus a search index registry.
//
// The store is a single-node stand-in for a replicated cluster. Quorum
// options (R, PR, W, ...) are accepted and validated but trivially
// satisfied, since there is only one replica.
package bucketstore
