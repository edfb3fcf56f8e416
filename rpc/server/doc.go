// Package server implements the RPC server of the replicated key-value
// store. A single server hosts one or more shards; each shard wraps an
// independent bucketstore.Store together with an adapter that translates
// wire messages into store operations.
//
// The transport layer delivers raw request bytes together with the shard
// ID they address. The server deserializes the message, routes it to the
// shard's adapter and serializes the adapter's response. Errors (unknown
// shard, failed deserialization, operation failures) are returned as
// error messages so the client can reconstruct them.
//
// Search indexes are registered per shard at startup from the server
// configuration.
package server
