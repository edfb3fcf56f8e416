// Package http implements the RPC transport over HTTP. Each request is a
// POST to /{shardId} with the serialized message as the body; the response
// body carries the serialized reply. Useful behind load balancers and for
// debugging, at the cost of per-request overhead compared to the stream
// transports.
package http
