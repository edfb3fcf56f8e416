// Package transport defines the interfaces for the RPC transport layer and
// groups the available implementations. A client transport moves serialized
// request bytes to a server and returns the response bytes; a server
// transport accepts requests and hands them to a registered handler
// together with the shard ID they address.
//
// Three implementations are provided as subpackages:
//   - tcp: stream transport over TCP sockets (default)
//   - unix: stream transport over Unix domain sockets
//   - http: request/response transport over HTTP POST
//
// The stream transports share their implementation in the base subpackage
// and differ only in how connections are established.
package transport
