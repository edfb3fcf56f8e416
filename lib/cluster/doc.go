// Package cluster defines the abstraction the command pipeline submits
// operations to: the ICluster interface, the asynchronous Future handle and
// the wire operation/result structures.
//
// The package deliberately contains no network code. Implementations live in
// the rpc packages (see rpc/client for the transport-backed cluster); tests
// provide in-memory implementations. An ICluster guarantees at most one
// network attempt per submit call - any retry policy is internal to the
// implementation and invisible to callers.
package cluster
