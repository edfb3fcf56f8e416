// Package client implements the RPC client for the replicated key-value
// store. It provides an implementation of the cluster.ICluster interface
// that forwards operations to a remote server via a pluggable transport
// and serializer.
//
// The package focuses on:
//   - Transparent RPC access to a remote shard
//   - Integration with the transport and serialization layers
//   - Restoring sentinel errors carried in error responses
//
// Key Components:
//
//   - NewRPCCluster: Factory function that creates a client implementing
//     the cluster.ICluster interface. Each submit method performs one
//     network round trip in a background goroutine and resolves the
//     returned future with the decoded result.
//
// Usage Example:
//
//	// Configure the client
//	config := common.ClientConfig{
//	  TimeoutSecond: 5,
//	  Transport: common.ClientTransportConfig{
//	    Endpoints:              []string{"localhost:5000"},
//	    RetryCount:             3,
//	    ConnectionsPerEndpoint: 1,
//	  },
//	}
//
//	// Create the cluster handle
//	cl, _ := client.NewRPCCluster(1, config, tcp.NewTCPClientTransport(), serializer.NewBinarySerializer())
//
//	// Use the command layer on top of it
//	cmd, _ := command.NewFetchValue(loc).WithR(kv.NewQuorum(2)).Build()
//	resp, _ := cmd.Execute(cl)
//
// Performance Considerations:
//
//   - For applications that frequently send large payloads, increasing
//     ConnectionsPerEndpoint can improve throughput by allowing parallel
//     requests.
//
//   - The choice of serializer significantly affects performance. The
//     binary serializer provides the best performance and smallest payload
//     size.
//
// Thread Safety:
//
//	The client is thread-safe and can be used concurrently from multiple
//	goroutines without additional synchronization.
package client
