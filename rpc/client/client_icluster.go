package client

import (
	"github.com/ValentinKolb/qkv/lib/cluster"
	"github.com/ValentinKolb/qkv/rpc/common"
	"github.com/ValentinKolb/qkv/rpc/serializer"
	"github.com/ValentinKolb/qkv/rpc/transport"
)

// NewRPCCluster creates a new RPC cluster handle
// The function takes a shard ID, a config, a transport and a serializer as parameters
// It returns a cluster.ICluster and an error
func NewRPCCluster(
	shardId uint64,
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (cluster.ICluster, error) {

	// Connect the transport
	err := transport.Connect(config)
	if err != nil {
		return nil, err
	}

	// Create a new RPC cluster
	c := rpcCluster{
		rpcClientAdapter{
			shardId:    shardId,
			config:     config,
			transport:  transport,
			serializer: serializer,
		},
	}

	// Return the RPC cluster
	return &c, nil
}

type rpcCluster struct {
	rpcClientAdapter
}

// --------------------------------------------------------------------------
// Interface Methods (docu see the cluster package in interface.go)
// --------------------------------------------------------------------------

func (c *rpcCluster) Fetch(op *cluster.FetchOperation) *cluster.Future[*cluster.FetchResult] {
	future := cluster.NewFuture[*cluster.FetchResult]()

	go func() {
		resp, err := invokeRPCRequest(c.shardId, common.NewFetchRequest(op), c.transport, c.serializer)
		if err != nil {
			future.Fail(err)
			return
		}
		future.Complete(resp.ToFetchResult())
	}()

	return future
}

func (c *rpcCluster) Store(op *cluster.StoreOperation) *cluster.Future[*cluster.StoreResult] {
	future := cluster.NewFuture[*cluster.StoreResult]()

	go func() {
		resp, err := invokeRPCRequest(c.shardId, common.NewStoreRequest(op), c.transport, c.serializer)
		if err != nil {
			future.Fail(err)
			return
		}
		future.Complete(resp.ToStoreResult())
	}()

	return future
}

func (c *rpcCluster) Delete(op *cluster.DeleteOperation) *cluster.Future[*cluster.DeleteResult] {
	future := cluster.NewFuture[*cluster.DeleteResult]()

	go func() {
		_, err := invokeRPCRequest(c.shardId, common.NewDeleteRequest(op), c.transport, c.serializer)
		if err != nil {
			future.Fail(err)
			return
		}
		future.Complete(&cluster.DeleteResult{})
	}()

	return future
}

func (c *rpcCluster) FetchIndex(op *cluster.FetchIndexOperation) *cluster.Future[*cluster.IndexDescription] {
	future := cluster.NewFuture[*cluster.IndexDescription]()

	go func() {
		resp, err := invokeRPCRequest(c.shardId, common.NewFetchIndexRequest(op), c.transport, c.serializer)
		if err != nil {
			future.Fail(err)
			return
		}
		future.Complete(resp.ToIndexDescription())
	}()

	return future
}

func (c *rpcCluster) Close() error {
	return c.transport.Close()
}
